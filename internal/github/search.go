// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package github

import (
	"fmt"
	"strings"
	"time"

	"github.com/shurcooL/graphql"
)

// buildSearchQuery builds the GitHub search qualifier string for a term.
// Example: "octo cat" -> "octo cat in:name,email"
func buildSearchQuery(term string) string {
	term = strings.TrimSpace(term)
	if term == "" {
		return ""
	}
	return term + " in:name,email"
}

// accountFields holds the profile fields shared by users and organizations.
type accountFields struct {
	ID           graphql.String `graphql:"id"`
	Login        graphql.String
	Name         graphql.String
	Email        graphql.String
	Location     graphql.String
	AvatarURL    graphql.String `graphql:"avatarUrl"`
	URL          graphql.String `graphql:"url"`
	Repositories struct {
		TotalCount graphql.Int
	} `graphql:"repositories(privacy: PUBLIC)"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type searchEdge struct {
	Cursor graphql.String
	Node   struct {
		Typename     graphql.String `graphql:"__typename"`
		User         accountFields  `graphql:"... on User"`
		Organization accountFields  `graphql:"... on Organization"`
	}
}

// userSearchQuery mirrors the GraphQL document sent for a user search.
// Search and UserCount are pointers so that absent or null values stay nil
// instead of decoding to an empty result.
type userSearchQuery struct {
	Search *struct {
		UserCount *graphql.Int
		Edges     []searchEdge
	} `graphql:"search(query: $query, type: USER, first: $first, after: $after)"`
}

// toUserPage validates the decoded response and maps it to the domain model.
// Missing cursors or ids are rejected rather than passed on half-filled.
func (q *userSearchQuery) toUserPage() (*UserPage, error) {
	switch {
	case q.Search == nil:
		return nil, fmt.Errorf("no search field")
	case q.Search.UserCount == nil:
		return nil, fmt.Errorf("no userCount field")
	case q.Search.Edges == nil:
		// The decoder allocates a slice for any JSON array, including [].
		return nil, fmt.Errorf("no edges field")
	}

	total := int(*q.Search.UserCount)
	if total < 0 {
		return nil, fmt.Errorf("negative user count %d", total)
	}

	page := &UserPage{
		TotalCount: total,
		Edges:      make([]UserEdge, 0, len(q.Search.Edges)),
	}

	for i, edge := range q.Search.Edges {
		if edge.Cursor == "" {
			return nil, fmt.Errorf("edge %d has no cursor", i)
		}

		kind := string(edge.Node.Typename)
		fields := edge.Node.User
		if kind == KindOrganization {
			fields = edge.Node.Organization
		}
		if fields.ID == "" {
			return nil, fmt.Errorf("edge %d has no node id", i)
		}
		if kind == "" {
			kind = KindUser
		}

		page.Edges = append(page.Edges, UserEdge{
			Cursor: string(edge.Cursor),
			User: User{
				ID:          string(fields.ID),
				Kind:        kind,
				Login:       string(fields.Login),
				Name:        string(fields.Name),
				Email:       string(fields.Email),
				Location:    string(fields.Location),
				AvatarURL:   string(fields.AvatarURL),
				URL:         string(fields.URL),
				PublicRepos: int(fields.Repositories.TotalCount),
				CreatedAt:   fields.CreatedAt,
				UpdatedAt:   fields.UpdatedAt,
			},
		})
	}

	return page, nil
}
