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

import "time"

// Account kinds returned by a USER search.
const (
	KindUser         = "User"
	KindOrganization = "Organization"
)

// User is one account profile returned by a user search.
// Values are immutable once mapped from a response.
type User struct {
	ID          string    `json:"id"`
	Kind        string    `json:"kind"`
	Login       string    `json:"login"`
	Name        string    `json:"name,omitempty"`
	Email       string    `json:"email,omitempty"`
	Location    string    `json:"location,omitempty"`
	AvatarURL   string    `json:"avatar_url"`
	URL         string    `json:"url"`
	PublicRepos int       `json:"public_repos"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// DisplayName returns the profile name, falling back to the login.
func (u User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Login
}

// UserEdge pairs a user with the opaque cursor that marks its position
// in the result set.
type UserEdge struct {
	Cursor string
	User   User
}

// UserPage is one page of search results.
type UserPage struct {
	// TotalCount is the server-reported number of matches for the term.
	TotalCount int
	Edges      []UserEdge
}

// Users returns the page's users in result order.
func (p *UserPage) Users() []User {
	users := make([]User, 0, len(p.Edges))
	for _, e := range p.Edges {
		users = append(users, e.User)
	}
	return users
}

// EndCursor returns the cursor of the last edge, or "" for an empty page.
func (p *UserPage) EndCursor() string {
	if len(p.Edges) == 0 {
		return ""
	}
	return p.Edges[len(p.Edges)-1].Cursor
}

// SearchOptions configures a single search request.
type SearchOptions struct {
	// Term is matched against user name and email.
	Term string

	// PageSize controls how many users to fetch per page.
	// Defaults to 10 if not specified. Maximum is 100 per GitHub's API limits.
	PageSize int

	// After is the cursor for pagination.
	// Empty string fetches from the beginning.
	// Use UserPage.EndCursor from previous response for next page.
	After string
}

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

func (o SearchOptions) pageSize() int {
	switch {
	case o.PageSize <= 0:
		return defaultPageSize
	case o.PageSize > maxPageSize:
		return maxPageSize
	default:
		return o.PageSize
	}
}
