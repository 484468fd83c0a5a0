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

package testutil

import (
	"fmt"
	"time"
)

// UserNodeBuilder provides a fluent API for creating search result nodes
type UserNodeBuilder struct {
	typename  string
	id        string
	login     string
	name      interface{}
	email     interface{}
	location  interface{}
	repos     int
	createdAt time.Time
	updatedAt time.Time
}

// NewUserNodeBuilder creates a new user node builder with defaults
func NewUserNodeBuilder(index int) *UserNodeBuilder {
	created := time.Date(2012, time.January, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, index)
	return &UserNodeBuilder{
		typename:  "User",
		id:        fmt.Sprintf("U_%d", index),
		login:     fmt.Sprintf("user%d", index),
		name:      fmt.Sprintf("User %d", index),
		email:     fmt.Sprintf("user%d@example.com", index),
		location:  "Berlin",
		repos:     index % 5,
		createdAt: created,
		updatedAt: created.AddDate(1, 0, 0),
	}
}

// WithLogin sets the login
func (b *UserNodeBuilder) WithLogin(login string) *UserNodeBuilder {
	b.login = login
	return b
}

// WithoutProfile clears name, email and location to JSON null, as GitHub
// returns for accounts that hide them.
func (b *UserNodeBuilder) WithoutProfile() *UserNodeBuilder {
	b.name = nil
	b.email = nil
	b.location = nil
	return b
}

// AsOrganization marks the node as an Organization.
func (b *UserNodeBuilder) AsOrganization() *UserNodeBuilder {
	b.typename = "Organization"
	return b
}

// WithID sets the node id; an empty id produces an invalid node.
func (b *UserNodeBuilder) WithID(id string) *UserNodeBuilder {
	b.id = id
	return b
}

// Build returns the node as a JSON-ready map.
func (b *UserNodeBuilder) Build() map[string]interface{} {
	node := map[string]interface{}{
		"__typename": b.typename,
		"login":      b.login,
		"name":       b.name,
		"email":      b.email,
		"location":   b.location,
		"avatarUrl":  "https://avatars.githubusercontent.com/" + b.login,
		"url":        "https://github.com/" + b.login,
		"repositories": map[string]interface{}{
			"totalCount": b.repos,
		},
		"createdAt": b.createdAt.Format(time.RFC3339),
		"updatedAt": b.updatedAt.Format(time.RFC3339),
	}
	if b.id != "" {
		node["id"] = b.id
	}
	return node
}

// Edge wraps a node with a cursor.
func Edge(cursor string, node map[string]interface{}) map[string]interface{} {
	return map[string]interface{}{
		"cursor": cursor,
		"node":   node,
	}
}

// SearchResponse wraps edges into a full GraphQL response body.
func SearchResponse(userCount int, edges ...map[string]interface{}) map[string]interface{} {
	if edges == nil {
		edges = []map[string]interface{}{}
	}
	return map[string]interface{}{
		"data": map[string]interface{}{
			"search": map[string]interface{}{
				"userCount": userCount,
				"edges":     edges,
			},
		},
	}
}

// GenerateUserSearchResponse generates a response holding result indices
// [start, end) out of total matches.
func GenerateUserSearchResponse(start, end, total int) map[string]interface{} {
	edges := make([]map[string]interface{}, 0, end-start)
	for i := start; i < end; i++ {
		edges = append(edges, Edge(CursorFor(i), NewUserNodeBuilder(i).Build()))
	}
	return SearchResponse(total, edges...)
}

// GraphQLErrorResponse returns a body carrying GraphQL errors.
func GraphQLErrorResponse(messages ...string) map[string]interface{} {
	errs := make([]interface{}, 0, len(messages))
	for _, m := range messages {
		errs = append(errs, map[string]interface{}{"message": m})
	}
	return map[string]interface{}{"errors": errs}
}
