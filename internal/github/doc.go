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

// Package github provides a client for searching GitHub users through the
// GraphQL API. It hides the search query syntax and response shape behind a
// small Searcher interface and returns typed, validated result pages that
// carry the cursor needed to request the next page.
//
// The package includes:
//   - A Searcher interface for fetching one page of user search results
//   - A GraphQL implementation using the shurcooL/graphql library
//   - Retry and circuit-breaker decorators for the Searcher
//   - A deterministic mock searcher for tests and demo mode
//   - Type definitions for users and result pages
//
// Basic usage:
//
//	client := github.NewGraphQLClient("your-github-token", "https://api.github.com/graphql")
//	page, err := client.SearchUsers(ctx, github.SearchOptions{
//	    Term:     "octocat",
//	    PageSize: 10,
//	})
//	if err != nil {
//	    // Handle error
//	}
//	for _, edge := range page.Edges {
//	    // Process edge.User
//	}
package github
