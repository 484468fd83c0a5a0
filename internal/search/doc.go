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

// Package search implements the paginated search cache that sits between the
// input debouncer and the GitHub search client.
//
// A Cache owns every piece of pagination state for the current term: the
// accumulated results fetched so far, the cursor of the latest fetched page,
// the page being displayed and the window of results on it. Navigation is
// served from the accumulated results when possible; only moving forward past
// the last fetched page requires a new query.
//
// The Cache performs no I/O. Operations that need data return a *Request;
// the caller runs it (Execute for synchronous callers, a tea.Cmd in the TUI)
// and reports the outcome with Resolve. Each request carries a token, and
// only the most recently issued token is accepted, so results for a term the
// user has already replaced are dropped on arrival.
//
// Example usage:
//
//	cache := search.New(search.Config{PageSize: 10})
//	req := cache.Commit("octocat")
//	if err := cache.Execute(ctx, client, req); err != nil {
//	    // Handle error
//	}
//	next, err := cache.Next()
//	if err == nil && next != nil {
//	    err = cache.Execute(ctx, client, next)
//	}
package search
