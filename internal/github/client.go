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

import "context"

// Searcher defines the interface for querying GitHub's user search.
// This interface allows for easy mocking in tests.
type Searcher interface {
	// SearchUsers retrieves one page of users whose name or email contains
	// opts.Term. It supports cursor-based pagination through opts.After;
	// the page size is configured via opts.PageSize.
	SearchUsers(ctx context.Context, opts SearchOptions) (*UserPage, error)
}

// SearcherFunc adapts a plain function to the Searcher interface.
type SearcherFunc func(ctx context.Context, opts SearchOptions) (*UserPage, error)

// SearchUsers calls f.
func (f SearcherFunc) SearchUsers(ctx context.Context, opts SearchOptions) (*UserPage, error) {
	return f(ctx, opts)
}
