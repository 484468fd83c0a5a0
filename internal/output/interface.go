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

package output

import "github.com/sirseerhq/sirseer-scout/internal/github"

// PageWriter defines the interface for exporting pages of search results.
// This abstraction allows for different output formats to be implemented
// without changing the command logic.
type PageWriter interface {
	// WritePage writes every user on one page of results for term.
	// Records should be flushed immediately to avoid memory accumulation.
	WritePage(term string, page int, users []github.User) error

	// Close closes the underlying writer and releases any resources.
	// This should be called when all writing is complete.
	Close() error
}

// Record is the NDJSON shape of one exported user.
type Record struct {
	Term string `json:"term"`
	Page int    `json:"page"`
	github.User
}
