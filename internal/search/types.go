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

package search

import (
	"github.com/sirseerhq/sirseer-scout/internal/github"
)

const (
	// DefaultPageSize is the number of results shown per page.
	DefaultPageSize = 10
	// DefaultMinTermLength is the shortest term that triggers a query.
	DefaultMinTermLength = 2
)

// State is the fetch state of a Cache.
type State int

const (
	// StateIdle means no term is active, or the first page failed to load.
	StateIdle State = iota
	// StateFetching means a request is in flight.
	StateFetching
	// StateReady means at least one page is loaded and navigation is allowed.
	StateReady
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateFetching:
		return "fetching"
	case StateReady:
		return "ready"
	default:
		return "unknown"
	}
}

// Config holds the pagination settings of a Cache.
type Config struct {
	// PageSize is the number of results per page. Defaults to 10.
	PageSize int
	// MinTermLength is the shortest committed term that issues a query.
	// Defaults to 2.
	MinTermLength int
}

// Request describes one page fetch the caller must perform.
type Request struct {
	// Token identifies the request; pass it back to Resolve.
	Token uint64
	// Term is the search term the request was issued for.
	Term string
	// Page is the 1-based page the request fills.
	Page int
	// Options are ready to hand to a github.Searcher.
	Options github.SearchOptions

	// restorePage is the page shown before the request was issued.
	restorePage int
}

// Stats counts cache activity for the current term.
type Stats struct {
	Hits    int
	Misses  int
	Fetches int
}

// View is a read-only snapshot of the cache for rendering.
type View struct {
	Term        string
	State       State
	Page        int
	TotalPages  int
	TotalCount  int
	Window      []github.User
	Accumulated int
	Busy        bool
	HasNext     bool
	HasPrevious bool
	Err         error
	CanRetry    bool
	Stats       Stats
}

// Recorder receives cache activity, typically a metadata.Tracker.
type Recorder interface {
	TermCommitted(term string)
	PageFetched(records int)
	FetchFailed(err error)
	CacheHit()
	CacheMiss()
}
