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

// Package metadata types define the structures used for tracking and
// persisting information about search sessions. These types capture
// usage statistics and audit information for troubleshooting.
package metadata

import (
	"time"
)

// SessionMetadata represents the complete metadata record for one search
// session: the settings it ran with and what it did.
type SessionMetadata struct {
	ScoutVersion string         `json:"scout_version"`
	SessionID    string         `json:"session_id"`
	Mode         string         `json:"mode"`
	Parameters   SessionParams  `json:"parameters"`
	Results      SessionResults `json:"results"`
}

// SessionParams captures the settings a session ran with.
type SessionParams struct {
	Endpoint      string `json:"endpoint"`
	PageSize      int    `json:"page_size"`
	MinTermLength int    `json:"min_term_length"`
	Debounce      string `json:"debounce,omitempty"`
	Demo          bool   `json:"demo"`
}

// SessionResults contains the activity statistics of a completed session.
type SessionResults struct {
	Terms          []string  `json:"terms"`
	TermsCommitted int       `json:"terms_committed"`
	RecordsFetched int       `json:"records_fetched"`
	APICallCount   int       `json:"api_calls_made"`
	FailedCalls    int       `json:"failed_calls"`
	CacheHits      int       `json:"cache_hits"`
	CacheMisses    int       `json:"cache_misses"`
	LastError      string    `json:"last_error,omitempty"`
	Duration       string    `json:"session_duration"`
	StartedAt      time.Time `json:"started_at"`
	CompletedAt    time.Time `json:"completed_at"`
}
