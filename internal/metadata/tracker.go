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

// Package metadata provides functionality for tracking and persisting metadata
// about search sessions. It records the terms searched, records fetched, API
// calls made and how often navigation was served from the page cache.
//
// Metadata is an audit record only; search results themselves are never
// persisted. It is saved as one JSON file per session, allowing external
// tools to analyze usage.
package metadata

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// maxTerms bounds the number of distinct terms kept per session.
const maxTerms = 100

// Tracker collects statistics during a search session and generates metadata.
// It implements the search cache's Recorder interface. Create one tracker per
// session. Tracker is safe for concurrent use.
type Tracker struct {
	mu        sync.Mutex
	id        string
	startTime time.Time
	stats     SessionResults
	seen      map[string]bool
	now       func() time.Time
}

// New creates a new metadata tracker with a fresh session ID and initializes
// it with the current time.
func New() *Tracker {
	return &Tracker{
		id:        uuid.NewString(),
		startTime: time.Now(),
		seen:      make(map[string]bool),
		now:       time.Now,
	}
}

// SessionID returns the unique identifier of the session.
func (t *Tracker) SessionID() string {
	return t.id
}

// TermCommitted records a committed search term. Repeated terms are counted
// but listed once.
func (t *Tracker) TermCommitted(term string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stats.TermsCommitted++
	if !t.seen[term] && len(t.stats.Terms) < maxTerms {
		t.seen[term] = true
		t.stats.Terms = append(t.stats.Terms, term)
	}
}

// PageFetched records a successful API call that returned records.
func (t *Tracker) PageFetched(records int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stats.APICallCount++
	t.stats.RecordsFetched += records
}

// FetchFailed records a failed API call.
func (t *Tracker) FetchFailed(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stats.APICallCount++
	t.stats.FailedCalls++
	if err != nil {
		t.stats.LastError = err.Error()
	}
}

// CacheHit records navigation served from accumulated results.
func (t *Tracker) CacheHit() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stats.CacheHits++
}

// CacheMiss records navigation that required a fetch.
func (t *Tracker) CacheMiss() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stats.CacheMisses++
}

// GenerateMetadata creates a SessionMetadata instance capturing the session
// statistics so far. Call this when the session ends.
//
// Parameters:
//   - scoutVersion: The version of sirseer-scout (from version.Version)
//   - mode: How the session ran, "tui" or "search"
//   - params: The settings used for this session
func (t *Tracker) GenerateMetadata(scoutVersion, mode string, params SessionParams) *SessionMetadata {
	t.mu.Lock()
	defer t.mu.Unlock()

	completedAt := t.now()
	results := t.stats
	results.Terms = append([]string{}, t.stats.Terms...)
	results.StartedAt = t.startTime
	results.CompletedAt = completedAt
	results.Duration = completedAt.Sub(t.startTime).String()

	return &SessionMetadata{
		ScoutVersion: scoutVersion,
		SessionID:    t.id,
		Mode:         mode,
		Parameters:   params,
		Results:      results,
	}
}

// SaveMetadata persists a SessionMetadata record to a JSON file in the
// specified directory. The file is written atomically using a temporary file
// and rename to prevent corruption.
//
// The metadata file will be named: session-{session_id}.json
//
// Returns the path of the written file.
func SaveMetadata(metadata *SessionMetadata, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create metadata directory: %w", err)
	}

	filename := fmt.Sprintf("session-%s.json", metadata.SessionID)
	path := filepath.Join(dir, filename)

	// Write to temporary file first for atomicity
	tmpFile := path + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return "", fmt.Errorf("failed to create metadata file: %w", err)
	}

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(metadata); err != nil {
		_ = file.Close()
		_ = os.Remove(tmpFile)
		return "", fmt.Errorf("failed to write metadata: %w", err)
	}

	if err := file.Close(); err != nil {
		_ = os.Remove(tmpFile)
		return "", fmt.Errorf("failed to close metadata file: %w", err)
	}

	if err := os.Rename(tmpFile, path); err != nil {
		return "", fmt.Errorf("failed to save metadata file: %w", err)
	}

	return path, nil
}
