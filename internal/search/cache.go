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
	"context"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	scouterrors "github.com/sirseerhq/sirseer-scout/internal/errors"
	"github.com/sirseerhq/sirseer-scout/internal/github"
)

// Cache holds the pagination state of the active search term.
//
// A Cache is not safe for concurrent use. It is meant to be driven from a
// single goroutine such as a Bubble Tea update loop; requests may be executed
// elsewhere as long as their results are handed back on that goroutine.
type Cache struct {
	pageSize      int
	minTermLength int
	log           logrus.FieldLogger
	recorder      Recorder

	term       string
	state      State
	results    []github.User
	window     []github.User
	cursor     string
	page       int
	totalCount int
	totalPages int
	exhausted  bool

	lastToken uint64
	inflight  *Request
	failed    *Request
	err       error
	stats     Stats
}

// Option configures a Cache.
type Option func(*Cache)

// WithLogger sets the logger used for debug output.
func WithLogger(log logrus.FieldLogger) Option {
	return func(c *Cache) {
		if log != nil {
			c.log = log
		}
	}
}

// WithRecorder registers a Recorder notified of cache activity.
func WithRecorder(r Recorder) Option {
	return func(c *Cache) {
		c.recorder = r
	}
}

// New creates an idle Cache. Non-positive config values take their defaults.
func New(cfg Config, opts ...Option) *Cache {
	if cfg.PageSize <= 0 {
		cfg.PageSize = DefaultPageSize
	}
	if cfg.MinTermLength <= 0 {
		cfg.MinTermLength = DefaultMinTermLength
	}

	discard := logrus.New()
	discard.SetOutput(io.Discard)

	c := &Cache{
		pageSize:      cfg.PageSize,
		minTermLength: cfg.MinTermLength,
		log:           discard,
		page:          1,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// PageSize returns the number of results per page.
func (c *Cache) PageSize() int {
	return c.pageSize
}

// Commit replaces the active term. All accumulated results are discarded and
// any in-flight request becomes stale. It returns the first-page request, or
// nil when the term is shorter than the minimum length, in which case the
// cache goes idle.
func (c *Cache) Commit(term string) *Request {
	c.term = term
	c.results = nil
	c.window = nil
	c.cursor = ""
	c.page = 1
	c.totalCount = 0
	c.totalPages = 0
	c.exhausted = false
	c.inflight = nil
	c.failed = nil
	c.err = nil
	c.stats = Stats{}

	if utf8.RuneCountInString(strings.TrimSpace(term)) < c.minTermLength {
		c.state = StateIdle
		c.log.WithField("term", term).Debug("Term below minimum length, search cleared")
		return nil
	}

	if c.recorder != nil {
		c.recorder.TermCommitted(term)
	}
	c.log.WithField("term", term).Debug("Search term committed")
	return c.issue(1, "", 1)
}

// Next moves to the following page. When that page is already accumulated
// the window is updated in place and Next returns a nil request; otherwise
// it returns the request that fetches the page.
func (c *Cache) Next() (*Request, error) {
	if c.Busy() {
		return nil, scouterrors.ErrBusy
	}
	if !c.hasNext() {
		return nil, scouterrors.ErrNoNextPage
	}

	previous := c.page
	c.page++
	c.err = nil

	// Pages are fetched strictly in order, so a page that starts at or past
	// the end of the accumulated results is always the next unfetched one.
	if c.offset(c.page) >= len(c.results) {
		c.stats.Misses++
		if c.recorder != nil {
			c.recorder.CacheMiss()
		}
		c.log.WithFields(logrus.Fields{
			"page":   c.page,
			"cursor": c.cursor,
		}).Debug("Cache miss, fetching page")
		return c.issue(c.page, c.cursor, previous), nil
	}

	c.hit()
	return nil, nil
}

// Previous moves to the preceding page. It never fetches.
func (c *Cache) Previous() error {
	if c.Busy() {
		return scouterrors.ErrBusy
	}
	if c.page <= 1 || c.state != StateReady {
		return scouterrors.ErrNoPreviousPage
	}

	c.page--
	c.err = nil
	c.hit()
	return nil
}

// Retry re-issues the request that failed last, if any.
func (c *Cache) Retry() *Request {
	if c.Busy() || c.failed == nil {
		return nil
	}
	failed := c.failed
	restore := c.page
	c.page = failed.Page

	c.log.WithFields(logrus.Fields{
		"term": failed.Term,
		"page": failed.Page,
	}).Debug("Retrying failed fetch")
	return c.issue(failed.Page, failed.Options.After, restore)
}

// Resolve records the outcome of the request identified by token. Results
// for any request other than the one in flight are rejected with
// ErrStaleResult and leave the cache untouched. A fetch error is recorded
// for the view and returned; the page shown before the request is restored.
func (c *Cache) Resolve(token uint64, page *github.UserPage, fetchErr error) error {
	if c.inflight == nil || c.inflight.Token != token {
		c.log.WithField("token", token).Debug("Discarding stale search result")
		return scouterrors.ErrStaleResult
	}
	req := c.inflight
	c.inflight = nil

	if fetchErr == nil && page == nil {
		fetchErr = fmt.Errorf("empty search response: %w", scouterrors.ErrMalformedResponse)
	}
	if fetchErr != nil {
		c.fail(req, fetchErr)
		return fetchErr
	}

	// Clip before reading the cursor so the next fetch resumes right after
	// the last record kept.
	if len(page.Edges) > c.pageSize {
		page = &github.UserPage{TotalCount: page.TotalCount, Edges: page.Edges[:c.pageSize]}
	}
	users := page.Users()

	c.totalCount = page.TotalCount
	c.totalPages = (page.TotalCount + c.pageSize - 1) / c.pageSize
	if cursor := page.EndCursor(); cursor != "" {
		c.cursor = cursor
	}
	if req.Page == 1 {
		c.results = users
	} else {
		c.results = append(c.results, users...)
	}
	c.exhausted = len(users) < c.pageSize
	c.page = req.Page
	c.window = c.slice(req.Page)
	c.state = StateReady
	c.err = nil
	c.stats.Fetches++

	if c.recorder != nil {
		c.recorder.PageFetched(len(users))
	}
	c.log.WithFields(logrus.Fields{
		"term":        req.Term,
		"page":        req.Page,
		"records":     len(users),
		"accumulated": len(c.results),
		"total":       c.totalCount,
	}).Debug("Search page loaded")
	return nil
}

// Execute runs req against client and resolves it. A nil request is a
// no-op, which lets callers pass the result of Next straight through.
func (c *Cache) Execute(ctx context.Context, client github.Searcher, req *Request) error {
	if req == nil {
		return nil
	}
	page, err := client.SearchUsers(ctx, req.Options)
	return c.Resolve(req.Token, page, err)
}

// Busy reports whether a request is in flight.
func (c *Cache) Busy() bool {
	return c.inflight != nil
}

// State returns the current fetch state.
func (c *Cache) State() State {
	return c.state
}

// Term returns the last committed term.
func (c *Cache) Term() string {
	return c.term
}

// Page returns the 1-based page being displayed.
func (c *Cache) Page() int {
	return c.page
}

// Cursor returns the end cursor of the last fetched page.
func (c *Cache) Cursor() string {
	return c.cursor
}

// Accumulated returns a copy of every result fetched for the active term.
func (c *Cache) Accumulated() []github.User {
	return append([]github.User(nil), c.results...)
}

// Window returns a copy of the results on the displayed page.
func (c *Cache) Window() []github.User {
	return append([]github.User(nil), c.window...)
}

// Err returns the error of the last failed fetch, cleared by any later
// successful navigation.
func (c *Cache) Err() error {
	return c.err
}

// Snapshot returns a copy of the state needed to render the cache.
func (c *Cache) Snapshot() View {
	return View{
		Term:        c.term,
		State:       c.state,
		Page:        c.page,
		TotalPages:  c.totalPages,
		TotalCount:  c.totalCount,
		Window:      c.Window(),
		Accumulated: len(c.results),
		Busy:        c.Busy(),
		HasNext:     !c.Busy() && c.hasNext(),
		HasPrevious: !c.Busy() && c.state == StateReady && c.page > 1,
		Err:         c.err,
		CanRetry:    !c.Busy() && c.failed != nil,
		Stats:       c.stats,
	}
}

func (c *Cache) issue(page int, after string, restore int) *Request {
	c.lastToken++
	req := &Request{
		Token: c.lastToken,
		Term:  c.term,
		Page:  page,
		Options: github.SearchOptions{
			Term:     c.term,
			PageSize: c.pageSize,
			After:    after,
		},
		restorePage: restore,
	}
	c.inflight = req
	c.failed = nil
	c.state = StateFetching
	c.err = nil
	return req
}

func (c *Cache) fail(req *Request, err error) {
	c.page = req.restorePage
	c.failed = req
	c.err = err
	if len(c.results) > 0 {
		c.state = StateReady
	} else {
		c.state = StateIdle
	}

	if c.recorder != nil {
		c.recorder.FetchFailed(err)
	}
	c.log.WithFields(logrus.Fields{
		"term":  req.Term,
		"page":  req.Page,
		"error": err,
	}).Debug("Search page failed")
}

func (c *Cache) hit() {
	c.window = c.slice(c.page)
	c.stats.Hits++
	if c.recorder != nil {
		c.recorder.CacheHit()
	}
	c.log.WithField("page", c.page).Debug("Cache hit")
}

func (c *Cache) hasNext() bool {
	if c.state != StateReady || c.page >= c.totalPages {
		return false
	}
	// A short page means the server has nothing beyond what is accumulated,
	// whatever the reported total says.
	if c.exhausted && c.offset(c.page+1) >= len(c.results) {
		return false
	}
	return true
}

func (c *Cache) offset(page int) int {
	return (page - 1) * c.pageSize
}

func (c *Cache) slice(page int) []github.User {
	start := c.offset(page)
	if start >= len(c.results) {
		return nil
	}
	end := start + c.pageSize
	if end > len(c.results) {
		end = len(c.results)
	}
	return c.results[start:end]
}
