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

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	scouterrors "github.com/sirseerhq/sirseer-scout/internal/errors"
)

// MockClient is an in-memory Searcher used by tests and the --demo mode.
// Every term matches the same generated population, paged by index cursors
// of the form "cursor:<n>".
type MockClient struct {
	mu sync.Mutex

	// Users returned for any term. Generated from Total when empty.
	Users []User

	// Error to return
	Error error

	// Delay simulates network latency per call.
	Delay time.Duration

	// Behavior flags
	ShouldFailAuth    bool
	ShouldFailNetwork bool

	// FailOnCall makes only the n-th call (1-based) fail with a network error.
	FailOnCall int

	// Track calls for verification
	CallCount int
	LastOpts  SearchOptions
	calls     []SearchOptions
}

// NewMockClient creates a new mock client with 25 generated users.
func NewMockClient() *MockClient {
	return &MockClient{
		Users: GenerateUsers(25),
	}
}

// SearchUsers returns the slice of Users following opts.After.
func (m *MockClient) SearchUsers(ctx context.Context, opts SearchOptions) (*UserPage, error) {
	m.mu.Lock()
	m.CallCount++
	call := m.CallCount
	m.LastOpts = opts
	m.calls = append(m.calls, opts)
	delay := m.Delay
	m.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ShouldFailAuth {
		return nil, fmt.Errorf("authentication failed: %w", scouterrors.ErrInvalidToken)
	}
	if m.ShouldFailNetwork || (m.FailOnCall > 0 && call == m.FailOnCall) {
		return nil, fmt.Errorf("network timeout: %w", scouterrors.ErrNetworkFailure)
	}
	if m.Error != nil {
		return nil, m.Error
	}

	start := 0
	if opts.After != "" {
		idx, err := strconv.Atoi(strings.TrimPrefix(opts.After, "cursor:"))
		if err != nil || !strings.HasPrefix(opts.After, "cursor:") {
			return nil, fmt.Errorf("unknown cursor %q: %w", opts.After, scouterrors.ErrMalformedResponse)
		}
		start = idx + 1
	}

	end := start + opts.pageSize()
	if start > len(m.Users) {
		start = len(m.Users)
	}
	if end > len(m.Users) {
		end = len(m.Users)
	}

	page := &UserPage{
		TotalCount: len(m.Users),
		Edges:      make([]UserEdge, 0, end-start),
	}
	for i := start; i < end; i++ {
		page.Edges = append(page.Edges, UserEdge{
			Cursor: fmt.Sprintf("cursor:%d", i),
			User:   m.Users[i],
		})
	}

	return page, nil
}

// Calls returns a copy of every SearchOptions received, in order.
func (m *MockClient) Calls() []SearchOptions {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]SearchOptions, len(m.calls))
	copy(out, m.calls)
	return out
}

// GenerateUsers builds n deterministic users named user0..user(n-1).
func GenerateUsers(n int) []User {
	base := time.Date(2015, time.March, 1, 0, 0, 0, 0, time.UTC)
	users := make([]User, n)
	for i := range users {
		login := fmt.Sprintf("user%d", i)
		users[i] = User{
			ID:          fmt.Sprintf("MDQ6VXNlcj%04d", i),
			Kind:        KindUser,
			Login:       login,
			Name:        fmt.Sprintf("User %d", i),
			Email:       login + "@example.com",
			Location:    "Earth",
			AvatarURL:   "https://avatars.githubusercontent.com/u/" + strconv.Itoa(1000+i),
			URL:         "https://github.com/" + login,
			PublicRepos: i % 7,
			CreatedAt:   base.AddDate(0, i, 0),
			UpdatedAt:   base.AddDate(5, i, 0),
		}
	}
	return users
}

// MockClientOption configures a MockClient
type MockClientOption func(*MockClient)

// WithUsers sets the users returned by the mock
func WithUsers(users []User) MockClientOption {
	return func(m *MockClient) {
		m.Users = users
	}
}

// WithError sets the error returned by the mock
func WithError(err error) MockClientOption {
	return func(m *MockClient) {
		m.Error = err
	}
}

// WithAuthFailure makes the mock fail with authentication error
func WithAuthFailure() MockClientOption {
	return func(m *MockClient) {
		m.ShouldFailAuth = true
	}
}

// WithDelay makes every call wait d before answering.
func WithDelay(d time.Duration) MockClientOption {
	return func(m *MockClient) {
		m.Delay = d
	}
}

// NewMockClientWithOptions creates a mock client with options
func NewMockClientWithOptions(opts ...MockClientOption) *MockClient {
	mock := NewMockClient()
	for _, opt := range opts {
		opt(mock)
	}
	return mock
}
