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

// Package testutil provides common test helpers for sirseer-scout
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
)

// GraphQLRequest is a decoded GraphQL POST body.
type GraphQLRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables"`
}

// After returns the $after variable, or "" when it was null or absent.
func (r GraphQLRequest) After() string {
	if s, ok := r.Variables["after"].(string); ok {
		return s
	}
	return ""
}

// First returns the $first variable.
func (r GraphQLRequest) First() int {
	if f, ok := r.Variables["first"].(float64); ok {
		return int(f)
	}
	return 0
}

// SearchQuery returns the $query variable.
func (r GraphQLRequest) SearchQuery() string {
	s, _ := r.Variables["query"].(string)
	return s
}

// MockServer provides common mock server configurations for testing
type MockServer struct {
	*httptest.Server
	requestCount int32

	mu       sync.Mutex
	requests []GraphQLRequest
}

// RequestCount returns how many requests the server has handled.
func (s *MockServer) RequestCount() int {
	return int(atomic.LoadInt32(&s.requestCount))
}

// Requests returns every decoded GraphQL request in arrival order.
func (s *MockServer) Requests() []GraphQLRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]GraphQLRequest, len(s.requests))
	copy(out, s.requests)
	return out
}

// URL returns the GraphQL endpoint of the server.
func (s *MockServer) URL() string {
	return s.Server.URL + "/graphql"
}

func (s *MockServer) record(t *testing.T, r *http.Request) (GraphQLRequest, int) {
	t.Helper()
	count := int(atomic.AddInt32(&s.requestCount, 1))

	var req GraphQLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		t.Errorf("failed to decode GraphQL request: %v", err)
	}
	s.mu.Lock()
	s.requests = append(s.requests, req)
	s.mu.Unlock()
	return req, count
}

func newServer(t *testing.T, handler func(s *MockServer, w http.ResponseWriter, r *http.Request)) *MockServer {
	t.Helper()
	s := &MockServer{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handler(s, w, r)
	}))
	t.Cleanup(s.Close)
	return s
}

// NewSearchServer creates a server that answers user searches over total
// generated users, honoring $first and $after like GitHub does.
func NewSearchServer(t *testing.T, total int) *MockServer {
	t.Helper()
	return newServer(t, func(s *MockServer, w http.ResponseWriter, r *http.Request) {
		req, _ := s.record(t, r)
		writeJSON(w, http.StatusOK, pageResponse(req, total))
	})
}

// NewErrorServer creates a mock server that always returns the specified error
func NewErrorServer(t *testing.T, statusCode int) *MockServer {
	t.Helper()
	return newServer(t, func(s *MockServer, w http.ResponseWriter, r *http.Request) {
		s.record(t, r)
		w.WriteHeader(statusCode)
		_, _ = w.Write([]byte(http.StatusText(statusCode)))
	})
}

// NewRateLimitServer creates a mock server that reports an exhausted quota
// for the first limitedCount requests and then succeeds.
func NewRateLimitServer(t *testing.T, limitedCount, total int) *MockServer {
	t.Helper()
	return newServer(t, func(s *MockServer, w http.ResponseWriter, r *http.Request) {
		req, count := s.record(t, r)
		if count <= limitedCount {
			w.Header().Set("X-RateLimit-Remaining", "0")
			w.Header().Set("X-RateLimit-Reset", "1700000000")
			writeJSON(w, http.StatusForbidden, map[string]interface{}{
				"message": "API rate limit exceeded",
			})
			return
		}
		writeJSON(w, http.StatusOK, pageResponse(req, total))
	})
}

// NewTransientErrorServer creates a mock server that fails N times then succeeds
func NewTransientErrorServer(t *testing.T, failCount, errorCode, total int) *MockServer {
	t.Helper()
	return newServer(t, func(s *MockServer, w http.ResponseWriter, r *http.Request) {
		req, count := s.record(t, r)
		if count <= failCount {
			w.WriteHeader(errorCode)
			_, _ = w.Write([]byte(http.StatusText(errorCode)))
			return
		}
		writeJSON(w, http.StatusOK, pageResponse(req, total))
	})
}

// NewStaticServer always answers with body.
func NewStaticServer(t *testing.T, statusCode int, body interface{}) *MockServer {
	t.Helper()
	return newServer(t, func(s *MockServer, w http.ResponseWriter, r *http.Request) {
		s.record(t, r)
		writeJSON(w, statusCode, body)
	})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func pageResponse(req GraphQLRequest, total int) map[string]interface{} {
	first := req.First()
	if first <= 0 {
		first = 10
	}
	start := 0
	if after := req.After(); after != "" {
		n, err := strconv.Atoi(strings.TrimPrefix(after, "cursor"))
		if err == nil {
			start = n + 1
		}
	}
	end := start + first
	if end > total {
		end = total
	}
	if start > end {
		start = end
	}
	return GenerateUserSearchResponse(start, end, total)
}

// AssertGraphQLRequest validates a GraphQL request structure
func AssertGraphQLRequest(t *testing.T, r *http.Request) {
	t.Helper()
	if r.URL.Path != "/graphql" {
		t.Errorf("Unexpected path: %s", r.URL.Path)
	}
	if r.Method != http.MethodPost {
		t.Errorf("Expected POST method, got: %s", r.Method)
	}
	if ct := r.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Expected Content-Type: application/json, got: %s", ct)
	}
}

// CursorFor returns the cursor the mock servers assign to result index i.
func CursorFor(i int) string {
	return fmt.Sprintf("cursor%d", i)
}
