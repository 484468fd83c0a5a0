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
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	scouterrors "github.com/sirseerhq/sirseer-scout/internal/errors"
	"github.com/sirseerhq/sirseer-scout/test/testutil"
)

func newTestClient(endpoint string) *GraphQLClient {
	return NewGraphQLClient("test-token", endpoint, WithTransportRetries(0), WithTimeout(5*time.Second))
}

func TestNewGraphQLClient(t *testing.T) {
	client := NewGraphQLClient("test-token", "https://api.github.com/graphql")
	if client == nil {
		t.Fatal("expected non-nil client")
	}

	// Verify it implements the Searcher interface
	var _ Searcher = client
}

func TestBuildSearchQuery(t *testing.T) {
	tests := []struct {
		term string
		want string
	}{
		{term: "octocat", want: "octocat in:name,email"},
		{term: "  jane doe ", want: "jane doe in:name,email"},
		{term: "   ", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			if got := buildSearchQuery(tt.term); got != tt.want {
				t.Errorf("buildSearchQuery(%q) = %q, want %q", tt.term, got, tt.want)
			}
		})
	}
}

func TestGraphQLClient_SearchUsers_FirstPage(t *testing.T) {
	server := testutil.NewSearchServer(t, 25)
	client := newTestClient(server.URL())

	page, err := client.SearchUsers(context.Background(), SearchOptions{Term: "user", PageSize: 10})
	if err != nil {
		t.Fatalf("SearchUsers() error = %v", err)
	}

	if page.TotalCount != 25 {
		t.Errorf("TotalCount = %d, want 25", page.TotalCount)
	}
	if len(page.Edges) != 10 {
		t.Fatalf("len(Edges) = %d, want 10", len(page.Edges))
	}
	if page.EndCursor() != testutil.CursorFor(9) {
		t.Errorf("EndCursor() = %q, want %q", page.EndCursor(), testutil.CursorFor(9))
	}

	first := page.Edges[0].User
	if first.Login != "user0" || first.ID != "U_0" || first.Kind != KindUser {
		t.Errorf("unexpected first user: %+v", first)
	}
	if first.Email != "user0@example.com" || first.Location != "Berlin" {
		t.Errorf("profile fields not mapped: %+v", first)
	}
	if first.CreatedAt.IsZero() || first.UpdatedAt.IsZero() {
		t.Error("timestamps not mapped")
	}

	reqs := server.Requests()
	if len(reqs) != 1 {
		t.Fatalf("requests = %d, want 1", len(reqs))
	}
	if got := reqs[0].SearchQuery(); got != "user in:name,email" {
		t.Errorf("query variable = %q", got)
	}
	if reqs[0].First() != 10 {
		t.Errorf("first variable = %d, want 10", reqs[0].First())
	}
	if _, ok := reqs[0].Variables["after"]; !ok {
		t.Error("$after must always be declared")
	}
	if reqs[0].After() != "" {
		t.Errorf("after = %q, want null", reqs[0].After())
	}
	if !strings.Contains(reqs[0].Query, "type:USER") && !strings.Contains(reqs[0].Query, "type: USER") {
		t.Errorf("query does not search users: %s", reqs[0].Query)
	}
}

func TestGraphQLClient_SearchUsers_NextPage(t *testing.T) {
	server := testutil.NewSearchServer(t, 25)
	client := newTestClient(server.URL())

	page, err := client.SearchUsers(context.Background(), SearchOptions{
		Term:     "user",
		PageSize: 10,
		After:    testutil.CursorFor(19),
	})
	if err != nil {
		t.Fatalf("SearchUsers() error = %v", err)
	}
	if len(page.Edges) != 5 {
		t.Fatalf("len(Edges) = %d, want 5", len(page.Edges))
	}
	if page.Edges[0].User.Login != "user20" {
		t.Errorf("first login = %q, want user20", page.Edges[0].User.Login)
	}
	if server.Requests()[0].After() != testutil.CursorFor(19) {
		t.Errorf("after = %q", server.Requests()[0].After())
	}
}

func TestGraphQLClient_SearchUsers_Headers(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		testutil.AssertGraphQLRequest(t, r)
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("Authorization = %q", got)
		}
		if got := r.Header.Get("User-Agent"); !strings.HasPrefix(got, "sirseer-scout/") {
			t.Errorf("User-Agent = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(testutil.SearchResponse(0))
	}))
	defer server.Close()

	page, err := newTestClient(server.URL+"/graphql").SearchUsers(context.Background(), SearchOptions{Term: "nobody"})
	if err != nil {
		t.Fatalf("SearchUsers() error = %v", err)
	}
	if page.TotalCount != 0 || len(page.Edges) != 0 {
		t.Errorf("expected empty page, got %+v", page)
	}
}

func TestGraphQLClient_SearchUsers_Mapping(t *testing.T) {
	body := testutil.SearchResponse(2,
		testutil.Edge("c1", testutil.NewUserNodeBuilder(1).WithoutProfile().Build()),
		testutil.Edge("c2", testutil.NewUserNodeBuilder(2).WithLogin("acme").AsOrganization().Build()),
	)
	server := testutil.NewStaticServer(t, http.StatusOK, body)

	page, err := newTestClient(server.URL()).SearchUsers(context.Background(), SearchOptions{Term: "ac"})
	if err != nil {
		t.Fatalf("SearchUsers() error = %v", err)
	}

	hidden := page.Edges[0].User
	if hidden.Name != "" || hidden.Email != "" || hidden.Location != "" {
		t.Errorf("null fields should map to empty strings: %+v", hidden)
	}
	if hidden.DisplayName() != hidden.Login {
		t.Errorf("DisplayName() = %q, want login", hidden.DisplayName())
	}

	org := page.Edges[1].User
	if org.Kind != KindOrganization || org.Login != "acme" {
		t.Errorf("unexpected organization: %+v", org)
	}
}

// searchBodyServer answers with a data object whose search field is search,
// or with no search field at all when present is false.
func searchBodyServer(t *testing.T, search map[string]interface{}, present bool) *testutil.MockServer {
	t.Helper()
	data := map[string]interface{}{}
	if present {
		data["search"] = search
	}
	return testutil.NewStaticServer(t, http.StatusOK, map[string]interface{}{"data": data})
}

func TestGraphQLClient_SearchUsers_Errors(t *testing.T) {
	tests := []struct {
		name     string
		server   func(t *testing.T) *testutil.MockServer
		sentinel error
	}{
		{
			name:     "authentication error",
			server:   func(t *testing.T) *testutil.MockServer { return testutil.NewErrorServer(t, http.StatusUnauthorized) },
			sentinel: scouterrors.ErrInvalidToken,
		},
		{
			name:     "rate limit error",
			server:   func(t *testing.T) *testutil.MockServer { return testutil.NewRateLimitServer(t, 10, 5) },
			sentinel: scouterrors.ErrRateLimit,
		},
		{
			name: "graphql rate limit message",
			server: func(t *testing.T) *testutil.MockServer {
				return testutil.NewStaticServer(t, http.StatusOK, testutil.GraphQLErrorResponse("API rate limit exceeded for user ID 1."))
			},
			sentinel: scouterrors.ErrRateLimit,
		},
		{
			name: "complexity error",
			server: func(t *testing.T) *testutil.MockServer {
				return testutil.NewStaticServer(t, http.StatusOK, testutil.GraphQLErrorResponse("Query has complexity of 600000, which exceeds maximum"))
			},
			sentinel: scouterrors.ErrQueryComplexity,
		},
		{
			name: "edge without cursor",
			server: func(t *testing.T) *testutil.MockServer {
				return testutil.NewStaticServer(t, http.StatusOK, testutil.SearchResponse(1,
					testutil.Edge("", testutil.NewUserNodeBuilder(0).Build())))
			},
			sentinel: scouterrors.ErrMalformedResponse,
		},
		{
			name: "node without id",
			server: func(t *testing.T) *testutil.MockServer {
				return testutil.NewStaticServer(t, http.StatusOK, testutil.SearchResponse(1,
					testutil.Edge("c0", testutil.NewUserNodeBuilder(0).WithID("").Build())))
			},
			sentinel: scouterrors.ErrMalformedResponse,
		},
		{
			name:     "no search",
			server:   func(t *testing.T) *testutil.MockServer { return searchBodyServer(t, nil, false) },
			sentinel: scouterrors.ErrMalformedResponse,
		},
		{
			name:     "null search",
			server:   func(t *testing.T) *testutil.MockServer { return searchBodyServer(t, nil, true) },
			sentinel: scouterrors.ErrMalformedResponse,
		},
		{
			name: "no userCount",
			server: func(t *testing.T) *testutil.MockServer {
				return searchBodyServer(t, map[string]interface{}{"edges": []interface{}{}}, true)
			},
			sentinel: scouterrors.ErrMalformedResponse,
		},
		{
			name: "null userCount",
			server: func(t *testing.T) *testutil.MockServer {
				return searchBodyServer(t, map[string]interface{}{"userCount": nil, "edges": []interface{}{}}, true)
			},
			sentinel: scouterrors.ErrMalformedResponse,
		},
		{
			name: "no edges",
			server: func(t *testing.T) *testutil.MockServer {
				return searchBodyServer(t, map[string]interface{}{"userCount": 3}, true)
			},
			sentinel: scouterrors.ErrMalformedResponse,
		},
		{
			name: "wrong field type",
			server: func(t *testing.T) *testutil.MockServer {
				return testutil.NewStaticServer(t, http.StatusOK, map[string]interface{}{
					"data": map[string]interface{}{
						"search": map[string]interface{}{"userCount": "many", "edges": []interface{}{}},
					},
				})
			},
			sentinel: scouterrors.ErrMalformedResponse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := tt.server(t)
			_, err := newTestClient(server.URL()).SearchUsers(context.Background(), SearchOptions{Term: "octo"})
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, tt.sentinel) {
				t.Errorf("error = %v, want %v", err, tt.sentinel)
			}
		})
	}
}

func TestGraphQLClient_SearchUsers_EmptyTerm(t *testing.T) {
	client := newTestClient("http://127.0.0.1:1/graphql")
	if _, err := client.SearchUsers(context.Background(), SearchOptions{Term: "  "}); err == nil {
		t.Error("expected error for empty term")
	}
}

func TestGraphQLClient_SearchUsers_NetworkError(t *testing.T) {
	client := newTestClient("http://127.0.0.1:1/graphql")
	_, err := client.SearchUsers(context.Background(), SearchOptions{Term: "octo"})
	if !errors.Is(err, scouterrors.ErrNetworkFailure) {
		t.Errorf("error = %v, want ErrNetworkFailure", err)
	}
}

func TestGraphQLClient_SearchUsers_Canceled(t *testing.T) {
	server := testutil.NewSearchServer(t, 5)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestClient(server.URL()).SearchUsers(ctx, SearchOptions{Term: "octo"})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestSearchOptions_PageSize(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{0, defaultPageSize},
		{-3, defaultPageSize},
		{25, 25},
		{500, maxPageSize},
	}
	for _, tt := range tests {
		if got := (SearchOptions{PageSize: tt.in}).pageSize(); got != tt.want {
			t.Errorf("pageSize(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
