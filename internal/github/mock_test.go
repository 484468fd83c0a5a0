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
	"errors"
	"testing"

	scouterrors "github.com/sirseerhq/sirseer-scout/internal/errors"
)

func TestMockClient_Paging(t *testing.T) {
	mock := NewMockClient()
	ctx := context.Background()

	var logins []string
	after := ""
	for {
		page, err := mock.SearchUsers(ctx, SearchOptions{Term: "user", PageSize: 10, After: after})
		if err != nil {
			t.Fatalf("SearchUsers() error = %v", err)
		}
		if page.TotalCount != 25 {
			t.Errorf("TotalCount = %d, want 25", page.TotalCount)
		}
		if len(page.Edges) == 0 {
			break
		}
		for _, u := range page.Users() {
			logins = append(logins, u.Login)
		}
		after = page.EndCursor()
	}

	if len(logins) != 25 {
		t.Fatalf("collected %d users, want 25", len(logins))
	}
	if logins[0] != "user0" || logins[24] != "user24" {
		t.Errorf("unexpected order: first=%s last=%s", logins[0], logins[24])
	}
	if mock.CallCount != 4 {
		t.Errorf("CallCount = %d, want 4", mock.CallCount)
	}
	if calls := mock.Calls(); calls[1].After != "cursor:9" {
		t.Errorf("second call after = %q, want cursor:9", calls[1].After)
	}
}

func TestMockClient_Failures(t *testing.T) {
	tests := []struct {
		name     string
		mock     *MockClient
		sentinel error
	}{
		{name: "auth", mock: NewMockClientWithOptions(WithAuthFailure()), sentinel: scouterrors.ErrInvalidToken},
		{name: "network", mock: &MockClient{ShouldFailNetwork: true}, sentinel: scouterrors.ErrNetworkFailure},
		{name: "fail on first call", mock: &MockClient{FailOnCall: 1}, sentinel: scouterrors.ErrNetworkFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.mock.SearchUsers(context.Background(), SearchOptions{Term: "abc"})
			if !errors.Is(err, tt.sentinel) {
				t.Errorf("error = %v, want %v", err, tt.sentinel)
			}
		})
	}
}

func TestMockClient_BadCursor(t *testing.T) {
	_, err := NewMockClient().SearchUsers(context.Background(), SearchOptions{Term: "abc", After: "bogus"})
	if !errors.Is(err, scouterrors.ErrMalformedResponse) {
		t.Errorf("error = %v, want ErrMalformedResponse", err)
	}
}

func TestMockClient_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewMockClient().SearchUsers(ctx, SearchOptions{Term: "abc"}); !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}
