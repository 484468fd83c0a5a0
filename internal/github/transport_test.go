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
	"bytes"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	scouterrors "github.com/sirseerhq/sirseer-scout/internal/errors"
	"github.com/sirseerhq/sirseer-scout/test/testutil"
)

func TestRetryTransport_RecoversFromGatewayErrors(t *testing.T) {
	server := testutil.NewTransientErrorServer(t, 2, http.StatusBadGateway, 5)

	rt := newRetryTransport(http.DefaultTransport, 3)
	rt.backoff = time.Millisecond

	body := []byte(`{"query":"q","variables":{"first":10}}`)
	req, err := http.NewRequest(http.MethodPost, server.URL(), bytes.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}

	resp, err := rt.RoundTrip(req)
	if err != nil {
		t.Fatalf("RoundTrip() error = %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
	if server.RequestCount() != 3 {
		t.Errorf("RequestCount = %d, want 3", server.RequestCount())
	}
	// Every attempt must resend the full body.
	for i, r := range server.Requests() {
		if r.First() != 10 {
			t.Errorf("request %d lost its body", i)
		}
	}
}

func TestRetryTransport_GivesUp(t *testing.T) {
	server := testutil.NewErrorServer(t, http.StatusServiceUnavailable)

	rt := newRetryTransport(http.DefaultTransport, 2)
	rt.backoff = time.Millisecond

	req, _ := http.NewRequest(http.MethodPost, server.URL(), strings.NewReader(`{}`))
	_, err := rt.RoundTrip(req)
	if !errors.Is(err, scouterrors.ErrNetworkFailure) {
		t.Errorf("error = %v, want ErrNetworkFailure", err)
	}
	if server.RequestCount() != 2 {
		t.Errorf("RequestCount = %d, want 2", server.RequestCount())
	}
}

func TestRateLimitTransport(t *testing.T) {
	server := testutil.NewRateLimitServer(t, 1, 3)
	rt := &rateLimitTransport{base: http.DefaultTransport}

	req, _ := http.NewRequest(http.MethodPost, server.URL(), strings.NewReader(`{}`))
	if _, err := rt.RoundTrip(req); !errors.Is(err, scouterrors.ErrRateLimit) {
		t.Fatalf("error = %v, want ErrRateLimit", err)
	}

	req, _ = http.NewRequest(http.MethodPost, server.URL(), strings.NewReader(`{}`))
	resp, err := rt.RoundTrip(req)
	if err != nil {
		t.Fatalf("second RoundTrip() error = %v", err)
	}
	resp.Body.Close()
}

func TestRateLimitReset(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		header http.Header
		want   time.Time
	}{
		{name: "retry after", header: http.Header{"Retry-After": []string{"30"}}, want: now.Add(30 * time.Second)},
		{name: "reset epoch", header: http.Header{"X-Ratelimit-Reset": []string{"1735736400"}}, want: time.Unix(1735736400, 0)},
		{name: "no headers", header: http.Header{}, want: now.Add(time.Minute)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := rateLimitReset(&http.Response{Header: tt.header}, now)
			if !got.Equal(tt.want) {
				t.Errorf("rateLimitReset() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsRateLimited(t *testing.T) {
	tests := []struct {
		name   string
		status int
		header http.Header
		want   bool
	}{
		{name: "429", status: http.StatusTooManyRequests, header: http.Header{}, want: true},
		{name: "403 exhausted", status: http.StatusForbidden, header: http.Header{"X-Ratelimit-Remaining": []string{"0"}}, want: true},
		{name: "403 plain", status: http.StatusForbidden, header: http.Header{}, want: false},
		{name: "200", status: http.StatusOK, header: http.Header{"X-Ratelimit-Remaining": []string{"0"}}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isRateLimited(&http.Response{StatusCode: tt.status, Header: tt.header}); got != tt.want {
				t.Errorf("isRateLimited() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLimitedReader(t *testing.T) {
	lr := &limitedReader{
		ReadCloser: io.NopCloser(strings.NewReader(strings.Repeat("x", 100))),
		limit:      10,
	}

	data, err := io.ReadAll(lr)
	if err == nil {
		t.Fatal("expected size limit error")
	}
	if len(data) != 10 {
		t.Errorf("read %d bytes, want 10", len(data))
	}
}
