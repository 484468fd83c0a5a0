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
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shurcooL/graphql"
	"github.com/sirupsen/logrus"

	scouterrors "github.com/sirseerhq/sirseer-scout/internal/errors"
	"github.com/sirseerhq/sirseer-scout/internal/giterror"
)

// GraphQLClient implements the Searcher interface using GitHub's GraphQL API.
// It provides access to user search with cursor pagination, error
// classification, and safety features like response size limits.
type GraphQLClient struct {
	client    *graphql.Client
	inspector giterror.Inspector
	log       logrus.FieldLogger
}

// ClientOption customizes a GraphQLClient.
type ClientOption func(*clientOptions)

type clientOptions struct {
	timeout          time.Duration
	transportRetries int
	base             http.RoundTripper
	log              logrus.FieldLogger
}

// WithTimeout bounds every HTTP request made by the client.
func WithTimeout(d time.Duration) ClientOption {
	return func(o *clientOptions) {
		o.timeout = d
	}
}

// WithTransportRetries sets how many times a request failing with a
// 502, 503 or 504 is attempted. Values below 1 disable transport retries.
func WithTransportRetries(n int) ClientOption {
	return func(o *clientOptions) {
		o.transportRetries = n
	}
}

// WithBaseTransport replaces the underlying HTTP transport.
func WithBaseTransport(rt http.RoundTripper) ClientOption {
	return func(o *clientOptions) {
		o.base = rt
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(log logrus.FieldLogger) ClientOption {
	return func(o *clientOptions) {
		o.log = log
	}
}

// NewGraphQLClient creates a new GitHub GraphQL client with the provided token and endpoint.
// The client is configured with:
//   - Authentication via the provided token
//   - Custom GraphQL endpoint URL (e.g., for GitHub Enterprise)
//   - Rate limit detection on exhausted quotas
//   - Response size limiting to prevent memory issues
//   - User-Agent header for API compliance
func NewGraphQLClient(token string, endpoint string, opts ...ClientOption) *GraphQLClient {
	o := clientOptions{
		timeout:          30 * time.Second,
		transportRetries: 3,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		o.log = discard
	}

	base := o.base
	if base == nil {
		base = &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        10,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			ForceAttemptHTTP2:   true,
		}
	}

	var rt http.RoundTripper = &authTransport{token: token, base: base}
	rt = &rateLimitTransport{base: rt}
	if o.transportRetries > 1 {
		rt = newRetryTransport(rt, o.transportRetries)
	}

	httpClient := &http.Client{
		Transport: rt,
		Timeout:   o.timeout,
	}

	return &GraphQLClient{
		client:    graphql.NewClient(endpoint, httpClient),
		inspector: giterror.NewErrorChainInspector(giterror.NewInspector()),
		log:       o.log,
	}
}

// SearchUsers fetches one page of users whose name or email contains opts.Term.
// The returned page carries the server's total match count and one cursor per
// edge; pass the last cursor as opts.After to continue.
func (c *GraphQLClient) SearchUsers(ctx context.Context, opts SearchOptions) (*UserPage, error) {
	query := buildSearchQuery(opts.Term)
	if query == "" {
		return nil, fmt.Errorf("search term cannot be empty")
	}
	pageSize := opts.pageSize()

	// $after is always declared so the first page can send null.
	var after *graphql.String
	if opts.After != "" {
		a := graphql.String(opts.After)
		after = &a
	}

	variables := map[string]interface{}{
		"query": graphql.String(query),
		"first": graphql.Int(int32(pageSize)), // #nosec G115 - pageSize is capped at 100
		"after": after,
	}

	log := c.log.WithFields(logrus.Fields{
		"term":  opts.Term,
		"first": pageSize,
		"after": opts.After,
	})
	log.Debug("searching users")

	var q userSearchQuery
	if err := c.client.Query(ctx, &q, variables); err != nil {
		mapped := c.mapError(err, opts.Term)
		log.WithError(err).Debug("user search failed")
		return nil, mapped
	}

	page, err := q.toUserPage()
	if err != nil {
		return nil, fmt.Errorf("search response for %q is incomplete (%v): %w", opts.Term, err, scouterrors.ErrMalformedResponse)
	}

	log.WithFields(logrus.Fields{
		"total": page.TotalCount,
		"edges": len(page.Edges),
	}).Debug("user search completed")

	return page, nil
}

// mapError maps GraphQL errors to our domain errors with actionable messages
func (c *GraphQLClient) mapError(err error, term string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.Canceled) {
		return err
	}

	// Already classified by a transport.
	for _, sentinel := range []error{scouterrors.ErrRateLimit, scouterrors.ErrNetworkFailure, scouterrors.ErrInvalidToken} {
		if errors.Is(err, sentinel) {
			return err
		}
	}

	// Check rate limit first, as 403 can be both auth and rate limit
	if c.inspector.IsRateLimitError(err) {
		return fmt.Errorf("GitHub API rate limit exceeded. Please wait before retrying: %w", scouterrors.ErrRateLimit)
	}

	if c.inspector.IsAuthError(err) {
		return fmt.Errorf("GitHub API authentication failed. Please provide a valid token via --token flag or GITHUB_TOKEN environment variable: %w", scouterrors.ErrInvalidToken)
	}

	if c.inspector.IsComplexityError(err) {
		return fmt.Errorf("GraphQL query complexity exceeded. Reducing page size may help: %w", scouterrors.ErrQueryComplexity)
	}

	if c.inspector.IsNetworkError(err) {
		return fmt.Errorf("network error connecting to GitHub API. Please check your internet connection and try again: %w", scouterrors.ErrNetworkFailure)
	}

	if c.inspector.IsDecodeError(err) {
		return fmt.Errorf("unexpected search response for %q (%v): %w", term, err, scouterrors.ErrMalformedResponse)
	}

	// Generic error
	return fmt.Errorf("failed to search users for %q: %w", term, err)
}
