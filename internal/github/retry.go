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
	"math"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sirseerhq/sirseer-scout/internal/giterror"
)

// RetryConfig configures retry behavior for API calls
type RetryConfig struct {
	// MaxRetries is the maximum number of retry attempts
	MaxRetries int
	// InitialBackoff is the initial backoff duration
	InitialBackoff time.Duration
	// MaxBackoff is the maximum backoff duration
	MaxBackoff time.Duration
	// BackoffMultiplier is the multiplier for exponential backoff
	BackoffMultiplier float64
}

// DefaultRetryConfig returns sensible defaults for retry configuration
func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxRetries:        3,
		InitialBackoff:    1 * time.Second,
		MaxBackoff:        30 * time.Second,
		BackoffMultiplier: 2.0,
	}
}

// RetryClient wraps a Searcher with retry logic for rate-limit and network
// errors. Authentication, complexity and malformed-response errors are
// returned immediately.
type RetryClient struct {
	client    Searcher
	config    *RetryConfig
	inspector giterror.Inspector
	log       logrus.FieldLogger
}

// NewRetryClient creates a new client with retry capabilities
func NewRetryClient(client Searcher, config *RetryConfig, log logrus.FieldLogger) *RetryClient {
	if config == nil {
		config = DefaultRetryConfig()
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &RetryClient{
		client:    client,
		config:    config,
		inspector: giterror.NewErrorChainInspector(giterror.NewInspector()),
		log:       log,
	}
}

// SearchUsers implements Searcher with retry logic
func (r *RetryClient) SearchUsers(ctx context.Context, opts SearchOptions) (*UserPage, error) {
	var lastErr error

	for attempt := 0; attempt <= r.config.MaxRetries; attempt++ {
		page, err := r.client.SearchUsers(ctx, opts)
		if err == nil {
			return page, nil
		}

		lastErr = err

		if !r.shouldRetry(err) {
			return nil, err
		}

		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		if attempt == r.config.MaxRetries {
			break
		}

		backoff := r.calculateBackoff(attempt)

		entry := r.log.WithFields(logrus.Fields{
			"term":    opts.Term,
			"attempt": attempt + 1,
			"max":     r.config.MaxRetries,
			"backoff": backoff,
		})
		if r.inspector.IsRateLimitError(err) {
			entry.Warn("rate limit hit, waiting before retry")
		} else {
			entry.WithError(err).Warn("network error, retrying")
		}

		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return nil, fmt.Errorf("failed after %d retries: %w", r.config.MaxRetries, lastErr)
}

// shouldRetry determines if an error is retryable
func (r *RetryClient) shouldRetry(err error) bool {
	return r.inspector.IsRateLimitError(err) || r.inspector.IsNetworkError(err)
}

// calculateBackoff calculates the backoff duration for a given attempt
func (r *RetryClient) calculateBackoff(attempt int) time.Duration {
	backoff := float64(r.config.InitialBackoff) * math.Pow(r.config.BackoffMultiplier, float64(attempt))

	if backoff > float64(r.config.MaxBackoff) {
		backoff = float64(r.config.MaxBackoff)
	}

	// Add jitter (±10%) to prevent thundering herd
	jitter := backoff * 0.1 * (2*float64(time.Now().UnixNano()%100)/100 - 1)
	backoff += jitter

	return time.Duration(backoff)
}
