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
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"

	scouterrors "github.com/sirseerhq/sirseer-scout/internal/errors"
)

// BreakerConfig configures the circuit breaker around a Searcher.
type BreakerConfig struct {
	// FailureThreshold is the number of consecutive failures that opens the circuit.
	FailureThreshold uint32
	// OpenTimeout is how long the circuit stays open before a probe request.
	OpenTimeout time.Duration
}

// BreakerClient stops calling GitHub after repeated upstream failures so a
// dead network or revoked token fails fast instead of on every keystroke.
type BreakerClient struct {
	client  Searcher
	breaker *gobreaker.CircuitBreaker
}

// NewBreakerClient wraps client with a circuit breaker.
func NewBreakerClient(client Searcher, cfg BreakerConfig, log logrus.FieldLogger) *BreakerClient {
	threshold := cfg.FailureThreshold
	if threshold == 0 {
		threshold = 5
	}
	if log == nil {
		log = logrus.StandardLogger()
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "github-search",
		MaxRequests: 1,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		// Only upstream trouble counts against the circuit.
		IsSuccessful: func(err error) bool {
			return err == nil ||
				errors.Is(err, scouterrors.ErrMalformedResponse) ||
				errors.Is(err, scouterrors.ErrQueryComplexity) ||
				errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.WithFields(logrus.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("circuit breaker state changed")
		},
	})

	return &BreakerClient{client: client, breaker: cb}
}

// SearchUsers implements Searcher through the circuit breaker.
func (b *BreakerClient) SearchUsers(ctx context.Context, opts SearchOptions) (*UserPage, error) {
	result, err := b.breaker.Execute(func() (interface{}, error) {
		return b.client.SearchUsers(ctx, opts)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("GitHub search temporarily disabled after repeated failures: %w", scouterrors.ErrNetworkFailure)
		}
		return nil, err
	}
	return result.(*UserPage), nil
}

// State reports the breaker state for display.
func (b *BreakerClient) State() string {
	return b.breaker.State().String()
}
