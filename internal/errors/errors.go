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

// Package errors defines sentinel errors for consistent error handling across the application.
// Query errors map to specific exit codes in the CLI for proper scripting support;
// navigation errors are reported by the search cache and shown inline by the UI.
package errors

import "errors"

// Query errors returned by the GitHub search client.
var (
	// ErrInvalidToken indicates GitHub authentication failed.
	// Maps to exit code 2.
	ErrInvalidToken = errors.New("invalid github token")

	// ErrRateLimit indicates GitHub API rate limit has been exceeded.
	// Maps to exit code 2.
	ErrRateLimit = errors.New("github rate limit exceeded")

	// ErrNetworkFailure indicates a network connection problem.
	// Maps to exit code 3.
	ErrNetworkFailure = errors.New("network connection failed")

	// ErrQueryComplexity indicates GitHub rejected the query as too expensive.
	// Maps to exit code 1.
	ErrQueryComplexity = errors.New("graphql query complexity exceeded")

	// ErrMalformedResponse indicates the search response lacked required fields.
	// Maps to exit code 4.
	ErrMalformedResponse = errors.New("malformed search response")
)

// Navigation errors returned by the search cache.
var (
	// ErrBusy is returned when navigation is requested while a fetch is in flight.
	ErrBusy = errors.New("search in progress")

	// ErrNoNextPage is returned when the current page is already the last one.
	ErrNoNextPage = errors.New("no next page")

	// ErrNoPreviousPage is returned when the current page is the first one.
	ErrNoPreviousPage = errors.New("no previous page")

	// ErrStaleResult is returned when a fetch result arrives for a request
	// that has since been superseded.
	ErrStaleResult = errors.New("stale search result")
)
