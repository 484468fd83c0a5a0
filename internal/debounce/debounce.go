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

// Package debounce turns a stream of raw text-field values into committed
// search terms. A value is committed only after it reaches a minimum length,
// stays unchanged for a quiet period, and differs from the previous commit.
//
// The Debouncer itself holds no timers: Input hands back a Token, the caller
// arms whatever timer fits its event loop (a tea.Tick in the TUI) and calls
// Fire with that token once the quiet period elapses. Timer wraps the same
// logic around time.AfterFunc for callers without an event loop.
package debounce

import (
	"time"
	"unicode/utf8"
)

const (
	// DefaultMinChars is the shortest value that is considered for search.
	DefaultMinChars = 3
	// DefaultDelay is the quiet period before a value is committed.
	DefaultDelay = time.Second
)

// Token identifies one armed quiet-period timer. Zero is never issued.
type Token uint64

// Debouncer filters raw input values. It is not safe for concurrent use;
// confine it to a single goroutine such as the Bubble Tea update loop.
type Debouncer struct {
	minChars int
	delay    time.Duration

	token     Token
	pending   string
	hasValue  bool
	committed string
}

// New creates a Debouncer. Non-positive arguments fall back to the defaults.
func New(minChars int, delay time.Duration) *Debouncer {
	if minChars <= 0 {
		minChars = DefaultMinChars
	}
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Debouncer{minChars: minChars, delay: delay}
}

// Delay returns the quiet period callers should wait before calling Fire.
func (d *Debouncer) Delay() time.Duration {
	return d.delay
}

// MinChars returns the minimum value length in runes.
func (d *Debouncer) MinChars() int {
	return d.minChars
}

// Input records a raw value. Values shorter than MinChars are dropped and
// leave any pending value and timer untouched. A qualifying value replaces
// the pending one and invalidates every earlier token; the returned token
// must be passed to Fire after Delay.
func (d *Debouncer) Input(value string) (Token, bool) {
	if utf8.RuneCountInString(value) < d.minChars {
		return 0, false
	}
	d.token++
	d.pending = value
	d.hasValue = true
	return d.token, true
}

// Fire commits the pending value if token is the latest one issued and the
// value differs from the last committed term.
func (d *Debouncer) Fire(token Token) (string, bool) {
	if token == 0 || token != d.token || !d.hasValue {
		return "", false
	}
	d.hasValue = false

	if d.pending == d.committed {
		return "", false
	}
	d.committed = d.pending
	return d.committed, true
}

// Pending reports whether a value is waiting for its quiet period.
func (d *Debouncer) Pending() bool {
	return d.hasValue
}

// LastCommitted returns the most recent committed term.
func (d *Debouncer) LastCommitted() string {
	return d.committed
}

// Reset drops the pending value and forgets the last committed term, so the
// same term can be committed again.
func (d *Debouncer) Reset() {
	d.token++
	d.pending = ""
	d.hasValue = false
	d.committed = ""
}
