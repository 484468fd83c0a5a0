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

package debounce

import (
	"sync"
	"time"
)

// Timer drives a Debouncer with real timers and delivers committed terms to
// emit from the timer goroutine. It is safe for concurrent use. emit runs
// with the Timer locked and must not call back into it.
type Timer struct {
	mu    sync.Mutex
	d     *Debouncer
	timer *time.Timer
	emit  func(term string)
}

// NewTimer creates a Timer around d. emit is called once per committed term.
func NewTimer(d *Debouncer, emit func(term string)) *Timer {
	return &Timer{d: d, emit: emit}
}

// Input feeds a raw value and, when it qualifies, restarts the quiet period.
func (t *Timer) Input(value string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	token, ok := t.d.Input(value)
	if !ok {
		return
	}

	if t.timer != nil {
		t.timer.Stop()
	}
	t.timer = time.AfterFunc(t.d.Delay(), func() {
		t.mu.Lock()
		defer t.mu.Unlock()

		if term, ok := t.d.Fire(token); ok {
			t.emit(term)
		}
	})
}

// Flush commits the pending value immediately instead of waiting for the
// quiet period. Once Flush returns, every commit has been emitted.
func (t *Timer) Flush() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	if term, ok := t.d.Fire(t.d.token); ok {
		t.emit(term)
	}
}

// Stop cancels any pending commit.
func (t *Timer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.d.token++
	t.d.hasValue = false
}
