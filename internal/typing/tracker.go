// Package typing holds the transient is-typing flag per connection.
// A flag arms a timeout when set; if the client never sends an explicit
// stop (network drop, tab close) the tracker expires the flag itself so
// the room is not stuck on "is typing…".
package typing

import (
	"sync"
	"time"
)

// DefaultTimeout is how long a typing flag stays set without an
// explicit stop.
const DefaultTimeout = 3 * time.Second

// ExpireFunc is invoked with the connection ID when a typing flag
// expires without an explicit stop. It fires at most once per Set.
type ExpireFunc func(id string)

// Tracker records transient typing state. All state is process-scoped;
// nothing is persisted.
type Tracker struct {
	timeout  time.Duration
	onExpire ExpireFunc
	timers   map[string]*time.Timer
	mu       sync.Mutex
	stopped  bool
}

// NewTracker creates a tracker. timeout <= 0 falls back to
// DefaultTimeout. onExpire may be nil.
func NewTracker(timeout time.Duration, onExpire ExpireFunc) *Tracker {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Tracker{
		timeout:  timeout,
		onExpire: onExpire,
		timers:   make(map[string]*time.Timer),
	}
}

// Set records the typing state for a connection. Setting true arms (or
// re-arms) the expiry timer; setting false cancels it.
func (t *Tracker) Set(id string, isTyping bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.stopped {
		return
	}

	if timer, ok := t.timers[id]; ok {
		timer.Stop()
		delete(t.timers, id)
	}

	if !isTyping {
		return
	}

	var timer *time.Timer
	timer = time.AfterFunc(t.timeout, func() {
		t.expire(id, timer)
	})
	t.timers[id] = timer
}

// IsTyping reports whether a connection currently has the flag set.
func (t *Tracker) IsTyping(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.timers[id]
	return ok
}

// Clear cancels any pending expiry for a connection. Used on explicit
// stop and on disconnect; unknown IDs are a no-op.
func (t *Tracker) Clear(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if timer, ok := t.timers[id]; ok {
		timer.Stop()
		delete(t.timers, id)
	}
}

// Stop cancels all pending timers and rejects further Sets.
func (t *Tracker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stopped = true
	for id, timer := range t.timers {
		timer.Stop()
		delete(t.timers, id)
	}
}

// expire clears the flag and notifies, unless an explicit stop or a
// re-arm won the race.
func (t *Tracker) expire(id string, timer *time.Timer) {
	t.mu.Lock()
	if current, ok := t.timers[id]; !ok || current != timer || t.stopped {
		t.mu.Unlock()
		return
	}
	delete(t.timers, id)
	onExpire := t.onExpire
	t.mu.Unlock()

	if onExpire != nil {
		onExpire(id)
	}
}
