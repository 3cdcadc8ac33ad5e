// Package watcher reloads feed files when they change on disk, coalescing
// bursts of filesystem events per file.
package watcher

import (
	"sync"
	"time"
)

// DefaultDebounceDuration is the default debounce window.
const DefaultDebounceDuration = 250 * time.Millisecond

// Debouncer coalesces rapid triggers per key into a single callback. Keys are
// independent: a burst on one file never delays or cancels another.
type Debouncer struct {
	duration time.Duration

	mu      sync.Mutex
	seq     uint64 // shared by all keys, never reused
	pending map[string]*pendingCall
}

type pendingCall struct {
	timer *time.Timer
	seq   uint64
}

// NewDebouncer creates a new Debouncer with the specified duration.
// If duration is 0, DefaultDebounceDuration is used.
func NewDebouncer(duration time.Duration) *Debouncer {
	if duration == 0 {
		duration = DefaultDebounceDuration
	}
	return &Debouncer{
		duration: duration,
		pending:  make(map[string]*pendingCall),
	}
}

// Trigger schedules callback for key after the debounce duration, replacing
// any callback still pending for the same key.
func (d *Debouncer) Trigger(key string, callback func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	call, ok := d.pending[key]
	if !ok {
		call = &pendingCall{}
		d.pending[key] = call
	} else if call.timer != nil {
		call.timer.Stop()
	}
	d.seq++
	seq := d.seq
	call.seq = seq

	call.timer = time.AfterFunc(d.duration, func() {
		if !d.claim(key, seq) {
			return
		}
		callback()
	})
}

// claim reports whether seq is still the latest trigger for key. A timer
// whose Stop lost the race with firing sees a newer seq and backs off, even
// when the key was canceled and triggered again in between.
func (d *Debouncer) claim(key string, seq uint64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	call, ok := d.pending[key]
	if !ok || call.seq != seq {
		return false
	}
	delete(d.pending, key)
	return true
}

// Cancel drops every pending callback.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	for key, call := range d.pending {
		if call.timer != nil {
			call.timer.Stop()
		}
		delete(d.pending, key)
	}
}

// Pending returns the number of keys with a scheduled callback.
func (d *Debouncer) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pending)
}

// Duration returns the debounce duration.
func (d *Debouncer) Duration() time.Duration {
	return d.duration
}
