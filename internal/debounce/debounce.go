// Package debounce delays a callback until its input has been quiet for a
// fixed interval. Interactive search uses it so keystrokes do not each
// become a service request.
package debounce

import (
	"sync"
	"time"
)

// Debouncer coalesces bursts of calls into one trailing invocation
type Debouncer struct {
	mu    sync.Mutex
	delay time.Duration
	timer *time.Timer
}

// New creates a debouncer with the given quiet interval
func New(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

// Do schedules fn to run after the quiet interval, cancelling any
// previously scheduled invocation
func (d *Debouncer) Do(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, fn)
}

// Stop cancels any pending invocation
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// Flush runs the pending invocation immediately, if any
func (d *Debouncer) Flush(fn func()) {
	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.mu.Unlock()
	fn()
}
