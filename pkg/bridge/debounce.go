package bridge

import (
	"sync"
	"time"
)

// debouncer coalesces rapid triggers into a single callback: each Trigger
// restarts the quiet window, so fn fires once per burst. Holding at most
// one armed timer gives the single-slot semantics the push path needs.
type debouncer struct {
	mu     sync.Mutex
	window time.Duration
	timer  *time.Timer
	fn     func()
}

func newDebouncer(window time.Duration, fn func()) *debouncer {
	return &debouncer{window: window, fn: fn}
}

// Trigger arms (or re-arms) the timer. A zero window fires immediately on
// its own goroutine.
func (d *debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	if d.window <= 0 {
		d.timer = nil
		go d.fn()
		return
	}
	d.timer = time.AfterFunc(d.window, d.fn)
}

// Stop cancels any armed timer. It does not wait for a running callback.
func (d *debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
