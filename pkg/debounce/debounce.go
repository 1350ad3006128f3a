// Package debounce provides a cancellable one-shot timer detached from any UI
// or request lifecycle. Scheduling replaces whatever was pending, so only the
// last function scheduled within the delay window ever runs.
package debounce

import (
	"sync"
	"time"
)

// Debouncer coalesces rapid calls into a single deferred execution.
type Debouncer struct {
	mu    sync.Mutex
	timer *time.Timer
	gen   uint64
}

// New returns an idle Debouncer.
func New() *Debouncer {
	return &Debouncer{}
}

// Schedule arms fn to run after delay, cancelling any pending run first.
func (d *Debouncer) Schedule(delay time.Duration, fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen

	d.timer = time.AfterFunc(delay, func() {
		// A Stop that loses the race with the firing timer is still honored
		// here: the generation moved on, so the stale callback does nothing.
		d.mu.Lock()
		current := d.gen == gen
		d.mu.Unlock()
		if current {
			fn()
		}
	})
}

// Cancel drops the pending run, if any.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.gen++
}
