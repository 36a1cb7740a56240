// Package watch turns raw file events into debounced manifest change notifications.
package watch

import (
	"maps"
	"slices"
	"sync"
	"time"
)

// Debouncer coalesces rapid file events into batches of distinct paths.
// A batch is delivered once no new path has been added for the window.
type Debouncer struct {
	mu       sync.Mutex
	pending  map[string]struct{}
	timer    *time.Timer
	window   time.Duration
	callback func(paths []string)
}

// NewDebouncer creates a new debouncer with the given time window and callback.
func NewDebouncer(window time.Duration, callback func(paths []string)) *Debouncer {
	return &Debouncer{
		pending:  make(map[string]struct{}),
		window:   window,
		callback: callback,
	}
}

// Add records path and restarts the quiet window.
func (d *Debouncer) Add(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.pending[path] = struct{}{}

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.window, d.fire)
}

func (d *Debouncer) fire() {
	paths := d.take(false)
	if len(paths) > 0 && d.callback != nil {
		d.callback(paths)
	}
}

// Flush delivers pending paths immediately and waits for the callback.
func (d *Debouncer) Flush() {
	paths := d.take(true)
	if len(paths) > 0 && d.callback != nil {
		d.callback(paths)
	}
}

// Stop discards pending paths and cancels the timer.
func (d *Debouncer) Stop() {
	d.take(true)
}

// take empties the pending set and returns it sorted. When stopTimer is set
// and the timer already fired, the firing goroutine owns the pending paths.
func (d *Debouncer) take(stopTimer bool) []string {
	d.mu.Lock()
	defer d.mu.Unlock()

	if stopTimer && d.timer != nil && !d.timer.Stop() {
		d.timer = nil
		return nil
	}
	d.timer = nil

	if len(d.pending) == 0 {
		return nil
	}
	paths := slices.Sorted(maps.Keys(d.pending))
	clear(d.pending)
	return paths
}
