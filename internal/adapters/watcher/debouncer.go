package watcher

import (
	"sync"
	"time"
	"unique"
)

// DefaultDebounceWindow is the default time window for coalescing file
// events. Editors often write a file more than once per save, and a re-run
// shells out to pip, so the window errs on the generous side.
const DefaultDebounceWindow = 300 * time.Millisecond

// Debouncer coalesces bursts of file events into a single callback. Editors
// commonly emit several events per save; the runner should only re-run once.
type Debouncer struct {
	mu       sync.Mutex
	delay    time.Duration
	timer    *time.Timer
	pending  map[unique.Handle[string]]struct{}
	callback func(paths []string)
	stopped  bool
}

// NewDebouncer creates a debouncer that invokes callback with the accumulated
// paths once delay has elapsed without a new event arriving.
func NewDebouncer(delay time.Duration, callback func(paths []string)) *Debouncer {
	return &Debouncer{
		delay:    delay,
		pending:  make(map[unique.Handle[string]]struct{}),
		callback: callback,
	}
}

// Add records a path and resets the delay window.
func (d *Debouncer) Add(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}

	d.pending[unique.Make(path)] = struct{}{}

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, d.fire)
}

// Flush invokes the callback immediately with any pending paths.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	paths := d.drainLocked()
	d.mu.Unlock()

	if len(paths) > 0 && d.callback != nil {
		d.callback(paths)
	}
}

// Stop cancels any pending callback and discards accumulated paths.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.pending = make(map[unique.Handle[string]]struct{})
}

func (d *Debouncer) fire() {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	d.timer = nil
	paths := d.drainLocked()
	d.mu.Unlock()

	if len(paths) > 0 && d.callback != nil {
		d.callback(paths)
	}
}

// drainLocked empties the pending set. Callers must hold d.mu.
func (d *Debouncer) drainLocked() []string {
	paths := make([]string, 0, len(d.pending))
	for handle := range d.pending {
		paths = append(paths, handle.Value())
	}
	d.pending = make(map[unique.Handle[string]]struct{})
	return paths
}
