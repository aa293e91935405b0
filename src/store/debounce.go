package store

import (
	"sync"
	"time"

	"fire-server/src/metrics"
)

// Debouncer runs the most recently scheduled task once no newer task has
// been scheduled for the delay. It holds a single slot: scheduling replaces
// any pending task. Tasks never run concurrently.
type Debouncer struct {
	delay time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	pending func()
	gen     uint64
	running int

	run sync.Mutex
}

func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

func (d *Debouncer) Schedule(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.pending != nil {
		metrics.SupersededSaves.Inc()
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.pending = fn
	d.gen++
	gen := d.gen
	d.timer = time.AfterFunc(d.delay, func() { d.fire(gen) })
}

func (d *Debouncer) fire(gen uint64) {
	d.mu.Lock()
	if gen != d.gen || d.pending == nil {
		d.mu.Unlock()
		return
	}
	fn := d.take()
	d.mu.Unlock()

	d.exec(fn)
}

// take must be called with mu held.
func (d *Debouncer) take() func() {
	fn := d.pending
	d.pending = nil
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	if fn != nil {
		d.running++
	}
	return fn
}

func (d *Debouncer) exec(fn func()) {
	if fn == nil {
		return
	}
	d.run.Lock()
	defer func() {
		d.run.Unlock()
		d.mu.Lock()
		d.running--
		d.mu.Unlock()
	}()
	fn()
}

// Flush runs the pending task now, if any, and waits for it.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	fn := d.take()
	d.mu.Unlock()

	d.exec(fn)
	// wait for a task started by the timer
	d.run.Lock()
	d.run.Unlock()
}

// Busy reports whether a task is pending or running.
func (d *Debouncer) Busy() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending != nil || d.running > 0
}

// Stop discards the pending task.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pending = nil
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
