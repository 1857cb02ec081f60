// Package debounce delays a callback until its input has been quiet for a
// fixed window. Only the most recent value of a burst is delivered.
package debounce

import (
	"sync"
	"time"
)

const (
	// SearchDelay is the quiet window applied to search input.
	SearchDelay = 300 * time.Millisecond
	// AutoSaveDelay is the quiet window applied to autosaved drafts.
	AutoSaveDelay = 1000 * time.Millisecond
)

// Debouncer delivers the last value passed to Trigger once Delay has elapsed
// without another Trigger. It is safe for concurrent use.
//
// Callbacks run on their own goroutine and must not call Stop.
type Debouncer[T any] struct {
	delay time.Duration
	fn    func(T)

	mu      sync.Mutex
	timer   *time.Timer
	gen     uint64
	value   T
	pending bool
	stopped bool
	running sync.WaitGroup
}

// New returns a Debouncer that calls fn after delay of inactivity.
func New[T any](delay time.Duration, fn func(T)) *Debouncer[T] {
	return &Debouncer[T]{delay: delay, fn: fn}
}

// Trigger records v and restarts the quiet window.
// It returns false once the Debouncer has been stopped.
func (d *Debouncer[T]) Trigger(v T) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return false
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.value = v
	d.pending = true
	d.timer = time.AfterFunc(d.delay, func() { d.fire(gen) })
	return true
}

func (d *Debouncer[T]) fire(gen uint64) {
	d.mu.Lock()
	// A newer Trigger, Cancel or Flush superseded this timer.
	if d.stopped || !d.pending || gen != d.gen {
		d.mu.Unlock()
		return
	}
	v := d.take()
	d.running.Add(1)
	d.mu.Unlock()

	defer d.running.Done()
	d.fn(v)
}

// take clears the pending value. Callers hold d.mu.
func (d *Debouncer[T]) take() T {
	v := d.value
	var zero T
	d.value = zero
	d.pending = false
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	return v
}

// Pending reports whether a value is waiting for its window to elapse.
func (d *Debouncer[T]) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending
}

// Cancel drops the pending value, if any.
func (d *Debouncer[T]) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.pending {
		d.take()
	}
}

// Flush delivers the pending value immediately on the calling goroutine.
// It reports whether a value was delivered.
func (d *Debouncer[T]) Flush() bool {
	d.mu.Lock()
	if d.stopped || !d.pending {
		d.mu.Unlock()
		return false
	}
	v := d.take()
	d.running.Add(1)
	d.mu.Unlock()

	defer d.running.Done()
	d.fn(v)
	return true
}

// Stop discards any pending value and waits for running callbacks to return.
// Later Triggers are ignored.
func (d *Debouncer[T]) Stop() {
	d.mu.Lock()
	if !d.stopped {
		d.stopped = true
		d.take()
	}
	d.mu.Unlock()
	d.running.Wait()
}
