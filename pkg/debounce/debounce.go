// Package debounce coalesces bursts of values into a single delayed handler
// call. A Debouncer arms a timer on every Trigger and only invokes its handler
// once the window passes without another Trigger, passing the most recent
// value.
package debounce

import (
	"sync"
	"time"
)

// DefaultWindow is the quiet period used when none is configured.
const DefaultWindow = time.Second

// Debouncer delays handler calls until Trigger stops being called for a full
// window. After Stop no handler call happens, including ones already armed.
type Debouncer[T any] struct {
	mu      sync.Mutex
	clock   Clock
	window  time.Duration
	handler func(T)

	timer   Timer
	latest  T
	pending bool
	gen     uint64
	stopped bool
}

// New builds a debouncer. A nil clock uses SystemClock and a non-positive
// window uses DefaultWindow.
func New[T any](clock Clock, window time.Duration, handler func(T)) *Debouncer[T] {
	if clock == nil {
		clock = SystemClock()
	}
	if window <= 0 {
		window = DefaultWindow
	}
	return &Debouncer[T]{clock: clock, window: window, handler: handler}
}

// Window returns the configured quiet period.
func (d *Debouncer[T]) Window() time.Duration { return d.window }

// Trigger records v as the latest value and rearms the timer.
func (d *Debouncer[T]) Trigger(v T) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	d.latest = v
	d.pending = true
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.timer = d.clock.AfterFunc(d.window, func() { d.fire(gen) })
}

// Flush runs the handler immediately with the pending value, if any, and
// cancels the timer.
func (d *Debouncer[T]) Flush() {
	d.mu.Lock()
	if d.stopped || !d.pending {
		d.mu.Unlock()
		return
	}
	value := d.take()
	d.mu.Unlock()
	d.call(value)
}

// Stop cancels the timer and drops the pending value. Later Triggers are
// ignored. A handler call that already started is not interrupted; owners
// that need a hard guarantee check their own closed state in the handler.
func (d *Debouncer[T]) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	d.take()
}

// Pending reports whether a handler call is armed.
func (d *Debouncer[T]) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending
}

// Stopped reports whether Stop was called.
func (d *Debouncer[T]) Stopped() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.stopped
}

func (d *Debouncer[T]) fire(gen uint64) {
	d.mu.Lock()
	if d.stopped || !d.pending || gen != d.gen {
		d.mu.Unlock()
		return
	}
	value := d.take()
	d.mu.Unlock()
	d.call(value)
}

// take clears the armed state and returns the latest value. Callers hold mu.
func (d *Debouncer[T]) take() T {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.gen++
	value := d.latest
	var zero T
	d.latest = zero
	d.pending = false
	return value
}

func (d *Debouncer[T]) call(value T) {
	if d.handler != nil {
		d.handler(value)
	}
}
