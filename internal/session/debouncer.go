package session

import (
	"sync"
	"time"
)

// Timer is the handle returned by an AfterFunc.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f after d. time.AfterFunc satisfies it through
// RealAfterFunc; tests substitute a fake clock.
type AfterFunc func(d time.Duration, f func()) Timer

// RealAfterFunc wraps time.AfterFunc.
func RealAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Debouncer is a trailing-edge timer: at most one run is pending, and every
// Schedule replaces the previous one. Once stopped it ignores new work.
type Debouncer struct {
	delay     time.Duration
	afterFunc AfterFunc

	mu      sync.Mutex
	timer   Timer
	gen     uint64
	stopped bool
}

// NewDebouncer returns a Debouncer firing delay after the last Schedule.
func NewDebouncer(delay time.Duration, afterFunc AfterFunc) *Debouncer {
	if afterFunc == nil {
		afterFunc = RealAfterFunc
	}
	return &Debouncer{delay: delay, afterFunc: afterFunc}
}

// Schedule cancels any pending run and arms a new one for fn.
func (d *Debouncer) Schedule(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	d.cancelLocked()
	gen := d.gen
	d.timer = d.afterFunc(d.delay, func() {
		d.mu.Lock()
		// A timer that lost the race with Stop may still run; the generation
		// tells it apart from the current one.
		if d.stopped || d.gen != gen {
			d.mu.Unlock()
			return
		}
		d.timer = nil
		d.mu.Unlock()
		fn()
	})
}

// Cancel drops the pending run, if any.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cancelLocked()
}

// Stop cancels the pending run and releases the debouncer for good.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cancelLocked()
	d.stopped = true
}

// Pending reports whether a run is armed.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

func (d *Debouncer) cancelLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.gen++
}
