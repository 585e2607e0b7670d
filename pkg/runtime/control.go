// Package runtime implements the execution engine: the per-thread Control
// and Loop objects a benchmark body observes, the Result arithmetic used to
// aggregate them, the StateRegistry that owns state object lifecycles, and
// the IterationCoordinator/ThreadGroupRunner pair that drives the whole
// thing.
package runtime

import "sync/atomic"

// Control is the per-iteration signal a running benchmark thread polls
// to find out whether it should keep measuring. It is shared by every
// thread in one iteration. WarmUp is fixed when the Control is created
// (the coordinator creates a fresh Control for each iteration);
// StopMeasurement starts false and flips to true once.
type Control struct {
	warmUp          int32
	stopMeasurement int32
}

// NewControl returns a Control for one iteration. warmUp indicates
// whether this is a warmup iteration; warmup iterations never contribute
// to the published Result.
func NewControl(warmUp bool) *Control {
	c := &Control{}
	if warmUp {
		atomic.StoreInt32(&c.warmUp, 1)
	}
	return c
}

// WarmUp reports whether this iteration's measurements should be
// discarded rather than folded into the published Result.
func (c *Control) WarmUp() bool {
	return atomic.LoadInt32(&c.warmUp) == 1
}

// StopMeasurement reports whether the iteration's time budget has
// elapsed; benchmark loops must stop calling the measured body once
// this is true.
func (c *Control) StopMeasurement() bool {
	return atomic.LoadInt32(&c.stopMeasurement) == 1
}

// RequestStop flips StopMeasurement to true. It is idempotent and safe
// to call from the coordinator's timer goroutine while worker threads
// are polling StopMeasurement concurrently.
func (c *Control) RequestStop() {
	atomic.StoreInt32(&c.stopMeasurement, 1)
}
