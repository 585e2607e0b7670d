// Package config holds the BenchmarkConfig knobs a benchmark run is
// configured with, following a plain-struct-plus-withDefaults
// convention rather than a flag/viper layer.
package config

import "time"

// ExecutorType names a worker pool shape. Resolve accepts every value
// below and defaults to ExecutorFixed, but the runtime does not read it:
// whichever value is set, each run starts one goroutine per thread for
// its lifetime and shuts them down when the run ends.
type ExecutorType string

const (
	// ExecutorFixed names exactly max_threads goroutines for the run's
	// lifetime. The default: JMH's common case.
	ExecutorFixed ExecutorType = "fixed"
	// ExecutorCached names a pool that grows and shrinks on demand.
	ExecutorCached ExecutorType = "cached"
	// ExecutorForkJoin names a work-stealing pool private to this run.
	ExecutorForkJoin ExecutorType = "forkjoin"
	// ExecutorSharedForkJoin names a work-stealing pool owned by the
	// caller.
	ExecutorSharedForkJoin ExecutorType = "shared_forkjoin"
)

// BenchmarkConfig is the resolved configuration for one benchmark run,
// built by the CLI front end (cmd/jmh) and handed to the core untouched.
type BenchmarkConfig struct {
	// MaxThreads is the total thread count across all thread groups.
	MaxThreads int
	// ThreadGroups partitions MaxThreads threads into named groups for
	// producer/consumer-style @Group benchmarks, via GroupForThread's
	// dispatch formula below. A single-element slice equal to MaxThreads
	// means "no grouping".
	ThreadGroups []int
	// WarmupIterations and MeasurementIterations bound the iteration
	// loop.
	WarmupIterations      int
	MeasurementIterations int
	// IterationTime is the nominal duration of one iteration under
	// Throughput/AverageTime benchmark types.
	IterationTime time.Duration
	// BatchSize mirrors JMH's batch size knob. Resolve defaults it to 1,
	// but the runtime does not read it: timed iterations check Control
	// after every invocation, and a SingleShotTime iteration runs exactly
	// one invocation per thread.
	BatchSize int
	// FailOnError stops a benchmark's run at the first error from its
	// body or a helper; otherwise the failing iteration is recorded as
	// Failed and the run continues with the next iteration.
	FailOnError bool
	// Executor names the thread host shape; see ExecutorType.
	Executor ExecutorType
}

// withDefaults fills zero-valued fields with JMH's conventional
// defaults and returns the receiver for chaining.
func (c BenchmarkConfig) withDefaults() BenchmarkConfig {
	if c.MaxThreads <= 0 {
		c.MaxThreads = 1
	}
	if len(c.ThreadGroups) == 0 {
		c.ThreadGroups = []int{c.MaxThreads}
	}
	// Zero warmup iterations is a valid setting (measurement starts at
	// once); it is only replaced by the default when MeasurementIterations
	// is unset too, i.e. when no iteration counts were given at all.
	if c.WarmupIterations < 0 || (c.WarmupIterations == 0 && c.MeasurementIterations <= 0) {
		c.WarmupIterations = 5
	}
	if c.MeasurementIterations <= 0 {
		c.MeasurementIterations = 5
	}
	if c.IterationTime <= 0 {
		c.IterationTime = time.Second
	}
	if c.BatchSize <= 0 {
		c.BatchSize = 1
	}
	if c.Executor == "" {
		c.Executor = ExecutorFixed
	}
	return c
}

// Resolve validates and defaults a BenchmarkConfig. Callers should use
// the returned value, not the original.
func Resolve(c BenchmarkConfig) (BenchmarkConfig, error) {
	c = c.withDefaults()

	sum := 0
	for _, n := range c.ThreadGroups {
		if n <= 0 {
			return c, ErrInvalidThreadGroup
		}
		sum += n
	}
	if sum != c.MaxThreads {
		return c, ErrThreadGroupMismatch
	}

	return c, nil
}

// GroupForThread returns the index g of the smallest thread group such
// that the cumulative thread count through g exceeds t.
func GroupForThread(threadGroups []int, t int) int {
	cumulative := 0
	for g, n := range threadGroups {
		cumulative += n
		if cumulative > t {
			return g
		}
	}
	return len(threadGroups) - 1
}
