// Package suite orders and rate-limits execution of the multiple
// benchmark methods a single CLI invocation usually resolves (the
// BenchmarkList): a priority-ordered queue with bounded-concurrency
// dispatch, stripped of anything specific to a cloud orchestration
// domain (region preference, spot pricing, quota limits, time-of-day
// windows).
package suite

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"

	"github.com/aarre/jmh/pkg/runtime"
)

// Job wraps one compiled benchmark for scheduling. Jobs run in ascending
// Priority; jobs with equal Priority (the zero value unless a caller sets
// it) run in the order they were added.
type Job struct {
	Engine   *runtime.Engine
	Priority int
}

// Config controls how a Queue executes its jobs.
type Config struct {
	// MaxConcurrentJobs bounds how many benchmarks run at once. JMH never
	// runs two benchmark methods' measured regions concurrently in one
	// process, so the default is 1; callers that know their benchmarks
	// are safe to interleave (e.g. they touch disjoint resources) may
	// raise it for trusted batch use.
	MaxConcurrentJobs int
	Logger            *log.Logger
}

func (c Config) withDefaults() Config {
	if c.MaxConcurrentJobs <= 0 {
		c.MaxConcurrentJobs = 1
	}
	if c.Logger == nil {
		c.Logger = log.Default()
	}
	return c
}

// Queue holds jobs in priority order and dispatches them with a bounded
// concurrency semaphore.
type Queue struct {
	cfg  Config
	jobs []Job
}

// NewQueue returns a Queue configured by cfg.
func NewQueue(cfg Config) *Queue {
	return &Queue{cfg: cfg.withDefaults()}
}

// Add enqueues a job.
func (q *Queue) Add(job Job) {
	q.jobs = append(q.jobs, job)
}

// Run dispatches every queued job in priority order, waiting for all to
// finish before returning. onIteration/onError are invoked from whichever
// goroutine is running that job, so they must be safe for concurrent use
// when MaxConcurrentJobs > 1.
func (q *Queue) Run(ctx context.Context, onIteration func(runtime.IterationData), onError func(benchmarkName string, err error)) error {
	ordered := make([]Job, len(q.jobs))
	copy(ordered, q.jobs)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Priority < ordered[j].Priority })

	semaphore := make(chan struct{}, q.cfg.MaxConcurrentJobs)
	var wg sync.WaitGroup

	for _, job := range ordered {
		job := job
		select {
		case <-ctx.Done():
			return fmt.Errorf("suite: %w", ctx.Err())
		case semaphore <- struct{}{}:
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() { <-semaphore }()

			q.cfg.Logger.Printf("[suite] running %s", job.Engine.Stub.Descriptor.QualifiedName())
			runner := &runtime.SuiteRunner{Engines: []*runtime.Engine{job.Engine}}
			runner.Run(onIteration, onError)
		}()
	}

	wg.Wait()
	return nil
}

// Len returns the number of queued jobs.
func (q *Queue) Len() int {
	return len(q.jobs)
}
