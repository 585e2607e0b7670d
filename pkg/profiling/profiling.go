// Package profiling implements the ProfilerHook capability: an external
// collaborator the core calls into around a measured region without
// knowing what it does internally.
package profiling

import "context"

// Sample identifies which iteration a profiling span belongs to.
type Sample struct {
	BenchmarkName string
	IterationIndex int
	WarmUp         bool
}

// ProfilerHook brackets a measured region. StartProfile is called
// immediately before a thread group's invocation loop begins; EndProfile
// is called immediately after it stops, before results are aggregated,
// and returns an opaque result the caller attaches to the iteration's
// IterationData unexamined. Implementations must not block the measured
// region for longer than their own bookkeeping requires — the core does
// not subtract profiler overhead from the reported Result.
type ProfilerHook interface {
	StartProfile(ctx context.Context, sample Sample) error
	EndProfile(ctx context.Context, sample Sample) (interface{}, error)
}

// NoopProfiler implements ProfilerHook with no-ops. It is the default
// when a run is not configured with a profiler.
type NoopProfiler struct{}

func (NoopProfiler) StartProfile(ctx context.Context, sample Sample) error { return nil }
func (NoopProfiler) EndProfile(ctx context.Context, sample Sample) (interface{}, error) {
	return nil, nil
}
