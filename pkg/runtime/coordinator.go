package runtime

import (
	"context"
	"fmt"

	"github.com/aarre/jmh/pkg/descriptor"
	"github.com/aarre/jmh/pkg/profiling"
)

// IterationStatus reports whether an iteration completed or failed.
type IterationStatus int

const (
	// StatusOk is an iteration that ran to completion.
	StatusOk IterationStatus = iota
	// StatusFailed is an iteration a Setup/Teardown helper or the
	// benchmark body aborted. Its timing is discarded.
	StatusFailed
)

func (s IterationStatus) String() string {
	if s == StatusFailed {
		return "Failed"
	}
	return "Ok"
}

// IterationData is what the coordinator hands to each observer after one
// iteration: the aggregated Result plus enough context to report it.
type IterationData struct {
	BenchmarkName string
	Index         int
	WarmUp        bool
	Result        Result
	Score         float64

	Status        IterationStatus
	FailureReason string

	// OperationCounts is each worker thread's raw invocation count for
	// this iteration, in thread order. Nil for a Failed iteration.
	OperationCounts []int64
	// ProfilerResults is the opaque value the engine's ProfilerHook
	// returned from EndProfile, unexamined by the core.
	ProfilerResults interface{}
}

// IterationCoordinator drives one Engine's benchmark through its full
// Trial: Trial-level Setup, the warmup and measurement iterations, and
// Trial-level Teardown, reporting one IterationData per iteration.
type IterationCoordinator struct {
	engine *Engine
}

// NewIterationCoordinator returns a coordinator for engine.
func NewIterationCoordinator(engine *Engine) *IterationCoordinator {
	return &IterationCoordinator{engine: engine}
}

// Run executes the full Trial and calls onIteration once per completed
// iteration, warmup iterations included (callers that only want
// measurement data should check IterationData.WarmUp).
//
// If cfg.FailOnError is true, the first helper or body error aborts the
// run immediately, still attempting Trial-level Teardown for whatever
// state was constructed. If false, the failing iteration is reported to
// onIteration with Status set to StatusFailed and FailureReason holding
// the error text, and the run continues.
func (c *IterationCoordinator) Run(onIteration func(IterationData)) error {
	e := c.engine
	threadIDs := make([]int, e.Config.MaxThreads)
	for i := range threadIDs {
		threadIDs[i] = i
	}

	runner, err := newThreadGroupRunner(e, threadIDs)
	if err != nil {
		return err
	}
	defer runner.shutdown()

	trialErr := e.runPeriod(e.Stub.Setup[descriptor.LevelTrial], threadIDs)
	defer func() {
		if tdErr := e.runPeriod(e.Stub.Teardown[descriptor.LevelTrial], threadIDs); tdErr != nil {
			e.Logger.Printf("[coordinator] trial teardown failed for %s: %v", e.Stub.Descriptor.QualifiedName(), tdErr)
		}
	}()
	if trialErr != nil {
		return fmt.Errorf("trial setup: %w", trialErr)
	}

	total := e.Config.WarmupIterations + e.Config.MeasurementIterations
	for i := 0; i < total; i++ {
		warmUp := i < e.Config.WarmupIterations
		data, err := c.runIteration(runner, threadIDs, i, warmUp)
		if err != nil {
			if e.Config.FailOnError {
				return fmt.Errorf("iteration %d: %w", i, err)
			}
			e.Logger.Printf("[coordinator] iteration %d of %s failed: %v", i, e.Stub.Descriptor.QualifiedName(), err)
			onIteration(IterationData{
				BenchmarkName: e.Stub.Descriptor.QualifiedName(),
				Index:         i,
				WarmUp:        warmUp,
				Status:        StatusFailed,
				FailureReason: err.Error(),
			})
			continue
		}
		onIteration(data)
	}

	return nil
}

func (c *IterationCoordinator) runIteration(runner *threadGroupRunner, threadIDs []int, index int, warmUp bool) (IterationData, error) {
	e := c.engine
	empty := IterationData{}

	if err := e.runPeriod(e.Stub.Setup[descriptor.LevelIteration], threadIDs); err != nil {
		return empty, fmt.Errorf("iteration setup: %w", err)
	}

	sample := profiling.Sample{
		BenchmarkName:  e.Stub.Descriptor.QualifiedName(),
		IterationIndex: index,
		WarmUp:         warmUp,
	}
	if perr := e.Profiler.StartProfile(context.Background(), sample); perr != nil {
		e.Logger.Printf("[coordinator] profiler start failed for %s: %v", sample.BenchmarkName, perr)
	}

	control := NewControl(warmUp)
	results, err := runner.runIteration(control, e.Config.IterationTime, singleShot(e.Stub.Descriptor))

	profilerResult, perr := e.Profiler.EndProfile(context.Background(), sample)
	if perr != nil {
		e.Logger.Printf("[coordinator] profiler end failed for %s: %v", sample.BenchmarkName, perr)
	}

	teardownErr := e.runPeriod(e.Stub.Teardown[descriptor.LevelIteration], threadIDs)

	if err != nil {
		return empty, fmt.Errorf("measured region: %w", err)
	}
	if teardownErr != nil {
		return empty, fmt.Errorf("iteration teardown: %w", teardownErr)
	}

	benchmarkType := descriptor.Throughput
	if len(e.Stub.Descriptor.BenchmarkTypes) > 0 {
		benchmarkType = e.Stub.Descriptor.BenchmarkTypes[0]
	}
	agg := Aggregate(benchmarkType, results)

	opCounts := make([]int64, len(results))
	for i, r := range results {
		opCounts[i] = r.Ops
	}

	return IterationData{
		BenchmarkName:   e.Stub.Descriptor.QualifiedName(),
		Index:           index,
		WarmUp:          warmUp,
		Result:          agg,
		Score:           agg.Score(benchmarkType),
		Status:          StatusOk,
		OperationCounts: opCounts,
		ProfilerResults: profilerResult,
	}, nil
}

// singleShot reports whether this descriptor should run exactly one
// invocation per iteration regardless of the configured iteration time.
func singleShot(d *descriptor.BenchmarkDescriptor) bool {
	for _, t := range d.BenchmarkTypes {
		if t == descriptor.SingleShotTime {
			return true
		}
	}
	return false
}

