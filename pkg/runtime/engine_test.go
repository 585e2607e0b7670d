package runtime

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/aarre/jmh/pkg/config"
	"github.com/aarre/jmh/pkg/descriptor"
	"github.com/aarre/jmh/pkg/stategen"
)

// counterState is a minimal @State-like type: one exported Setup and one
// exported Teardown method, both recording that they ran.
type counterState struct {
	setupCalls    int32
	teardownCalls int32
}

func (s *counterState) Setup() {
	atomic.AddInt32(&s.setupCalls, 1)
}

func (s *counterState) Teardown() {
	atomic.AddInt32(&s.teardownCalls, 1)
}

func counterDescriptor() *descriptor.BenchmarkDescriptor {
	return &descriptor.BenchmarkDescriptor{
		MethodName:     "increment",
		OwnerType:      "bench.Counter",
		BenchmarkTypes: []descriptor.BenchmarkType{descriptor.Throughput},
		ReturnType:     "Result",
		Parameters: []descriptor.ParamBinding{
			{StateType: "bench.counterState", Scope: descriptor.ScopeBenchmark},
		},
		Helpers: map[string][]descriptor.HelperMethod{
			"bench.counterState": {
				{Name: "Setup", Level: descriptor.LevelTrial, Kind: descriptor.KindSetup},
				{Name: "Teardown", Level: descriptor.LevelTrial, Kind: descriptor.KindTeardown},
			},
		},
	}
}

func TestEngineRunsTrialSetupOnceAcrossThreads(t *testing.T) {
	stub, err := stategen.Generate(counterDescriptor())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	state := &counterState{}
	factories := StateFactories{
		"bench.counterState": func() (interface{}, error) { return state, nil },
	}

	var invocations int64
	body := func(loop *Loop, bound []interface{}) error {
		atomic.AddInt64(&invocations, 1)
		return nil
	}

	cfg := config.BenchmarkConfig{
		MaxThreads:            4,
		WarmupIterations:      1,
		MeasurementIterations: 1,
		IterationTime:         20 * time.Millisecond,
	}

	engine, err := NewEngine(stub, cfg, factories, body)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}

	coordinator := NewIterationCoordinator(engine)

	var iterations []IterationData
	if err := coordinator.Run(func(d IterationData) { iterations = append(iterations, d) }); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(iterations) != 2 {
		t.Fatalf("expected 2 iterations (1 warmup + 1 measurement), got %d", len(iterations))
	}
	if !iterations[0].WarmUp {
		t.Error("expected first iteration to be marked WarmUp")
	}
	if iterations[1].WarmUp {
		t.Error("expected second iteration to be measurement, not WarmUp")
	}

	if got := atomic.LoadInt32(&state.setupCalls); got != 1 {
		t.Errorf("Trial Setup called %d times across 4 threads, want exactly 1", got)
	}
	if got := atomic.LoadInt32(&state.teardownCalls); got != 1 {
		t.Errorf("Trial Teardown called %d times, want exactly 1", got)
	}
	if atomic.LoadInt64(&invocations) == 0 {
		t.Error("expected the benchmark body to run at least once")
	}
}

func TestEngineRejectsMissingStateFactory(t *testing.T) {
	stub, err := stategen.Generate(counterDescriptor())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	_, err = NewEngine(stub, config.BenchmarkConfig{}, StateFactories{}, func(*Loop, []interface{}) error { return nil })
	if err == nil {
		t.Fatal("expected error for missing state factory")
	}
}

func TestSingleShotRunsExactlyOnceRegardlessOfIterationTime(t *testing.T) {
	d := counterDescriptor()
	d.BenchmarkTypes = []descriptor.BenchmarkType{descriptor.SingleShotTime}
	stub, err := stategen.Generate(d)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	state := &counterState{}
	factories := StateFactories{"bench.counterState": func() (interface{}, error) { return state, nil }}

	var invocations int64
	body := func(loop *Loop, bound []interface{}) error {
		atomic.AddInt64(&invocations, 1)
		return nil
	}

	cfg := config.BenchmarkConfig{
		MaxThreads:            1,
		WarmupIterations:      0,
		MeasurementIterations: 1,
		IterationTime:         time.Hour, // would hang a timed loop; ignored for single-shot
	}

	engine, err := NewEngine(stub, cfg, factories, body)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}

	var iterations []IterationData
	if err := NewIterationCoordinator(engine).Run(func(d IterationData) { iterations = append(iterations, d) }); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(iterations) != 1 {
		t.Fatalf("expected 1 iteration, got %d", len(iterations))
	}
	if iterations[0].Result.Ops != 1 {
		t.Errorf("Ops = %d, want 1", iterations[0].Result.Ops)
	}
	if atomic.LoadInt64(&invocations) != 1 {
		t.Errorf("body invoked %d times, want 1", invocations)
	}
}
