package runtime

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aarre/jmh/pkg/config"
	"github.com/aarre/jmh/pkg/descriptor"
	"github.com/aarre/jmh/pkg/stategen"
)

// invocationCounterState records Invocation-level Setup/Teardown calls,
// mirroring counterState but at the finer-grained level.
type invocationCounterState struct {
	setupCalls    int32
	teardownCalls int32
}

func (s *invocationCounterState) Setup() {
	atomic.AddInt32(&s.setupCalls, 1)
}

func (s *invocationCounterState) Teardown() {
	atomic.AddInt32(&s.teardownCalls, 1)
}

func invocationCounterDescriptor() *descriptor.BenchmarkDescriptor {
	return &descriptor.BenchmarkDescriptor{
		MethodName:     "increment",
		OwnerType:      "bench.InvocationCounter",
		BenchmarkTypes: []descriptor.BenchmarkType{descriptor.Throughput},
		ReturnType:     "Result",
		Parameters: []descriptor.ParamBinding{
			{StateType: "bench.invocationCounterState", Scope: descriptor.ScopeBenchmark},
		},
		Helpers: map[string][]descriptor.HelperMethod{
			"bench.invocationCounterState": {
				{Name: "Setup", Level: descriptor.LevelInvocation, Kind: descriptor.KindSetup},
				{Name: "Teardown", Level: descriptor.LevelInvocation, Kind: descriptor.KindTeardown},
			},
		},
	}
}

// TestInvocationTeardownRunsWhenBodyErrors verifies that a body error does
// not skip the Invocation-level Teardown for that same invocation: every
// Setup has a matching Teardown even on the failing invocation.
func TestInvocationTeardownRunsWhenBodyErrors(t *testing.T) {
	stub, err := stategen.Generate(invocationCounterDescriptor())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	state := &invocationCounterState{}
	factories := StateFactories{
		"bench.invocationCounterState": func() (interface{}, error) { return state, nil },
	}

	bodyErr := errors.New("body failed")
	body := func(loop *Loop, bound []interface{}) error {
		return bodyErr
	}

	cfg := config.BenchmarkConfig{
		MaxThreads:            1,
		WarmupIterations:      0,
		MeasurementIterations: 1,
		IterationTime:         20 * time.Millisecond,
		FailOnError:           false,
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
	if iterations[0].Status != StatusFailed {
		t.Errorf("Status = %v, want StatusFailed", iterations[0].Status)
	}

	setupCalls := atomic.LoadInt32(&state.setupCalls)
	teardownCalls := atomic.LoadInt32(&state.teardownCalls)
	if setupCalls == 0 {
		t.Fatal("expected at least one Invocation Setup call")
	}
	if teardownCalls != setupCalls {
		t.Errorf("Invocation Teardown called %d times, want %d (one per Setup)", teardownCalls, setupCalls)
	}
}
