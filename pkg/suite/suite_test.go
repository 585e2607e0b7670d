package suite

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/aarre/jmh/pkg/config"
	"github.com/aarre/jmh/pkg/descriptor"
	"github.com/aarre/jmh/pkg/runtime"
	"github.com/aarre/jmh/pkg/stategen"
)

type noopState struct{}

func (noopState) Setup()    {}
func (noopState) Teardown() {}

func buildEngine(t *testing.T, owner string) *runtime.Engine {
	t.Helper()

	d := &descriptor.BenchmarkDescriptor{
		MethodName:     "measure",
		OwnerType:      owner,
		BenchmarkTypes: []descriptor.BenchmarkType{descriptor.Throughput},
		ReturnType:     "Result",
		Parameters: []descriptor.ParamBinding{
			{StateType: "suite.noopState", Scope: descriptor.ScopeBenchmark},
		},
		Helpers: map[string][]descriptor.HelperMethod{
			"suite.noopState": {{Name: "Setup", Level: descriptor.LevelTrial, Kind: descriptor.KindSetup}},
		},
	}

	stub, err := stategen.Generate(d)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	factories := runtime.StateFactories{
		"suite.noopState": func() (interface{}, error) { return noopState{}, nil },
	}
	body := func(loop *runtime.Loop, state []interface{}) error { return nil }

	cfg := config.BenchmarkConfig{
		MaxThreads:            1,
		WarmupIterations:      0,
		MeasurementIterations: 1,
		IterationTime:         5 * time.Millisecond,
	}

	engine, err := runtime.NewEngine(stub, cfg, factories, body)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	return engine
}

func TestQueueRunsAllJobsInPriorityOrder(t *testing.T) {
	q := NewQueue(Config{})
	q.Add(Job{Engine: buildEngine(t, "suite.B"), Priority: 1})
	q.Add(Job{Engine: buildEngine(t, "suite.A"), Priority: 0})

	var mu sync.Mutex
	var order []string

	err := q.Run(context.Background(), func(d runtime.IterationData) {
		mu.Lock()
		order = append(order, d.BenchmarkName)
		mu.Unlock()
	}, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(order) != 2 {
		t.Fatalf("expected 2 iteration reports, got %d: %v", len(order), order)
	}
	if order[0] != "suite.A.measure" || order[1] != "suite.B.measure" {
		t.Errorf("expected priority order [suite.A.measure suite.B.measure], got %v", order)
	}
}

func TestQueueLen(t *testing.T) {
	q := NewQueue(Config{})
	if q.Len() != 0 {
		t.Fatalf("Len() = %d, want 0", q.Len())
	}
	q.Add(Job{Engine: buildEngine(t, "suite.A")})
	if q.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", q.Len())
	}
}
