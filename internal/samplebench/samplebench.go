// Package samplebench registers a couple of trivial benchmarks with
// pkg/harness purely so cmd/jmh has something real to list and run. A production build would instead blank-import the user's own
// annotation-processor output here.
package samplebench

import (
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/aarre/jmh/pkg/descriptor"
	"github.com/aarre/jmh/pkg/harness"
	"github.com/aarre/jmh/pkg/runtime"
)

// counterState is a Benchmark-scoped counter shared by every thread, used
// to show Trial-level Setup firing exactly once.
type counterState struct {
	n int64
}

func (c *counterState) Setup()    { atomic.StoreInt64(&c.n, 0) }
func (c *counterState) Teardown() {}

func init() {
	registerStringConcat()
	registerStringBuilder()
}

// registerStringConcat benchmarks naive "+=" string concatenation.
func registerStringConcat() {
	d := &descriptor.BenchmarkDescriptor{
		MethodName:     "stringConcat",
		OwnerType:      "samplebench.Strings",
		BenchmarkTypes: []descriptor.BenchmarkType{descriptor.Throughput},
		ReturnType:     "Result",
		Parameters: []descriptor.ParamBinding{
			{StateType: "samplebench.counterState", Scope: descriptor.ScopeBenchmark},
		},
		Helpers: map[string][]descriptor.HelperMethod{
			"samplebench.counterState": {
				{Name: "Setup", Level: descriptor.LevelTrial, Kind: descriptor.KindSetup},
			},
		},
	}

	factories := runtime.StateFactories{
		"samplebench.counterState": func() (interface{}, error) { return &counterState{}, nil },
	}

	body := func(loop *runtime.Loop, state []interface{}) error {
		cs := state[0].(*counterState)
		n := atomic.AddInt64(&cs.n, 1)
		s := ""
		for i := 0; i < 8; i++ {
			s += strconv.FormatInt(n, 10)
		}
		_ = s
		return nil
	}

	harness.Register(d, factories, body)
}

// registerStringBuilder benchmarks the same workload using strings.Builder,
// the idiomatic counterpart to registerStringConcat.
func registerStringBuilder() {
	d := &descriptor.BenchmarkDescriptor{
		MethodName:     "stringBuilder",
		OwnerType:      "samplebench.Strings",
		BenchmarkTypes: []descriptor.BenchmarkType{descriptor.Throughput},
		ReturnType:     "Result",
		Parameters: []descriptor.ParamBinding{
			{StateType: "samplebench.counterState", Scope: descriptor.ScopeBenchmark},
		},
		Helpers: map[string][]descriptor.HelperMethod{
			"samplebench.counterState": {
				{Name: "Setup", Level: descriptor.LevelTrial, Kind: descriptor.KindSetup},
			},
		},
	}

	factories := runtime.StateFactories{
		"samplebench.counterState": func() (interface{}, error) { return &counterState{}, nil },
	}

	body := func(loop *runtime.Loop, state []interface{}) error {
		cs := state[0].(*counterState)
		n := atomic.AddInt64(&cs.n, 1)
		var b strings.Builder
		for i := 0; i < 8; i++ {
			b.WriteString(strconv.FormatInt(n, 10))
		}
		_ = b.String()
		return nil
	}

	harness.Register(d, factories, body)
}
