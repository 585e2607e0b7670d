package harness

import (
	"testing"

	"github.com/aarre/jmh/pkg/config"
	"github.com/aarre/jmh/pkg/descriptor"
	"github.com/aarre/jmh/pkg/runtime"
)

type harnessState struct{}

func (harnessState) Setup()    {}
func (harnessState) Teardown() {}

func registerForTest(owner, method string) {
	d := &descriptor.BenchmarkDescriptor{
		MethodName:     method,
		OwnerType:      owner,
		BenchmarkTypes: []descriptor.BenchmarkType{descriptor.Throughput},
		ReturnType:     "Result",
		Parameters: []descriptor.ParamBinding{
			{StateType: "harness.harnessState", Scope: descriptor.ScopeBenchmark},
		},
		Helpers: map[string][]descriptor.HelperMethod{
			"harness.harnessState": {},
		},
	}
	factories := runtime.StateFactories{
		"harness.harnessState": func() (interface{}, error) { return harnessState{}, nil },
	}
	body := func(loop *runtime.Loop, state []interface{}) error { return nil }
	Register(d, factories, body)
}

func TestMatchPattern(t *testing.T) {
	cases := []struct {
		name, pattern string
		want          bool
	}{
		{"a.B.measure", "", true},
		{"a.B.measure", "B.measure", true},
		{"a.B.measure", "nope", false},
		{"a.B.measure", "a.B.measure", true},
	}
	for _, c := range cases {
		if got := MatchPattern(c.name, c.pattern); got != c.want {
			t.Errorf("MatchPattern(%q, %q) = %v, want %v", c.name, c.pattern, got, c.want)
		}
	}
}

func TestRegisterAndEngines(t *testing.T) {
	before := len(All())
	registerForTest("harness.Example", "run")

	all := All()
	if len(all) != before+1 {
		t.Fatalf("All() len = %d, want %d", len(all), before+1)
	}

	engines := Engines(config.BenchmarkConfig{MaxThreads: 1}, func(name string, err error) {
		t.Fatalf("unexpected generation error for %s: %v", name, err)
	})
	found := false
	for _, e := range engines {
		if e.Stub.Descriptor.QualifiedName() == "harness.Example.run" {
			found = true
		}
	}
	if !found {
		t.Fatal("expected harness.Example.run among generated engines")
	}
}
