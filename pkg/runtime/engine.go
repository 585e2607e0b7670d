package runtime

import (
	"fmt"
	"log"

	"github.com/aarre/jmh/pkg/config"
	"github.com/aarre/jmh/pkg/descriptor"
	"github.com/aarre/jmh/pkg/profiling"
	"github.com/aarre/jmh/pkg/stategen"
)

// BenchmarkFunc is the measured body the front end binds to a
// stategen.Stub. state holds the resolved state object instances in the
// same order as the stub's Parameters.
type BenchmarkFunc func(loop *Loop, state []interface{}) error

// StateFactories maps a state type name (descriptor.ParamBinding.StateType)
// to a constructor. The core has no way to `new` a user's state type
// without this map — the annotation-processing front end named in spec
// section 1 is expected to supply it alongside the descriptor.
type StateFactories map[string]func() (interface{}, error)

// Engine binds a compiled Stub to a concrete configuration, state
// factories, and measured body, and can run it end to end.
type Engine struct {
	Stub           *stategen.Stub
	Config         config.BenchmarkConfig
	StateFactories StateFactories
	Body           BenchmarkFunc
	Logger         *log.Logger
	// Profiler brackets each iteration's measured region. Defaults to
	// profiling.NoopProfiler.
	Profiler profiling.ProfilerHook

	registry *Registry
}

// NewEngine validates its inputs and returns a ready-to-run Engine.
func NewEngine(stub *stategen.Stub, cfg config.BenchmarkConfig, factories StateFactories, body BenchmarkFunc) (*Engine, error) {
	if stub == nil {
		return nil, fmt.Errorf("runtime: nil stub")
	}
	if body == nil {
		return nil, fmt.Errorf("runtime: nil benchmark body for %s", stub.Descriptor.QualifiedName())
	}
	for _, p := range stub.Parameters {
		if _, ok := factories[p.Type]; !ok {
			return nil, fmt.Errorf("runtime: no state factory registered for type %q (%s)", p.Type, stub.Descriptor.QualifiedName())
		}
	}

	resolved, err := config.Resolve(cfg)
	if err != nil {
		return nil, fmt.Errorf("runtime: %s: %w", stub.Descriptor.QualifiedName(), err)
	}

	return &Engine{
		Stub:           stub,
		Config:         resolved,
		StateFactories: factories,
		Body:           body,
		Logger:         log.Default(),
		Profiler:       profiling.NoopProfiler{},
		registry:       NewRegistry(),
	}, nil
}

// scopeKeyFor returns the registry's scope discriminator and instance key
// for one state object bound to a specific thread.
func (e *Engine) scopeKeyFor(so *stategen.StateObject, threadID int) (scopeKey, key string) {
	switch so.Scope {
	case descriptor.ScopeBenchmark:
		return "benchmark", so.FieldIdentifier
	case descriptor.ScopeGroup:
		group := config.GroupForThread(e.Config.ThreadGroups, threadID)
		return "group", fmt.Sprintf("%s#%d", so.FieldIdentifier, group)
	default: // Thread
		return "thread", fmt.Sprintf("%s#%d", so.FieldIdentifier, threadID)
	}
}

// resolve returns (constructing on first use) the instance bound to so
// for threadID.
func (e *Engine) resolve(so *stategen.StateObject, threadID int) (interface{}, error) {
	scopeKey, key := e.scopeKeyFor(so, threadID)
	return e.registry.GetOrInit(scopeKey, key, func() (interface{}, error) {
		return e.StateFactories[so.Type]()
	})
}

// resolveAll resolves every stub parameter for threadID, in descriptor
// parameter order, the order BenchmarkFunc receives them in.
func (e *Engine) resolveAll(threadID int) ([]interface{}, error) {
	state := make([]interface{}, len(e.Stub.Parameters))
	for i, so := range e.Stub.Parameters {
		instance, err := e.resolve(so, threadID)
		if err != nil {
			return nil, fmt.Errorf("runtime: constructing %s for thread %d: %w", so.Type, threadID, err)
		}
		state[i] = instance
	}
	return state, nil
}

// runPeriod runs schedule once for the whole set of threadIDs, firing
// each helper exactly once per distinct (scope, key) it resolves to:
// a Thread-scoped helper fires once per thread (its key embeds the
// thread id), while a Benchmark- or Group-scoped helper fires once for
// the whole period regardless of how many threads share it (its key does
// not embed the thread id, so the first thread to reach it claims the
// call and the rest are no-ops). This is what lets one Engine method
// serve Trial, Iteration, and Invocation schedules alike: the caller
// only has to pick the right threadIDs slice and call runPeriod once per
// period.
func (e *Engine) runPeriod(schedule []stategen.PlannedHelper, threadIDs []int) error {
	seen := make(map[string]bool)
	for _, threadID := range threadIDs {
		for _, step := range schedule {
			scopeKey, key := e.scopeKeyFor(step.StateObject, threadID)
			compositeKey := scopeKey + "\x00" + key
			if seen[compositeKey] {
				continue
			}
			seen[compositeKey] = true

			instance, err := e.resolve(step.StateObject, threadID)
			if err != nil {
				return err
			}
			if err := invokeHelper(instance, step.Helper.Name); err != nil {
				return fmt.Errorf("runtime: %s helper %q on %s: %w",
					step.Helper.Kind, step.Helper.Name, step.StateObject.Type, err)
			}
		}
	}
	return nil
}
