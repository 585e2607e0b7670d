// Package harness is the registration surface a benchmark package imports
// to plug its @Benchmark-equivalent methods into the jmh binary, the way
// database/sql drivers register themselves by name for sql.Open to find
// later. There is no dynamic loading in Go — a benchmark package must be
// compiled into the binary and registered from an init() function before
// cmd/jmh's flag parsing runs.
package harness

import (
	"fmt"
	"sync"

	"github.com/aarre/jmh/pkg/config"
	"github.com/aarre/jmh/pkg/descriptor"
	"github.com/aarre/jmh/pkg/runtime"
	"github.com/aarre/jmh/pkg/stategen"
)

// Entry is one registered benchmark: its descriptor, the state factories
// it needs, and the measured body.
type Entry struct {
	Descriptor *descriptor.BenchmarkDescriptor
	Factories  runtime.StateFactories
	Body       runtime.BenchmarkFunc
}

var (
	mu       sync.Mutex
	registry []Entry
)

// Register adds one benchmark to the global registry. Benchmark packages
// call this from an init() function.
func Register(d *descriptor.BenchmarkDescriptor, factories runtime.StateFactories, body runtime.BenchmarkFunc) {
	mu.Lock()
	defer mu.Unlock()
	registry = append(registry, Entry{Descriptor: d, Factories: factories, Body: body})
}

// All returns every registered entry.
func All() []Entry {
	mu.Lock()
	defer mu.Unlock()
	out := make([]Entry, len(registry))
	copy(out, registry)
	return out
}

// Engines compiles every registered entry into a runtime.Engine under
// cfg, skipping (and reporting through onGenerationError) any descriptor
// that fails generation rather than aborting the whole batch (spec
// section 7).
func Engines(cfg config.BenchmarkConfig, onGenerationError func(qualifiedName string, err error)) []*runtime.Engine {
	var engines []*runtime.Engine
	for _, e := range All() {
		stub, err := stategen.Generate(e.Descriptor)
		if err != nil {
			if onGenerationError != nil {
				onGenerationError(e.Descriptor.QualifiedName(), err)
			}
			continue
		}

		engine, err := runtime.NewEngine(stub, cfg, e.Factories, e.Body)
		if err != nil {
			if onGenerationError != nil {
				onGenerationError(e.Descriptor.QualifiedName(), err)
			}
			continue
		}
		engines = append(engines, engine)
	}
	return engines
}

// MatchPattern reports whether name should run under a simple
// glob-free substring/prefix filter, the minimal version of JMH's
// regex-based benchmark name filtering.
func MatchPattern(name, pattern string) bool {
	if pattern == "" {
		return true
	}
	if len(pattern) <= len(name) {
		for i := 0; i+len(pattern) <= len(name); i++ {
			if name[i:i+len(pattern)] == pattern {
				return true
			}
		}
	}
	return false
}

// ErrNoMatches is returned when a run pattern matches no registered
// benchmark.
var ErrNoMatches = fmt.Errorf("harness: no registered benchmark matches the given pattern")
