package runtime

import "fmt"

// SuiteRunner runs a list of Engines end to end, in order, reporting
// every iteration to a single observer. A CLI invocation almost always
// resolves more than one @Benchmark method at a time (the
// BenchmarkList), and something has to drive that list — SuiteRunner is
// that something.
type SuiteRunner struct {
	Engines []*Engine
}

// Run drives every Engine's IterationCoordinator in turn. A benchmark
// whose Run returns an error is reported through onError and does not
// stop the rest of the suite — matching the per-descriptor failure
// isolation the generator already provides for bad descriptors.
func (s *SuiteRunner) Run(onIteration func(IterationData), onError func(benchmarkName string, err error)) {
	for _, e := range s.Engines {
		coordinator := NewIterationCoordinator(e)
		if err := coordinator.Run(onIteration); err != nil {
			if onError != nil {
				onError(e.Stub.Descriptor.QualifiedName(), err)
			} else {
				e.Logger.Printf("[suite] %s failed: %v", e.Stub.Descriptor.QualifiedName(), err)
			}
		}
	}
}

// Validate reports an error if any two engines in the suite share a
// benchmark name, which would make their IterationData indistinguishable
// to an observer.
func (s *SuiteRunner) Validate() error {
	seen := make(map[string]bool, len(s.Engines))
	for _, e := range s.Engines {
		name := e.Stub.Descriptor.QualifiedName()
		if seen[name] {
			return fmt.Errorf("runtime: duplicate benchmark name %q in suite", name)
		}
		seen[name] = true
	}
	return nil
}
