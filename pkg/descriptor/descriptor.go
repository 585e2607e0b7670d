// Package descriptor defines the data model a BenchmarkDescriptor carries
// from the build-time annotation processor into the generator.
//
// The core never parses annotations itself — a BenchmarkDescriptor is
// produced externally and fed to pkg/stategen. This package only models
// the shape of that record and the invariants the generator relies on.
package descriptor

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Scope is the sharing discipline of a state object.
type Scope string

const (
	ScopeBenchmark Scope = "Benchmark"
	ScopeGroup     Scope = "Group"
	ScopeThread    Scope = "Thread"
)

// Level is the time scale at which a helper fires.
type Level string

const (
	LevelTrial       Level = "Trial"
	LevelIteration   Level = "Iteration"
	LevelInvocation  Level = "Invocation"
)

// HelperKind distinguishes Setup from Teardown helpers.
type HelperKind string

const (
	KindSetup    HelperKind = "Setup"
	KindTeardown HelperKind = "Teardown"
)

// BenchmarkType is one of the measurement modes a benchmark may declare.
type BenchmarkType string

const (
	Throughput     BenchmarkType = "Throughput"
	AverageTime    BenchmarkType = "AverageTime"
	SampleTime     BenchmarkType = "SampleTime"
	SingleShotTime BenchmarkType = "SingleShotTime"
	All            BenchmarkType = "All"
)

// ParamBinding is one parameter of the benchmark method bound to a state
// object of the given scope.
type ParamBinding struct {
	StateType string `json:"state_type"`
	Scope     Scope  `json:"scope"`
}

// HelperMethod is a Setup or Teardown method declared on a state type,
// already flattened across its ancestor types by the external annotation
// processor — this package never re-implements class-hierarchy traversal.
type HelperMethod struct {
	Name string     `json:"name"`
	Level Level     `json:"level"`
	Kind  HelperKind `json:"kind"`
}

// BenchmarkDescriptor is what the generator consumes for one annotated
// benchmark method.
type BenchmarkDescriptor struct {
	MethodName     string                    `json:"method_name"`
	OwnerType      string                    `json:"owner_type"`
	BenchmarkTypes []BenchmarkType           `json:"benchmark_types"`
	Parameters     []ParamBinding            `json:"parameters"`
	// Helpers maps a state type (including inherited ones) to the helper
	// methods declared on it. A state type with the @State capability but
	// no helpers of its own still appears here with an empty slice — its
	// presence as a key is what satisfies invariant (a) below.
	Helpers map[string][]HelperMethod `json:"helpers"`
	// ReturnType is the benchmark method's declared return contract. The
	// core only accepts "Result".
	ReturnType string `json:"return_type"`
}

// GenerationError reports a descriptor that cannot be compiled into a
// BenchmarkStub. It carries enough context for OutputFormat.exception
// without aborting the rest of a batch.
type GenerationError struct {
	MethodName string
	OwnerType  string
	Reason     string
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("%s.%s: %s", e.OwnerType, e.MethodName, e.Reason)
}

// QualifiedName returns "owner_type.method_name", the form used by the
// BenchmarkList file.
func (d *BenchmarkDescriptor) QualifiedName() string {
	return d.OwnerType + "." + d.MethodName
}

// Validate checks the three descriptor invariants:
//
//	(a) every parameter's declared type carries the @State capability
//	(b) within one descriptor, the same (state_type, scope=Benchmark|Group)
//	    appears at most once
//	(c) Thread-scoped parameters may repeat — each repetition gets a
//	    distinct instance, so no uniqueness check applies to them
//
// It also enforces the method-shape error conditions from section 4.1:
// a descriptor whose ReturnType is not "Result" is rejected outright.
func (d *BenchmarkDescriptor) Validate() error {
	if d.ReturnType != "Result" {
		return &GenerationError{
			MethodName: d.MethodName,
			OwnerType:  d.OwnerType,
			Reason:     fmt.Sprintf("return type %q is not Result", d.ReturnType),
		}
	}

	seen := make(map[string]bool, len(d.Parameters))
	for _, p := range d.Parameters {
		if _, ok := d.Helpers[p.StateType]; !ok {
			return &GenerationError{
				MethodName: d.MethodName,
				OwnerType:  d.OwnerType,
				Reason:     fmt.Sprintf("parameter type %q lacks the State capability", p.StateType),
			}
		}

		if p.Scope == ScopeThread {
			continue
		}

		key := string(p.Scope) + ":" + p.StateType
		if seen[key] {
			return &GenerationError{
				MethodName: d.MethodName,
				OwnerType:  d.OwnerType,
				Reason:     fmt.Sprintf("duplicate %s-scoped parameter of type %q", p.Scope, p.StateType),
			}
		}
		seen[key] = true
	}

	return nil
}

// StateTypes returns the descriptor's distinct state types in sorted
// order, which downstream generator code relies on for deterministic
// output.
func (d *BenchmarkDescriptor) StateTypes() []string {
	types := make([]string, 0, len(d.Helpers))
	for t := range d.Helpers {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// ToJSON serializes the descriptor for storage alongside a compiled stub
// or for schema validation (pkg/schema).
func (d *BenchmarkDescriptor) ToJSON() ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}

// FromJSON parses a descriptor previously produced by ToJSON.
func FromJSON(data []byte) (*BenchmarkDescriptor, error) {
	var d BenchmarkDescriptor
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("parse benchmark descriptor: %w", err)
	}
	return &d, nil
}
