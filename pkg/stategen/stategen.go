// Package stategen implements the StubGenerator: it
// turns a resolved descriptor.BenchmarkDescriptor into a BenchmarkStub that
// the runtime engine can execute.
//
// The generator runs in "run-time mode": rather than
// emitting a separate source file compiled alongside user code, it builds
// an in-memory binding plan — ordered state objects, padded-type names,
// and per-level helper schedules — and hands back a Stub whose shape is
// exactly what source emission would have produced. Both modes share the
// same determinism contract, so generating from the same descriptor twice
// must yield byte-identical JSON (see TestDeterminism in stategen_test.go).
package stategen

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/aarre/jmh/pkg/descriptor"
)

// StateObject is the generator's internal handle for one bound parameter.
type StateObject struct {
	// Type is the original user-declared state type.
	Type string
	// PaddedType is the generator-assigned padded subtype name for Type.
	// Identical original types share one padded type. The runtime does
	// not read it: state instances come from the registered factories
	// unpadded.
	PaddedType string
	Scope      descriptor.Scope
	// FieldIdentifier is the storage slot name, stable and deterministic
	// for a given descriptor. Ordering is defined over this field.
	FieldIdentifier string
	// LocalIdentifier is the per-thread binding name used when pulling the
	// value out of its slot for one invocation.
	LocalIdentifier string
}

// byFieldIdentifier implements ID_COMPARATOR: lexicographic order on
// FieldIdentifier, the ordering the generator uses everywhere it needs
// deterministic output.
type byFieldIdentifier []*StateObject

func (s byFieldIdentifier) Len() int      { return len(s) }
func (s byFieldIdentifier) Swap(i, j int) { s[i], s[j] = s[j], s[i] }
func (s byFieldIdentifier) Less(i, j int) bool {
	return s[i].FieldIdentifier < s[j].FieldIdentifier
}

// scopeOrder gives the setup-time priority of a scope: Thread first, then
// Benchmark, then Group.
func scopeOrder(s descriptor.Scope) int {
	switch s {
	case descriptor.ScopeThread:
		return 0
	case descriptor.ScopeBenchmark:
		return 1
	case descriptor.ScopeGroup:
		return 2
	default:
		return 3
	}
}

// PlannedHelper is one helper invocation in the ordered schedule: which
// state object it belongs to and which declared helper method to run.
type PlannedHelper struct {
	StateObject *StateObject           `json:"state_object"`
	Helper      descriptor.HelperMethod `json:"helper"`
}

// Stub is the compiled executor for one benchmark method: the binding plan
// the runtime engine walks to construct state, run helpers in order, and
// invoke the measured body.
type Stub struct {
	Descriptor *descriptor.BenchmarkDescriptor `json:"descriptor"`
	// Parameters lists every bound state object in descriptor parameter
	// order: Parameters[i] of the descriptor corresponds to Parameters[i]
	// here, even though helper scheduling below uses ID_COMPARATOR order.
	Parameters []*StateObject `json:"parameters"`
	// Setup[level] is the ordered Setup schedule for that level: Thread
	// scope first, then Benchmark, then Group; within one scope, by
	// ID_COMPARATOR of the owning state object, then declared source order.
	Setup map[descriptor.Level][]PlannedHelper `json:"setup"`
	// Teardown[level] is the ordered Teardown schedule: the reverse scope
	// order (Group, then Benchmark, then Thread). At execution time each
	// step fires once per distinct state instance, like a Setup step.
	Teardown map[descriptor.Level][]PlannedHelper `json:"teardown"`
}

// paddedTypeAssigner hands out padded_0, padded_1, ... names in
// first-encounter order, so the same original type always maps to the
// same padded type within one generation run.
type paddedTypeAssigner struct {
	next     int
	assigned map[string]string
}

func newPaddedTypeAssigner() *paddedTypeAssigner {
	return &paddedTypeAssigner{assigned: make(map[string]string)}
}

func (a *paddedTypeAssigner) assign(originalType string) string {
	if padded, ok := a.assigned[originalType]; ok {
		return padded
	}
	padded := fmt.Sprintf("padded_%d", a.next)
	a.next++
	a.assigned[originalType] = padded
	return padded
}

// Generate transforms a descriptor into a Stub.
//
// Error conditions: a parameter lacking the State
// capability, two Benchmark-scoped parameters of the same type, or a
// return type other than Result all fail generation for this benchmark
// without aborting the caller's batch — the caller is expected to report
// the *descriptor.GenerationError via OutputFormat.exception and continue
// with the remaining descriptors.
func Generate(d *descriptor.BenchmarkDescriptor) (*Stub, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}

	padding := newPaddedTypeAssigner()

	// Build StateObjects in descriptor parameter order first (this is the
	// order the invocation binds locals in, item 4 of section 4.1), then
	// derive a deterministic FieldIdentifier per object. Benchmark- and
	// Group-scoped types get one slot name per type; Thread-scoped
	// repetitions each get a distinct, numbered slot.
	threadRepeats := make(map[string]int)
	params := make([]*StateObject, len(d.Parameters))
	for i, p := range d.Parameters {
		var field string
		switch p.Scope {
		case descriptor.ScopeThread:
			n := threadRepeats[p.StateType]
			field = fmt.Sprintf("field_thread_%s_%d", p.StateType, n)
			threadRepeats[p.StateType] = n + 1
		default:
			field = fmt.Sprintf("field_%s_%s", lowerScope(p.Scope), p.StateType)
		}

		params[i] = &StateObject{
			Type:            p.StateType,
			Scope:           p.Scope,
			FieldIdentifier: field,
			LocalIdentifier: fmt.Sprintf("local_%d", i),
		}
	}

	// Assign padded types under a sorted walk so the counter's
	// first-encounter order does not depend on descriptor.Parameters
	// ordering.
	sorted := make([]*StateObject, len(params))
	copy(sorted, params)
	sort.Sort(byFieldIdentifier(sorted))
	for _, s := range sorted {
		s.PaddedType = padding.assign(s.Type)
	}

	setup, teardown := scheduleHelpers(d, sorted)

	return &Stub{
		Descriptor: d,
		Parameters: params,
		Setup:      setup,
		Teardown:   teardown,
	}, nil
}

func lowerScope(s descriptor.Scope) string {
	switch s {
	case descriptor.ScopeBenchmark:
		return "benchmark"
	case descriptor.ScopeGroup:
		return "group"
	case descriptor.ScopeThread:
		return "thread"
	default:
		return "unknown"
	}
}

// scheduleHelpers builds the per-level Setup and Teardown schedules
// described in "Helper-block ordering rules".
func scheduleHelpers(d *descriptor.BenchmarkDescriptor, sortedStates []*StateObject) (
	map[descriptor.Level][]PlannedHelper, map[descriptor.Level][]PlannedHelper,
) {
	setup := make(map[descriptor.Level][]PlannedHelper)
	teardown := make(map[descriptor.Level][]PlannedHelper)

	levels := []descriptor.Level{descriptor.LevelTrial, descriptor.LevelIteration, descriptor.LevelInvocation}

	// De-duplicate StateObjects by FieldIdentifier: Thread-scoped repeats
	// of the same type are distinct slots but their helpers are declared
	// once on the type and must fire once per slot, which sortedStates
	// already reflects (one *StateObject per parameter occurrence, not
	// per distinct type).
	for _, level := range levels {
		// Setup: group by scope priority (Thread, Benchmark, Group), then
		// ID_COMPARATOR, then declared order within the state's helper list.
		byScope := make(map[int][]PlannedHelper)
		for _, so := range sortedStates {
			for _, h := range d.Helpers[so.Type] {
				if h.Level != level || h.Kind != descriptor.KindSetup {
					continue
				}
				p := scopeOrder(so.Scope)
				byScope[p] = append(byScope[p], PlannedHelper{StateObject: so, Helper: h})
			}
		}
		for p := 0; p <= 2; p++ {
			setup[level] = append(setup[level], byScope[p]...)
		}

		// Teardown: reverse of the setup scope order (Group, Benchmark,
		// Thread). There is no inited flag to invert: the runtime engine
		// fires each step once per distinct (scope, key) it resolves to.
		byScopeTeardown := make(map[int][]PlannedHelper)
		for _, so := range sortedStates {
			for _, h := range d.Helpers[so.Type] {
				if h.Level != level || h.Kind != descriptor.KindTeardown {
					continue
				}
				p := scopeOrder(so.Scope)
				byScopeTeardown[p] = append(byScopeTeardown[p], PlannedHelper{StateObject: so, Helper: h})
			}
		}
		for p := 2; p >= 0; p-- {
			teardown[level] = append(teardown[level], byScopeTeardown[p]...)
		}
	}

	return setup, teardown
}

// ToJSON serializes a Stub deterministically. Two calls to Generate with
// the same descriptor must produce byte-identical JSON here — that is the
// generator's determinism contract.
func (s *Stub) ToJSON() ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

// BenchmarkList renders the sorted, deduplicated, newline-terminated
// listing: one "owner_type.method_name" per line, ascending, with a
// trailing newline. Invalid descriptors (those Generate rejects) are
// silently excluded — callers are expected to have already reported
// their GenerationError via OutputFormat.exception.
func BenchmarkList(stubs []*Stub) string {
	names := make([]string, 0, len(stubs))
	seen := make(map[string]bool, len(stubs))
	for _, s := range stubs {
		name := s.Descriptor.QualifiedName()
		if seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	sort.Strings(names)

	out := ""
	for _, n := range names {
		out += n + "\n"
	}
	return out
}
