package schema

import (
	"testing"

	"github.com/aarre/jmh/pkg/descriptor"
)

func TestDefaultValidatorAcceptsValidDescriptor(t *testing.T) {
	v, err := DefaultValidator()
	if err != nil {
		t.Fatalf("DefaultValidator: %v", err)
	}

	d := &descriptor.BenchmarkDescriptor{
		MethodName:     "measure",
		OwnerType:      "a.B",
		BenchmarkTypes: []descriptor.BenchmarkType{descriptor.Throughput},
		ReturnType:     "Result",
		Parameters: []descriptor.ParamBinding{
			{StateType: "a.State", Scope: descriptor.ScopeBenchmark},
		},
		Helpers: map[string][]descriptor.HelperMethod{
			"a.State": {{Name: "setUp", Level: descriptor.LevelTrial, Kind: descriptor.KindSetup}},
		},
	}

	result, err := v.ValidateValue(d)
	if err != nil {
		t.Fatalf("ValidateValue: %v", err)
	}
	if !result.Valid {
		t.Fatalf("expected valid descriptor, got errors: %v", result.Errors)
	}
}

func TestDefaultValidatorRejectsBadReturnType(t *testing.T) {
	v, err := DefaultValidator()
	if err != nil {
		t.Fatalf("DefaultValidator: %v", err)
	}

	result, err := v.ValidateValue(map[string]interface{}{
		"method_name":     "measure",
		"owner_type":      "a.B",
		"return_type":     "void",
		"benchmark_types": []string{"Throughput"},
		"parameters":      []interface{}{},
		"helpers":         map[string]interface{}{},
	})
	if err != nil {
		t.Fatalf("ValidateValue: %v", err)
	}
	if result.Valid {
		t.Fatal("expected validation to fail for non-Result return type")
	}
	if !result.HasErrors() {
		t.Fatal("expected HasErrors to be true")
	}
}

func TestParseVersion(t *testing.T) {
	v, err := ParseVersion("1.2.3")
	if err != nil {
		t.Fatalf("ParseVersion: %v", err)
	}
	if v.String() != "1.2.3" {
		t.Errorf("String() = %q, want %q", v.String(), "1.2.3")
	}
}
