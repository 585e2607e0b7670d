// Package schema validates serialized BenchmarkDescriptor documents
// against a JSON Schema before the generator ever sees them. Unlike a
// results-document schema, descriptor shape does not evolve release to
// release, so this package carries no SchemaManager/Migration machinery
// — there is nothing here to migrate between.
package schema

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// SchemaVersion is a semantic version tag embedded in the schema itself.
type SchemaVersion struct {
	Major int `json:"major"`
	Minor int `json:"minor"`
	Patch int `json:"patch"`
}

func (v SchemaVersion) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// ParseVersion parses a "major.minor.patch" string.
func ParseVersion(version string) (SchemaVersion, error) {
	var v SchemaVersion
	n, err := fmt.Sscanf(version, "%d.%d.%d", &v.Major, &v.Minor, &v.Patch)
	if err != nil || n != 3 {
		return v, fmt.Errorf("schema: invalid version format %q", version)
	}
	return v, nil
}

// Validator validates JSON documents against one compiled schema.
type Validator struct {
	version SchemaVersion
	schema  *gojsonschema.Schema
}

// NewValidator compiles schemaJSON. A top-level "version" string field,
// if present, sets the validator's version; without one it is 1.0.0.
func NewValidator(schemaJSON []byte) (*Validator, error) {
	var doc map[string]interface{}
	if err := json.Unmarshal(schemaJSON, &doc); err != nil {
		return nil, fmt.Errorf("schema: parse schema document: %w", err)
	}

	version := SchemaVersion{Major: 1, Minor: 0, Patch: 0}
	if versionStr, ok := doc["version"].(string); ok {
		v, err := ParseVersion(versionStr)
		if err != nil {
			return nil, fmt.Errorf("schema: %w", err)
		}
		version = v
	}

	schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(schemaJSON))
	if err != nil {
		return nil, fmt.Errorf("schema: compile schema: %w", err)
	}

	return &Validator{version: version, schema: schema}, nil
}

// DefaultValidator returns a Validator compiled from DescriptorSchemaJSON.
func DefaultValidator() (*Validator, error) {
	return NewValidator([]byte(DescriptorSchemaJSON))
}

// GetVersion returns the compiled schema's version.
func (v *Validator) GetVersion() SchemaVersion {
	return v.version
}

// ValidateBytes validates data against the compiled schema.
func (v *Validator) ValidateBytes(data []byte) (*ValidationResult, error) {
	result, err := v.schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, fmt.Errorf("schema: validate: %w", err)
	}

	var errs []string
	if !result.Valid() {
		for _, desc := range result.Errors() {
			errs = append(errs, desc.String())
		}
	}

	return &ValidationResult{
		Valid:         result.Valid(),
		Errors:        errs,
		SchemaVersion: v.version,
	}, nil
}

// ValidateValue marshals value to JSON and validates it.
func (v *Validator) ValidateValue(value interface{}) (*ValidationResult, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("schema: marshal value: %w", err)
	}
	return v.ValidateBytes(data)
}

// ValidationResult reports the outcome of one validation call.
type ValidationResult struct {
	Valid         bool          `json:"valid"`
	Errors        []string      `json:"errors,omitempty"`
	SchemaVersion SchemaVersion `json:"schema_version"`
}

// HasErrors reports whether any validation errors were recorded.
func (r *ValidationResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// String renders a human-readable summary.
func (r *ValidationResult) String() string {
	var sb strings.Builder
	if r.Valid {
		sb.WriteString("validation passed")
	} else {
		sb.WriteString("validation failed")
	}
	sb.WriteString(fmt.Sprintf(" (schema %s)", r.SchemaVersion))
	for _, e := range r.Errors {
		sb.WriteString("\n  - " + e)
	}
	return sb.String()
}
