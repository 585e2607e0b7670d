package schema

// DescriptorSchemaJSON is the JSON Schema a serialized
// descriptor.BenchmarkDescriptor must satisfy, grounded on the field
// names pkg/descriptor.BenchmarkDescriptor serializes.
const DescriptorSchemaJSON = `{
  "version": "1.0.0",
  "$schema": "http://json-schema.org/draft-07/schema#",
  "title": "BenchmarkDescriptor",
  "type": "object",
  "required": ["method_name", "owner_type", "return_type", "benchmark_types", "parameters", "helpers"],
  "properties": {
    "method_name": {"type": "string", "minLength": 1},
    "owner_type": {"type": "string", "minLength": 1},
    "return_type": {"type": "string", "const": "Result"},
    "benchmark_types": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "string",
        "enum": ["Throughput", "AverageTime", "SampleTime", "SingleShotTime", "All"]
      }
    },
    "parameters": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["state_type", "scope"],
        "properties": {
          "state_type": {"type": "string", "minLength": 1},
          "scope": {"type": "string", "enum": ["Benchmark", "Group", "Thread"]}
        }
      }
    },
    "helpers": {
      "type": "object",
      "additionalProperties": {
        "type": "array",
        "items": {
          "type": "object",
          "required": ["name", "level", "kind"],
          "properties": {
            "name": {"type": "string", "minLength": 1},
            "level": {"type": "string", "enum": ["Trial", "Iteration", "Invocation"]},
            "kind": {"type": "string", "enum": ["Setup", "Teardown"]}
          }
        }
      }
    }
  }
}`
