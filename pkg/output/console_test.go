package output

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/aarre/jmh/pkg/runtime"
)

func TestConsoleSinkWritesHeaderOnce(t *testing.T) {
	var buf bytes.Buffer
	sink := NewConsoleSink(&buf)

	for i := 0; i < 2; i++ {
		err := sink.IterationResult(context.Background(), runtime.IterationData{
			BenchmarkName: "bench.Add.measure",
			Index:         i,
			Score:         123.4,
		})
		if err != nil {
			t.Fatalf("IterationResult: %v", err)
		}
	}

	out := buf.String()
	if strings.Count(out, "BENCHMARK") != 1 {
		t.Errorf("expected exactly one header line, got output:\n%s", out)
	}
	if strings.Count(out, "bench.Add.measure") != 2 {
		t.Errorf("expected two data rows, got output:\n%s", out)
	}
}

func TestConsoleSinkException(t *testing.T) {
	var buf bytes.Buffer
	sink := NewConsoleSink(&buf)

	if err := sink.Exception(context.Background(), "bench.Add.measure", errBoom); err != nil {
		t.Fatalf("Exception: %v", err)
	}
	if !strings.Contains(buf.String(), "ERROR") {
		t.Errorf("expected ERROR marker in output, got:\n%s", buf.String())
	}
}
