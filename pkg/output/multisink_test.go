package output

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/aarre/jmh/pkg/runtime"
)

var errBoom = errors.New("boom")

func TestMultiSinkFansOutAndContinuesPastErrors(t *testing.T) {
	var buf bytes.Buffer
	good := NewConsoleSink(&buf)
	bad := failingSink{}

	m := MultiSink{Sinks: []OutputFormat{bad, good}}

	err := m.IterationResult(context.Background(), runtime.IterationData{BenchmarkName: "bench.Add.measure"})
	if err != errBoom {
		t.Fatalf("got %v, want errBoom", err)
	}
	if buf.Len() == 0 {
		t.Error("expected the good sink to still receive the iteration result")
	}
}

type failingSink struct{}

func (failingSink) IterationResult(ctx context.Context, data runtime.IterationData) error {
	return errBoom
}
func (failingSink) Exception(ctx context.Context, benchmarkName string, err error) error {
	return errBoom
}
func (failingSink) VerbosePrint(ctx context.Context, line string) error { return errBoom }
