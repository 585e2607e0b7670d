// Package output implements the OutputFormat sink interface (spec
// section 6): a consumer the core reports iteration results, exceptions,
// and verbose trace lines to without knowing how they are rendered or
// persisted.
package output

import (
	"context"

	"github.com/aarre/jmh/pkg/runtime"
)

// OutputFormat is the sink interface every result consumer implements.
type OutputFormat interface {
	// IterationResult reports one completed iteration.
	IterationResult(ctx context.Context, data runtime.IterationData) error
	// Exception reports a failure that is not fatal to the whole run —
	// a single benchmark's generation error or iteration failure.
	Exception(ctx context.Context, benchmarkName string, err error) error
	// VerbosePrint reports a free-form trace line, used for the
	// harness's own diagnostic chatter rather than benchmark data.
	VerbosePrint(ctx context.Context, line string) error
}

// MultiSink fans out to every sink in order, continuing past individual
// sink errors and returning the first one encountered (if any) after all
// sinks have been given a chance to run — one sink's failure (e.g. S3
// being unreachable) should never silence the console sink.
type MultiSink struct {
	Sinks []OutputFormat
}

func (m MultiSink) IterationResult(ctx context.Context, data runtime.IterationData) error {
	var firstErr error
	for _, s := range m.Sinks {
		if err := s.IterationResult(ctx, data); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (m MultiSink) Exception(ctx context.Context, benchmarkName string, err error) error {
	var firstErr error
	for _, s := range m.Sinks {
		if sErr := s.Exception(ctx, benchmarkName, err); sErr != nil && firstErr == nil {
			firstErr = sErr
		}
	}
	return firstErr
}

func (m MultiSink) VerbosePrint(ctx context.Context, line string) error {
	var firstErr error
	for _, s := range m.Sinks {
		if err := s.VerbosePrint(ctx, line); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
