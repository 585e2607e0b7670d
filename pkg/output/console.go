package output

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"text/tabwriter"

	"github.com/aarre/jmh/pkg/runtime"
)

// ConsoleSink renders iteration results as an aligned table, grounded on
// onosproject-helmit's coordinator BENCHMARK/REQUESTS/DURATION/THROUGHPUT
// table output.
type ConsoleSink struct {
	mu     sync.Mutex
	w      *tabwriter.Writer
	header bool
}

// NewConsoleSink returns a sink writing to out. Pass os.Stdout for
// interactive use.
func NewConsoleSink(out io.Writer) *ConsoleSink {
	return &ConsoleSink{w: tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)}
}

// NewStdoutSink is a convenience constructor for the common case.
func NewStdoutSink() *ConsoleSink {
	return NewConsoleSink(os.Stdout)
}

func (c *ConsoleSink) IterationResult(ctx context.Context, data runtime.IterationData) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.header {
		fmt.Fprintln(c.w, "BENCHMARK\tITERATION\tMODE\tSTATUS\tOPS\tSCORE")
		c.header = true
	}

	mode := "measurement"
	if data.WarmUp {
		mode = "warmup"
	}

	fmt.Fprintf(c.w, "%s\t%d\t%s\t%s\t%d\t%.4f\n",
		data.BenchmarkName, data.Index, mode, data.Status, data.Result.Ops, data.Score)
	return c.w.Flush()
}

func (c *ConsoleSink) Exception(ctx context.Context, benchmarkName string, err error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, werr := fmt.Fprintf(c.w, "%s\tERROR\t\t\t%v\n", benchmarkName, err)
	c.w.Flush()
	return werr
}

func (c *ConsoleSink) VerbosePrint(ctx context.Context, line string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, err := fmt.Fprintln(c.w, "# "+line)
	c.w.Flush()
	return err
}
