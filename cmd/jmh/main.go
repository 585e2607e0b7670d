// Command jmh is the CLI front end: it resolves the compiled-in benchmark
// registry (pkg/harness) into runnable engines and drives them, wiring
// cobra subcommands onto pipeline stages the way a multi-stage CLI
// (discover/build/run) typically does.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/aarre/jmh/pkg/config"
	"github.com/aarre/jmh/pkg/harness"
	"github.com/aarre/jmh/pkg/output"
	"github.com/aarre/jmh/pkg/profiling"
	"github.com/aarre/jmh/pkg/runtime"
	"github.com/aarre/jmh/pkg/schema"
	"github.com/aarre/jmh/pkg/stategen"
	"github.com/aarre/jmh/pkg/suite"

	_ "github.com/aarre/jmh/internal/samplebench"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "jmh",
		Short: "Run and list Go microbenchmarks compiled with the jmh harness",
	}

	root.AddCommand(listCmd())
	root.AddCommand(validateCmd())
	root.AddCommand(runCmd())
	return root
}

// listCmd emits the BenchmarkList: one
// "owner_type.method_name" per line, sorted and deduplicated.
func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every registered benchmark",
		RunE: func(cmd *cobra.Command, args []string) error {
			var stubs []*stategen.Stub
			for _, e := range harness.All() {
				stub, err := stategen.Generate(e.Descriptor)
				if err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "skipping %s: %v\n", e.Descriptor.QualifiedName(), err)
					continue
				}
				stubs = append(stubs, stub)
			}
			fmt.Fprint(cmd.OutOrStdout(), stategen.BenchmarkList(stubs))
			return nil
		},
	}
}

// validateCmd checks one or more serialized descriptor JSON files against
// the compiled-in schema.
func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [descriptor.json ...]",
		Short: "Validate descriptor JSON files against the benchmark descriptor schema",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			validator, err := schema.DefaultValidator()
			if err != nil {
				return fmt.Errorf("jmh validate: %w", err)
			}

			failed := false
			for _, path := range args {
				data, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("jmh validate: %w", err)
				}

				result, err := validator.ValidateBytes(data)
				if err != nil {
					return fmt.Errorf("jmh validate: %s: %w", path, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", path, result.String())
				if !result.Valid {
					failed = true
				}
			}

			if failed {
				return fmt.Errorf("jmh validate: one or more descriptors failed validation")
			}
			return nil
		},
	}
}

// runCmd resolves the registry into engines and runs them through a
// suite.Queue, reporting each iteration through a console sink (and,
// optionally, S3 and CloudWatch).
func runCmd() *cobra.Command {
	var (
		pattern        string
		maxThreads     int
		warmupIters    int
		measureIters   int
		iterationTime  time.Duration
		maxConcurrency int
		failOnError    bool
		s3Bucket       string
		s3Prefix       string
		awsRegion      string
		profileCW      bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run registered benchmarks matching a name pattern",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.BenchmarkConfig{
				MaxThreads:            maxThreads,
				WarmupIterations:      warmupIters,
				MeasurementIterations: measureIters,
				IterationTime:         iterationTime,
				FailOnError:           failOnError,
			}

			logger := log.New(cmd.ErrOrStderr(), "", log.LstdFlags)

			sinks := []output.OutputFormat{output.NewConsoleSink(cmd.OutOrStdout())}
			ctx := context.Background()
			if s3Bucket != "" {
				s3Sink, err := output.NewS3Sink(ctx, awsRegion, output.S3Config{BucketName: s3Bucket, KeyPrefix: s3Prefix})
				if err != nil {
					return fmt.Errorf("jmh run: %w", err)
				}
				sinks = append(sinks, s3Sink)
			}
			sink := output.MultiSink{Sinks: sinks}

			var profiler profiling.ProfilerHook = profiling.NoopProfiler{}
			if profileCW {
				cwProfiler, err := profiling.NewCloudWatchProfiler(ctx, awsRegion, "JMHGo")
				if err != nil {
					return fmt.Errorf("jmh run: %w", err)
				}
				profiler = cwProfiler
			}

			engines := harness.Engines(cfg, func(name string, err error) {
				_ = sink.Exception(ctx, name, err)
			})

			queue := suite.NewQueue(suite.Config{MaxConcurrentJobs: maxConcurrency, Logger: logger})
			matched := 0
			for _, e := range engines {
				name := e.Stub.Descriptor.QualifiedName()
				if !harness.MatchPattern(name, pattern) {
					continue
				}
				e.Profiler = profiler
				queue.Add(suite.Job{Engine: e})
				matched++
			}
			if matched == 0 {
				return harness.ErrNoMatches
			}

			return queue.Run(ctx,
				func(d runtime.IterationData) { _ = sink.IterationResult(ctx, d) },
				func(name string, err error) { _ = sink.Exception(ctx, name, err) },
			)
		},
	}

	cmd.Flags().StringVar(&pattern, "pattern", "", "only run benchmarks whose qualified name contains this substring")
	cmd.Flags().IntVar(&maxThreads, "threads", 1, "number of threads per benchmark")
	cmd.Flags().IntVar(&warmupIters, "warmup-iterations", 5, "number of warmup iterations")
	cmd.Flags().IntVar(&measureIters, "measurement-iterations", 5, "number of measurement iterations")
	cmd.Flags().DurationVar(&iterationTime, "iteration-time", time.Second, "nominal duration of one iteration")
	cmd.Flags().IntVar(&maxConcurrency, "max-concurrency", 1, "maximum benchmarks to run concurrently")
	cmd.Flags().BoolVar(&failOnError, "fail-on-error", false, "stop a benchmark's run on its first error")
	cmd.Flags().StringVar(&s3Bucket, "s3-bucket", "", "upload results to this S3 bucket in addition to stdout")
	cmd.Flags().StringVar(&s3Prefix, "s3-prefix", "", "key prefix for uploaded S3 objects")
	cmd.Flags().StringVar(&awsRegion, "aws-region", "us-east-1", "AWS region for S3/CloudWatch")
	cmd.Flags().BoolVar(&profileCW, "cloudwatch-profiler", false, "publish per-iteration duration to CloudWatch")

	return cmd
}
