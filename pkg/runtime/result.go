package runtime

import "github.com/aarre/jmh/pkg/descriptor"

// Result is one thread's measurement for one iteration: an operation
// count and the wall-clock time it took to produce it.
type Result struct {
	Ops  int64
	Time float64 // seconds
}

// Aggregate folds the per-thread Results of one iteration into a single
// iteration-level Result using the rule for the given BenchmarkType:
//
//	Throughput:   sum(ops) / max(time)
//	AverageTime:  sum(time) / sum(ops)
//
// SampleTime and SingleShotTime reuse the AverageTime rule: both report
// a per-operation cost, sampling and discarding outliers being a
// reporting-layer concern the core does not implement.
func Aggregate(benchmarkType descriptor.BenchmarkType, results []Result) Result {
	if len(results) == 0 {
		return Result{}
	}

	var sumOps int64
	var sumTime, maxTime float64
	for _, r := range results {
		sumOps += r.Ops
		sumTime += r.Time
		if r.Time > maxTime {
			maxTime = r.Time
		}
	}

	switch benchmarkType {
	case descriptor.Throughput:
		if maxTime == 0 {
			return Result{Ops: sumOps, Time: 0}
		}
		return Result{Ops: sumOps, Time: maxTime}
	default:
		return Result{Ops: sumOps, Time: sumTime}
	}
}

// Score reports the aggregate's single published number for the given
// BenchmarkType: operations per second for Throughput, seconds per
// operation for everything else.
func (r Result) Score(benchmarkType descriptor.BenchmarkType) float64 {
	if r.Ops == 0 {
		return 0
	}
	switch benchmarkType {
	case descriptor.Throughput:
		if r.Time == 0 {
			return 0
		}
		return float64(r.Ops) / r.Time
	default:
		return r.Time / float64(r.Ops)
	}
}
