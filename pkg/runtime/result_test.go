package runtime

import (
	"math"
	"testing"

	"github.com/aarre/jmh/pkg/descriptor"
)

func TestAggregateThroughput(t *testing.T) {
	results := []Result{{Ops: 100, Time: 1.0}, {Ops: 200, Time: 1.5}}
	agg := Aggregate(descriptor.Throughput, results)
	if agg.Ops != 300 {
		t.Errorf("Ops = %d, want 300", agg.Ops)
	}
	if agg.Time != 1.5 {
		t.Errorf("Time = %v, want 1.5 (max)", agg.Time)
	}
	if score := agg.Score(descriptor.Throughput); math.Abs(score-200) > 1e-9 {
		t.Errorf("Score = %v, want 200", score)
	}
}

func TestAggregateAverageTime(t *testing.T) {
	results := []Result{{Ops: 10, Time: 1.0}, {Ops: 20, Time: 3.0}}
	agg := Aggregate(descriptor.AverageTime, results)
	if agg.Ops != 30 {
		t.Errorf("Ops = %d, want 30", agg.Ops)
	}
	if agg.Time != 4.0 {
		t.Errorf("Time = %v, want 4.0 (sum)", agg.Time)
	}
	want := 4.0 / 30.0
	if score := agg.Score(descriptor.AverageTime); math.Abs(score-want) > 1e-9 {
		t.Errorf("Score = %v, want %v", score, want)
	}
}

func TestAggregateEmpty(t *testing.T) {
	agg := Aggregate(descriptor.Throughput, nil)
	if agg.Ops != 0 || agg.Time != 0 {
		t.Errorf("expected zero-value Result for empty input, got %+v", agg)
	}
}
