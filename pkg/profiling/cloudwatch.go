package profiling

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
)

// Errors returned while publishing profiling metrics.
var (
	ErrMetricNameRequired = errors.New("profiling: metric name is required")
	ErrInvalidMetricValue = errors.New("profiling: metric value is invalid")
)

// CloudWatchProfiler is a ProfilerHook that publishes per-iteration
// wall-clock duration to CloudWatch: one namespace for the whole
// harness, with BenchmarkName/WarmUp as dimensions so a dashboard can
// slice by either.
type CloudWatchProfiler struct {
	client    *cloudwatch.Client
	namespace string
	region    string

	starts map[string]time.Time
}

// NewCloudWatchProfiler loads the default AWS config for region and
// returns a profiler publishing under the given namespace.
func NewCloudWatchProfiler(ctx context.Context, region, namespace string) (*CloudWatchProfiler, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("profiling: load AWS config: %w", err)
	}
	if namespace == "" {
		namespace = "JMHGo"
	}

	return &CloudWatchProfiler{
		client:    cloudwatch.NewFromConfig(cfg),
		namespace: namespace,
		region:    region,
		starts:    make(map[string]time.Time),
	}, nil
}

func sampleKey(s Sample) string {
	return fmt.Sprintf("%s#%d#%v", s.BenchmarkName, s.IterationIndex, s.WarmUp)
}

// StartProfile records the start time for this sample; the duration
// metric is published when EndProfile is called with the same sample.
func (p *CloudWatchProfiler) StartProfile(ctx context.Context, sample Sample) error {
	p.starts[sampleKey(sample)] = time.Now()
	return nil
}

// EndProfile publishes the elapsed wall-clock time since the matching
// StartProfile as an IterationDuration metric, and returns that elapsed
// duration (seconds) as the sample's opaque result.
func (p *CloudWatchProfiler) EndProfile(ctx context.Context, sample Sample) (interface{}, error) {
	key := sampleKey(sample)
	start, ok := p.starts[key]
	if !ok {
		return nil, fmt.Errorf("profiling: EndProfile called without a matching StartProfile for %s", key)
	}
	delete(p.starts, key)

	elapsed := time.Since(start).Seconds()
	if elapsed < 0 {
		return nil, ErrInvalidMetricValue
	}

	datum := types.MetricDatum{
		MetricName: aws.String("IterationDuration"),
		Value:      aws.Float64(elapsed),
		Unit:       types.StandardUnitSeconds,
		Timestamp:  aws.Time(time.Now()),
		Dimensions: []types.Dimension{
			{Name: aws.String("BenchmarkName"), Value: aws.String(sample.BenchmarkName)},
			{Name: aws.String("WarmUp"), Value: aws.String(fmt.Sprintf("%v", sample.WarmUp))},
		},
	}

	_, err := p.client.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace:  aws.String(p.namespace),
		MetricData: []types.MetricDatum{datum},
	})
	if err != nil {
		return nil, fmt.Errorf("profiling: publish metric: %w", err)
	}
	return elapsed, nil
}
