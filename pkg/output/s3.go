package output

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/aarre/jmh/pkg/runtime"
)

// S3Config configures an S3Sink, following this codebase's Config/
// withDefaults convention.
type S3Config struct {
	BucketName    string
	KeyPrefix     string
	UploadTimeout time.Duration
}

func (c S3Config) withDefaults() S3Config {
	if c.UploadTimeout <= 0 {
		c.UploadTimeout = 30 * time.Second
	}
	return c
}

// S3Sink is an OutputFormat implementation that persists each
// IterationData as a JSON object, keyed
// <KeyPrefix>raw/YYYY/MM/DD/<benchmark>/<timestamp>.json. KeyPrefix is
// prepended as given; no separator is inserted after it.
type S3Sink struct {
	client *s3.Client
	config S3Config
}

// NewS3Sink loads the default AWS config for region and validates that
// cfg.BucketName is non-empty.
func NewS3Sink(ctx context.Context, region string, cfg S3Config) (*S3Sink, error) {
	if cfg.BucketName == "" {
		return nil, fmt.Errorf("output: S3Sink requires a bucket name")
	}
	cfg = cfg.withDefaults()

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("output: load AWS config: %w", err)
	}

	return &S3Sink{client: s3.NewFromConfig(awsCfg), config: cfg}, nil
}

func (s *S3Sink) IterationResult(ctx context.Context, data runtime.IterationData) error {
	uploadCtx, cancel := context.WithTimeout(ctx, s.config.UploadTimeout)
	defer cancel()

	body, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("output: serialize iteration data: %w", err)
	}

	key := s.resultKey(data)
	_, err = s.client.PutObject(uploadCtx, &s3.PutObjectInput{
		Bucket:      aws.String(s.config.BucketName),
		Key:         aws.String(key),
		Body:        strings.NewReader(string(body)),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("output: upload iteration result: %w", err)
	}
	return nil
}

func (s *S3Sink) Exception(ctx context.Context, benchmarkName string, benchErr error) error {
	uploadCtx, cancel := context.WithTimeout(ctx, s.config.UploadTimeout)
	defer cancel()

	body, err := json.Marshal(map[string]string{
		"benchmark": benchmarkName,
		"error":     benchErr.Error(),
	})
	if err != nil {
		return fmt.Errorf("output: serialize exception: %w", err)
	}

	now := time.Now().UTC()
	key := fmt.Sprintf("%sexceptions/%04d/%02d/%02d/%s/%s.json",
		s.config.KeyPrefix, now.Year(), now.Month(), now.Day(), benchmarkName, now.Format("20060102-150405.000000000"))

	_, err = s.client.PutObject(uploadCtx, &s3.PutObjectInput{
		Bucket:      aws.String(s.config.BucketName),
		Key:         aws.String(key),
		Body:        strings.NewReader(string(body)),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("output: upload exception: %w", err)
	}
	return nil
}

// VerbosePrint is a no-op: trace lines are not worth an S3 object apiece.
func (s *S3Sink) VerbosePrint(ctx context.Context, line string) error {
	return nil
}

func (s *S3Sink) resultKey(data runtime.IterationData) string {
	now := time.Now().UTC()
	return fmt.Sprintf("%sraw/%04d/%02d/%02d/%s/%s.json",
		s.config.KeyPrefix, now.Year(), now.Month(), now.Day(), data.BenchmarkName, now.Format("20060102-150405.000000000"))
}
