// Package export writes dashboard snapshots to S3 as gzipped JSON so
// downstream reporting can replay history without touching the live API.
package export

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/ignite/outreach-analytics/internal/config"
	"github.com/ignite/outreach-analytics/internal/domain"
	"github.com/ignite/outreach-analytics/internal/pkg/logger"
)

// putObjectAPI is the slice of the S3 API the exporter uses.
type putObjectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Exporter writes snapshot archives under
// {prefix}/snapshots/YYYY/MM/DD/{snapshot-id}.json.gz.
type S3Exporter struct {
	client putObjectAPI
	bucket string
	prefix string
	log    *logger.Logger
}

// NewS3Exporter creates an exporter using the default AWS credential chain,
// honoring the configured profile when set.
func NewS3Exporter(ctx context.Context, cfg config.ExportConfig) (*S3Exporter, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.AWSRegion),
	}
	if profile := cfg.GetAWSProfile(); profile != "" {
		opts = append(opts, awsconfig.WithSharedConfigProfile(profile))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &S3Exporter{
		client: s3.NewFromConfig(awsCfg),
		bucket: cfg.S3Bucket,
		prefix: cfg.S3Prefix,
		log:    logger.Component("export"),
	}, nil
}

// Export uploads one snapshot. The object key embeds the generation date so
// archives partition naturally by day.
func (e *S3Exporter) Export(ctx context.Context, snap *domain.DashboardSnapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to serialize snapshot: %w", err)
	}

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	if _, err := gz.Write(data); err != nil {
		return fmt.Errorf("failed to compress snapshot: %w", err)
	}
	if err := gz.Close(); err != nil {
		return fmt.Errorf("failed to finalize compression: %w", err)
	}

	key := e.objectKey(snap)
	_, err = e.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:          aws.String(e.bucket),
		Key:             aws.String(key),
		Body:            bytes.NewReader(buf.Bytes()),
		ContentType:     aws.String("application/json"),
		ContentEncoding: aws.String("gzip"),
	})
	if err != nil {
		return fmt.Errorf("failed to upload snapshot: %w", err)
	}

	e.log.Info("snapshot exported", "key", key, "bytes", buf.Len())
	return nil
}

func (e *S3Exporter) objectKey(snap *domain.DashboardSnapshot) string {
	ts := snap.GeneratedAt
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	return fmt.Sprintf("%ssnapshots/%s/%s.json.gz", e.prefix, ts.Format("2006/01/02"), snap.ID)
}
