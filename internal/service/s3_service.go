package service

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"

	"github.com/GTDGit/resell_api/internal/config"
)

// S3Archive stores uploaded workbooks in S3 for audit.
type S3Archive struct {
	client   *s3.Client
	bucket   string
	region   string
	endpoint string
	prefix   string
}

// NewS3Archive creates an archive. Without credentials or bucket it returns
// an archive that skips uploads.
func NewS3Archive(ctx context.Context, cfg *config.S3Config, prefix string) (*S3Archive, error) {
	if cfg == nil {
		return nil, fmt.Errorf("S3 config is nil")
	}
	a := &S3Archive{
		bucket:   cfg.Bucket,
		region:   cfg.Region,
		endpoint: strings.TrimRight(cfg.Endpoint, "/"),
		prefix:   strings.Trim(prefix, "/"),
	}
	if !cfg.Enabled() {
		log.Warn().Msg("S3 credentials not configured - workbook archive disabled")
		return a, nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	a.client = s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if a.endpoint != "" {
			o.BaseEndpoint = aws.String(a.endpoint)
			o.UsePathStyle = true
		}
	})
	return a, nil
}

// Enabled reports whether uploads actually happen.
func (a *S3Archive) Enabled() bool {
	return a != nil && a.client != nil
}

// Store uploads data under the archive prefix and returns the object URL.
func (a *S3Archive) Store(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	fullKey := a.objectKey(key)
	if !a.Enabled() {
		log.Debug().Str("key", fullKey).Msg("Workbook archive disabled - skipping upload")
		return "", nil
	}

	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(a.bucket),
		Key:           aws.String(fullKey),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		log.Error().Err(err).Str("key", fullKey).Msg("Failed to upload to S3")
		return "", fmt.Errorf("failed to upload: %w", err)
	}

	log.Info().Str("key", fullKey).Int("bytes", len(data)).Msg("Workbook archived to S3")
	return a.ObjectURL(fullKey), nil
}

func (a *S3Archive) objectKey(key string) string {
	if a.prefix == "" {
		return key
	}
	return path.Join(a.prefix, key)
}

// ObjectURL returns the URL for an S3 object
func (a *S3Archive) ObjectURL(key string) string {
	if a.endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", a.endpoint, a.bucket, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", a.bucket, a.region, key)
}
