package services

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	appConfig "github.com/kendall-kelly/complaint-desk-api/config"
)

// BlobStore holds attachment files. The API never proxies file bytes; clients upload to a presigned URL.
type BlobStore interface {
	// PresignPut returns a URL the client can PUT the object to until it expires
	PresignPut(ctx context.Context, key, contentType string, size int64, expires time.Duration) (string, error)
	// ObjectURL is the stable URL stored in attachments.file_url
	ObjectURL(key string) string
	// KeyFromURL returns the object key when rawURL points into this store
	KeyFromURL(rawURL string) (string, bool)
	Delete(ctx context.Context, key string) error
}

// S3BlobStore is a BlobStore backed by an S3 bucket
type S3BlobStore struct {
	client  *s3.Client
	presign *s3.PresignClient
	bucket  string
	region  string
}

// NewS3BlobStore builds an S3 client from the application config.
// Static credentials are used when both keys are set, otherwise the default AWS chain.
func NewS3BlobStore(ctx context.Context, cfg *appConfig.Config) (*S3BlobStore, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.AWSRegion)}
	if cfg.AWSAccessKeyID != "" && cfg.AWSSecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AWSAccessKeyID,
			cfg.AWSSecretAccessKey,
			"",
		)))
	}

	awsConfig, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsConfig)
	return &S3BlobStore{
		client:  client,
		presign: s3.NewPresignClient(client),
		bucket:  cfg.AWSS3Bucket,
		region:  cfg.AWSRegion,
	}, nil
}

func (s *S3BlobStore) PresignPut(ctx context.Context, key, contentType string, size int64, expires time.Duration) (string, error) {
	request, err := s.presign.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(size),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = expires
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}
	return request.URL, nil
}

func (s *S3BlobStore) ObjectURL(key string) string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
}

func (s *S3BlobStore) KeyFromURL(rawURL string) (string, bool) {
	return keyFromVirtualHostedURL(rawURL, s.bucket)
}

func (s *S3BlobStore) Delete(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete file from S3: %w", err)
	}
	return nil
}

// keyFromVirtualHostedURL accepts https://<bucket>.s3[.<region>].amazonaws.com/<key>
func keyFromVirtualHostedURL(rawURL, bucket string) (string, bool) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme != "https" {
		return "", false
	}
	if !strings.HasPrefix(u.Host, bucket+".s3.") || !strings.HasSuffix(u.Host, ".amazonaws.com") {
		return "", false
	}
	key := strings.TrimPrefix(u.Path, "/")
	if key == "" {
		return "", false
	}
	return key, true
}
