package emitter

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"path"
	"strings"
	"sync"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioConfig configures a MinioSink.
type MinioConfig struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	UseSSL    bool
	// CreateBuckets makes missing buckets on first write.
	CreateBuckets bool
}

// MinioSink writes files to an S3-compatible object store. Locations have the
// form s3://bucket/key.
type MinioSink struct {
	client *minio.Client
	region string
	create bool

	mu      sync.Mutex
	checked map[string]error
}

// NewMinioSink connects a MinioSink. No request is made until the first write.
func NewMinioSink(cfg MinioConfig) (*MinioSink, error) {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		return nil, fmt.Errorf("emitter: s3 endpoint is required")
	}
	access := strings.TrimSpace(cfg.AccessKey)
	secret := strings.TrimSpace(cfg.SecretKey)
	if access == "" || secret == "" {
		return nil, fmt.Errorf("emitter: s3 access key and secret key are required")
	}
	region := strings.TrimSpace(cfg.Region)
	if region == "" {
		region = "us-east-1"
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(access, secret, ""),
		Secure: cfg.UseSSL,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("emitter: init s3 client: %w", err)
	}
	return &MinioSink{
		client:  client,
		region:  region,
		create:  cfg.CreateBuckets,
		checked: make(map[string]error),
	}, nil
}

// WriteFile implements Sink.
func (s *MinioSink) WriteFile(ctx context.Context, location string, content []byte) error {
	bucket, key, err := splitBucket(location)
	if err != nil {
		return err
	}
	if err := s.ensureBucket(ctx, bucket); err != nil {
		return fmt.Errorf("emitter: ensure bucket %s: %w", bucket, err)
	}
	_, err = s.client.PutObject(ctx, bucket, key, bytes.NewReader(content), int64(len(content)), minio.PutObjectOptions{
		ContentType: contentType(key),
	})
	if err != nil {
		return fmt.Errorf("emitter: put %s: %w", location, err)
	}
	return nil
}

func (s *MinioSink) ensureBucket(ctx context.Context, bucket string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err, ok := s.checked[bucket]; ok {
		return err
	}

	exists, err := s.client.BucketExists(ctx, bucket)
	switch {
	case err != nil:
		// Transient failures are retried by the next write.
		return err
	case exists:
	case s.create:
		err = s.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: s.region})
	default:
		err = fmt.Errorf("bucket does not exist")
	}
	s.checked[bucket] = err
	return err
}

func contentType(key string) string {
	switch path.Ext(key) {
	case ".ts":
		return "application/typescript"
	case ".json":
		return "application/json"
	}
	if t := mime.TypeByExtension(path.Ext(key)); t != "" {
		return t
	}
	return "application/octet-stream"
}
