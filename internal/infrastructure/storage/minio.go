package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const defaultTimeout = 10 * time.Second

// Config holds the object storage settings for product images.
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	// PublicURL is the base used to build image links. Defaults to the
	// endpoint with the matching scheme.
	PublicURL string
}

// ImageStore writes product images to a MinIO (or any S3 compatible) bucket.
type ImageStore struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

// NewImageStore connects to the endpoint and makes sure the bucket exists.
func NewImageStore(ctx context.Context, cfg Config) (*ImageStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("minio bucket check: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("minio make bucket: %w", err)
		}
	}

	return &ImageStore{
		client:    client,
		bucket:    cfg.Bucket,
		publicURL: publicBase(cfg),
	}, nil
}

// Put uploads body under key and returns the object's public URL.
func (s *ImageStore) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, s.bucket, key, body, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("minio put %s: %w", key, err)
	}
	return objectURL(s.publicURL, s.bucket, key), nil
}

// Ping reports whether the bucket is reachable.
func (s *ImageStore) Ping(ctx context.Context) error {
	_, err := s.client.BucketExists(ctx, s.bucket)
	return err
}

func publicBase(cfg Config) string {
	if cfg.PublicURL != "" {
		return strings.TrimRight(cfg.PublicURL, "/")
	}
	scheme := "http"
	if cfg.UseSSL {
		scheme = "https"
	}
	return scheme + "://" + cfg.Endpoint
}

func objectURL(base, bucket, key string) string {
	return base + "/" + bucket + "/" + strings.TrimLeft(key, "/")
}
