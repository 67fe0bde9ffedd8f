// Package blob stores uploaded media in an S3-compatible bucket and hands
// back the public URL each object is served under.
package blob

import (
	"bytes"
	"context"
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Config carries the bucket coordinates and credentials.
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
}

// Store uploads objects to one bucket. Each object is written with a
// public-read ACL so uploads stay reachable even without a bucket policy;
// Store never mutates bucket policy itself.
type Store struct {
	client  *minio.Client
	bucket  string
	baseURL string
}

// New connects to the S3-compatible endpoint.
func New(cfg Config) (*Store, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: true,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("connecting to object storage: %w", err)
	}
	return &Store{
		client:  client,
		bucket:  cfg.Bucket,
		baseURL: fmt.Sprintf("https://%s/%s", cfg.Endpoint, cfg.Bucket),
	}, nil
}

// Put uploads one object and returns its public URL. Uploads are single
// attempt; the caller decides whether a failed write aborts the request.
func (s *Store) Put(ctx context.Context, key, contentType string, data []byte) (string, error) {
	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType:  contentType,
		UserMetadata: map[string]string{"x-amz-acl": "public-read"},
	})
	if err != nil {
		return "", fmt.Errorf("uploading %s: %w", key, err)
	}
	return s.baseURL + "/" + key, nil
}

// Delete removes one object. Removing a missing key is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("removing %s: %w", key, err)
	}
	return nil
}
