package storage

import (
	"bytes"
	"context"
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"

	"github.com/steemit/yatube/pkg/config"
	"github.com/steemit/yatube/pkg/logging"
)

// MinIOStore keeps media files in a MinIO / S3 bucket
type MinIOStore struct {
	client  *minio.Client
	bucket  string
	baseURL string
	logger  *zap.Logger
}

// NewMinIOStore creates a bucket-backed store
func NewMinIOStore(cfg config.MinIOConfig, baseURL string) (*MinIOStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	return &MinIOStore{
		client:  client,
		bucket:  cfg.Bucket,
		baseURL: baseURL,
		logger:  logging.WithComponent("storage-minio"),
	}, nil
}

// EnsureBucket creates the bucket when missing
func (s *MinIOStore) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed checking bucket %s: %w", s.bucket, err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed creating bucket %s: %w", s.bucket, err)
	}
	s.logger.Info("Created media bucket", zap.String("bucket", s.bucket))
	return nil
}

// Save implements Store
func (s *MinIOStore) Save(ctx context.Context, name string, data []byte, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, s.bucket, name, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		s.logger.Error("MinIO upload failed",
			zap.String("object_name", name),
			zap.String("bucket", s.bucket),
			zap.Error(err))
		return "", err
	}
	s.logger.Debug("MinIO upload succeeded",
		zap.String("object_name", name),
		zap.Int("size", len(data)),
		zap.String("content_type", contentType))
	return name, nil
}

// Delete implements Store
func (s *MinIOStore) Delete(ctx context.Context, path string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, path, minio.RemoveObjectOptions{}); err != nil {
		s.logger.Error("MinIO delete failed",
			zap.String("object_name", path),
			zap.String("bucket", s.bucket),
			zap.Error(err))
		return err
	}
	return nil
}

// URL implements Store
func (s *MinIOStore) URL(path string) string {
	return joinURL(s.baseURL, path)
}
