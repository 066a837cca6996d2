package s3

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"

	"github.com/HamzaAshfaq01/sellsgoods/internal/adapter/storage"
	"github.com/HamzaAshfaq01/sellsgoods/internal/app/config"
	"github.com/HamzaAshfaq01/sellsgoods/internal/platform/logger"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinIOStorage keeps product images in an object bucket. Stored paths double
// as object keys, so the same "uploads/<uuid><ext>" strings land on products
// regardless of backend.
type MinIOStorage struct {
	client *minio.Client
	bucket string
	log    logger.Logger
}

func NewMinIOStorage(cfg config.StorageConfig, log logger.Logger) (*MinIOStorage, error) {
	client, err := minio.New(cfg.MinIOEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinIOAccessKey, cfg.MinIOSecretKey, ""),
		Secure: cfg.MinIOUseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client for %s: %w", cfg.MinIOEndpoint, err)
	}

	ctx := context.Background()
	if err := client.MakeBucket(ctx, cfg.MinIOBucket, minio.MakeBucketOptions{}); err != nil {
		exists, errExists := client.BucketExists(ctx, cfg.MinIOBucket)
		if errExists != nil || !exists {
			return nil, fmt.Errorf("failed to make/verify bucket %s: %w", cfg.MinIOBucket, err)
		}
	}

	log.Infof("MinIO storage ready, endpoint=%s bucket=%s", cfg.MinIOEndpoint, cfg.MinIOBucket)
	return &MinIOStorage{client: client, bucket: cfg.MinIOBucket, log: log}, nil
}

func (s *MinIOStorage) Save(ctx context.Context, originalName string, data []byte) (string, error) {
	ext := filepath.Ext(originalName)
	key := storage.PathPrefix + uuid.New().String() + ext

	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{})
	if err != nil {
		return "", fmt.Errorf("failed to upload object %s: %w", key, err)
	}
	return key, nil
}

func (s *MinIOStorage) Remove(ctx context.Context, path string) error {
	if _, err := s.client.StatObject(ctx, s.bucket, path, minio.StatObjectOptions{}); err != nil {
		resp := minio.ToErrorResponse(err)
		if resp.Code == "NoSuchKey" {
			return fmt.Errorf("%s: %w", path, storage.ErrFileNotFound)
		}
		return fmt.Errorf("failed to stat object %s: %w", path, err)
	}
	if err := s.client.RemoveObject(ctx, s.bucket, path, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to remove object %s: %w", path, err)
	}
	return nil
}

func (s *MinIOStorage) RemoveIfExists(ctx context.Context, path string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, path, minio.RemoveObjectOptions{}); err != nil {
		resp := minio.ToErrorResponse(err)
		if resp.Code == "NoSuchKey" {
			return nil
		}
		return fmt.Errorf("failed to remove object %s: %w", path, err)
	}
	return nil
}
