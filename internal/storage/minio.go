package storage

import (
	"context"
	"fmt"
	"io"

	"dtmapi/internal/config"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

// Minio stores files in a MinIO bucket.
type Minio struct {
	client *minio.Client
	bucket string
	logger *zap.Logger
}

// NewMinio connects to the endpoint and makes sure the bucket exists.
func NewMinio(ctx context.Context, cfg config.StorageConfig, logger *zap.Logger) (*Minio, error) {
	log := logger.Named("MinioStorage")
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client for %s: %w", cfg.MinioEndpoint, err)
	}

	if err := client.MakeBucket(ctx, cfg.MinioBucket, minio.MakeBucketOptions{}); err != nil {
		exists, errExists := client.BucketExists(ctx, cfg.MinioBucket)
		if errExists != nil || !exists {
			return nil, fmt.Errorf("make bucket %s: %w", cfg.MinioBucket, err)
		}
		log.Info("Bucket already exists", zap.String("bucket", cfg.MinioBucket))
	} else {
		log.Info("Bucket created", zap.String("bucket", cfg.MinioBucket))
	}

	return &Minio{client: client, bucket: cfg.MinioBucket, logger: log}, nil
}

// Save uploads r as object name and returns "bucket/name".
func (m *Minio) Save(ctx context.Context, name, contentType string, r io.Reader, size int64) (string, error) {
	info, err := m.client.PutObject(ctx, m.bucket, name, r, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		m.logger.Error("PutObject failed", zap.String("key", name), zap.Error(err))
		return "", fmt.Errorf("upload %s: %w", name, err)
	}
	m.logger.Debug("Object stored", zap.String("key", info.Key), zap.Int64("size", info.Size))
	return m.bucket + "/" + info.Key, nil
}

// Open returns the object name or ErrObjectNotFound.
func (m *Minio) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	obj, err := m.client.GetObject(ctx, m.bucket, name, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", name, err)
	}
	// GetObject is lazy; Stat surfaces a missing key.
	if _, err := obj.Stat(); err != nil {
		obj.Close()
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, ErrObjectNotFound
		}
		return nil, fmt.Errorf("stat %s: %w", name, err)
	}
	return obj, nil
}
