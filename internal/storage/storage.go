// Package storage keeps uploaded image bytes on local disk or in a MinIO bucket.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"dtmapi/internal/config"

	"go.uber.org/zap"
)

var ErrObjectNotFound = errors.New("object not found")

// Storage keeps uploaded files by name.
type Storage interface {
	// Save stores r under name and returns the location recorded on the image.
	Save(ctx context.Context, name, contentType string, r io.Reader, size int64) (string, error)
	Open(ctx context.Context, name string) (io.ReadCloser, error)
}

// New builds the driver selected by cfg.Driver.
func New(ctx context.Context, cfg config.StorageConfig, logger *zap.Logger) (Storage, error) {
	switch cfg.Driver {
	case "disk", "":
		return NewDisk(cfg.UploadDir, logger)
	case "minio":
		return NewMinio(ctx, cfg, logger)
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Driver)
	}
}
