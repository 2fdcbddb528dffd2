package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// Disk stores files in a local directory.
type Disk struct {
	dir    string
	logger *zap.Logger
}

// NewDisk creates dir if needed.
func NewDisk(dir string, logger *zap.Logger) (*Disk, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Disk{dir: dir, logger: logger.Named("DiskStorage")}, nil
}

// Save writes r to a new file. Existing files are not overwritten.
func (d *Disk) Save(_ context.Context, name, _ string, r io.Reader, _ int64) (string, error) {
	path := filepath.Join(d.dir, filepath.Base(name))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", name, err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		_ = os.Remove(path)
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", name, err)
	}
	d.logger.Debug("File stored", zap.String("path", path))
	return path, nil
}

// Open returns the file name or ErrObjectNotFound.
func (d *Disk) Open(_ context.Context, name string) (io.ReadCloser, error) {
	f, err := os.Open(filepath.Join(d.dir, filepath.Base(name)))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrObjectNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	return f, nil
}
