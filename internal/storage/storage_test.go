package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"dtmapi/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestDisk_SaveOpen(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")
	d, err := NewDisk(dir, zap.NewNop())
	require.NoError(t, err)

	ctx := context.Background()
	path, err := d.Save(ctx, "images-1.png", "image/png", strings.NewReader("png-bytes"), 9)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "images-1.png"), path)

	rc, err := d.Open(ctx, "images-1.png")
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))

	_, err = d.Save(ctx, "images-1.png", "image/png", strings.NewReader("again"), 5)
	assert.Error(t, err, "existing objects are not overwritten")

	_, err = d.Open(ctx, "missing.png")
	assert.ErrorIs(t, err, ErrObjectNotFound)
}

func TestDisk_StaysInsideDir(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "uploads")
	d, err := NewDisk(dir, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(root, "secret.txt"), []byte("x"), 0o600))

	_, err = d.Open(context.Background(), "../secret.txt")
	assert.ErrorIs(t, err, ErrObjectNotFound)
}

func TestNew_UnknownDriver(t *testing.T) {
	_, err := New(context.Background(), config.StorageConfig{Driver: "ftp"}, zap.NewNop())
	assert.Error(t, err)
}
