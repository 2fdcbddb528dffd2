// Package image stores user uploads and serves them back by name.
package image

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"dtmapi/internal/apperror"
	"dtmapi/internal/models"
	"dtmapi/internal/repository"
	"dtmapi/internal/storage"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// ImageStore persists image metadata.
type ImageStore interface {
	Create(ctx context.Context, img *models.Image) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Image, error)
	FindByName(ctx context.Context, name string) (*models.Image, error)
}

var allowedTypes = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// UploadResult is the reply of an upload.
type UploadResult struct {
	Successful bool          `json:"successful"`
	Data       *models.Image `json:"data"`
}

// Service uploads and serves images.
type Service struct {
	store    ImageStore
	files    storage.Storage
	maxBytes int64
	now      func() time.Time
	logger   *zap.Logger
}

// NewService creates an image service accepting uploads up to maxBytes.
func NewService(store ImageStore, files storage.Storage, maxBytes int64, logger *zap.Logger) *Service {
	return &Service{
		store:    store,
		files:    files,
		maxBytes: maxBytes,
		now:      time.Now,
		logger:   logger.Named("ImageService"),
	}
}

// Upload stores an image for userID. The content type is sniffed from the
// bytes, not taken from the client.
func (s *Service) Upload(ctx context.Context, userID primitive.ObjectID, r io.Reader, size int64) (*UploadResult, error) {
	if size > s.maxBytes {
		return nil, apperror.Single(http.StatusBadRequest, "invalid/images",
			fmt.Sprintf("The images must not exceed %d bytes", s.maxBytes))
	}

	br := bufio.NewReaderSize(r, 512)
	head, err := br.Peek(512)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if len(head) == 0 {
		return nil, apperror.Single(http.StatusBadRequest, "empty/images", "The images was empty")
	}
	contentType := http.DetectContentType(head)
	ext, ok := allowedTypes[contentType]
	if !ok {
		return nil, apperror.Single(http.StatusBadRequest, "invalid/images", "The images must be png, jpeg, gif or webp")
	}

	name := fmt.Sprintf("images-%d-%s%s", s.now().UnixMilli(), uuid.NewString()[:8], ext)
	path, err := s.files.Save(ctx, name, contentType, io.LimitReader(br, s.maxBytes), size)
	if err != nil {
		return nil, err
	}

	img := &models.Image{
		ReferenceID: userID,
		Name:        name,
		ImagePath:   path,
		MimeType:    contentType,
		Size:        size,
	}
	if err := s.store.Create(ctx, img); err != nil {
		return nil, err
	}
	s.logger.Info("Image uploaded", zap.String("name", name), zap.String("userID", userID.Hex()))
	return &UploadResult{Successful: true, Data: img}, nil
}

// Get returns nil without error when id is malformed or unknown.
func (s *Service) Get(ctx context.Context, id string) (*models.Image, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	img, err := s.store.FindByID(ctx, oid)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	return img, err
}

// OpenByName streams a stored image. Dotfiles and names with path
// separators are refused.
func (s *Service) OpenByName(ctx context.Context, name string) (io.ReadCloser, string, error) {
	if name == "" || strings.ContainsAny(name, `/\`) {
		return nil, "", apperror.Single(http.StatusNotFound, "invalid/image", "The image was not found")
	}
	if strings.HasPrefix(name, ".") {
		return nil, "", apperror.Single(http.StatusForbidden, "invalid/image", "The image is not accessible")
	}

	contentType := ""
	img, err := s.store.FindByName(ctx, name)
	switch {
	case err == nil:
		contentType = img.MimeType
	case !errors.Is(err, repository.ErrNotFound):
		return nil, "", err
	}
	if contentType == "" {
		contentType = mime.TypeByExtension(filepath.Ext(name))
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	rc, err := s.files.Open(ctx, name)
	if errors.Is(err, storage.ErrObjectNotFound) {
		return nil, "", apperror.Single(http.StatusNotFound, "invalid/image", "The image was not found")
	}
	if err != nil {
		return nil, "", err
	}
	return rc, contentType, nil
}
