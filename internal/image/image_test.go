package image

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"dtmapi/internal/apperror"
	"dtmapi/internal/models"
	"dtmapi/internal/repository"
	"dtmapi/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

type MockImageStore struct {
	mock.Mock
}

func (m *MockImageStore) Create(ctx context.Context, img *models.Image) error {
	return m.Called(ctx, img).Error(0)
}

func (m *MockImageStore) find(args mock.Arguments) (*models.Image, error) {
	if img := args.Get(0); img != nil {
		return img.(*models.Image), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockImageStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Image, error) {
	return m.find(m.Called(ctx, id))
}

func (m *MockImageStore) FindByName(ctx context.Context, name string) (*models.Image, error) {
	return m.find(m.Called(ctx, name))
}

func newService(t *testing.T, store ImageStore, maxBytes int64) (*Service, storage.Storage) {
	t.Helper()
	files, err := storage.NewDisk(t.TempDir(), zap.NewNop())
	require.NoError(t, err)
	return NewService(store, files, maxBytes, zap.NewNop()), files
}

func TestUpload(t *testing.T) {
	ctx := context.Background()
	userID := primitive.NewObjectID()

	t.Run("stores png", func(t *testing.T) {
		store := new(MockImageStore)
		store.On("Create", ctx, mock.MatchedBy(func(img *models.Image) bool {
			return img.ReferenceID == userID && img.MimeType == "image/png" &&
				strings.HasPrefix(img.Name, "images-") && strings.HasSuffix(img.Name, ".png")
		})).Return(nil).Once()
		svc, files := newService(t, store, 1<<20)

		res, err := svc.Upload(ctx, userID, bytes.NewReader(pngHeader), int64(len(pngHeader)))
		require.NoError(t, err)
		assert.True(t, res.Successful)

		rc, err := files.Open(ctx, res.Data.Name)
		require.NoError(t, err)
		defer rc.Close()
		data, _ := io.ReadAll(rc)
		assert.Equal(t, pngHeader, data)
		store.AssertExpectations(t)
	})

	t.Run("rejects non image", func(t *testing.T) {
		svc, _ := newService(t, new(MockImageStore), 1<<20)
		_, err := svc.Upload(ctx, userID, strings.NewReader("plain text"), 10)
		list, ok := apperror.As(err)
		require.True(t, ok)
		assert.True(t, list.Has("invalid/images"))
	})

	t.Run("rejects oversize", func(t *testing.T) {
		svc, _ := newService(t, new(MockImageStore), 4)
		_, err := svc.Upload(ctx, userID, bytes.NewReader(pngHeader), int64(len(pngHeader)))
		list, ok := apperror.As(err)
		require.True(t, ok)
		assert.True(t, list.Has("invalid/images"))
	})

	t.Run("rejects empty", func(t *testing.T) {
		svc, _ := newService(t, new(MockImageStore), 1<<20)
		_, err := svc.Upload(ctx, userID, bytes.NewReader(nil), 0)
		list, ok := apperror.As(err)
		require.True(t, ok)
		assert.True(t, list.Has("empty/images"))
	})
}

func TestGet(t *testing.T) {
	ctx := context.Background()
	store := new(MockImageStore)
	id := primitive.NewObjectID()
	store.On("FindByID", ctx, id).Return(&models.Image{ID: id, Name: "images-1.png"}, nil)
	missing := primitive.NewObjectID()
	store.On("FindByID", ctx, missing).Return(nil, repository.ErrNotFound)
	svc, _ := newService(t, store, 1<<20)

	img, err := svc.Get(ctx, id.Hex())
	require.NoError(t, err)
	assert.Equal(t, "images-1.png", img.Name)

	img, err = svc.Get(ctx, missing.Hex())
	require.NoError(t, err)
	assert.Nil(t, img)

	img, err = svc.Get(ctx, "zzz")
	require.NoError(t, err)
	assert.Nil(t, img)
}

func TestOpenByName(t *testing.T) {
	ctx := context.Background()
	store := new(MockImageStore)
	svc, files := newService(t, store, 1<<20)
	_, err := files.Save(ctx, "images-2.gif", "image/gif", strings.NewReader("GIF89a"), 6)
	require.NoError(t, err)

	store.On("FindByName", ctx, "images-2.gif").Return(nil, repository.ErrNotFound)
	rc, contentType, err := svc.OpenByName(ctx, "images-2.gif")
	require.NoError(t, err)
	rc.Close()
	assert.Equal(t, "image/gif", contentType)

	_, _, err = svc.OpenByName(ctx, ".env")
	list, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusForbidden, list.Status)

	_, _, err = svc.OpenByName(ctx, "../keys/private.pem")
	list, ok = apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, list.Status)

	store.On("FindByName", ctx, "images-3.png").Return(nil, repository.ErrNotFound)
	_, _, err = svc.OpenByName(ctx, "images-3.png")
	list, ok = apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, list.Status)
}
