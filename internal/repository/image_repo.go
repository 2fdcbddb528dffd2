package repository

import (
	"context"
	"time"

	"dtmapi/internal/database"
	"dtmapi/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// ImageRepository stores uploaded image metadata.
type ImageRepository struct {
	coll   *mongo.Collection
	logger *zap.Logger
}

// NewImageRepository returns a repository over the images collection.
func NewImageRepository(store *database.Store, logger *zap.Logger) *ImageRepository {
	return &ImageRepository{
		coll:   store.Collection(database.ImagesCollection),
		logger: logger.Named("ImageRepository"),
	}
}

// Create inserts img and fills in its ID and timestamps.
func (r *ImageRepository) Create(ctx context.Context, img *models.Image) error {
	now := time.Now()
	if img.ID.IsZero() {
		img.ID = primitive.NewObjectID()
	}
	img.CreatedAt = now
	img.UpdatedAt = now
	if err := insert(ctx, r.coll, img); err != nil {
		r.logger.Error("Failed to store image", zap.String("name", img.Name), zap.Error(err))
		return err
	}
	return nil
}

// FindByID returns the image with id or ErrNotFound.
func (r *ImageRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Image, error) {
	var img models.Image
	if err := findOne(ctx, r.coll, bson.M{"_id": id}, &img); err != nil {
		return nil, err
	}
	return &img, nil
}

// FindByName returns the image stored under name or ErrNotFound.
func (r *ImageRepository) FindByName(ctx context.Context, name string) (*models.Image, error) {
	var img models.Image
	if err := findOne(ctx, r.coll, bson.M{"name": name}, &img); err != nil {
		return nil, err
	}
	return &img, nil
}
