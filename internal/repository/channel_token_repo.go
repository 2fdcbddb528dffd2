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

// ChannelTokenRepository stores partner channel keys.
type ChannelTokenRepository struct {
	coll   *mongo.Collection
	logger *zap.Logger
}

// NewChannelTokenRepository returns a repository over the channel tokens collection.
func NewChannelTokenRepository(store *database.Store, logger *zap.Logger) *ChannelTokenRepository {
	return &ChannelTokenRepository{
		coll:   store.Collection(database.ChannelTokensCollection),
		logger: logger.Named("ChannelTokenRepository"),
	}
}

// Create inserts ct. A taken name yields ErrDuplicate.
func (r *ChannelTokenRepository) Create(ctx context.Context, ct *models.ChannelToken) error {
	now := time.Now()
	if ct.ID.IsZero() {
		ct.ID = primitive.NewObjectID()
	}
	ct.CreatedAt = now
	ct.UpdatedAt = now
	if ct.AccessMember == nil {
		ct.AccessMember = []string{}
	}
	if err := insert(ctx, r.coll, ct); err != nil {
		return err
	}
	r.logger.Info("Channel token created", zap.String("name", ct.Name))
	return nil
}

// FindByName returns the key of channel name or ErrNotFound.
func (r *ChannelTokenRepository) FindByName(ctx context.Context, name string) (*models.ChannelToken, error) {
	var ct models.ChannelToken
	if err := findOne(ctx, r.coll, bson.M{"name": name}, &ct); err != nil {
		return nil, err
	}
	return &ct, nil
}

// FindByToken returns the channel owning token or ErrNotFound.
func (r *ChannelTokenRepository) FindByToken(ctx context.Context, token string) (*models.ChannelToken, error) {
	var ct models.ChannelToken
	if err := findOne(ctx, r.coll, bson.M{"token": token}, &ct); err != nil {
		return nil, err
	}
	return &ct, nil
}
