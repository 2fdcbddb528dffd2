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

// TokenRepository stores issued access/refresh pairs.
type TokenRepository struct {
	coll   *mongo.Collection
	logger *zap.Logger
}

// NewTokenRepository returns a repository over the user auth tokens collection.
func NewTokenRepository(store *database.Store, logger *zap.Logger) *TokenRepository {
	return &TokenRepository{
		coll:   store.Collection(database.UserAuthTokensCollection),
		logger: logger.Named("TokenRepository"),
	}
}

// Create inserts token and fills in its ID and timestamps.
func (r *TokenRepository) Create(ctx context.Context, token *models.UserAuthToken) error {
	now := time.Now()
	if token.ID.IsZero() {
		token.ID = primitive.NewObjectID()
	}
	token.CreatedAt = now
	token.UpdatedAt = now
	if err := insert(ctx, r.coll, token); err != nil {
		r.logger.Error("Failed to store auth token", zap.String("userID", token.UserID.Hex()), zap.Error(err))
		return err
	}
	return nil
}

// FindByAccessToken returns the pair holding accessToken or ErrNotFound.
func (r *TokenRepository) FindByAccessToken(ctx context.Context, accessToken string) (*models.UserAuthToken, error) {
	var t models.UserAuthToken
	if err := findOne(ctx, r.coll, bson.M{"accessToken": accessToken}, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// FindByRefreshToken returns the pair holding refreshToken or ErrNotFound.
func (r *TokenRepository) FindByRefreshToken(ctx context.Context, refreshToken string) (*models.UserAuthToken, error) {
	var t models.UserAuthToken
	if err := findOne(ctx, r.coll, bson.M{"refreshToken": refreshToken}, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// MarkDeleted revokes the record holding accessToken.
func (r *TokenRepository) MarkDeleted(ctx context.Context, accessToken string) error {
	update := bson.M{"$set": bson.M{"deleted": true, "updatedAt": time.Now()}}
	if err := updateOne(ctx, r.coll, bson.M{"accessToken": accessToken}, update); err != nil {
		return err
	}
	r.logger.Info("Auth token revoked")
	return nil
}
