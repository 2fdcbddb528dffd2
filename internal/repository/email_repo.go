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

// EmailRepository stores sent token emails.
type EmailRepository struct {
	coll   *mongo.Collection
	logger *zap.Logger
}

// NewEmailRepository returns a repository over the emails collection.
func NewEmailRepository(store *database.Store, logger *zap.Logger) *EmailRepository {
	return &EmailRepository{
		coll:   store.Collection(database.EmailsCollection),
		logger: logger.Named("EmailRepository"),
	}
}

// Create inserts email and fills in its ID and timestamps.
func (r *EmailRepository) Create(ctx context.Context, email *models.Email) error {
	now := time.Now()
	if email.ID.IsZero() {
		email.ID = primitive.NewObjectID()
	}
	email.CreatedAt = now
	email.UpdatedAt = now
	return insert(ctx, r.coll, email)
}

// FindUnused returns the not yet redeemed email of kind typ carrying token.
func (r *EmailRepository) FindUnused(ctx context.Context, token string, typ models.EmailType) (*models.Email, error) {
	var e models.Email
	filter := bson.M{"token": token, "isUsed": false, "type": typ}
	if err := findOne(ctx, r.coll, filter, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// MarkUsed flags the email token as redeemed.
func (r *EmailRepository) MarkUsed(ctx context.Context, id primitive.ObjectID) error {
	update := bson.M{"$set": bson.M{"isUsed": true, "updatedAt": time.Now()}}
	if err := updateOne(ctx, r.coll, bson.M{"_id": id}, update); err != nil {
		r.logger.Error("Failed to mark email used", zap.String("emailID", id.Hex()), zap.Error(err))
		return err
	}
	return nil
}
