package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dtmapi/internal/database"
	"dtmapi/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// UserRepository stores user accounts.
type UserRepository struct {
	coll   *mongo.Collection
	logger *zap.Logger
}

// NewUserRepository returns a repository over the users collection.
func NewUserRepository(store *database.Store, logger *zap.Logger) *UserRepository {
	return &UserRepository{
		coll:   store.Collection(database.UsersCollection),
		logger: logger.Named("UserRepository"),
	}
}

// Create inserts a new user and fills in its ID and timestamps.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	now := time.Now()
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.KYC == nil {
		user.KYC = []string{}
	}
	if user.PushTokens == nil {
		user.PushTokens = []string{}
	}
	if user.Roles == nil {
		user.Roles = []models.Role{}
	}

	if err := insert(ctx, r.coll, user); err != nil {
		if errors.Is(err, ErrDuplicate) {
			r.logger.Warn("Duplicate email during user creation", zap.String("email", user.Email))
		} else {
			r.logger.Error("Database error during user creation", zap.String("email", user.Email), zap.Error(err))
		}
		return err
	}
	r.logger.Info("User created", zap.String("userID", user.ID.Hex()))
	return nil
}

// FindByID returns the user with id or ErrNotFound.
func (r *UserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

// FindByEmail returns the user registered with email or ErrNotFound.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

// FindUnverifiedByEmail is FindByEmail restricted to unverified users.
func (r *UserRepository) FindUnverifiedByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"email": email, "isVerify": false})
}

// FindByLineUserID returns the user linked to a LINE account or ErrNotFound.
func (r *UserRepository) FindByLineUserID(ctx context.Context, lineUserID string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"lineUserId": lineUserID})
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var user models.User
	if err := findOne(ctx, r.coll, filter, &user); err != nil {
		if !errors.Is(err, ErrNotFound) {
			r.logger.Error("Database error fetching user", zap.Error(err))
		}
		return nil, err
	}
	return &user, nil
}

// SetLineUserID links a LINE account to the user.
func (r *UserRepository) SetLineUserID(ctx context.Context, id primitive.ObjectID, lineUserID string) error {
	return r.set(ctx, id, bson.M{"lineUserId": lineUserID})
}

// UpdatePassword replaces the stored bcrypt hash.
func (r *UserRepository) UpdatePassword(ctx context.Context, id primitive.ObjectID, passwordHash string) error {
	if err := r.set(ctx, id, bson.M{"passwordHash": passwordHash}); err != nil {
		return err
	}
	r.logger.Info("Password updated", zap.String("userID", id.Hex()))
	return nil
}

// SetPushTokens replaces the user's device push tokens.
func (r *UserRepository) SetPushTokens(ctx context.Context, id primitive.ObjectID, tokens []string) error {
	if tokens == nil {
		tokens = []string{}
	}
	return r.set(ctx, id, bson.M{"pushTokens": tokens})
}

// MarkVerified flips an unverified user to verified and grants the USER role.
// Already verified users yield ErrNotFound.
func (r *UserRepository) MarkVerified(ctx context.Context, id primitive.ObjectID) error {
	update := bson.M{
		"$set":      bson.M{"isVerify": true, "updatedAt": time.Now()},
		"$addToSet": bson.M{"role": models.RoleUser},
	}
	if err := updateOne(ctx, r.coll, bson.M{"_id": id, "isVerify": false}, update); err != nil {
		return err
	}
	r.logger.Info("User verified", zap.String("userID", id.Hex()))
	return nil
}

// AddKYCChannel appends channel to the user's KYC list and grants MEMBER once.
func (r *UserRepository) AddKYCChannel(ctx context.Context, id primitive.ObjectID, channel string) error {
	update := bson.M{
		"$push":     bson.M{"kyc": channel},
		"$addToSet": bson.M{"role": models.RoleMember},
		"$set":      bson.M{"updatedAt": time.Now()},
	}
	return updateOne(ctx, r.coll, bson.M{"_id": id}, update)
}

// ListByRoles returns every user holding at least one of roles.
func (r *UserRepository) ListByRoles(ctx context.Context, roles []models.Role) ([]*models.User, error) {
	cursor, err := r.coll.Find(ctx, bson.M{"role": bson.M{"$in": roles}})
	if err != nil {
		r.logger.Error("DB error listing users", zap.Error(err))
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer cursor.Close(ctx)

	var users []*models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}
	r.logger.Debug("Users listed", zap.Int("count", len(users)))
	return users, nil
}

func (r *UserRepository) set(ctx context.Context, id primitive.ObjectID, fields bson.M) error {
	fields["updatedAt"] = time.Now()
	if err := updateOne(ctx, r.coll, bson.M{"_id": id}, bson.M{"$set": fields}); err != nil {
		if errors.Is(err, ErrNotFound) {
			r.logger.Warn("User not found for update", zap.String("userID", id.Hex()))
		}
		return err
	}
	return nil
}
