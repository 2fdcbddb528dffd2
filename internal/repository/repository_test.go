package repository

import (
	"context"
	"testing"

	"dtmapi/internal/database"
	"dtmapi/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
	"go.uber.org/zap"
)

func newStore(mt *mtest.T) *database.Store {
	return database.NewStore(nil, mt.DB, "dtm")
}

func ns(mt *mtest.T, name string) string {
	return mt.DB.Name() + "." + database.CollectionName("dtm", name)
}

func TestUserRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("create success", func(mt *mtest.T) {
		repo := NewUserRepository(newStore(mt), zap.NewNop())
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		user := &models.User{Email: "a@b.co", PasswordHash: "hash"}
		require.NoError(t, repo.Create(context.Background(), user))
		assert.False(t, user.ID.IsZero())
		assert.NotNil(t, user.KYC)
		assert.NotNil(t, user.Roles)
		assert.False(t, user.CreatedAt.IsZero())
	})

	mt.Run("create duplicate email", func(mt *mtest.T) {
		repo := NewUserRepository(newStore(mt), zap.NewNop())
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "duplicate key error",
		}))

		err := repo.Create(context.Background(), &models.User{Email: "a@b.co"})
		assert.ErrorIs(t, err, ErrDuplicate)
	})

	mt.Run("find by email", func(mt *mtest.T) {
		repo := NewUserRepository(newStore(mt), zap.NewNop())
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt, database.UsersCollection), mtest.FirstBatch, bson.D{
			{Key: "_id", Value: id},
			{Key: "email", Value: "a@b.co"},
			{Key: "isVerify", Value: true},
			{Key: "role", Value: bson.A{"USER"}},
		}))

		user, err := repo.FindByEmail(context.Background(), "a@b.co")
		require.NoError(t, err)
		assert.Equal(t, id, user.ID)
		assert.True(t, user.IsVerify)
		assert.True(t, user.HasRole(models.RoleUser))
	})

	mt.Run("find missing", func(mt *mtest.T) {
		repo := NewUserRepository(newStore(mt), zap.NewNop())
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt, database.UsersCollection), mtest.FirstBatch))

		_, err := repo.FindByID(context.Background(), primitive.NewObjectID())
		assert.ErrorIs(t, err, ErrNotFound)
	})

	mt.Run("mark verified already verified", func(mt *mtest.T) {
		repo := NewUserRepository(newStore(mt), zap.NewNop())
		mt.AddMockResponses(bson.D{{Key: "ok", Value: 1}, {Key: "n", Value: 0}, {Key: "nModified", Value: 0}})

		err := repo.MarkVerified(context.Background(), primitive.NewObjectID())
		assert.ErrorIs(t, err, ErrNotFound)
	})

	mt.Run("update password", func(mt *mtest.T) {
		repo := NewUserRepository(newStore(mt), zap.NewNop())
		mt.AddMockResponses(bson.D{{Key: "ok", Value: 1}, {Key: "n", Value: 1}, {Key: "nModified", Value: 1}})

		require.NoError(t, repo.UpdatePassword(context.Background(), primitive.NewObjectID(), "new-hash"))
	})

	mt.Run("list by roles", func(mt *mtest.T) {
		repo := NewUserRepository(newStore(mt), zap.NewNop())
		namespace := ns(mt, database.UsersCollection)
		first := mtest.CreateCursorResponse(1, namespace, mtest.FirstBatch, bson.D{
			{Key: "_id", Value: primitive.NewObjectID()},
			{Key: "email", Value: "one@b.co"},
		})
		second := mtest.CreateCursorResponse(1, namespace, mtest.NextBatch, bson.D{
			{Key: "_id", Value: primitive.NewObjectID()},
			{Key: "email", Value: "two@b.co"},
		})
		killCursors := mtest.CreateCursorResponse(0, namespace, mtest.NextBatch)
		mt.AddMockResponses(first, second, killCursors)

		users, err := repo.ListByRoles(context.Background(), []models.Role{models.RoleSpeaker})
		require.NoError(t, err)
		require.Len(t, users, 2)
		assert.Equal(t, "two@b.co", users[1].Email)
	})
}

func TestTokenRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("find by access token", func(mt *mtest.T) {
		repo := NewTokenRepository(newStore(mt), zap.NewNop())
		userID := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt, database.UserAuthTokensCollection), mtest.FirstBatch, bson.D{
			{Key: "_id", Value: primitive.NewObjectID()},
			{Key: "userId", Value: userID},
			{Key: "accessToken", Value: "tok"},
			{Key: "deleted", Value: true},
		}))

		tok, err := repo.FindByAccessToken(context.Background(), "tok")
		require.NoError(t, err)
		assert.Equal(t, userID, tok.UserID)
		assert.True(t, tok.Deleted)
	})

	mt.Run("mark deleted unknown token", func(mt *mtest.T) {
		repo := NewTokenRepository(newStore(mt), zap.NewNop())
		mt.AddMockResponses(bson.D{{Key: "ok", Value: 1}, {Key: "n", Value: 0}, {Key: "nModified", Value: 0}})

		assert.ErrorIs(t, repo.MarkDeleted(context.Background(), "nope"), ErrNotFound)
	})
}

func TestEmailRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("find unused", func(mt *mtest.T) {
		repo := NewEmailRepository(newStore(mt), zap.NewNop())
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt, database.EmailsCollection), mtest.FirstBatch, bson.D{
			{Key: "_id", Value: primitive.NewObjectID()},
			{Key: "token", Value: "t"},
			{Key: "type", Value: "FORGOT_PASSWORD"},
			{Key: "isUsed", Value: false},
		}))

		e, err := repo.FindUnused(context.Background(), "t", models.EmailForgotPassword)
		require.NoError(t, err)
		assert.Equal(t, models.EmailForgotPassword, e.Type)
	})

	mt.Run("mark used", func(mt *mtest.T) {
		repo := NewEmailRepository(newStore(mt), zap.NewNop())
		mt.AddMockResponses(bson.D{{Key: "ok", Value: 1}, {Key: "n", Value: 1}, {Key: "nModified", Value: 1}})

		require.NoError(t, repo.MarkUsed(context.Background(), primitive.NewObjectID()))
	})
}

func TestImageRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("create and find by name", func(mt *mtest.T) {
		repo := NewImageRepository(newStore(mt), zap.NewNop())
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		img := &models.Image{Name: "images-1.png", MimeType: "image/png", Size: 3}
		require.NoError(t, repo.Create(context.Background(), img))

		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt, database.ImagesCollection), mtest.FirstBatch, bson.D{
			{Key: "_id", Value: img.ID},
			{Key: "name", Value: img.Name},
			{Key: "mimetype", Value: img.MimeType},
		}))
		got, err := repo.FindByName(context.Background(), img.Name)
		require.NoError(t, err)
		assert.Equal(t, "image/png", got.MimeType)
	})
}

func TestChannelTokenRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("create duplicate channel", func(mt *mtest.T) {
		repo := NewChannelTokenRepository(newStore(mt), zap.NewNop())
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{Code: 11000, Message: "dup"}))

		err := repo.Create(context.Background(), &models.ChannelToken{Name: "speaker-club"})
		assert.ErrorIs(t, err, ErrDuplicate)
	})

	mt.Run("find by token", func(mt *mtest.T) {
		repo := NewChannelTokenRepository(newStore(mt), zap.NewNop())
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt, database.ChannelTokensCollection), mtest.FirstBatch, bson.D{
			{Key: "_id", Value: primitive.NewObjectID()},
			{Key: "name", Value: "speaker-club"},
			{Key: "token", Value: "abc"},
			{Key: "accessMember", Value: bson.A{"speaker-club"}},
		}))

		ct, err := repo.FindByToken(context.Background(), "abc")
		require.NoError(t, err)
		assert.True(t, ct.CanAccessMember("speaker-club"))
	})
}
