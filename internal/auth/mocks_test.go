package auth

import (
	"context"

	"dtmapi/internal/mailer"
	"dtmapi/internal/models"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserStore) user(args mock.Arguments) (*models.User, error) {
	if u := args.Get(0); u != nil {
		return u.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return m.user(m.Called(ctx, id))
}

func (m *MockUserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return m.user(m.Called(ctx, email))
}

func (m *MockUserStore) FindUnverifiedByEmail(ctx context.Context, email string) (*models.User, error) {
	return m.user(m.Called(ctx, email))
}

func (m *MockUserStore) FindByLineUserID(ctx context.Context, lineUserID string) (*models.User, error) {
	return m.user(m.Called(ctx, lineUserID))
}

func (m *MockUserStore) SetLineUserID(ctx context.Context, id primitive.ObjectID, lineUserID string) error {
	return m.Called(ctx, id, lineUserID).Error(0)
}

func (m *MockUserStore) UpdatePassword(ctx context.Context, id primitive.ObjectID, passwordHash string) error {
	return m.Called(ctx, id, passwordHash).Error(0)
}

func (m *MockUserStore) SetPushTokens(ctx context.Context, id primitive.ObjectID, tokens []string) error {
	return m.Called(ctx, id, tokens).Error(0)
}

func (m *MockUserStore) MarkVerified(ctx context.Context, id primitive.ObjectID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockUserStore) AddKYCChannel(ctx context.Context, id primitive.ObjectID, channel string) error {
	return m.Called(ctx, id, channel).Error(0)
}

func (m *MockUserStore) ListByRoles(ctx context.Context, roles []models.Role) ([]*models.User, error) {
	args := m.Called(ctx, roles)
	if u := args.Get(0); u != nil {
		return u.([]*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockTokenStore struct {
	mock.Mock
}

func (m *MockTokenStore) Create(ctx context.Context, token *models.UserAuthToken) error {
	return m.Called(ctx, token).Error(0)
}

func (m *MockTokenStore) token(args mock.Arguments) (*models.UserAuthToken, error) {
	if t := args.Get(0); t != nil {
		return t.(*models.UserAuthToken), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockTokenStore) FindByAccessToken(ctx context.Context, accessToken string) (*models.UserAuthToken, error) {
	return m.token(m.Called(ctx, accessToken))
}

func (m *MockTokenStore) FindByRefreshToken(ctx context.Context, refreshToken string) (*models.UserAuthToken, error) {
	return m.token(m.Called(ctx, refreshToken))
}

func (m *MockTokenStore) MarkDeleted(ctx context.Context, accessToken string) error {
	return m.Called(ctx, accessToken).Error(0)
}

type MockEmailStore struct {
	mock.Mock
}

func (m *MockEmailStore) FindUnused(ctx context.Context, token string, typ models.EmailType) (*models.Email, error) {
	args := m.Called(ctx, token, typ)
	if e := args.Get(0); e != nil {
		return e.(*models.Email), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockEmailStore) MarkUsed(ctx context.Context, id primitive.ObjectID) error {
	return m.Called(ctx, id).Error(0)
}

type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) SendTokenEmail(ctx context.Context, in mailer.TokenEmail, host string) error {
	return m.Called(ctx, in, host).Error(0)
}
