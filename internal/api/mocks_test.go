package api

import (
	"context"
	"io"

	"dtmapi/internal/auth"
	"dtmapi/internal/image"
	"dtmapi/internal/key"
	"dtmapi/internal/models"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) message(args mock.Arguments) (*auth.Message, error) {
	if v := args.Get(0); v != nil {
		return v.(*auth.Message), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserService) tokens(args mock.Arguments) (*auth.Tokens, error) {
	if v := args.Get(0); v != nil {
		return v.(*auth.Tokens), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserService) Login(ctx context.Context, email, password, lineUserID string) (*auth.Tokens, error) {
	return m.tokens(m.Called(ctx, email, password, lineUserID))
}

func (m *MockUserService) Register(ctx context.Context, in auth.RegisterInput, host string) (*auth.Message, error) {
	return m.message(m.Called(ctx, in, host))
}

func (m *MockUserService) EmailExists(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserService) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) (bool, error) {
	args := m.Called(ctx, userID, oldPassword, newPassword)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserService) Refresh(ctx context.Context, refreshToken string) (*auth.Tokens, error) {
	return m.tokens(m.Called(ctx, refreshToken))
}

func (m *MockUserService) Logout(ctx context.Context, sess *auth.Session, pushToken string) (*auth.Message, error) {
	return m.message(m.Called(ctx, sess, pushToken))
}

func (m *MockUserService) ResendVerifyEmail(ctx context.Context, email, host string) (bool, error) {
	args := m.Called(ctx, email, host)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserService) VerifyAccount(ctx context.Context, token string) (*auth.Message, error) {
	return m.message(m.Called(ctx, token))
}

func (m *MockUserService) ForgotPassword(ctx context.Context, email, host string) (bool, error) {
	args := m.Called(ctx, email, host)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserService) NewPassword(ctx context.Context, newPassword, token string) (bool, error) {
	args := m.Called(ctx, newPassword, token)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserService) Authenticate(ctx context.Context, accessToken string) (*auth.Session, error) {
	args := m.Called(ctx, accessToken)
	if v := args.Get(0); v != nil {
		return v.(*auth.Session), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserService) Profile(ctx context.Context, userID string) (*auth.UserInfo, error) {
	args := m.Called(ctx, userID)
	if v := args.Get(0); v != nil {
		return v.(*auth.UserInfo), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserService) AddKYCChannel(ctx context.Context, userID, channel string) (bool, error) {
	args := m.Called(ctx, userID, channel)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserService) PlatformUsers(ctx context.Context, types []string) (map[string][]auth.PlatformUser, error) {
	args := m.Called(ctx, types)
	if v := args.Get(0); v != nil {
		return v.(map[string][]auth.PlatformUser), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockImageService struct {
	mock.Mock
}

func (m *MockImageService) Upload(ctx context.Context, userID primitive.ObjectID, r io.Reader, size int64) (*image.UploadResult, error) {
	args := m.Called(ctx, userID, r, size)
	if v := args.Get(0); v != nil {
		return v.(*image.UploadResult), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockImageService) Get(ctx context.Context, id string) (*models.Image, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*models.Image), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockImageService) OpenByName(ctx context.Context, name string) (io.ReadCloser, string, error) {
	args := m.Called(ctx, name)
	if v := args.Get(0); v != nil {
		return v.(io.ReadCloser), args.String(1), args.Error(2)
	}
	return nil, args.String(1), args.Error(2)
}

type MockKeyService struct {
	mock.Mock
}

func (m *MockKeyService) Generate(ctx context.Context, name string, permissions []key.Permission) (*key.Result, error) {
	args := m.Called(ctx, name, permissions)
	if v := args.Get(0); v != nil {
		return v.(*key.Result), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockKeyService) Revoke() error {
	return m.Called().Error(0)
}

func (m *MockKeyService) Lookup(ctx context.Context, token string) (*models.ChannelToken, error) {
	args := m.Called(ctx, token)
	if v := args.Get(0); v != nil {
		return v.(*models.ChannelToken), args.Error(1)
	}
	return nil, args.Error(1)
}
