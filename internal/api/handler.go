package api

import (
	"context"
	"io"

	"dtmapi/internal/auth"
	"dtmapi/internal/image"
	"dtmapi/internal/key"
	"dtmapi/internal/metrics"
	"dtmapi/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// UserService is the account API backing the user routes.
type UserService interface {
	Login(ctx context.Context, email, password, lineUserID string) (*auth.Tokens, error)
	Register(ctx context.Context, in auth.RegisterInput, host string) (*auth.Message, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) (bool, error)
	Refresh(ctx context.Context, refreshToken string) (*auth.Tokens, error)
	Logout(ctx context.Context, sess *auth.Session, pushToken string) (*auth.Message, error)
	ResendVerifyEmail(ctx context.Context, email, host string) (bool, error)
	VerifyAccount(ctx context.Context, token string) (*auth.Message, error)
	ForgotPassword(ctx context.Context, email, host string) (bool, error)
	NewPassword(ctx context.Context, newPassword, token string) (bool, error)
	Authenticate(ctx context.Context, accessToken string) (*auth.Session, error)
	Profile(ctx context.Context, userID string) (*auth.UserInfo, error)
	AddKYCChannel(ctx context.Context, userID, channel string) (bool, error)
	PlatformUsers(ctx context.Context, types []string) (map[string][]auth.PlatformUser, error)
}

// ImageService backs the image routes.
type ImageService interface {
	Upload(ctx context.Context, userID primitive.ObjectID, r io.Reader, size int64) (*image.UploadResult, error)
	Get(ctx context.Context, id string) (*models.Image, error)
	OpenByName(ctx context.Context, name string) (io.ReadCloser, string, error)
}

// KeyService backs the partner key routes.
type KeyService interface {
	Generate(ctx context.Context, name string, permissions []key.Permission) (*key.Result, error)
	Revoke() error
	Lookup(ctx context.Context, token string) (*models.ChannelToken, error)
}

// Options configures a Handler.
type Options struct {
	// Scheme used for absolute image links.
	Scheme         string
	StaticDir      string
	MaxUploadBytes int64
}

// Handler serves the REST API.
type Handler struct {
	users   UserService
	images  ImageService
	keys    KeyService
	metrics *metrics.Manager
	opts    Options
	logger  *zap.Logger
}

// NewHandler creates a Handler. Scheme defaults to http.
func NewHandler(users UserService, images ImageService, keys KeyService, m *metrics.Manager, opts Options, logger *zap.Logger) *Handler {
	if opts.Scheme == "" {
		opts.Scheme = "http"
	}
	return &Handler{
		users:   users,
		images:  images,
		keys:    keys,
		metrics: m,
		opts:    opts,
		logger:  logger.Named("API"),
	}
}
