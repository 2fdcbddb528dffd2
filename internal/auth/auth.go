// Package auth implements the account lifecycle: registration, email
// verification, sessions, password changes and the partner user listing.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"dtmapi/internal/apperror"
	"dtmapi/internal/config"
	"dtmapi/internal/mailer"
	"dtmapi/internal/models"
	"dtmapi/internal/repository"
	"dtmapi/internal/token"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// UserStore persists user accounts.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindUnverifiedByEmail(ctx context.Context, email string) (*models.User, error)
	FindByLineUserID(ctx context.Context, lineUserID string) (*models.User, error)
	SetLineUserID(ctx context.Context, id primitive.ObjectID, lineUserID string) error
	UpdatePassword(ctx context.Context, id primitive.ObjectID, passwordHash string) error
	SetPushTokens(ctx context.Context, id primitive.ObjectID, tokens []string) error
	MarkVerified(ctx context.Context, id primitive.ObjectID) error
	AddKYCChannel(ctx context.Context, id primitive.ObjectID, channel string) error
	ListByRoles(ctx context.Context, roles []models.Role) ([]*models.User, error)
}

// TokenStore persists issued access/refresh pairs.
type TokenStore interface {
	Create(ctx context.Context, token *models.UserAuthToken) error
	FindByAccessToken(ctx context.Context, accessToken string) (*models.UserAuthToken, error)
	FindByRefreshToken(ctx context.Context, refreshToken string) (*models.UserAuthToken, error)
	MarkDeleted(ctx context.Context, accessToken string) error
}

// EmailStore looks up and redeems email tokens.
type EmailStore interface {
	FindUnused(ctx context.Context, token string, typ models.EmailType) (*models.Email, error)
	MarkUsed(ctx context.Context, id primitive.ObjectID) error
}

// Mailer sends token emails and records them.
type Mailer interface {
	SendTokenEmail(ctx context.Context, in mailer.TokenEmail, host string) error
}

// Message is the generic {successful, message} reply.
type Message struct {
	Successful bool   `json:"successful"`
	Message    string `json:"message"`
}

// Tokens is the reply of login and refresh.
type Tokens struct {
	Successful   bool   `json:"successful"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Service implements the account operations.
type Service struct {
	users      UserStore
	tokens     TokenStore
	emails     EmailStore
	mailer     Mailer
	signer     *token.Signer
	auth       config.AuthConfig
	emailTTL   time.Duration
	bcryptCost int
	now        func() time.Time
	logger     *zap.Logger
}

// NewService creates the account service.
func NewService(users UserStore, tokens TokenStore, emails EmailStore, m Mailer, signer *token.Signer,
	authCfg config.AuthConfig, emailCfg config.EmailConfig, logger *zap.Logger) *Service {
	return &Service{
		users:      users,
		tokens:     tokens,
		emails:     emails,
		mailer:     m,
		signer:     signer,
		auth:       authCfg,
		emailTTL:   emailCfg.TokenTTL,
		bcryptCost: bcrypt.DefaultCost,
		now:        time.Now,
		logger:     logger.Named("AuthService"),
	}
}

func (s *Service) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func checkPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// issueSession signs an access/refresh pair for user and stores it as a new
// UserAuthToken. Earlier pairs stay valid until they expire or are revoked.
func (s *Service) issueSession(ctx context.Context, user *models.User) (*Tokens, error) {
	sub := token.Subject{
		UserID:      user.ID.Hex(),
		Email:       user.Email,
		PhoneNumber: user.PhoneNumber,
		IsVerify:    user.IsVerify,
	}
	access, accessExp, err := s.signer.AccessToken(sub, s.auth.AccessTokenTTL)
	if err != nil {
		return nil, err
	}
	refresh, refreshExp, err := s.signer.RefreshToken(sub, s.auth.RefreshTokenTTL)
	if err != nil {
		return nil, err
	}

	record := &models.UserAuthToken{
		UserID:                user.ID,
		AccessToken:           access,
		AccessTokenExpiresAt:  accessExp,
		RefreshToken:          refresh,
		RefreshTokenExpiresAt: refreshExp,
	}
	if err := s.tokens.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}
	return &Tokens{Successful: true, AccessToken: access, RefreshToken: refresh}, nil
}

// sendTokenEmail issues an email token of kind for user and mails it.
func (s *Service) sendTokenEmail(ctx context.Context, user *models.User, typ models.EmailType, kind token.Kind, host string) error {
	tok, exp, err := s.signer.EmailToken(user.ID.Hex(), kind, s.emailTTL)
	if err != nil {
		return err
	}
	return s.mailer.SendTokenEmail(ctx, mailer.TokenEmail{
		UserID:         user.ID,
		Email:          user.Email,
		Type:           typ,
		Token:          tok,
		TokenExpiresAt: exp,
	}, host)
}

func parseUserID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, apperror.Single(http.StatusBadRequest, "invalid/userId", "The userId was invalid")
	}
	return oid, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound)
}
