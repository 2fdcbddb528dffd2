// Package mailer renders and delivers the account emails and records every
// token it sends.
package mailer

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"dtmapi/internal/config"
	"dtmapi/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// EmailStore persists sent emails.
type EmailStore interface {
	Create(ctx context.Context, email *models.Email) error
}

// TokenEmail describes one outbound token email.
type TokenEmail struct {
	UserID         primitive.ObjectID
	Email          string
	Type           models.EmailType
	Token          string
	TokenExpiresAt time.Time
}

// Service sends token emails.
type Service struct {
	sender Sender
	store  EmailStore
	cfg    config.EmailConfig
	scheme string
	logger *zap.Logger
}

// NewService creates an email service. Links use scheme, defaulting to http.
func NewService(sender Sender, store EmailStore, cfg config.EmailConfig, scheme string, logger *zap.Logger) *Service {
	if scheme == "" {
		scheme = "http"
	}
	return &Service{
		sender: sender,
		store:  store,
		cfg:    cfg,
		scheme: scheme,
		logger: logger.Named("EmailService"),
	}
}

// SendTokenEmail renders the template for in.Type, sends it and stores an
// unused Email record. host is the request host used for the logo link.
func (s *Service) SendTokenEmail(ctx context.Context, in TokenEmail, host string) error {
	var base string
	switch in.Type {
	case models.EmailVerifyAccount:
		base = s.cfg.VerifyURL
	case models.EmailForgotPassword:
		base = s.cfg.ResetURL
	default:
		return fmt.Errorf("unknown email type %q", in.Type)
	}

	html, err := render(in.Type, templateData{
		LogoURL: s.logoURL(host),
		Email:   in.Email,
		Token:   in.Token,
		Link:    withToken(base, in.Token),
	})
	if err != nil {
		return err
	}

	subject := subjects[in.Type]
	if err := s.sender.Send(ctx, in.Email, subject, html); err != nil {
		return fmt.Errorf("send %s email: %w", in.Type, err)
	}

	record := &models.Email{
		UserID:         in.UserID,
		Email:          in.Email,
		Title:          subject,
		Token:          in.Token,
		TokenExpiresAt: in.TokenExpiresAt,
		Type:           in.Type,
		IsUsed:         false,
	}
	if err := s.store.Create(ctx, record); err != nil {
		return fmt.Errorf("store %s email: %w", in.Type, err)
	}
	s.logger.Debug("Token email recorded", zap.String("type", string(in.Type)), zap.String("userID", in.UserID.Hex()))
	return nil
}

func (s *Service) logoURL(host string) string {
	return s.scheme + "://" + host + "/static/" + strings.TrimPrefix(s.cfg.LogoFile, "/")
}

func withToken(base, token string) string {
	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}
	return base + sep + "token=" + url.QueryEscape(token)
}
