// Package key issues and checks the static API keys of partner channels.
package key

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"dtmapi/internal/apperror"
	"dtmapi/internal/models"
	"dtmapi/internal/repository"

	"go.uber.org/zap"
)

// ChannelStore persists partner channel keys.
type ChannelStore interface {
	Create(ctx context.Context, ct *models.ChannelToken) error
	FindByName(ctx context.Context, name string) (*models.ChannelToken, error)
	FindByToken(ctx context.Context, token string) (*models.ChannelToken, error)
}

// TokenSigner signs the never-expiring channel key.
type TokenSigner interface {
	ChannelToken(name string) (string, error)
}

// Permission grants a channel read access to USER, or to members of Channel.
type Permission struct {
	Role    models.Role `json:"role"`
	Channel string      `json:"channel"`
}

// Result is the reply of key generation.
type Result struct {
	Successful bool   `json:"successful"`
	Message    string `json:"message"`
}

const msgAlreadyGenerated = "This channel is already generate token."

// Service manages partner channel keys.
type Service struct {
	store      ChannelStore
	signer     TokenSigner
	revokePath string
	logger     *zap.Logger
}

// NewService creates a key service that removes revokePath on Revoke.
func NewService(store ChannelStore, signer TokenSigner, revokePath string, logger *zap.Logger) *Service {
	return &Service{
		store:      store,
		signer:     signer,
		revokePath: revokePath,
		logger:     logger.Named("KeyService"),
	}
}

// Generate creates the key for a new channel name.
func (s *Service) Generate(ctx context.Context, name string, permissions []Permission) (*Result, error) {
	_, err := s.store.FindByName(ctx, name)
	if err == nil {
		return &Result{Successful: false, Message: msgAlreadyGenerated}, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	tok, err := s.signer.ChannelToken(name)
	if err != nil {
		return nil, err
	}
	ct := &models.ChannelToken{Name: name, Token: tok, AccessMember: []string{}}
	for _, p := range permissions {
		if p.Role == models.RoleUser {
			ct.IsAccessUser = true
			continue
		}
		ct.AccessMember = append(ct.AccessMember, p.Channel)
	}

	if err := s.store.Create(ctx, ct); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return &Result{Successful: false, Message: msgAlreadyGenerated}, nil
		}
		return nil, fmt.Errorf("store channel token: %w", err)
	}
	s.logger.Info("Channel key generated", zap.String("name", name), zap.Bool("accessUser", ct.IsAccessUser))
	return &Result{Successful: true, Message: "Generate success."}, nil
}

// Revoke removes the signing secret file.
func (s *Service) Revoke() error {
	if err := os.Remove(s.revokePath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return apperror.Single(http.StatusNotFound, "invalid/key", "The key was not found")
		}
		return fmt.Errorf("revoke key: %w", err)
	}
	s.logger.Info("API key revoked", zap.String("path", s.revokePath))
	return nil
}

// Lookup resolves the partner header token.
func (s *Service) Lookup(ctx context.Context, tok string) (*models.ChannelToken, error) {
	if tok == "" {
		return nil, errForbidden()
	}
	ct, err := s.store.FindByToken(ctx, tok)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, errForbidden()
	}
	if err != nil {
		return nil, err
	}
	return ct, nil
}

func errForbidden() *apperror.Errors {
	return apperror.Single(http.StatusForbidden, "invalid/token", "The channel token was invalid")
}

// partnerRoles are the only roles a channel can be granted.
var partnerRoles = map[models.Role]bool{
	models.RoleUser:   true,
	models.RoleMember: true,
}

// Authorize checks every requested type against the channel's grants.
// USER needs IsAccessUser and "MEMBER/<channel>" needs channel in
// AccessMember. Any other role is an invalid type.
func Authorize(ct *models.ChannelToken, types []string) error {
	denied := apperror.New(http.StatusForbidden)
	for _, t := range types {
		role, channel, _ := strings.Cut(t, "/")
		if !partnerRoles[models.Role(role)] {
			return apperror.Single(http.StatusBadRequest, "invalid/type", "type is invalid")
		}
		if models.Role(role) == models.RoleUser {
			if !ct.IsAccessUser {
				denied.Add("invalid/token", "token is invalid")
			}
			continue
		}
		if channel == "" || !ct.CanAccessMember(channel) {
			denied.Add("invalid/token", "token is invalid")
		}
	}
	return denied.OrNil()
}
