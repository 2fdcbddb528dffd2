package auth

import (
	"context"
	"fmt"
	"net/http"

	"dtmapi/internal/apperror"
	"dtmapi/internal/models"
	"dtmapi/internal/token"

	"go.uber.org/zap"
)

// Session is an authenticated bearer token with its owner.
type Session struct {
	AccessToken string
	Token       *models.UserAuthToken
	User        *models.User
}

func errInvalidAccessToken() *apperror.Errors {
	return apperror.Single(http.StatusUnauthorized, "invalid/accessToken", "The accessToken was invalid")
}

// Login checks the credentials and opens a new session. A non-empty
// lineUserID is linked to the account unless another user already owns it.
func (s *Service) Login(ctx context.Context, email, password, lineUserID string) (*Tokens, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if isNotFound(err) {
		return nil, apperror.Single(http.StatusBadRequest, "invalid/account", "The account was invalid")
	}
	if err != nil {
		return nil, err
	}
	if !checkPassword(user.PasswordHash, password) {
		return nil, apperror.Single(http.StatusBadRequest, "err", "The password was invalid")
	}
	if !user.IsVerify {
		return nil, apperror.Single(http.StatusBadRequest, "err", "This account is not verify")
	}

	if lineUserID != "" {
		if err := s.linkLineUser(ctx, user, lineUserID); err != nil {
			return nil, err
		}
	}

	tokens, err := s.issueSession(ctx, user)
	if err != nil {
		return nil, err
	}
	s.logger.Info("User logged in", zap.String("userID", user.ID.Hex()))
	return tokens, nil
}

func (s *Service) linkLineUser(ctx context.Context, user *models.User, lineUserID string) error {
	_, err := s.users.FindByLineUserID(ctx, lineUserID)
	if err == nil {
		return nil
	}
	if !isNotFound(err) {
		return err
	}
	if err := s.users.SetLineUserID(ctx, user.ID, lineUserID); err != nil {
		return fmt.Errorf("link line user: %w", err)
	}
	user.LineUserID = lineUserID
	return nil
}

// Refresh exchanges a live refresh token for a new pair.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*Tokens, error) {
	record, err := s.tokens.FindByRefreshToken(ctx, refreshToken)
	if isNotFound(err) || (err == nil && record.Deleted) {
		return nil, apperror.Single(http.StatusBadRequest, "invalid/refreshToken", "refresh token is invalid.")
	}
	if err != nil {
		return nil, err
	}
	if record.RefreshExpired(s.now()) {
		return nil, apperror.Single(http.StatusBadRequest, "condition/refreshToken", "refresh token has expired")
	}

	user, err := s.users.FindByID(ctx, record.UserID)
	if isNotFound(err) {
		return nil, apperror.Single(http.StatusBadRequest, "invalid/refreshToken", "refresh token is invalid.")
	}
	if err != nil {
		return nil, err
	}
	return s.issueSession(ctx, user)
}

// Logout revokes the session and drops pushToken from the user's devices.
func (s *Service) Logout(ctx context.Context, sess *Session, pushToken string) (*Message, error) {
	if pushToken != "" {
		if err := s.removePushToken(ctx, sess.User, pushToken); err != nil {
			return nil, err
		}
	}
	if err := s.tokens.MarkDeleted(ctx, sess.AccessToken); err != nil && !isNotFound(err) {
		return nil, fmt.Errorf("revoke session: %w", err)
	}
	s.logger.Info("User logged out", zap.String("userID", sess.User.ID.Hex()))
	return &Message{Successful: true, Message: "Logged out!"}, nil
}

func (s *Service) removePushToken(ctx context.Context, user *models.User, pushToken string) error {
	seen := make(map[string]struct{}, len(user.PushTokens))
	kept := make([]string, 0, len(user.PushTokens))
	for _, t := range user.PushTokens {
		if t == "" || t == pushToken {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		kept = append(kept, t)
	}
	if err := s.users.SetPushTokens(ctx, user.ID, kept); err != nil {
		return fmt.Errorf("update push tokens: %w", err)
	}
	user.PushTokens = kept
	return nil
}

// Authenticate resolves a bearer token. Tokens that fail signature checks,
// are unknown, revoked or past expiry are all rejected alike.
func (s *Service) Authenticate(ctx context.Context, accessToken string) (*Session, error) {
	if accessToken == "" {
		return nil, errInvalidAccessToken()
	}
	claims, err := s.signer.Parse(accessToken)
	if err != nil || claims.Kind != token.KindAccess {
		return nil, errInvalidAccessToken()
	}

	record, err := s.tokens.FindByAccessToken(ctx, accessToken)
	if isNotFound(err) {
		return nil, errInvalidAccessToken()
	}
	if err != nil {
		return nil, err
	}
	if record.Deleted || record.AccessExpired(s.now()) {
		return nil, errInvalidAccessToken()
	}

	user, err := s.users.FindByID(ctx, record.UserID)
	if isNotFound(err) {
		return nil, errInvalidAccessToken()
	}
	if err != nil {
		return nil, err
	}
	return &Session{AccessToken: accessToken, Token: record, User: user}, nil
}
