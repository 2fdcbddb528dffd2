package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"dtmapi/internal/apperror"
	"dtmapi/internal/models"
	"dtmapi/internal/repository"
	"dtmapi/internal/token"

	"go.uber.org/zap"
)

const msgEmailInUse = "This email is already use."

// RegisterInput carries the validated registration fields.
type RegisterInput struct {
	FirstName   string
	LastName    string
	Email       string
	Password    string
	PhoneNumber string
	LineUserID  string
}

// Register creates an unverified account and mails the verification link.
// host is the request host, used for absolute links in the email.
func (s *Service) Register(ctx context.Context, in RegisterInput, host string) (*Message, error) {
	_, err := s.users.FindByEmail(ctx, in.Email)
	if err == nil {
		return &Message{Successful: false, Message: msgEmailInUse}, nil
	}
	if !isNotFound(err) {
		return nil, err
	}

	hash, err := s.hashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Email:        in.Email,
		PasswordHash: hash,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		PhoneNumber:  in.PhoneNumber,
		LineUserID:   in.LineUserID,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return &Message{Successful: false, Message: msgEmailInUse}, nil
		}
		return nil, err
	}

	if err := s.sendTokenEmail(ctx, user, models.EmailVerifyAccount, token.KindVerify, host); err != nil {
		return nil, fmt.Errorf("send verification email: %w", err)
	}
	s.logger.Info("User registered", zap.String("userID", user.ID.Hex()))
	return &Message{Successful: true, Message: "Registered!"}, nil
}

// EmailExists reports whether an account uses email.
func (s *Service) EmailExists(ctx context.Context, email string) (bool, error) {
	_, err := s.users.FindByEmail(ctx, email)
	if isNotFound(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ChangePassword reports false when the user no longer exists.
func (s *Service) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) (bool, error) {
	oid, err := parseUserID(userID)
	if err != nil {
		return false, err
	}
	user, err := s.users.FindByID(ctx, oid)
	if isNotFound(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if !checkPassword(user.PasswordHash, oldPassword) {
		return false, apperror.Single(http.StatusBadRequest, "invalid/oldPassword", "The oldPassword was invalid")
	}

	hash, err := s.hashPassword(newPassword)
	if err != nil {
		return false, err
	}
	if err := s.users.UpdatePassword(ctx, user.ID, hash); err != nil {
		return false, err
	}
	return true, nil
}

// ResendVerifyEmail mails a fresh verification link to an unverified user.
func (s *Service) ResendVerifyEmail(ctx context.Context, email, host string) (bool, error) {
	user, err := s.users.FindUnverifiedByEmail(ctx, email)
	if isNotFound(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := s.sendTokenEmail(ctx, user, models.EmailVerifyAccount, token.KindVerify, host); err != nil {
		return false, fmt.Errorf("resend verification email: %w", err)
	}
	return true, nil
}

// redeem returns the unused email of typ carrying tok, rejecting expired ones.
func (s *Service) redeem(ctx context.Context, tok string, typ models.EmailType) (*models.Email, error) {
	email, err := s.emails.FindUnused(ctx, tok, typ)
	if isNotFound(err) {
		return nil, apperror.Single(http.StatusBadRequest, "invalid/token", "token is invalid")
	}
	if err != nil {
		return nil, err
	}
	if email.Expired(s.now()) {
		return nil, apperror.Single(http.StatusBadRequest, "condition/token", "token has expired")
	}
	return email, nil
}

// VerifyAccount marks the user verified and grants USER. The user and the
// email record are written separately.
func (s *Service) VerifyAccount(ctx context.Context, tok string) (*Message, error) {
	email, err := s.redeem(ctx, tok, models.EmailVerifyAccount)
	if err != nil {
		return nil, err
	}

	if err := s.users.MarkVerified(ctx, email.UserID); err != nil {
		if isNotFound(err) {
			return nil, apperror.Single(http.StatusBadRequest, "invalid/token", "token is invalid")
		}
		return nil, err
	}
	if err := s.emails.MarkUsed(ctx, email.ID); err != nil {
		return nil, err
	}
	return &Message{Successful: true, Message: "Account was verified!"}, nil
}

// ForgotPassword mails a reset link; false when the email is unknown.
func (s *Service) ForgotPassword(ctx context.Context, email, host string) (bool, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if isNotFound(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := s.sendTokenEmail(ctx, user, models.EmailForgotPassword, token.KindEmail, host); err != nil {
		return false, fmt.Errorf("send reset email: %w", err)
	}
	return true, nil
}

// NewPassword sets the password of the user a reset token was issued to.
func (s *Service) NewPassword(ctx context.Context, newPassword, tok string) (bool, error) {
	email, err := s.redeem(ctx, tok, models.EmailForgotPassword)
	if err != nil {
		return false, err
	}

	hash, err := s.hashPassword(newPassword)
	if err != nil {
		return false, err
	}
	if err := s.users.UpdatePassword(ctx, email.UserID, hash); err != nil {
		if isNotFound(err) {
			return false, apperror.Single(http.StatusBadRequest, "invalid/token", "token is invalid")
		}
		return false, err
	}
	if err := s.emails.MarkUsed(ctx, email.ID); err != nil {
		return false, err
	}
	return true, nil
}
