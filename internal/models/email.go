package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EmailType tells which flow an email token belongs to.
type EmailType string

const (
	EmailVerifyAccount  EmailType = "VERIFY_ACCOUNT"
	EmailForgotPassword EmailType = "FORGOT_PASSWORD"
)

// Email records an outbound token email. It is flipped to used once the
// token is redeemed and never deleted.
type Email struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	UserID         primitive.ObjectID `bson:"userId"`
	Email          string             `bson:"email"`
	Title          string             `bson:"title"`
	Message        string             `bson:"message"`
	Token          string             `bson:"token"`
	TokenExpiresAt time.Time          `bson:"tokenExpiresAt"`
	Type           EmailType          `bson:"type"`
	IsUsed         bool               `bson:"isUsed"`
	CreatedAt      time.Time          `bson:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt"`
}

// Expired reports whether the token is past its expiry at now.
func (e *Email) Expired(now time.Time) bool {
	return !e.TokenExpiresAt.IsZero() && e.TokenExpiresAt.Before(now)
}
