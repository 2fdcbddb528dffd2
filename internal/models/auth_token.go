package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserAuthToken is one issued access/refresh pair. A new record is written
// on every login and refresh; older records stay usable until they expire
// or are marked deleted on logout.
type UserAuthToken struct {
	ID                           primitive.ObjectID `bson:"_id,omitempty"`
	UserID                       primitive.ObjectID `bson:"userId"`
	AccessToken                  string             `bson:"accessToken,omitempty"`
	AccessTokenExpiresAt         time.Time          `bson:"accessTokenExpiresAt,omitempty"`
	RefreshToken                 string             `bson:"refreshToken,omitempty"`
	RefreshTokenExpiresAt        time.Time          `bson:"refreshTokenExpiresAt,omitempty"`
	ForgotPasswordToken          string             `bson:"forgotPasswordToken,omitempty"`
	ForgotPasswordTokenExpiresAt time.Time          `bson:"forgotPasswordTokenExpiresAt,omitempty"`
	Deleted                      bool               `bson:"deleted"`
	CreatedAt                    time.Time          `bson:"createdAt"`
	UpdatedAt                    time.Time          `bson:"updatedAt"`
}

// AccessExpired reports whether the access token is past its expiry at now.
func (t *UserAuthToken) AccessExpired(now time.Time) bool {
	return t.AccessTokenExpiresAt.IsZero() || !t.AccessTokenExpiresAt.After(now)
}

// RefreshExpired reports whether the refresh token is past its expiry at now.
func (t *UserAuthToken) RefreshExpired(now time.Time) bool {
	return !t.RefreshTokenExpiresAt.IsZero() && t.RefreshTokenExpiresAt.Before(now)
}
