package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role is a tag granting a user access to a partner listing.
type Role string

const (
	RoleUser         Role = "USER"
	RoleMember       Role = "MEMBER"
	RoleSectionShare Role = "SECTION_SHARE"
	RoleSpeaker      Role = "SPEAKER"
	RoleMC           Role = "MC"
)

// User represents a registered account. Users are never hard-deleted.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"passwordHash" json:"-"`
	FirstName    string             `bson:"firstName" json:"firstName"`
	LastName     string             `bson:"lastName" json:"lastName"`
	LineUserID   string             `bson:"lineUserId,omitempty" json:"lineUserId,omitempty"`
	PhoneNumber  string             `bson:"phoneNumber" json:"phoneNumber"`
	IsVerify     bool               `bson:"isVerify" json:"isVerify"`
	KYC          []string           `bson:"kyc" json:"kyc"`
	PushTokens   []string           `bson:"pushTokens" json:"-"`
	Roles        []Role             `bson:"role" json:"role"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// HasRole reports whether the user carries role.
func (u *User) HasRole(role Role) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// HasKYC reports whether the user registered for the given KYC channel.
func (u *User) HasKYC(channel string) bool {
	for _, c := range u.KYC {
		if c == channel {
			return true
		}
	}
	return false
}
