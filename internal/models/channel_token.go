package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ChannelToken is the static credential of a partner integration.
type ChannelToken struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Name         string             `bson:"name"`
	Token        string             `bson:"token"`
	IsAccessUser bool               `bson:"isAccessUser"`
	AccessMember []string           `bson:"accessMember"`
	CreatedAt    time.Time          `bson:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt"`
}

// CanAccessMember reports whether the partner may read members of channel.
func (c *ChannelToken) CanAccessMember(channel string) bool {
	for _, m := range c.AccessMember {
		if m == channel {
			return true
		}
	}
	return false
}
