package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Image is an uploaded file owned by the user in ReferenceID. Immutable.
type Image struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ReferenceID primitive.ObjectID `bson:"referenceId" json:"referenceId"`
	Name        string             `bson:"name" json:"name"`
	ImagePath   string             `bson:"imagePath" json:"imagePath"`
	MimeType    string             `bson:"mimetype" json:"mimetype"`
	Size        int64              `bson:"size" json:"size"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}
