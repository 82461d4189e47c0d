package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents a marketplace account. Designers are users with the
// IsDesigner flag set; they may own collections.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username     string             `bson:"username" json:"username"`
	Email        string             `bson:"email,omitempty" json:"email,omitempty"`
	PasswordHash string             `bson:"passwordHash,omitempty" json:"-"`
	GoogleID     string             `bson:"googleId,omitempty" json:"-"`
	IsDesigner   bool               `bson:"isDesigner" json:"isDesigner"`
	DisplayName  string             `bson:"displayName,omitempty" json:"displayName,omitempty"`
	Bio          string             `bson:"bio,omitempty" json:"bio,omitempty"`
	AvatarURL    string             `bson:"avatarUrl,omitempty" json:"avatarUrl,omitempty"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}
