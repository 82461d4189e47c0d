package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Collection groups products under a designer. Address is the public slug,
// unique across all collections and distinct from the internal id.
type Collection struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	DesignerID  primitive.ObjectID `bson:"designerId" json:"designerId"`
	Address     string             `bson:"address" json:"address"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	ImageURL    string             `bson:"imageUrl,omitempty" json:"imageUrl,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}
