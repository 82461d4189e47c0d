package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Size struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ProductID primitive.ObjectID `bson:"productId" json:"productId"`
	Label     string             `bson:"label" json:"label"`
	Stock     int                `bson:"stock" json:"stock"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}
