package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Listing exposes a product for sale on the marketplace.
type Listing struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ProductID primitive.ObjectID `bson:"productId" json:"productId"`
	Price     float64            `bson:"price" json:"price"`
	Status    string             `bson:"status" json:"status"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
