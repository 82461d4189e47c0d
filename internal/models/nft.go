package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NFT is a standalone mint record; it is not owned by any other entity.
type NFT struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name            string             `bson:"name" json:"name"`
	Description     string             `bson:"description,omitempty" json:"description,omitempty"`
	TokenID         string             `bson:"tokenId,omitempty" json:"tokenId,omitempty"`
	ContractAddress string             `bson:"contractAddress,omitempty" json:"contractAddress,omitempty"`
	MetadataURI     string             `bson:"metadataUri,omitempty" json:"metadataUri,omitempty"`
	ImageURL        string             `bson:"imageUrl,omitempty" json:"imageUrl,omitempty"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
}
