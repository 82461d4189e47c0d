package database

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func EnsureUserIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("users").Indexes()

	usernameIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "username", Value: 1}},
		Options: options.Index().
			SetName("username_unique").
			SetUnique(true),
	}

	googleIDIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "googleId", Value: 1}},
		Options: options.Index().
			SetName("googleId_unique").
			SetUnique(true).
			SetPartialFilterExpression(bson.M{
				"googleId": bson.M{
					"$exists": true,
					"$type":   "string",
				},
			}),
	}

	log.Println("EnsureUserIndexes: creating username_unique index")
	if _, err := indexes.CreateOne(ctx, usernameIndex); err != nil {
		log.Println("EnsureUserIndexes: username index error:", err)
		return err
	}

	log.Println("EnsureUserIndexes: creating googleId_unique index")
	if _, err := indexes.CreateOne(ctx, googleIDIndex); err != nil {
		log.Println("EnsureUserIndexes: googleId index error:", err)
		return err
	}
	return nil
}

func EnsureCollectionIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("collections").Indexes()

	addressIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "address", Value: 1}},
		Options: options.Index().
			SetName("address_unique").
			SetUnique(true),
	}

	designerIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "designerId", Value: 1}},
		Options: options.Index().SetName("designerId_index"),
	}

	log.Println("EnsureCollectionIndexes: creating address_unique index")
	if _, err := indexes.CreateOne(ctx, addressIndex); err != nil {
		log.Println("EnsureCollectionIndexes: address index error:", err)
		return err
	}

	log.Println("EnsureCollectionIndexes: creating designerId_index")
	if _, err := indexes.CreateOne(ctx, designerIndex); err != nil {
		log.Println("EnsureCollectionIndexes: designerId index error:", err)
		return err
	}
	return nil
}

func EnsureProductIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("products").Indexes()

	collectionIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "collectionId", Value: 1}},
		Options: options.Index().SetName("collectionId_index"),
	}

	log.Println("EnsureProductIndexes: creating collectionId_index")
	if _, err := indexes.CreateOne(ctx, collectionIndex); err != nil {
		log.Println("EnsureProductIndexes: collectionId index error:", err)
		return err
	}
	return nil
}
