package handlers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"designmarket/internal/models"
)

type CollectionCreateRequest struct {
	Address     string `json:"address" binding:"required"`
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl"`
}

type CollectionUpdateRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	ImageURL    *string `json:"imageUrl"`
}

// normalizeAddress canonicalizes a public collection slug: lowercase,
// trimmed, spaces collapsed to hyphens, charset restricted to [a-z0-9-_].
func normalizeAddress(address string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(address))
	normalized = strings.Join(strings.Fields(normalized), "-")
	if normalized == "" {
		return "", fmt.Errorf("address is required")
	}
	for _, r := range normalized {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') && r != '-' && r != '_' {
			return "", fmt.Errorf("address may only contain letters, digits, '-' and '_'")
		}
	}
	return normalized, nil
}

func findCollection(ctx context.Context, db *mongo.Database, id primitive.ObjectID) (*models.Collection, error) {
	var collection models.Collection
	err := db.Collection("collections").FindOne(ctx, bson.M{"_id": id}).Decode(&collection)
	if err != nil {
		return nil, err
	}
	return &collection, nil
}

func decodeCollections(ctx context.Context, cursor *mongo.Cursor) ([]models.Collection, error) {
	collections := make([]models.Collection, 0)
	if err := cursor.All(ctx, &collections); err != nil {
		return nil, err
	}
	return collections, nil
}

func CreateCollection(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/collections"
		defer handlePanic(c, route)

		userID, ok := callerID(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		var req CollectionCreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		address, err := normalizeAddress(req.Address)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, err.Error())
			return
		}

		name := strings.TrimSpace(req.Name)
		if name == "" {
			respondWithError(c, http.StatusBadRequest, route, "name is required")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		// The owner must exist before a collection is created. Owning a
		// collection is what makes a user a designer, so any authenticated
		// caller may create one.
		var owner models.User
		if err := db.Collection("users").FindOne(ctx, bson.M{"_id": userID}).Decode(&owner); err != nil {
			respondWithError(c, http.StatusNotFound, route, "owner not found")
			return
		}

		count, err := db.Collection("collections").CountDocuments(ctx, bson.M{"address": address})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if count > 0 {
			respondWithError(c, http.StatusConflict, route, "address already taken")
			return
		}

		now := time.Now()
		collection := models.Collection{
			DesignerID:  userID,
			Address:     address,
			Name:        name,
			Description: strings.TrimSpace(req.Description),
			ImageURL:    strings.TrimSpace(req.ImageURL),
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		res, err := db.Collection("collections").InsertOne(ctx, collection)
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				respondWithError(c, http.StatusConflict, route, "address already taken")
				return
			}
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		collection.ID, _ = res.InsertedID.(primitive.ObjectID)

		if !owner.IsDesigner {
			// First collection promotes the owner to designer.
			_, err := db.Collection("users").UpdateByID(ctx, userID, bson.M{
				"$set": bson.M{
					"isDesigner": true,
					"updatedAt":  now,
				},
			})
			if err != nil {
				log.Println("[COLLECTION] [ERROR] designer promotion failed:", err)
			}
		}

		log.Println("[COLLECTION] [INFO] created:", collection.Address)
		c.JSON(http.StatusCreated, collection)
	}
}

func UpdateCollection(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/collections/:id"
		defer handlePanic(c, route)

		userID, ok := callerID(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		collectionID, err := objectIDFromParam(c, "id")
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid collection id")
			return
		}

		var req CollectionUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		collection, err := findCollection(ctx, db, collectionID)
		if err != nil {
			respondWithError(c, http.StatusNotFound, route, "collection not found")
			return
		}
		if collection.DesignerID != userID {
			respondWithError(c, http.StatusForbidden, route, "not the collection owner")
			return
		}

		set := bson.M{"updatedAt": time.Now()}
		if req.Name != nil {
			name := strings.TrimSpace(*req.Name)
			if name == "" {
				respondWithError(c, http.StatusBadRequest, route, "name cannot be empty")
				return
			}
			set["name"] = name
		}
		if req.Description != nil {
			set["description"] = strings.TrimSpace(*req.Description)
		}
		if req.ImageURL != nil {
			set["imageUrl"] = strings.TrimSpace(*req.ImageURL)
		}

		if _, err := db.Collection("collections").UpdateByID(ctx, collectionID, bson.M{"$set": set}); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		updated, err := findCollection(ctx, db, collectionID)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		log.Println("[COLLECTION] [INFO] updated:", updated.Address)
		c.JSON(http.StatusOK, updated)
	}
}

func DeleteCollection(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /api/collections/:id"
		defer handlePanic(c, route)

		userID, ok := callerID(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		collectionID, err := objectIDFromParam(c, "id")
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid collection id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		collection, err := findCollection(ctx, db, collectionID)
		if err != nil {
			respondWithError(c, http.StatusNotFound, route, "collection not found")
			return
		}
		if collection.DesignerID != userID {
			respondWithError(c, http.StatusForbidden, route, "not the collection owner")
			return
		}

		// Child products are intentionally left in place; see DESIGN.md.
		if _, err := db.Collection("collections").DeleteOne(ctx, bson.M{"_id": collectionID}); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		log.Println("[COLLECTION] [INFO] deleted:", collection.Address)
		c.JSON(http.StatusOK, gin.H{"message": "collection deleted"})
	}
}

// ListCollections serves both the authenticated and the public listing route.
// An authenticated designer sees their own collections; everyone else sees
// the full set.
func ListCollections(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET collections"
		defer handlePanic(c, route)

		if err := ensureDBConnection(c.Request.Context(), db); err != nil {
			respondWithError(c, http.StatusServiceUnavailable, route, "database unavailable")
			return
		}

		filter := bson.M{}
		if userID, ok := callerID(c); ok && c.GetBool("isDesigner") {
			filter["designerId"] = userID
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
		cursor, err := db.Collection("collections").Find(ctx, filter, findOptions)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer cursor.Close(ctx)

		collections, err := decodeCollections(ctx, cursor)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "decode error")
			return
		}

		log.Printf("[%s] returning %d collections", route, len(collections))
		c.JSON(http.StatusOK, collections)
	}
}

func GetCollectionByID(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/public/collections/:id"
		defer handlePanic(c, route)

		collectionID, err := objectIDFromParam(c, "id")
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid collection id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		collection, err := findCollection(ctx, db, collectionID)
		if err != nil {
			respondWithError(c, http.StatusNotFound, route, "collection not found")
			return
		}

		c.JSON(http.StatusOK, collection)
	}
}

func GetCollectionByAddress(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/public/collections/address/:address"
		defer handlePanic(c, route)

		address, err := normalizeAddress(c.Param("address"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, err.Error())
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var collection models.Collection
		if err := db.Collection("collections").FindOne(ctx, bson.M{"address": address}).Decode(&collection); err != nil {
			respondWithError(c, http.StatusNotFound, route, "collection not found")
			return
		}

		c.JSON(http.StatusOK, collection)
	}
}

func GetCollectionsByDesigner(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/collections/by-designer/:designerId"
		defer handlePanic(c, route)

		designerID, err := objectIDFromParam(c, "designerId")
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid designer id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
		cursor, err := db.Collection("collections").Find(ctx, bson.M{"designerId": designerID}, findOptions)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer cursor.Close(ctx)

		collections, err := decodeCollections(ctx, cursor)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "decode error")
			return
		}

		c.JSON(http.StatusOK, collections)
	}
}
