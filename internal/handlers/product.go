package handlers

import (
	"context"
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

type ProductCreateRequest struct {
	CollectionID string  `json:"collectionId" binding:"required"`
	Name         string  `json:"name" binding:"required"`
	Description  string  `json:"description"`
	Price        float64 `json:"price"`
	Currency     string  `json:"currency"`
	ImageURL     string  `json:"imageUrl"`
}

type ProductUpdateRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Currency    *string  `json:"currency"`
	ImageURL    *string  `json:"imageUrl"`
}

type ListProductRequest struct {
	ID string `json:"id" binding:"required"`
}

func findProduct(ctx context.Context, db *mongo.Database, id primitive.ObjectID) (*models.Product, error) {
	var product models.Product
	err := db.Collection("products").FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func decodeProducts(ctx context.Context, cursor *mongo.Cursor) ([]models.Product, error) {
	products := make([]models.Product, 0)
	if err := cursor.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// productOwnedBy reports whether the product's parent collection belongs to
// the given designer. A missing parent counts as not owned.
func productOwnedBy(ctx context.Context, db *mongo.Database, product *models.Product, userID primitive.ObjectID) bool {
	collection, err := findCollection(ctx, db, product.CollectionID)
	if err != nil {
		return false
	}
	return collection.DesignerID == userID
}

func CreateProduct(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/products"
		defer handlePanic(c, route)

		userID, ok := callerID(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		var req ProductCreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		collectionID, err := primitive.ObjectIDFromHex(strings.TrimSpace(req.CollectionID))
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

		now := time.Now()
		product := models.Product{
			CollectionID: collectionID,
			Name:         strings.TrimSpace(req.Name),
			Description:  strings.TrimSpace(req.Description),
			Price:        req.Price,
			Currency:     strings.TrimSpace(req.Currency),
			ImageURL:     strings.TrimSpace(req.ImageURL),
			Listed:       false,
			CreatedAt:    now,
			UpdatedAt:    now,
		}

		res, err := db.Collection("products").InsertOne(ctx, product)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		product.ID, _ = res.InsertedID.(primitive.ObjectID)
		log.Println("[PRODUCT] [INFO] created:", product.Name)
		c.JSON(http.StatusCreated, product)
	}
}

func UpdateProduct(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/products/:id"
		defer handlePanic(c, route)

		userID, ok := callerID(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		productID, err := objectIDFromParam(c, "id")
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid product id")
			return
		}

		var req ProductUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		product, err := findProduct(ctx, db, productID)
		if err != nil {
			respondWithError(c, http.StatusNotFound, route, "product not found")
			return
		}
		if !productOwnedBy(ctx, db, product, userID) {
			respondWithError(c, http.StatusForbidden, route, "not the product owner")
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
		if req.Price != nil {
			if *req.Price < 0 {
				respondWithError(c, http.StatusBadRequest, route, "price cannot be negative")
				return
			}
			set["price"] = *req.Price
		}
		if req.Currency != nil {
			set["currency"] = strings.TrimSpace(*req.Currency)
		}
		if req.ImageURL != nil {
			set["imageUrl"] = strings.TrimSpace(*req.ImageURL)
		}

		if _, err := db.Collection("products").UpdateByID(ctx, productID, bson.M{"$set": set}); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		updated, err := findProduct(ctx, db, productID)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		log.Println("[PRODUCT] [INFO] updated:", updated.Name)
		c.JSON(http.StatusOK, updated)
	}
}

func DeleteProduct(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /api/products/:id"
		defer handlePanic(c, route)

		userID, ok := callerID(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		productID, err := objectIDFromParam(c, "id")
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid product id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		product, err := findProduct(ctx, db, productID)
		if err != nil {
			respondWithError(c, http.StatusNotFound, route, "product not found")
			return
		}
		if !productOwnedBy(ctx, db, product, userID) {
			respondWithError(c, http.StatusForbidden, route, "not the product owner")
			return
		}

		// Sizes of a deleted product are intentionally left in place.
		if _, err := db.Collection("products").DeleteOne(ctx, bson.M{"_id": productID}); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		log.Println("[PRODUCT] [INFO] deleted:", product.Name)
		c.JSON(http.StatusOK, gin.H{"message": "product deleted"})
	}
}

func GetProductByID(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/products/:id"
		defer handlePanic(c, route)

		productID, err := objectIDFromParam(c, "id")
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid product id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		product, err := findProduct(ctx, db, productID)
		if err != nil {
			respondWithError(c, http.StatusNotFound, route, "product not found")
			return
		}

		c.JSON(http.StatusOK, product)
	}
}

// GetCollectionProducts serves both the authenticated and the public
// per-collection product listing.
func GetCollectionProducts(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET collections/:id/products"
		defer handlePanic(c, route)

		collectionID, err := objectIDFromParam(c, "id")
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid collection id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		if _, err := findCollection(ctx, db, collectionID); err != nil {
			respondWithError(c, http.StatusNotFound, route, "collection not found")
			return
		}

		findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
		cursor, err := db.Collection("products").Find(ctx, bson.M{"collectionId": collectionID}, findOptions)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer cursor.Close(ctx)

		products, err := decodeProducts(ctx, cursor)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "decode error")
			return
		}

		log.Printf("[%s] returning %d products", route, len(products))
		c.JSON(http.StatusOK, products)
	}
}

func GetProductSizes(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/products/:id/sizes"
		defer handlePanic(c, route)

		productID, err := objectIDFromParam(c, "id")
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid product id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		if _, err := findProduct(ctx, db, productID); err != nil {
			respondWithError(c, http.StatusNotFound, route, "product not found")
			return
		}

		cursor, err := db.Collection("sizes").Find(ctx, bson.M{"productId": productID})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer cursor.Close(ctx)

		sizes := make([]models.Size, 0)
		if err := cursor.All(ctx, &sizes); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "decode error")
			return
		}

		c.JSON(http.StatusOK, sizes)
	}
}

// ListProduct flips the product's listed flag to true.
func ListProduct(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/products/list"
		defer handlePanic(c, route)

		var req ListProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		productID, err := primitive.ObjectIDFromHex(strings.TrimSpace(req.ID))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid product id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("products").UpdateByID(ctx, productID, bson.M{
			"$set": bson.M{
				"listed":    true,
				"updatedAt": time.Now(),
			},
		})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if res.MatchedCount == 0 {
			respondWithError(c, http.StatusNotFound, route, "product not found")
			return
		}

		log.Println("[PRODUCT] [INFO] listed:", productID.Hex())
		c.JSON(http.StatusOK, gin.H{"message": "product listed"})
	}
}

func GetListedProducts(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/products/listed"
		defer handlePanic(c, route)

		if err := ensureDBConnection(c.Request.Context(), db); err != nil {
			respondWithError(c, http.StatusServiceUnavailable, route, "database unavailable")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
		cursor, err := db.Collection("products").Find(ctx, bson.M{"listed": true}, findOptions)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer cursor.Close(ctx)

		products, err := decodeProducts(ctx, cursor)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "decode error")
			return
		}

		log.Printf("[%s] returning %d products", route, len(products))
		c.JSON(http.StatusOK, products)
	}
}
