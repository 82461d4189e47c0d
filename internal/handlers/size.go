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

	"designmarket/internal/models"
)

type SizeCreateRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Label     string `json:"label" binding:"required"`
	Stock     int    `json:"stock"`
}

type SizeUpdateRequest struct {
	Label *string `json:"label"`
	Stock *int    `json:"stock"`
}

func AddSize(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/sizes"
		defer handlePanic(c, route)

		var req SizeCreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		productID, err := primitive.ObjectIDFromHex(strings.TrimSpace(req.ProductID))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid product id")
			return
		}

		label := strings.TrimSpace(req.Label)
		if label == "" {
			respondWithError(c, http.StatusBadRequest, route, "label is required")
			return
		}
		if req.Stock < 0 {
			respondWithError(c, http.StatusBadRequest, route, "stock cannot be negative")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		if _, err := findProduct(ctx, db, productID); err != nil {
			respondWithError(c, http.StatusNotFound, route, "product not found")
			return
		}

		now := time.Now()
		size := models.Size{
			ProductID: productID,
			Label:     label,
			Stock:     req.Stock,
			CreatedAt: now,
			UpdatedAt: now,
		}

		res, err := db.Collection("sizes").InsertOne(ctx, size)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		size.ID, _ = res.InsertedID.(primitive.ObjectID)
		log.Println("[SIZE] [INFO] added:", size.Label)
		c.JSON(http.StatusCreated, size)
	}
}

func UpdateSize(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/sizes/:id"
		defer handlePanic(c, route)

		sizeID, err := objectIDFromParam(c, "id")
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid size id")
			return
		}

		var req SizeUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		set := bson.M{"updatedAt": time.Now()}
		if req.Label != nil {
			label := strings.TrimSpace(*req.Label)
			if label == "" {
				respondWithError(c, http.StatusBadRequest, route, "label cannot be empty")
				return
			}
			set["label"] = label
		}
		if req.Stock != nil {
			if *req.Stock < 0 {
				respondWithError(c, http.StatusBadRequest, route, "stock cannot be negative")
				return
			}
			set["stock"] = *req.Stock
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("sizes").UpdateByID(ctx, sizeID, bson.M{"$set": set})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if res.MatchedCount == 0 {
			respondWithError(c, http.StatusNotFound, route, "size not found")
			return
		}

		var size models.Size
		if err := db.Collection("sizes").FindOne(ctx, bson.M{"_id": sizeID}).Decode(&size); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		log.Println("[SIZE] [INFO] updated:", size.Label)
		c.JSON(http.StatusOK, size)
	}
}

func DeleteSize(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /api/sizes/:id"
		defer handlePanic(c, route)

		sizeID, err := objectIDFromParam(c, "id")
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid size id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("sizes").DeleteOne(ctx, bson.M{"_id": sizeID})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if res.DeletedCount == 0 {
			respondWithError(c, http.StatusNotFound, route, "size not found")
			return
		}

		log.Println("[SIZE] [INFO] deleted:", sizeID.Hex())
		c.JSON(http.StatusOK, gin.H{"message": "size deleted"})
	}
}
