package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"designmarket/internal/models"
)

type ListingCreateRequest struct {
	ProductID string  `json:"productId" binding:"required"`
	Price     float64 `json:"price"`
}

func CreateListing(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/listings"
		defer handlePanic(c, route)

		var req ListingCreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		productID, err := primitive.ObjectIDFromHex(strings.TrimSpace(req.ProductID))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid product id")
			return
		}
		if req.Price < 0 {
			respondWithError(c, http.StatusBadRequest, route, "price cannot be negative")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		// A listing must reference an existing product.
		if _, err := findProduct(ctx, db, productID); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "product does not exist")
			return
		}

		listing := models.Listing{
			ProductID: productID,
			Price:     req.Price,
			Status:    "active",
			CreatedAt: time.Now(),
		}

		res, err := db.Collection("listings").InsertOne(ctx, listing)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		listing.ID, _ = res.InsertedID.(primitive.ObjectID)
		log.Println("[LISTING] [INFO] created for product:", productID.Hex())
		c.JSON(http.StatusCreated, listing)
	}
}
