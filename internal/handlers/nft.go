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

type NFTCreateRequest struct {
	Name            string `json:"name" binding:"required"`
	Description     string `json:"description"`
	TokenID         string `json:"tokenId"`
	ContractAddress string `json:"contractAddress"`
	MetadataURI     string `json:"metadataUri"`
	ImageURL        string `json:"imageUrl"`
}

func CreateNFT(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/saveNFT"
		defer handlePanic(c, route)

		var req NFTCreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		nft := models.NFT{
			Name:            strings.TrimSpace(req.Name),
			Description:     strings.TrimSpace(req.Description),
			TokenID:         strings.TrimSpace(req.TokenID),
			ContractAddress: strings.TrimSpace(req.ContractAddress),
			MetadataURI:     strings.TrimSpace(req.MetadataURI),
			ImageURL:        strings.TrimSpace(req.ImageURL),
			CreatedAt:       time.Now(),
		}

		res, err := db.Collection("nfts").InsertOne(ctx, nft)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		nft.ID, _ = res.InsertedID.(primitive.ObjectID)
		log.Println("[NFT] [INFO] saved:", nft.Name)
		c.JSON(http.StatusCreated, nft)
	}
}

func GetAllNFTs(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/nfts"
		defer handlePanic(c, route)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
		cursor, err := db.Collection("nfts").Find(ctx, bson.M{}, findOptions)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer cursor.Close(ctx)

		nfts := make([]models.NFT, 0)
		if err := cursor.All(ctx, &nfts); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "decode error")
			return
		}

		log.Printf("[%s] returning %d nfts", route, len(nfts))
		c.JSON(http.StatusOK, nfts)
	}
}
