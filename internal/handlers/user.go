package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"designmarket/internal/models"
)

type UserUpdateRequest struct {
	Email       *string `json:"email"`
	DisplayName *string `json:"displayName"`
	Bio         *string `json:"bio"`
	AvatarURL   *string `json:"avatarUrl"`
}

func GetUserInfo(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/userinfo"
		defer handlePanic(c, route)

		userID, ok := callerID(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var user models.User
		if err := db.Collection("users").FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
			respondWithError(c, http.StatusNotFound, route, "user not found")
			return
		}

		c.JSON(http.StatusOK, user)
	}
}

func UpdateUserInfo(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/userinfo"
		defer handlePanic(c, route)

		userID, ok := callerID(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		var req UserUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		set := bson.M{"updatedAt": time.Now()}
		if req.Email != nil {
			email := strings.ToLower(strings.TrimSpace(*req.Email))
			if email == "" {
				respondWithError(c, http.StatusBadRequest, route, "email cannot be empty")
				return
			}
			set["email"] = email
		}
		if req.DisplayName != nil {
			set["displayName"] = strings.TrimSpace(*req.DisplayName)
		}
		if req.Bio != nil {
			set["bio"] = strings.TrimSpace(*req.Bio)
		}
		if req.AvatarURL != nil {
			set["avatarUrl"] = strings.TrimSpace(*req.AvatarURL)
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("users").UpdateByID(ctx, userID, bson.M{"$set": set})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if res.MatchedCount == 0 {
			respondWithError(c, http.StatusNotFound, route, "user not found")
			return
		}

		var user models.User
		if err := db.Collection("users").FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		log.Println("[USER] [INFO] profile updated:", user.Username)
		c.JSON(http.StatusOK, user)
	}
}

func GetAllDesigners(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/designers"
		defer handlePanic(c, route)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
		cursor, err := db.Collection("users").Find(ctx, bson.M{"isDesigner": true}, findOptions)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer cursor.Close(ctx)

		designers := make([]models.User, 0)
		if err := cursor.All(ctx, &designers); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "decode error")
			return
		}

		log.Printf("[%s] returning %d designers", route, len(designers))
		c.JSON(http.StatusOK, designers)
	}
}

func GetDesignerByUsername(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/public/designers/username/:username"
		defer handlePanic(c, route)

		username := strings.ToLower(strings.TrimSpace(c.Param("username")))
		if username == "" {
			respondWithError(c, http.StatusBadRequest, route, "username is required")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var designer models.User
		err := db.Collection("users").FindOne(ctx, bson.M{
			"username":   username,
			"isDesigner": true,
		}).Decode(&designer)
		if err != nil {
			respondWithError(c, http.StatusNotFound, route, "designer not found")
			return
		}

		c.JSON(http.StatusOK, designer)
	}
}

func GetDesignerByID(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/public/designers/:designerId"
		defer handlePanic(c, route)

		designerID, err := objectIDFromParam(c, "designerId")
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid designer id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var designer models.User
		err = db.Collection("users").FindOne(ctx, bson.M{
			"_id":        designerID,
			"isDesigner": true,
		}).Decode(&designer)
		if err != nil {
			respondWithError(c, http.StatusNotFound, route, "designer not found")
			return
		}

		c.JSON(http.StatusOK, designer)
	}
}
