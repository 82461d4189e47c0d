package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"designmarket/internal/models"
)

const (
	oauthStateCookie = "oauth_state"
	oauthStateMaxAge = 300
	googleProfileURL = "https://www.googleapis.com/oauth2/v2/userinfo"
)

type googleProfile struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

func googleOAuthConfig(clientID, clientSecret, redirectURL string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Scopes: []string{
			"https://www.googleapis.com/auth/userinfo.profile",
			"https://www.googleapis.com/auth/userinfo.email",
		},
		Endpoint: google.Endpoint,
	}
}

// GoogleAuth redirects the client to Google's consent screen. The state nonce
// lives in a short-lived cookie; no server-side state is kept.
func GoogleAuth(clientID, clientSecret, redirectURL string) gin.HandlerFunc {
	cfg := googleOAuthConfig(clientID, clientSecret, redirectURL)
	return func(c *gin.Context) {
		const route = "GET /api/google/auth"
		defer handlePanic(c, route)

		state := uuid.NewString()
		c.SetCookie(oauthStateCookie, state, oauthStateMaxAge, "/", "", false, true)

		log.Printf("[%s] redirecting to provider", route)
		c.Redirect(http.StatusTemporaryRedirect, cfg.AuthCodeURL(state))
	}
}

// GoogleCallback completes the OAuth flow: verifies state, exchanges the code,
// fetches the provider profile and finds-or-creates the bound local user.
func GoogleCallback(db *mongo.Database, clientID, clientSecret, redirectURL, jwtSecret string, accessTTL time.Duration) gin.HandlerFunc {
	cfg := googleOAuthConfig(clientID, clientSecret, redirectURL)
	return func(c *gin.Context) {
		const route = "GET /api/google/callback"
		defer handlePanic(c, route)

		state := strings.TrimSpace(c.Query("state"))
		cookieState, err := c.Cookie(oauthStateCookie)
		if err != nil || state == "" || state != cookieState {
			respondWithError(c, http.StatusUnauthorized, route, "oauth state mismatch")
			return
		}

		code := strings.TrimSpace(c.Query("code"))
		if code == "" {
			respondWithError(c, http.StatusUnauthorized, route, "authorization code missing")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		token, err := cfg.Exchange(ctx, code)
		if err != nil {
			log.Printf("[%s] code exchange failed: %v", route, err)
			respondWithError(c, http.StatusUnauthorized, route, "oauth exchange failed")
			return
		}

		profile, err := fetchGoogleProfile(ctx, cfg, token)
		if err != nil || profile.ID == "" {
			log.Printf("[%s] provider profile unusable: %v", route, err)
			respondWithError(c, http.StatusUnauthorized, route, "provider profile unavailable")
			return
		}

		user, err := findOrCreateGoogleUser(ctx, db, profile)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		sessionToken, err := issueToken(user.ID, user.Username, user.IsDesigner, jwtSecret, accessTTL)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "token generation failed")
			return
		}

		log.Println("[AUTH] [INFO] google login succeeded:", user.Username)
		c.JSON(http.StatusOK, gin.H{
			"token": sessionToken,
			"user": gin.H{
				"id":         user.ID.Hex(),
				"username":   user.Username,
				"isDesigner": user.IsDesigner,
			},
		})
	}
}

func fetchGoogleProfile(ctx context.Context, cfg *oauth2.Config, token *oauth2.Token) (*googleProfile, error) {
	resp, err := cfg.Client(ctx, token).Get(googleProfileURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("profile endpoint returned %d", resp.StatusCode)
	}

	var profile googleProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// findOrCreateGoogleUser binds the provider identity to a local record:
// match by googleId first, then adopt an existing account with the same
// email, otherwise insert a fresh user.
func findOrCreateGoogleUser(ctx context.Context, db *mongo.Database, profile *googleProfile) (*models.User, error) {
	users := db.Collection("users")

	var user models.User
	err := users.FindOne(ctx, bson.M{"googleId": profile.ID}).Decode(&user)
	if err == nil {
		return &user, nil
	}
	if err != mongo.ErrNoDocuments {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(profile.Email))
	if email != "" {
		err = users.FindOne(ctx, bson.M{"email": email}).Decode(&user)
		if err == nil {
			_, err = users.UpdateByID(ctx, user.ID, bson.M{"$set": bson.M{
				"googleId":  profile.ID,
				"updatedAt": time.Now(),
			}})
			if err != nil {
				return nil, err
			}
			user.GoogleID = profile.ID
			return &user, nil
		}
		if err != mongo.ErrNoDocuments {
			return nil, err
		}
	}

	username, err := availableUsername(ctx, db, usernameFromProfile(profile))
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user = models.User{
		Username:    username,
		Email:       email,
		GoogleID:    profile.ID,
		DisplayName: strings.TrimSpace(profile.Name),
		AvatarURL:   profile.Picture,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	res, err := users.InsertOne(ctx, user)
	if err != nil {
		return nil, err
	}
	user.ID, _ = res.InsertedID.(primitive.ObjectID)
	return &user, nil
}

func usernameFromProfile(profile *googleProfile) string {
	email := strings.ToLower(strings.TrimSpace(profile.Email))
	if at := strings.Index(email, "@"); at > 0 {
		return email[:at]
	}
	return "google-" + profile.ID
}

func availableUsername(ctx context.Context, db *mongo.Database, base string) (string, error) {
	count, err := db.Collection("users").CountDocuments(ctx, bson.M{"username": base})
	if err != nil {
		return "", err
	}
	if count == 0 {
		return base, nil
	}
	return base + "-" + uuid.NewString()[:8], nil
}
