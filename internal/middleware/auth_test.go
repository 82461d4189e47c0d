package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestUserAuthMissingToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", UserAuth(testSecret), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	require.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestUserAuthMalformedHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", UserAuth(testSecret), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	for _, header := range []string{"garbage", "Basic abc", "Bearer a b"} {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", header)
		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, req)

		require.Equal(t, http.StatusUnauthorized, resp.Code, "header %q", header)
	}
}

func TestUserAuthWrongSecret(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", UserAuth(testSecret), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	token := signToken(t, "other-secret", jwt.MapClaims{
		"userId": primitive.NewObjectID().Hex(),
		"exp":    time.Now().Add(time.Hour).Unix(),
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	require.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestUserAuthExpiredToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", UserAuth(testSecret), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	token := signToken(t, testSecret, jwt.MapClaims{
		"userId": primitive.NewObjectID().Hex(),
		"exp":    time.Now().Add(-time.Hour).Unix(),
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	require.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestUserAuthInjectsIdentity(t *testing.T) {
	gin.SetMode(gin.TestMode)

	userID := primitive.NewObjectID()
	token := signToken(t, testSecret, jwt.MapClaims{
		"userId":     userID.Hex(),
		"username":   "d1",
		"isDesigner": true,
		"exp":        time.Now().Add(time.Hour).Unix(),
	})

	var gotUserID primitive.ObjectID
	var gotUsername string
	var gotDesigner bool

	r := gin.New()
	r.GET("/me", UserAuth(testSecret), func(c *gin.Context) {
		value, _ := c.Get("userId")
		gotUserID = value.(primitive.ObjectID)
		gotUsername = c.GetString("username")
		gotDesigner = c.GetBool("isDesigner")
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	require.Equal(t, userID, gotUserID)
	require.Equal(t, "d1", gotUsername)
	require.True(t, gotDesigner)
}
