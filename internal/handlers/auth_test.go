package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
	"golang.org/x/crypto/bcrypt"
)

func TestIssueTokenRoundTrip(t *testing.T) {
	userID := primitive.NewObjectID()
	signed, err := issueToken(userID, "d1", true, "secret", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	token, err := jwt.Parse(signed, func(t *jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)

	claims, ok := token.Claims.(jwt.MapClaims)
	require.True(t, ok)
	require.Equal(t, userID.Hex(), claims["userId"])
	require.Equal(t, "d1", claims["username"])
	require.Equal(t, true, claims["isDesigner"])
}

func TestIssueTokenExpiry(t *testing.T) {
	signed, err := issueToken(primitive.NewObjectID(), "d1", false, "secret", time.Minute)
	require.NoError(t, err)

	token, err := jwt.Parse(signed, func(t *jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	require.NoError(t, err)

	claims := token.Claims.(jwt.MapClaims)
	exp := int64(claims["exp"].(float64))
	require.Greater(t, exp, time.Now().Unix())
	require.LessOrEqual(t, exp, time.Now().Add(2*time.Minute).Unix())
}

func TestRegisterRejectsMalformedBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/register", Register(nil))

	cases := []string{
		``,
		`{`,
		`{"username":"d1"}`,
		`{"password":"p"}`,
	}
	for _, body := range cases {
		req := httptest.NewRequest(http.MethodPost, "/api/register", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, req)

		require.Equal(t, http.StatusBadRequest, resp.Code, "body %q", body)
	}
}

func TestRegisterDuplicateUsernameConflict(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("duplicate username", func(mt *mtest.T) {
		// CountDocuments reports one existing user with the same username.
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "designmarket.users", mtest.FirstBatch,
			bson.D{{Key: "n", Value: 1}}))

		r := gin.New()
		r.POST("/api/register", Register(mt.DB))

		req := httptest.NewRequest(http.MethodPost, "/api/register",
			bytes.NewBufferString(`{"username":"d1","password":"p"}`))
		req.Header.Set("Content-Type", "application/json")
		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, req)

		require.Equal(mt, http.StatusConflict, resp.Code)
	})
}

func TestLoginTokenMatchesRegisteredIdentity(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("claims carry the stored identity", func(mt *mtest.T) {
		userID := primitive.NewObjectID()
		hash, err := bcrypt.GenerateFromPassword([]byte("p"), bcrypt.DefaultCost)
		require.NoError(mt, err)

		mt.AddMockResponses(mtest.CreateCursorResponse(0, "designmarket.users", mtest.FirstBatch,
			bson.D{
				{Key: "_id", Value: userID},
				{Key: "username", Value: "d1"},
				{Key: "passwordHash", Value: string(hash)},
				{Key: "isDesigner", Value: true},
			}))

		r := gin.New()
		r.POST("/api/login", Login(mt.DB, "secret", time.Hour))

		req := httptest.NewRequest(http.MethodPost, "/api/login",
			bytes.NewBufferString(`{"username":"d1","password":"p"}`))
		req.Header.Set("Content-Type", "application/json")
		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, req)

		require.Equal(mt, http.StatusOK, resp.Code)

		var out struct {
			Token string `json:"token"`
		}
		require.NoError(mt, json.Unmarshal(resp.Body.Bytes(), &out))
		require.NotEmpty(mt, out.Token)

		token, err := jwt.Parse(out.Token, func(t *jwt.Token) (interface{}, error) {
			return []byte("secret"), nil
		})
		require.NoError(mt, err)
		require.True(mt, token.Valid)

		claims := token.Claims.(jwt.MapClaims)
		require.Equal(mt, userID.Hex(), claims["userId"])
		require.Equal(mt, "d1", claims["username"])
		require.Equal(mt, true, claims["isDesigner"])
	})
}

func TestLoginUnknownUserUnauthorized(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("unknown username", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "designmarket.users", mtest.FirstBatch))

		r := gin.New()
		r.POST("/api/login", Login(mt.DB, "secret", time.Hour))

		req := httptest.NewRequest(http.MethodPost, "/api/login",
			bytes.NewBufferString(`{"username":"ghost","password":"p"}`))
		req.Header.Set("Content-Type", "application/json")
		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, req)

		require.Equal(mt, http.StatusUnauthorized, resp.Code)
	})
}

func TestLoginRejectsMalformedBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/login", Login(nil, "secret", time.Hour))

	req := httptest.NewRequest(http.MethodPost, "/api/login", bytes.NewBufferString(`{"username":"d1"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	require.Equal(t, http.StatusBadRequest, resp.Code)

	var out map[string]any
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &out))
	require.NotEmpty(t, out["error"])
}
