package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestGoogleAuthRedirectsWithStateCookie(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/api/google/auth", GoogleAuth("client-id", "client-secret", "http://localhost:4000/api/google/callback"))

	req := httptest.NewRequest(http.MethodGet, "/api/google/auth", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	require.Equal(t, http.StatusTemporaryRedirect, resp.Code)

	location, err := url.Parse(resp.Header().Get("Location"))
	require.NoError(t, err)
	require.Equal(t, "accounts.google.com", location.Host)
	require.Equal(t, "client-id", location.Query().Get("client_id"))
	require.Contains(t, location.Query().Get("scope"), "userinfo.profile")
	require.Contains(t, location.Query().Get("scope"), "userinfo.email")

	state := location.Query().Get("state")
	require.NotEmpty(t, state)

	var cookie *http.Cookie
	for _, c := range resp.Result().Cookies() {
		if c.Name == oauthStateCookie {
			cookie = c
		}
	}
	require.NotNil(t, cookie, "state cookie not set")
	require.Equal(t, state, cookie.Value)
}

func TestGoogleCallbackRejectsStateMismatch(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/api/google/callback", GoogleCallback(nil, "client-id", "client-secret", "http://localhost:4000/api/google/callback", "secret", 0))

	req := httptest.NewRequest(http.MethodGet, "/api/google/callback?state=abc&code=xyz", nil)
	req.AddCookie(&http.Cookie{Name: oauthStateCookie, Value: "other"})
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	require.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestGoogleCallbackRejectsMissingState(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/api/google/callback", GoogleCallback(nil, "client-id", "client-secret", "http://localhost:4000/api/google/callback", "secret", 0))

	req := httptest.NewRequest(http.MethodGet, "/api/google/callback?code=xyz", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	require.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestGoogleCallbackRejectsMissingCode(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/api/google/callback", GoogleCallback(nil, "client-id", "client-secret", "http://localhost:4000/api/google/callback", "secret", 0))

	req := httptest.NewRequest(http.MethodGet, "/api/google/callback?state=abc", nil)
	req.AddCookie(&http.Cookie{Name: oauthStateCookie, Value: "abc"})
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	require.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestUsernameFromProfile(t *testing.T) {
	got := usernameFromProfile(&googleProfile{ID: "123", Email: "Jane.Doe@example.com"})
	require.Equal(t, "jane.doe", got)

	got = usernameFromProfile(&googleProfile{ID: "123"})
	require.True(t, strings.HasPrefix(got, "google-"))
}
