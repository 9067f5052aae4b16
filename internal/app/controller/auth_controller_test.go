package controller

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/belugagoods/storefront-backend/internal/app/repository"
	"github.com/belugagoods/storefront-backend/internal/app/service"
	"github.com/belugagoods/storefront-backend/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "controller-test-secret"

type memRevoker struct {
	mu     sync.Mutex
	tokens map[string]bool
}

func (r *memRevoker) Revoke(_ context.Context, token string, _ time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.tokens == nil {
		r.tokens = map[string]bool{}
	}
	r.tokens[token] = true
	return nil
}

func (r *memRevoker) IsRevoked(_ context.Context, token string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.tokens[token], nil
}

type authResponse struct {
	User struct {
		ID       uint   `json:"id"`
		Username string `json:"username"`
		Points   int    `json:"points"`
	} `json:"user"`
	Tokens struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	} `json:"tokens"`
}

func setupAuthRouter(t *testing.T, provider string) *gin.Engine {
	t.Helper()
	testDB := setupTestDB(t)
	users := repository.NewUserRepository(testDB)
	issuer := service.TokenIssuer{Secret: testSecret, AccessExpiry: time.Minute, RefreshExpiry: time.Hour}

	var authenticator service.Authenticator
	if provider == "mock" {
		authenticator = service.NewMockAuthenticator(users, issuer)
	} else {
		authenticator = service.NewDatabaseAuthenticator(users, issuer)
	}
	revoker := &memRevoker{}
	ctrl := NewAuthController(service.NewAuthService(authenticator, issuer, revoker))
	auth := middleware.NewAuthMiddleware(testSecret, revoker)

	router := newTestRouter()
	router.POST("/api/auth/register", ctrl.Register)
	router.POST("/api/auth/login", ctrl.Login)
	router.POST("/api/auth/refresh", ctrl.Refresh)
	router.POST("/api/auth/logout", auth.Authenticate(), ctrl.Logout)
	router.GET("/api/auth/me", auth.Authenticate(), ctrl.GetMe)
	return router
}

func withBearer(router http.Handler, method, path, token string) int {
	req, _ := http.NewRequest(method, path, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w.Code
}

func TestAuthController_MockLogin(t *testing.T) {
	router := setupAuthRouter(t, "mock")

	w := doJSON(router, http.MethodPost, "/api/auth/login", gin.H{"username": "admin", "password": "12345"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp authResponse
	decode(t, w, &resp)
	assert.Equal(t, "admin", resp.User.Username)
	assert.Equal(t, 50000, resp.User.Points)
	assert.NotEmpty(t, resp.Tokens.AccessToken)

	w = doJSON(router, http.MethodPost, "/api/auth/login", gin.H{"username": "admin", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(router, http.MethodPost, "/api/auth/register", gin.H{
		"username": "newbie", "email": "newbie@example.com",
		"password": "password123", "password_confirm": "password123",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAuthController_RegisterLoginMe(t *testing.T) {
	router := setupAuthRouter(t, "database")

	w := doJSON(router, http.MethodPost, "/api/auth/register", gin.H{
		"username": "beluga", "email": "beluga@example.com",
		"password": "password123", "password_confirm": "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doJSON(router, http.MethodPost, "/api/auth/register", gin.H{
		"username": "beluga2", "email": "beluga@example.com",
		"password": "password123", "password_confirm": "password123",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(router, http.MethodPost, "/api/auth/register", gin.H{
		"username": "beluga3", "email": "b3@example.com",
		"password": "password123", "password_confirm": "different1",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(router, http.MethodPost, "/api/auth/login", gin.H{"username": "beluga", "password": "password123"})
	require.Equal(t, http.StatusOK, w.Code)
	var login authResponse
	decode(t, w, &login)

	assert.Equal(t, http.StatusOK, withBearer(router, http.MethodGet, "/api/auth/me", login.Tokens.AccessToken))
	assert.Equal(t, http.StatusUnauthorized, withBearer(router, http.MethodGet, "/api/auth/me", login.Tokens.RefreshToken))
}

func TestAuthController_RefreshAndLogout(t *testing.T) {
	router := setupAuthRouter(t, "mock")

	w := doJSON(router, http.MethodPost, "/api/auth/login", gin.H{"username": "admin", "password": "12345"})
	require.Equal(t, http.StatusOK, w.Code)
	var login authResponse
	decode(t, w, &login)

	w = doJSON(router, http.MethodPost, "/api/auth/refresh", gin.H{"refresh_token": login.Tokens.RefreshToken})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var refreshed authResponse
	decode(t, w, &refreshed)

	w = doJSON(router, http.MethodPost, "/api/auth/refresh", gin.H{"refresh_token": login.Tokens.RefreshToken})
	assert.Equal(t, http.StatusUnauthorized, w.Code, "refresh tokens are single use")
	w = doJSON(router, http.MethodPost, "/api/auth/refresh", gin.H{"refresh_token": refreshed.Tokens.RefreshToken})
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(router, http.MethodPost, "/api/auth/refresh", gin.H{"refresh_token": login.Tokens.AccessToken})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	assert.Equal(t, http.StatusOK, withBearer(router, http.MethodPost, "/api/auth/logout", login.Tokens.AccessToken))
	assert.Equal(t, http.StatusUnauthorized, withBearer(router, http.MethodGet, "/api/auth/me", login.Tokens.AccessToken))
}
