package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const testSecret = "test-jwt-secret"

func protectedRouter(secret string) (*gin.Engine, *gin.Context) {
	router := gin.New()
	var captured gin.Context
	router.GET("/protected", AuthMiddleware(secret), func(c *gin.Context) {
		captured = *c.Copy()
		c.Status(http.StatusOK)
	})
	return router, &captured
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	userID := uuid.New()
	societyID := uuid.New()

	token, expiresAt, err := GenerateToken(testSecret, userID, societyID, true, time.Hour)
	assert.NoError(t, err)
	assert.True(t, expiresAt.After(time.Now()))

	router, captured := protectedRouter(testSecret)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, userID, captured.MustGet(ContextUserID))
	assert.Equal(t, societyID, captured.MustGet(ContextSocietyID))
	assert.Equal(t, true, captured.MustGet(ContextIsAdmin))
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	router, _ := protectedRouter(testSecret)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/protected", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "MISSING_TOKEN")
}

func TestAuthMiddleware_MalformedHeader(t *testing.T) {
	router, _ := protectedRouter(testSecret)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Token abc")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_TOKEN_FORMAT")
}

func TestAuthMiddleware_WrongSecret(t *testing.T) {
	token, _, err := GenerateToken("other-secret", uuid.New(), uuid.New(), false, time.Hour)
	assert.NoError(t, err)

	router, _ := protectedRouter(testSecret)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_TOKEN")
}

func TestAuthMiddleware_ExpiredToken(t *testing.T) {
	token, _, err := GenerateToken(testSecret, uuid.New(), uuid.New(), false, -time.Minute)
	assert.NoError(t, err)

	router, _ := protectedRouter(testSecret)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAdmin_ForbidsMembers(t *testing.T) {
	router := gin.New()
	router.GET("/admin", func(c *gin.Context) {
		c.Set(ContextIsAdmin, false)
	}, RequireAdmin(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin", nil))

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "ADMIN_REQUIRED")
}

func TestRequireAdmin_AllowsAdmins(t *testing.T) {
	router := gin.New()
	router.GET("/admin", func(c *gin.Context) {
		c.Set(ContextIsAdmin, true)
	}, RequireAdmin(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}
