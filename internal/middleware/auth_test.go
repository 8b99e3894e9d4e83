package middleware

import (
	"net/http"
	"net/http/httptest"
	"test_portal_backend/internal/config"
	"test_portal_backend/internal/model"
	"test_portal_backend/internal/util"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func authTestRouter(t *testing.T, cfg *config.Config) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()

	authed := router.Group("/", AuthMiddleware(cfg))
	authed.GET("/me", func(c *gin.Context) {
		claims := util.GetUserFromContext(c)
		c.JSON(http.StatusOK, gin.H{"userId": claims.UserID})
	})
	authed.GET("/admin", RoleMiddleware(model.Admin), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router
}

func tokenFor(t *testing.T, role model.UserRole, secret string) string {
	t.Helper()
	user := &model.User{Role: role, Email: "u@example.com"}
	user.ID = 7
	token, err := util.GenerateJWT(user, secret, time.Hour)
	require.NoError(t, err)
	return token
}

func TestAuthMiddleware(t *testing.T) {
	cfg := &config.Config{JWT: config.JWTConfig{Secret: "test-secret"}}
	router := authTestRouter(t, cfg)
	token := tokenFor(t, model.Student, "test-secret")

	tests := []struct {
		name   string
		target string
		header string
		status int
	}{
		{"missing token", "/me", "", http.StatusUnauthorized},
		{"bearer header", "/me", "Bearer " + token, http.StatusOK},
		{"garbage token", "/me", "Bearer not-a-jwt", http.StatusUnauthorized},
		{"wrong secret", "/me", "Bearer " + tokenFor(t, model.Student, "other-secret"), http.StatusUnauthorized},
		{"query token", "/me?token=" + token, "", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestRoleMiddleware(t *testing.T) {
	cfg := &config.Config{JWT: config.JWTConfig{Secret: "test-secret"}}
	router := authTestRouter(t, cfg)

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, model.Student, "test-secret"))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, model.Admin, "test-secret"))
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
