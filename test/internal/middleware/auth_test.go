package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/omegaopinmthechat/highwaydelite/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func setupGuardedRouter(secret string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/admin", middleware.AdminJWT(secret), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"subject": c.GetString("subject")})
	})
	return router
}

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestAdminJWT(t *testing.T) {
	t.Run("Success - ValidToken", func(t *testing.T) {
		router := setupGuardedRouter(testSecret)

		signed := signToken(t, testSecret, jwt.MapClaims{
			"sub": "admin",
			"exp": time.Now().Add(time.Hour).Unix(),
		})

		req := httptest.NewRequest("GET", "/admin", nil)
		req.Header.Set("Authorization", "Bearer "+signed)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "admin")
	})

	t.Run("Success - EmptySecretDisablesGuard", func(t *testing.T) {
		router := setupGuardedRouter("")

		req := httptest.NewRequest("GET", "/admin", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Failed - MissingHeader", func(t *testing.T) {
		router := setupGuardedRouter(testSecret)

		req := httptest.NewRequest("GET", "/admin", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Failed - NotBearer", func(t *testing.T) {
		router := setupGuardedRouter(testSecret)

		req := httptest.NewRequest("GET", "/admin", nil)
		req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Failed - WrongSecret", func(t *testing.T) {
		router := setupGuardedRouter(testSecret)

		signed := signToken(t, "another-secret", jwt.MapClaims{"sub": "admin"})

		req := httptest.NewRequest("GET", "/admin", nil)
		req.Header.Set("Authorization", "Bearer "+signed)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Failed - ExpiredToken", func(t *testing.T) {
		router := setupGuardedRouter(testSecret)

		signed := signToken(t, testSecret, jwt.MapClaims{
			"sub": "admin",
			"exp": time.Now().Add(-time.Hour).Unix(),
		})

		req := httptest.NewRequest("GET", "/admin", nil)
		req.Header.Set("Authorization", "Bearer "+signed)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
