package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/srvalle/contract-pro/config"
	"github.com/srvalle/contract-pro/model"
	"github.com/srvalle/contract-pro/pkg/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testAuthConfig() *config.AuthConfig {
	return &config.AuthConfig{
		JWTSecret:        "test-secret-key",
		TokenExpireHours: 24,
	}
}

func TestGenerateToken(t *testing.T) {
	cfg := testAuthConfig()

	token, expiresAt, err := GenerateToken("user-1", "user@example.com", cfg)
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}

	if token == "" {
		t.Error("Expected non-empty token")
	}

	// Verify expiration time is approximately 24 hours from now
	expectedExpiry := time.Now().Add(24 * time.Hour)
	if expiresAt.Before(expectedExpiry.Add(-time.Minute)) || expiresAt.After(expectedExpiry.Add(time.Minute)) {
		t.Errorf("Expiry time %v is not within expected range of %v", expiresAt, expectedExpiry)
	}

	claims := &Claims{}
	if _, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(cfg.JWTSecret), nil
	}); err != nil {
		t.Fatalf("Failed to parse token: %v", err)
	}
	if claims.Subject != "user-1" || claims.Email != "user@example.com" {
		t.Errorf("Unexpected claims %+v", claims)
	}
	if claims.ID == "" {
		t.Error("Expected token id to be set")
	}

	other, _, _ := GenerateToken("user-1", "user@example.com", cfg)
	otherClaims := &Claims{}
	jwt.ParseWithClaims(other, otherClaims, func(*jwt.Token) (interface{}, error) {
		return []byte(cfg.JWTSecret), nil
	})
	if otherClaims.ID == claims.ID {
		t.Error("Expected distinct token ids per sign-in")
	}
}

func TestAuthMiddleware(t *testing.T) {
	cfg := testAuthConfig()

	token, _, err := GenerateToken("user-1", "user@example.com", cfg)
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}

	tests := []struct {
		name           string
		authHeader     string
		expectedStatus int
	}{
		{
			name:           "valid token",
			authHeader:     "Bearer " + token,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "missing header",
			authHeader:     "",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "invalid format",
			authHeader:     token, // Missing "Bearer "
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "invalid token",
			authHeader:     "Bearer invalid.token.here",
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(AuthMiddleware(cfg, NewRevocations()))
			router.GET("/test", func(c *gin.Context) {
				session, err := GetSession(c)
				if err != nil {
					c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
					return
				}
				if uid, _ := c.Request.Context().Value(logger.UserIDKey).(string); uid != session.UserID {
					c.JSON(http.StatusInternalServerError, gin.H{"error": "user id missing from request context"})
					return
				}
				c.JSON(http.StatusOK, gin.H{"user_id": session.UserID})
			})

			req := httptest.NewRequest("GET", "/test", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}
		})
	}
}

func TestAuthMiddlewareExpiredToken(t *testing.T) {
	cfg := testAuthConfig()

	// Create an expired token
	claims := Claims{
		Email: "user@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)), // Expired 1 hour ago
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, _ := token.SignedString([]byte(cfg.JWTSecret))

	router := gin.New()
	router.Use(AuthMiddleware(cfg, nil))
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer "+tokenString)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status %d for expired token, got %d", http.StatusUnauthorized, w.Code)
	}
}

func TestAuthMiddlewareRejectsOtherAlgorithms(t *testing.T) {
	cfg := testAuthConfig()

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	tokenString, _ := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(cfg.JWTSecret))

	router := gin.New()
	router.Use(AuthMiddleware(cfg, nil))
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer "+tokenString)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status %d, got %d", http.StatusUnauthorized, w.Code)
	}
}

func TestAuthMiddlewareRevokedToken(t *testing.T) {
	cfg := testAuthConfig()
	revocations := NewRevocations()

	token, expiresAt, _ := GenerateToken("user-1", "user@example.com", cfg)

	router := gin.New()
	router.Use(AuthMiddleware(cfg, revocations))
	router.POST("/logout", func(c *gin.Context) {
		session, _ := GetSession(c)
		revocations.Revoke(session.TokenID, expiresAt)
		c.Status(http.StatusNoContent)
	})
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})

	send := func(method, path string) int {
		req := httptest.NewRequest(method, path, nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w.Code
	}

	if code := send("GET", "/test"); code != http.StatusOK {
		t.Fatalf("Expected status 200 before logout, got %d", code)
	}
	if code := send("POST", "/logout"); code != http.StatusNoContent {
		t.Fatalf("Expected status 204 for logout, got %d", code)
	}
	if code := send("GET", "/test"); code != http.StatusUnauthorized {
		t.Errorf("Expected status 401 after logout, got %d", code)
	}
}

func TestRevocationsPruneExpired(t *testing.T) {
	r := NewRevocations()
	r.Revoke("old", time.Now().Add(-time.Minute))
	r.Revoke("new", time.Now().Add(time.Hour))

	if r.IsRevoked("old") {
		t.Error("Expected expired token id to be pruned")
	}
	if !r.IsRevoked("new") {
		t.Error("Expected token id to be revoked")
	}
}

func TestGetSession(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	if _, err := GetSession(c); !errors.Is(err, model.ErrNotAuthorized) {
		t.Errorf("Expected ErrNotAuthorized, got %v", err)
	}

	c.Set(sessionKey, &Session{UserID: "user-1"})
	session, err := GetSession(c)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if session.UserID != "user-1" {
		t.Errorf("Expected 'user-1', got '%s'", session.UserID)
	}
}
