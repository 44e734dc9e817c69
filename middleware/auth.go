package middleware

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/srvalle/contract-pro/config"
	"github.com/srvalle/contract-pro/model"
	"github.com/srvalle/contract-pro/pkg/logger"
)

const sessionKey = "session"

// Claims represents the JWT claims. The subject is the user id.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Session is the authenticated identity of a request
type Session struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	TokenID   string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
}

// GenerateToken generates a new JWT token for a user
func GenerateToken(userID, email string, cfg *config.AuthConfig) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(time.Duration(cfg.TokenExpireHours) * time.Hour)

	claims := Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(cfg.JWTSecret))
	if err != nil {
		return "", time.Time{}, err
	}

	return tokenString, expiresAt, nil
}

// Revocations remembers token ids that were signed out before they expired
type Revocations struct {
	mu      sync.Mutex
	revoked map[string]time.Time
}

// NewRevocations creates an empty revocation list
func NewRevocations() *Revocations {
	return &Revocations{revoked: make(map[string]time.Time)}
}

// Revoke invalidates a token id until its expiry
func (r *Revocations) Revoke(tokenID string, expiresAt time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	for id, exp := range r.revoked {
		if now.After(exp) {
			delete(r.revoked, id)
		}
	}
	r.revoked[tokenID] = expiresAt
}

// IsRevoked reports whether a token id was signed out
func (r *Revocations) IsRevoked(tokenID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.revoked[tokenID]
	return ok
}

// AuthMiddleware validates the JWT token and attaches the Session
func AuthMiddleware(cfg *config.AuthConfig, revocations *Revocations) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			return
		}

		claims := &Claims{}
		token, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
			return []byte(cfg.JWTSecret), nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

		if err != nil || !token.Valid || claims.Subject == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}
		if revocations != nil && revocations.IsRevoked(claims.ID) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Session has been signed out"})
			return
		}

		session := &Session{
			UserID:  claims.Subject,
			Email:   claims.Email,
			TokenID: claims.ID,
		}
		if claims.ExpiresAt != nil {
			session.ExpiresAt = claims.ExpiresAt.Time
		}
		c.Set(sessionKey, session)
		c.Request = c.Request.WithContext(logger.WithUserID(c.Request.Context(), session.UserID))

		c.Next()
	}
}

// GetSession returns the session attached by AuthMiddleware
func GetSession(c *gin.Context) (*Session, error) {
	if v, exists := c.Get(sessionKey); exists {
		if session, ok := v.(*Session); ok {
			return session, nil
		}
	}
	return nil, model.ErrNotAuthorized
}
