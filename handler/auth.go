package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/srvalle/contract-pro/config"
	"github.com/srvalle/contract-pro/middleware"
	"github.com/srvalle/contract-pro/model"
	"github.com/srvalle/contract-pro/pkg/logger"
	"github.com/srvalle/contract-pro/service"
)

type AuthHandler struct {
	users       *service.UserService
	config      *config.AuthConfig
	revocations *middleware.Revocations
}

func NewAuthHandler(users *service.UserService, cfg *config.AuthConfig, revocations *middleware.Revocations) *AuthHandler {
	return &AuthHandler{users: users, config: cfg, revocations: revocations}
}

type SignupRequest struct {
	Email       string `json:"email" binding:"required"`
	Password    string `json:"password" binding:"required"`
	DisplayName string `json:"display_name"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token     string      `json:"token"`
	ExpiresAt string      `json:"expires_at"`
	User      *model.User `json:"user"`
}

// Signup creates an account
func (h *AuthHandler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	user, err := h.users.Signup(c.Request.Context(), req.Email, req.Password, req.DisplayName)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, user)
}

// Login handles user login
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	user, err := h.users.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	token, expiresAt, err := middleware.GenerateToken(user.ID, user.Email, h.config)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	logger.Info(logger.WithUserID(c.Request.Context(), user.ID), "user logged in")

	c.JSON(http.StatusOK, LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt.Format("2006-01-02T15:04:05Z07:00"),
		User:      user,
	})
}

// Logout signs the current token out
func (h *AuthHandler) Logout(c *gin.Context) {
	session, err := middleware.GetSession(c)
	if err != nil {
		respondError(c, err)
		return
	}

	h.revocations.Revoke(session.TokenID, session.ExpiresAt)
	logger.Info(c.Request.Context(), "user logged out")

	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// GetCurrentUser returns the current user info
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	session, err := middleware.GetSession(c)
	if err != nil {
		respondError(c, err)
		return
	}

	user, err := h.users.Get(c.Request.Context(), session.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":    user,
		"session": session,
	})
}

// UpdateCurrentUser edits the display name, email or password
func (h *AuthHandler) UpdateCurrentUser(c *gin.Context) {
	userID, ok := sessionUser(c)
	if !ok {
		return
	}

	var req service.UserUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	user, err := h.users.Update(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}
