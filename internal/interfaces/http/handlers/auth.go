// internal/interfaces/http/handlers/auth.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/bakehouse-backend/internal/domain/user"
	"github.com/your-org/bakehouse-backend/internal/interfaces/http/middleware"
	"github.com/your-org/bakehouse-backend/internal/pkg/auth"
)

// AuthHandler handles authentication and account endpoints
type AuthHandler struct {
	userService *user.Service
	logger      logrus.FieldLogger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(userService *user.Service, logger logrus.FieldLogger) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		logger:      logger,
	}
}

// Register handles POST /auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req user.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	response, err := h.userService.Register(c.Request.Context(), &req)
	if err != nil {
		h.handleError(c, err, "Failed to register")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully",
		"data":    response,
	})
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req user.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	response, err := h.userService.Login(c.Request.Context(), &req)
	if err != nil {
		h.handleError(c, err, "Failed to sign in")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"data":    response,
	})
}

// AdminLogin handles POST /auth/admin/login
func (h *AuthHandler) AdminLogin(c *gin.Context) {
	var req user.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	response, err := h.userService.AdminLogin(c.Request.Context(), &req)
	if err != nil {
		h.handleError(c, err, "Failed to sign in")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"data":    response,
	})
}

// Logout handles POST /auth/logout. Tokens are stateless, so the client
// simply discards its copy.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Logged out successfully",
	})
}

// Me handles GET /auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusOK, gin.H{
			"message": "Not signed in",
			"data": gin.H{
				"is_authenticated": false,
			},
		})
		return
	}

	u, err := h.userService.GetByID(c.Request.Context(), userID)
	if err != nil {
		h.handleError(c, err, "Failed to retrieve user")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User retrieved successfully",
		"data": gin.H{
			"is_authenticated": true,
			"user_id":          u.ID,
			"email":            u.Email,
			"is_admin":         u.IsAdmin,
			"user":             u,
		},
	})
}

// UpdateProfile handles PUT /auth/profile
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User not authenticated",
		})
		return
	}

	var req user.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	u, err := h.userService.UpdateProfile(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleError(c, err, "Failed to update profile")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Profile updated successfully",
		"data":    u,
	})
}

// UpdateCredentials handles PUT /admin/credentials
func (h *AuthHandler) UpdateCredentials(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User not authenticated",
		})
		return
	}

	var req user.UpdateCredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	u, err := h.userService.UpdateCredentials(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleError(c, err, "Failed to update credentials")
		return
	}

	h.logger.WithField("user_id", userID).Info("Admin credentials updated")
	c.JSON(http.StatusOK, gin.H{
		"message": "Credentials updated successfully",
		"data":    u,
	})
}

func (h *AuthHandler) handleError(c *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, user.ErrInvalidCredentials):
		respondError(c, h.logger, http.StatusUnauthorized, "Invalid email or password", nil)
	case errors.Is(err, user.ErrNotAdmin):
		respondError(c, h.logger, http.StatusForbidden, "Admin access required", nil)
	case errors.Is(err, user.ErrEmailTaken):
		respondError(c, h.logger, http.StatusConflict, "Email already registered", err)
	case errors.Is(err, user.ErrPasswordMismatch):
		respondError(c, h.logger, http.StatusBadRequest, "Passwords do not match", err)
	case errors.Is(err, auth.ErrWeakPassword):
		respondError(c, h.logger, http.StatusBadRequest, "Password does not meet requirements", err)
	case errors.Is(err, user.ErrUserNotFound):
		respondError(c, h.logger, http.StatusNotFound, "User not found", err)
	default:
		respondError(c, h.logger, http.StatusInternalServerError, message, err)
	}
}
