package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"taxportal-backend/internal/core"
	"taxportal-backend/internal/middleware"
)

// AuthHandler handles profile initialization for freshly authenticated
// identities.
type AuthHandler struct {
	userService core.UserService
	logger      *zap.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(us core.UserService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{userService: us, logger: logger}
}

// InitializeUserProfile handles POST /api/v1/users/initialize. Called after
// client-side Firebase sign-in to ensure the backend profile exists. First
// sign-ins self-provision a client profile; the reserved admin email comes
// back as admin.
func (h *AuthHandler) InitializeUserProfile(c *gin.Context) {
	uid := c.GetString(middleware.ContextUserIDKey)
	if uid == "" {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Authentication error: User ID not found in context"})
		return
	}
	email := c.GetString(middleware.ContextUserEmailKey)
	displayName := c.GetString(middleware.ContextUserNameKey)
	photoURL := c.GetString(middleware.ContextUserPictureKey)

	profile, created, err := h.userService.GetOrCreate(c.Request.Context(), uid, email, displayName, photoURL)
	if err != nil {
		h.logger.Error("Failed to initialize user profile", zap.String("uid", uid), zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to initialize user profile"})
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, InitializeProfileResponse{Profile: profile, Created: created})
}
