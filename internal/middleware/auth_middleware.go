package middleware

import (
	"errors"
	"net/http"
	"strings"

	"firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"taxportal-backend/internal/core"
	"taxportal-backend/internal/models"
)

// Context keys set by the auth middleware chain.
const (
	ContextUserIDKey      = "userID"
	ContextUserEmailKey   = "userEmail"
	ContextUserNameKey    = "userDisplayName"
	ContextUserPictureKey = "userPhotoURL"
	ContextProfileKey     = "userProfile"
)

// ErrorResponse mirrors the one in internal/api/dto_models.go to avoid an
// import cycle between middleware and api.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// AuthMiddleware provides Gin middleware for Firebase token authentication
// and profile resolution.
type AuthMiddleware struct {
	firebaseAuthClient *auth.Client
	userService        core.UserService
	logger             *zap.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware instance. It panics on a nil
// auth client or user service; authenticated routes cannot function without
// either.
func NewAuthMiddleware(fbAuthClient *auth.Client, userService core.UserService, logger *zap.Logger) *AuthMiddleware {
	if fbAuthClient == nil {
		panic("Firebase Auth client is not initialized for AuthMiddleware")
	}
	if userService == nil {
		panic("UserService is not initialized for AuthMiddleware")
	}
	return &AuthMiddleware{
		firebaseAuthClient: fbAuthClient,
		userService:        userService,
		logger:             logger,
	}
}

// VerifyToken verifies the Firebase ID token from the Authorization header
// and, if valid, sets the identity claims in the Gin context.
func (m *AuthMiddleware) VerifyToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "Authorization header is required"})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "Authorization header format must be 'Bearer {token}'"})
			return
		}
		idToken := parts[1]

		token, err := m.firebaseAuthClient.VerifyIDToken(c.Request.Context(), idToken)
		if err != nil {
			if m.logger != nil {
				m.logger.Warn("Failed to verify Firebase ID token", zap.Error(err))
			}
			// Generic message to the client; specifics stay in the server log.
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid or expired authentication token"})
			return
		}

		c.Set(ContextUserIDKey, token.UID)
		if email, ok := token.Claims["email"].(string); ok {
			c.Set(ContextUserEmailKey, email)
		}
		if name, ok := token.Claims["name"].(string); ok {
			c.Set(ContextUserNameKey, name)
		}
		if picture, ok := token.Claims["picture"].(string); ok {
			c.Set(ContextUserPictureKey, picture)
		}

		c.Next()
	}
}

// LoadProfile resolves the caller's stored profile and sets it in the Gin
// context. Must run after VerifyToken. Identities without a profile document
// get 403; POST /users/initialize is the only route meant to run without it.
func (m *AuthMiddleware) LoadProfile() gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := c.GetString(ContextUserIDKey)
		if uid == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "Authentication required"})
			return
		}

		profile, err := m.userService.GetByID(c.Request.Context(), uid)
		if err != nil {
			if errors.Is(err, core.ErrUserNotFound) {
				c.AbortWithStatusJSON(http.StatusForbidden, ErrorResponse{Error: "Profile not initialized", Details: "Call POST /users/initialize first"})
				return
			}
			if m.logger != nil {
				m.logger.Error("Failed to load profile for authenticated user", zap.String("uid", uid), zap.Error(err))
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to resolve user profile"})
			return
		}

		c.Set(ContextProfileKey, profile)
		c.Next()
	}
}

// RequireRole aborts with 403 unless the loaded profile holds one of the
// given roles. Must run after LoadProfile.
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		profile := ProfileFromContext(c)
		if profile == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "Authentication required"})
			return
		}
		for _, role := range roles {
			if profile.Role == role {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, ErrorResponse{Error: "Insufficient permissions"})
	}
}

// ProfileFromContext returns the profile set by LoadProfile, or nil.
func ProfileFromContext(c *gin.Context) *models.UserProfile {
	value, exists := c.Get(ContextProfileKey)
	if !exists {
		return nil
	}
	profile, ok := value.(*models.UserProfile)
	if !ok {
		return nil
	}
	return profile
}
