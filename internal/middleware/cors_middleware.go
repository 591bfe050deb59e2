package middleware

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"taxportal-backend/internal/config"
)

// CORSMiddleware configures Cross-Origin Resource Sharing for the portal
// frontend. Origins come from CLIENT_URL; "Authorization" must be allowed
// for token-based auth.
func CORSMiddleware(appConfig *config.Config) gin.HandlerFunc {
	clientURL := "http://localhost:3000"
	if appConfig != nil && appConfig.ClientURL != "" {
		clientURL = appConfig.ClientURL
	}

	return cors.New(cors.Config{
		AllowOrigins:     []string{clientURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}
