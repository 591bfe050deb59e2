package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"taxportal-backend/internal/core"
	"taxportal-backend/internal/db"
	"taxportal-backend/internal/middleware"
	"taxportal-backend/internal/models"
)

// SetupRoutes configures all application routes with their handlers and
// middleware. Global middleware (logging, recovery, CORS) is applied to the
// router before this is called, in main.go.
func SetupRoutes(
	router *gin.Engine,
	logger *zap.Logger,
	userService core.UserService,
	caseService core.CaseService,
	documentService core.DocumentService,
	contactService core.ContactService,
	staffService core.StaffService,
	streamer CaseStreamer,
) {
	firebaseAuthClient := db.GetFirebaseAuthClient()
	if firebaseAuthClient == nil {
		logger.Fatal("Firebase Auth client is not initialized; routes cannot be set up")
		panic("Firebase Auth client is nil during route setup")
	}
	authMW := middleware.NewAuthMiddleware(firebaseAuthClient, userService, logger)

	authHandler := NewAuthHandler(userService, logger)
	userHandler := NewUserHandler(userService, logger)
	caseHandler := NewCaseHandler(caseService, logger)
	documentHandler := NewDocumentHandler(documentService, logger)
	contactHandler := NewContactHandler(contactService, logger)
	adminHandler := NewAdminHandler(userService, staffService, contactService, logger)
	streamHandler := NewStreamHandler(streamer, caseService, logger)

	apiV1 := router.Group("/api/v1")
	{
		// Public contact intake. No auth.
		apiV1.POST("/contact", contactHandler.SubmitContact)

		userGroup := apiV1.Group("/users")
		{
			// Initialize runs without LoadProfile: it is the call that
			// creates the profile in the first place.
			userGroup.POST("/initialize", authMW.VerifyToken(), authHandler.InitializeUserProfile)
			userGroup.GET("/me", authMW.VerifyToken(), userHandler.GetCurrentUserProfile)
		}

		casesGroup := apiV1.Group("/cases", authMW.VerifyToken(), authMW.LoadProfile())
		{
			casesGroup.POST("", caseHandler.CreateCase)
			casesGroup.GET("", caseHandler.ListCases)
			casesGroup.GET("/stream", streamHandler.StreamCases)
			casesGroup.GET("/:caseId", caseHandler.GetCase)
			casesGroup.GET("/:caseId/stream", streamHandler.StreamCase)

			// Status changes are staff/admin; per-case assignment checks run
			// in the service.
			casesGroup.PATCH("/:caseId/status",
				middleware.RequireRole(models.RoleStaff, models.RoleAdmin),
				caseHandler.UpdateStatus)
			casesGroup.PATCH("/:caseId/assignee",
				middleware.RequireRole(models.RoleAdmin),
				caseHandler.AssignStaff)

			casesGroup.GET("/:caseId/documents", documentHandler.ListDocuments)
			casesGroup.GET("/:caseId/documents/stream", streamHandler.StreamCaseDocuments)
			casesGroup.POST("/:caseId/documents", documentHandler.UploadDocument)
		}

		// Staff-facing alias of the case list; the service scopes it to the
		// caller's assignments.
		staffGroup := apiV1.Group("/staff",
			authMW.VerifyToken(), authMW.LoadProfile(), middleware.RequireRole(models.RoleStaff, models.RoleAdmin))
		{
			staffGroup.GET("/cases", caseHandler.ListCases)
		}

		adminGroup := apiV1.Group("/admin",
			authMW.VerifyToken(), authMW.LoadProfile(), middleware.RequireRole(models.RoleAdmin))
		{
			adminGroup.GET("/users", adminHandler.ListUsers)
			adminGroup.GET("/staff", adminHandler.ListStaff)
			adminGroup.POST("/staff", adminHandler.CreateStaff)
			adminGroup.GET("/contact-messages", adminHandler.ListContactMessages)
			adminGroup.PATCH("/contact-messages/:messageId/read", adminHandler.MarkContactRead)
			adminGroup.DELETE("/contact-messages/:messageId", adminHandler.DeleteContactMessage)
		}
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP"})
	})

	logger.Info("API routes configured under /api/v1 and /health")
}
