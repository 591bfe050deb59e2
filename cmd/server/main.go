package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"taxportal-backend/internal/api"
	"taxportal-backend/internal/config"
	"taxportal-backend/internal/core"
	"taxportal-backend/internal/db"
	"taxportal-backend/internal/middleware"
	"taxportal-backend/internal/storage"
	"taxportal-backend/internal/watch"
	"taxportal-backend/pkg/cache"
	"taxportal-backend/pkg/events"
	"taxportal-backend/pkg/mailer"
)

func main() {
	// --- 1. Initialize Logger (Zap) ---
	zapLogger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("Failed to initialize Zap logger: %v", err)
	}
	defer zapLogger.Sync()
	zapLogger.Info("Zap logger initialized successfully.")

	// --- 2. Load Application Configuration ---
	appConfig, err := config.LoadConfig()
	if err != nil {
		zapLogger.Fatal("Failed to load application configuration", zap.Error(err))
	}
	zapLogger.Info("Application configuration loaded successfully.")

	// --- 3. Initialize Firebase Admin SDK (Firestore, Auth, Storage) ---
	initCtx, cancelInitCtx := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelInitCtx()
	if err := db.InitFirebase(initCtx, appConfig); err != nil {
		zapLogger.Fatal("Failed to initialize Firebase Admin SDK", zap.Error(err))
	}
	zapLogger.Info("Firebase Admin SDK (Firestore, Auth, Storage) initialized successfully.")

	firestoreClient := db.GetFirestoreClient()
	firebaseAuthClient := db.GetFirebaseAuthClient()
	storageBucket := db.GetStorageBucket()
	if firestoreClient == nil || firebaseAuthClient == nil || storageBucket == nil {
		zapLogger.Fatal("Firebase clients are nil after initialization. Application cannot start.")
	}

	// --- 4. Optional infrastructure: Redis profile cache ---
	var profileCache cache.Cache
	if appConfig.RedisAddr != "" {
		profileCache, err = cache.NewRedisCache(cache.NewRedisCacheConfig{
			Address:  appConfig.RedisAddr,
			Password: appConfig.RedisPassword,
			DB:       appConfig.RedisDB,
		})
		if err != nil {
			// The cache is an accelerator, not a dependency.
			zapLogger.Warn("Redis unavailable, continuing without profile cache", zap.Error(err))
			profileCache = nil
		}
	} else {
		zapLogger.Info("REDIS_ADDR not set; profile cache disabled.")
	}

	// --- 5. Optional infrastructure: RabbitMQ case event publisher ---
	var publisher events.Publisher = events.NopPublisher{}
	if appConfig.AMQPURL != "" {
		rabbitPublisher, err := events.NewRabbitMQPublisher(events.NewRabbitMQPublisherConfig{
			URL:       appConfig.AMQPURL,
			QueueName: appConfig.EventQueue,
		})
		if err != nil {
			zapLogger.Warn("RabbitMQ unavailable, case events will be dropped", zap.Error(err))
		} else {
			publisher = rabbitPublisher
			defer publisher.Close()
		}
	} else {
		zapLogger.Info("AMQP_URL not set; case event publishing disabled.")
	}

	// --- 6. Optional infrastructure: contact notification mailer ---
	var contactNotifier core.ContactNotifier
	if appConfig.SMTPUser != "" && appConfig.SMTPPassword != "" &&
		appConfig.ContactFromEmail != "" && appConfig.ContactNotifyEmail != "" {
		m, err := mailer.NewMailer(appConfig.SMTPUser, appConfig.SMTPPassword,
			appConfig.ContactFromEmail, appConfig.ContactNotifyEmail)
		if err != nil {
			zapLogger.Warn("Mailer misconfigured, contact notifications disabled", zap.Error(err))
		} else {
			contactNotifier = m
		}
	} else {
		zapLogger.Info("SMTP settings incomplete; contact notifications disabled.")
	}

	// --- 7. Initialize Repositories ---
	userRepo := db.NewFirestoreUserRepository(firestoreClient)
	caseRepo := db.NewFirestoreCaseRepository(firestoreClient)
	documentRepo := db.NewFirestoreDocumentRepository(firestoreClient)
	contactRepo := db.NewFirestoreContactRepository(firestoreClient)
	authProvider := db.NewFirebaseAuthProvider(firebaseAuthClient)
	zapLogger.Info("Repositories initialized successfully.")

	// --- 8. Initialize Services ---
	uploader := storage.NewUploader(storageBucket, appConfig.StorageBucket)
	watcher := watch.NewWatcher(firestoreClient, zapLogger)

	userService := core.NewUserService(userRepo, profileCache, appConfig.AdminEmail)
	caseService := core.NewCaseService(caseRepo, userRepo, publisher, zapLogger)
	documentService := core.NewDocumentService(documentRepo, caseRepo, uploader, publisher, zapLogger)
	contactService := core.NewContactService(contactRepo, contactNotifier, zapLogger)
	staffService := core.NewStaffService(authProvider, userRepo, zapLogger)
	zapLogger.Info("Core services initialized successfully.")

	// --- 9. Setup Gin HTTP Engine ---
	if strings.ToLower(appConfig.GinMode) == "release" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}
	router := gin.New()

	// --- 10. Apply Global Middleware (order matters) ---
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(zapLogger))
	router.Use(middleware.RecoveryMiddleware(zapLogger))
	if appConfig.ClientURL != "" {
		router.Use(middleware.CORSMiddleware(appConfig))
		zapLogger.Info("CORS Middleware enabled", zap.String("clientURL", appConfig.ClientURL))
	} else {
		zapLogger.Warn("CORS Middleware SKIPPED: CLIENT_URL is not configured.")
	}

	// --- 11. Setup API Routes ---
	api.SetupRoutes(
		router,
		zapLogger,
		userService,
		caseService,
		documentService,
		contactService,
		staffService,
		watcher,
	)

	// --- 12. Configure and Start HTTP Server ---
	serverAddr := fmt.Sprintf(":%s", appConfig.Port)
	httpServer := &http.Server{
		Addr:    serverAddr,
		Handler: router,
	}

	zapLogger.Info("Starting HTTP server...", zap.String("address", serverAddr), zap.String("ginMode", gin.Mode()))

	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()

	// --- 13. Graceful Shutdown Handling ---
	quitChannel := make(chan os.Signal, 1)
	signal.Notify(quitChannel, syscall.SIGINT, syscall.SIGTERM)

	sig := <-quitChannel
	zapLogger.Info("Received shutdown signal", zap.String("signal", sig.String()))

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zapLogger.Fatal("Server forced to shutdown due to error during graceful shutdown", zap.Error(err))
	}

	zapLogger.Info("Server exiting gracefully.")
}
