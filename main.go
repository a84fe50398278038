package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/SAP-F-2025/score-service/internal/config"
	"github.com/SAP-F-2025/score-service/internal/handlers"
	"github.com/SAP-F-2025/score-service/internal/repositories/postgres"
	"github.com/SAP-F-2025/score-service/internal/services"
	"github.com/SAP-F-2025/score-service/internal/session"
	"github.com/SAP-F-2025/score-service/internal/utils"
	"github.com/SAP-F-2025/score-service/internal/validator"
	"github.com/SAP-F-2025/score-service/pkg"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	slogLogger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	logger := utils.NewSlogLogger(slogLogger)

	// Initialize database
	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// Initialize Redis (if configured)
	var redisClient *redis.Client
	if cfg.RedisURL == "" && cfg.IsProduction() && cfg.AuthProvider == config.AuthProviderLocal {
		log.Fatalf("REDIS_URL is required for local sessions in production")
	}
	if cfg.RedisURL != "" {
		redisClient, err = pkg.NewRedisClient(cfg)
		if err != nil {
			if cfg.IsProduction() && cfg.AuthProvider == config.AuthProviderLocal {
				log.Fatalf("Failed to initialize Redis: %v", err)
			}
			logger.Warn("Redis unavailable, session revocation disabled", "error", err)
		}
	}

	// Initialize repositories
	repoManager := postgres.NewRepositoryManager(postgres.RepositoryConfig{
		DB:           db,
		StoreTimeout: cfg.StoreTimeout,
	})
	if err := repoManager.Initialize(); err != nil {
		log.Fatalf("Failed to initialize repositories: %v", err)
	}

	requestValidator := validator.New()

	// Initialize services
	serviceManager := services.NewServiceManager(repoManager.GetRepository(), slogLogger)
	if err := serviceManager.Initialize(context.Background()); err != nil {
		log.Fatalf("Failed to initialize services: %v", err)
	}

	// Sessions and identity provider
	sessionStore := session.NewRedisStore(redisClient)
	sessions := session.NewManager(cfg.Session.Secret, cfg.Session.TTL, sessionStore, logger.With("component", "session"))

	var casdoorVerifier handlers.CasdoorVerifier
	if cfg.AuthProvider == config.AuthProviderCasdoor {
		casdoorVerifier = handlers.NewCasdoorVerifier(cfg.Casdoor)
	}

	// Initialize handlers
	handlerManager := handlers.NewHandlerManager(handlers.HandlerManagerConfig{
		Config:         cfg,
		ServiceManager: serviceManager,
		Sessions:       sessions,
		SessionStore:   sessionStore,
		Casdoor:        casdoorVerifier,
		Validator:      requestValidator,
		Logger:         logger,
	})

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	handlers.SetupMiddleware(router, logger, cfg.CORSAllowedOrigins)
	handlerManager.SetupRoutes(router)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Starting server",
			"port", cfg.Port,
			"environment", cfg.Environment,
			"auth_provider", cfg.AuthProvider)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	// Closes the database pool
	if err := serviceManager.Shutdown(ctx); err != nil {
		log.Printf("Failed to shutdown services: %v", err)
	}

	if redisClient != nil {
		redisClient.Close()
	}

	logger.Info("Server exited")
}
