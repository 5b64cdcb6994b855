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

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/powerplay-sports/booking-service/internal/auth"
	"github.com/powerplay-sports/booking-service/internal/cache"
	"github.com/powerplay-sports/booking-service/internal/config"
	"github.com/powerplay-sports/booking-service/internal/events"
	"github.com/powerplay-sports/booking-service/internal/handlers"
	"github.com/powerplay-sports/booking-service/internal/services"
	"github.com/powerplay-sports/booking-service/internal/utils"
	"github.com/powerplay-sports/booking-service/internal/validator"
	"github.com/powerplay-sports/booking-service/pkg"
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

	// Initialize store
	repo, err := pkg.OpenRepository(context.Background(), cfg, slogLogger)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}

	// Initialize Redis (if configured)
	var redisClient *redis.Client
	if cfg.Redis.URL != "" {
		redisClient, err = pkg.NewRedisClient(cfg)
		if err != nil {
			logger.Warn("Failed to initialize Redis, role cache disabled", "error", err)
			redisClient = nil
		}
	}
	roleCache := cache.NewRoleCache(redisClient, cfg.Redis.RoleCacheTTL)

	// Initialize event publisher
	publisher, err := events.NewPublisher(cfg.Kafka, slogLogger)
	if err != nil {
		log.Fatalf("Failed to initialize event publisher: %v", err)
	}

	signer, err := auth.NewSigner(cfg.JWT.Secret, cfg.JWT.TTL)
	if err != nil {
		log.Fatalf("Failed to initialize token signer: %v", err)
	}

	validator := validator.New()

	// Initialize services
	serviceManager := services.NewServiceManager(services.ServiceManagerConfig{
		Repo:      repo,
		RoleCache: roleCache,
		Publisher: publisher,
		Validator: validator,
		Logger:    slogLogger,
	})
	if err := serviceManager.Initialize(context.Background()); err != nil {
		log.Fatalf("Failed to initialize services: %v", err)
	}

	handlerManager := handlers.NewHandlerManager(serviceManager, signer, validator, logger)

	// Setup Gin router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	handlers.SetupMiddleware(router, logger)
	handlerManager.SetupRoutes(router)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: router,
	}

	go func() {
		logger.Info("Starting server", "port", cfg.Port, "environment", cfg.Environment, "store", cfg.Store.Driver)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	// Flushes the event publisher
	if err := serviceManager.Shutdown(ctx); err != nil {
		logger.Error("Failed to shutdown services", "error", err)
	}

	if err := repo.Close(ctx); err != nil {
		logger.Error("Failed to close store", "error", err)
	}

	if redisClient != nil {
		_ = redisClient.Close()
	}

	logger.Info("Server exited")
}
