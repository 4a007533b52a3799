package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jacksburguerebeer-bit/checklist-restaurantes/internal/cache"
	"github.com/jacksburguerebeer-bit/checklist-restaurantes/internal/config"
	"github.com/jacksburguerebeer-bit/checklist-restaurantes/internal/database"
	"github.com/jacksburguerebeer-bit/checklist-restaurantes/internal/handlers"
	"github.com/jacksburguerebeer-bit/checklist-restaurantes/internal/middleware"
	"github.com/jacksburguerebeer-bit/checklist-restaurantes/internal/models"
	"github.com/jacksburguerebeer-bit/checklist-restaurantes/internal/repository"
	"github.com/jacksburguerebeer-bit/checklist-restaurantes/internal/services"
	"github.com/jacksburguerebeer-bit/checklist-restaurantes/internal/storage"
)

const serviceVersion = "1.0.0"

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.Server.GinMode)

	ctx := context.Background()

	// Initialize DB pool
	pool, err := database.NewPool(ctx, &cfg.DB)
	if err != nil {
		log.Fatalf("Failed to initialize DB pool: %v", err)
	}

	// Initialize Redis client
	redisClient, err := cache.NewClient(&cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to initialize Redis client: %v", err)
	}

	// Initialize storage driver
	storageDriver, err := storage.NewDriver(&storage.Config{
		Driver:             cfg.Storage.Driver,
		UploadsPath:        cfg.Storage.UploadsPath,
		AWSAccessKeyID:     cfg.Storage.AWSAccessKeyID,
		AWSSecretAccessKey: cfg.Storage.AWSSecretAccessKey,
		AWSRegion:          cfg.Storage.AWSRegion,
		AWSBucket:          cfg.Storage.AWSBucket,
	})
	if err != nil {
		log.Fatalf("Failed to initialize storage driver: %v", err)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(pool)
	checklistRepo := repository.NewChecklistRepository(pool)
	executionRepo := repository.NewExecutionRepository(pool)
	dashboardRepo := repository.NewDashboardRepository(pool)

	// Initialize services
	uploadService := services.NewUploadService(storageDriver, cfg.Storage.MaxUploadSize)
	executionService := services.NewExecutionService(executionRepo, uploadService)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userRepo, cfg)
	checklistHandler := handlers.NewChecklistHandler(checklistRepo, executionRepo, redisClient)
	executionHandler := handlers.NewExecutionHandler(executionService, redisClient, cfg.Storage.MaxUploadSize)
	dashboardHandler := handlers.NewDashboardHandler(dashboardRepo, redisClient)

	// Setup router
	router := setupRouter(cfg, authHandler, checklistHandler, executionHandler, dashboardHandler)

	// Create HTTP server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Graceful shutdown with 5 second timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	pool.Close()
	redisClient.Close()

	log.Println("Server exited")
}

func setupRouter(
	cfg *config.Config,
	authHandler *handlers.AuthHandler,
	checklistHandler *handlers.ChecklistHandler,
	executionHandler *handlers.ExecutionHandler,
	dashboardHandler *handlers.DashboardHandler,
) *gin.Engine {
	router := gin.Default()
	router.Use(cors.Default())

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"service":   "checklist-restaurantes-api",
			"version":   serviceVersion,
		})
	})

	// Answer photos, served directly by the local driver only
	if cfg.Storage.Driver == "local" || cfg.Storage.Driver == "" {
		router.Static("/uploads", cfg.Storage.UploadsPath)
	}

	// Public routes (no authentication required)
	public := router.Group("")
	{
		public.POST("/auth/login", authHandler.Login)
	}

	// Protected routes (authentication required)
	protected := router.Group("")
	protected.Use(middleware.AuthMiddleware(cfg))
	{
		protected.GET("/checklists", checklistHandler.List)
		protected.POST("/checklists/:id/start", checklistHandler.Start)
		protected.POST("/executions/:id/answer", executionHandler.Answer)
		protected.POST("/executions/:id/finalize", executionHandler.Finalize)

		admin := protected.Group("/admin")
		admin.Use(middleware.RequireRole(models.RoleAdmin))
		{
			admin.GET("/dashboard", dashboardHandler.GetDashboard)
		}
	}

	return router
}
