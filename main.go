package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"catalog-service/controllers"
	"catalog-service/ingest"
	"catalog-service/repository"
	"catalog-service/routes"
	"catalog-service/services"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

var CatalogRedis *redis.Client

func main() {
	// Initialize structured logger
	logger, err := zap.NewProduction()
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer logger.Sync()        // Flushes buffer, if any
	zap.ReplaceGlobals(logger) // Set the global logger

	// Load .env file (optional, falls back to system env)
	_ = godotenv.Load()

	// --- 1. Initialization ---

	// Load configuration from environment variables
	cfg, err := LoadConfig()
	if err != nil {
		zap.L().Fatal("Failed to load configuration", zap.Error(err))
	}

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		zap.L().Warn("Failed to parse REDIS_URL, falling back to default", zap.Error(err))
		redisOpts = &redis.Options{Addr: "redis:6379", DB: 0}
	}
	CatalogRedis = redis.NewClient(redisOpts)

	// --- 2. Dependency Injection (Wiring the layers together) ---

	var catalogRepo repository.CatalogRepo
	switch cfg.Store {
	case "redis":
		catalogRepo = repository.NewRedisCatalog(CatalogRedis, repository.DefaultSessionTTL)
	default:
		catalogRepo = repository.NewMemoryCatalog()
	}
	zap.L().Info("Catalog store initialized", zap.String("backend", cfg.Store))

	pipeline := ingest.NewPipeline(ingest.NewRegistry(), ingest.DefaultValidationConfig())
	catalogService := services.NewCatalogService(catalogRepo, pipeline)

	cache := controllers.NewCacheManager(CatalogRedis)
	validator := controllers.NewRequestValidator()

	catalogController := controllers.NewCatalogController(catalogService, CatalogRedis)
	importHandler := controllers.NewImportHandler(catalogService, CatalogRedis, cache, validator, cfg.StorageDir)

	// Background worker for async imports
	workerCtx, stopWorker := context.WithCancel(context.Background())
	services.StartImportWorker(workerCtx, CatalogRedis, catalogService, cfg.StorageDir)

	// --- 3. HTTP Server & Middleware ---

	r := gin.New()
	r.Use(gin.Recovery()) // Recover from panics

	// Add request timeout middleware
	r.Use(func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	})

	// --- 4. Route Registration ---

	routes.RegisterRoutes(r, catalogController, importHandler)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})

	// --- 5. Graceful Shutdown ---

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		zap.L().Info("Catalog Service starting", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zap.L().Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for an interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zap.L().Info("Shutting down Catalog Service...")

	stopWorker()

	// Create a context with a timeout to allow for cleanup
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zap.L().Fatal("Server forced to shutdown", zap.Error(err))
	}

	// Close Redis connection
	if CatalogRedis != nil {
		if err := CatalogRedis.Close(); err != nil {
			zap.L().Error("Failed to close Redis", zap.Error(err))
		}
	}

	zap.L().Info("Catalog Service stopped gracefully")
}
