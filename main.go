package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/srvalle/contract-pro/config"
	"github.com/srvalle/contract-pro/handler"
	"github.com/srvalle/contract-pro/middleware"
	"github.com/srvalle/contract-pro/pkg/logger"
	"github.com/srvalle/contract-pro/pkg/metrics"
	"github.com/srvalle/contract-pro/render"
	"github.com/srvalle/contract-pro/service"
)

// stores bundles the persistence backends selected by configuration
type stores struct {
	contracts service.ContractStore
	users     service.UserStore
	archive   *service.ArchiveService
	close     func()
}

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}

	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		slog.Error("failed to load config", "path", configPath, "error", err)
		os.Exit(1)
	}

	// Initialize logger
	logger.Init(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})

	slog.Info("configuration loaded successfully", "store", cfg.Store.Driver, "minio", cfg.Minio.Enabled)

	ctx := context.Background()

	st, err := openStores(ctx, cfg)
	if err != nil {
		slog.Error("failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer st.close()

	users := service.NewUserService(st.users)
	if err := users.SeedUsers(ctx, cfg.Users); err != nil {
		slog.Error("failed to seed users", "error", err)
		os.Exit(1)
	}

	gin.SetMode(gin.ReleaseMode)
	router := setupRouter(cfg, st, users)

	// Create server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		slog.Info("server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutting down server...")

	// In-flight deliveries are detached from their requests
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Delivery.Timeout()+5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server exited gracefully")
}

// openStores picks the contract and user stores and, when enabled, the
// object storage archive.
func openStores(ctx context.Context, cfg *config.Config) (*stores, error) {
	st := &stores{close: func() {}}

	switch cfg.Store.Driver {
	case config.DriverPostgres:
		if err := service.Migrate(ctx, cfg.Store.DSN); err != nil {
			return nil, err
		}
		pool, err := service.Connect(ctx, &cfg.Store)
		if err != nil {
			return nil, err
		}
		st.contracts = service.NewPostgresContractStore(pool, pool.Ping)
		st.users = service.NewPostgresUserStore(pool)
		st.close = pool.Close
	default:
		st.contracts = service.NewMemoryContractStore()
		st.users = service.NewMemoryUserStore()
	}

	if cfg.Minio.Enabled {
		archive, err := service.NewArchiveService(&cfg.Minio)
		if err != nil {
			st.close()
			return nil, err
		}
		// Ensure bucket exists
		if err := archive.EnsureBucket(ctx); err != nil {
			st.close()
			return nil, err
		}
		st.archive = archive
	}

	return st, nil
}

func setupRouter(cfg *config.Config, st *stores, users *service.UserService) *gin.Engine {
	contracts := service.NewContractService(st.contracts)
	logoHosts := cfg.Render.LogoAllowedHosts
	if cfg.Minio.Enabled {
		logoHosts = append(logoHosts, cfg.Minio.Endpoint)
	}
	target := render.NewTarget(render.NewHTTPLogoFetcher(cfg.Render.LogoTimeout(), cfg.Render.LogoMaxBytes, logoHosts...))
	revocations := middleware.NewRevocations()
	dispatcher := service.NewDispatcher(cfg.Delivery)
	contracts.WithArtifacts(dispatcher)

	var (
		archiver handler.Archiver
		logos    handler.LogoStore
	)
	if st.archive != nil {
		contracts.WithArtifacts(st.archive)
		archiver = st.archive
		logos = st.archive
	}

	handlers := &handler.Handlers{
		Auth:      handler.NewAuthHandler(users, &cfg.Auth, revocations),
		Contract:  handler.NewContractHandler(contracts),
		Document:  handler.NewDocumentHandler(contracts, target, archiver, cfg.Delivery.Filename),
		Dispatch:  handler.NewDispatchHandler(contracts, target, dispatcher),
		Dashboard: handler.NewDashboardHandler(service.NewStatsService(st.contracts)),
		Logo:      handler.NewLogoHandler(logos, cfg.Render.LogoMaxBytes),
	}

	router := gin.New() // Use New() instead of Default() to avoid default middleware

	// Add custom middleware
	router.Use(middleware.RequestID())     // Request ID for tracing
	router.Use(middleware.Recovery())      // Panic recovery
	router.Use(middleware.RequestLogger()) // Access logging
	router.Use(middleware.Metrics())       // Prometheus request metrics
	router.Use(corsMiddleware())           // CORS
	router.Use(noStoreMiddleware())        // No caching of API responses
	router.Use(middleware.RateLimit(cfg.Server.RateLimit, time.Minute))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := st.contracts.Ping(ctx); err != nil {
			logger.Warn(c.Request.Context(), "health check failed", "error", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unavailable",
				"timestamp": time.Now().Format(time.RFC3339),
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
		})
	})
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	handlers.Register(router.Group("/api"), middleware.AuthMiddleware(&cfg.Auth, revocations))

	return router
}

// corsMiddleware handles CORS headers
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Accept-Language, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "X-Request-ID, Content-Disposition")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// noStoreMiddleware keeps API responses out of shared caches
func noStoreMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api") {
			c.Header("Cache-Control", "no-cache, no-store, must-revalidate")
			c.Header("Pragma", "no-cache")
			c.Header("Expires", "0")
		}
		c.Next()
	}
}
