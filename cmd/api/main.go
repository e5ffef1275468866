package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/GTDGit/resell_api/internal/cache"
	"github.com/GTDGit/resell_api/internal/config"
	"github.com/GTDGit/resell_api/internal/database"
	"github.com/GTDGit/resell_api/internal/handler"
	"github.com/GTDGit/resell_api/internal/middleware"
	"github.com/GTDGit/resell_api/internal/models"
	"github.com/GTDGit/resell_api/internal/repository"
	"github.com/GTDGit/resell_api/internal/service"
	"github.com/GTDGit/resell_api/internal/sse"
	"github.com/GTDGit/resell_api/internal/utils"
	"github.com/GTDGit/resell_api/internal/worker"
)

// main is the application entrypoint for the reseller admin API.
func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// 2. Setup logger and token signing
	setupLogger(cfg.Env)
	utils.SetJWTConfig(cfg.JWTSecret, cfg.JWTTTL)
	log.Info().Str("env", cfg.Env).Msg("starting resell api")

	// 3. Connect database
	db, err := database.Connect(&cfg.DB)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		fmt.Fprintf(os.Stderr, "database connection failed: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	// 3a. Run migrations
	if err := runMigrations(db.DB); err != nil {
		log.Error().Err(err).Msg("migration failed")
		fmt.Fprintf(os.Stderr, "migration failed: %v\n", err)
		os.Exit(1)
	}
	log.Info().Msg("migrations completed successfully")

	// 3b. Connect to Redis
	redisClient, err := cache.NewRedisClient(&cfg.Redis)
	if err != nil {
		log.Error().Err(err).Msg("redis connection failed")
		fmt.Fprintf(os.Stderr, "redis connection failed: %v\n", err)
		os.Exit(1)
	}
	defer redisClient.Close()
	log.Info().Msg("redis connected successfully")

	// 3c. Sync lock and last-result cache
	syncCache := cache.NewSyncCache(redisClient, cfg.Worker.SyncLockTTL)

	// 4. Initialize repositories
	profileRepo := repository.NewProfileRepository(db)
	productRepo := repository.NewProductRepository(db)
	syncLogRepo := repository.NewSyncLogRepository(db)

	// 5. Initialize workbook archive (optional)
	archive, err := service.NewS3Archive(context.Background(), &cfg.S3, cfg.Import.ArchivePrefix)
	if err != nil {
		log.Warn().Err(err).Msg("S3 archive initialization failed - uploads will not be archived")
	}

	// 6. Initialize services
	hub := sse.NewHub()
	notifier := sse.NewHubNotifier(hub)
	platforms := service.NewPlatformFactory(cfg.Platforms)

	authSvc := service.NewAuthService(profileRepo)
	productSvc := service.NewProductService(productRepo)
	syncSvc := service.NewSyncService(platforms, syncLogRepo, syncCache, notifier)
	webhookSvc := service.NewWebhookService(platforms)

	var importArchive service.WorkbookArchive
	if archive.Enabled() {
		importArchive = archive
	}
	importSvc := service.NewImportService(profileRepo, productRepo, importArchive, notifier)

	// 6a. Bootstrap the first admin
	if cfg.Admin.Email != "" && cfg.Admin.Password != "" {
		if _, err := authSvc.EnsureProfile(context.Background(), cfg.Admin.Email, cfg.Admin.Password, cfg.Admin.FullName, models.RoleAdmin); err != nil {
			log.Error().Err(err).Msg("admin bootstrap failed")
		}
	}

	// 7. Initialize handlers
	handlers := &Handlers{
		Health: handler.NewHealthHandler(map[string]handler.Pinger{
			"database": db,
			"redis":    handler.PingFunc(redisClient.Ping),
		}),
		Auth:    handler.NewAuthHandler(authSvc),
		Import:  handler.NewImportHandler(importSvc, cfg.Import.MaxUploadBytes),
		Sync:    handler.NewSyncHandler(syncSvc),
		Seller:  handler.NewSellerHandler(profileRepo),
		Product: handler.NewProductHandler(productSvc),
		Webhook: handler.NewWebhookHandler(webhookSvc),
		SSE:     handler.NewSSEHandler(hub),
	}

	// 8. Initialize middleware
	jwtMw := middleware.NewJWTMiddleware()
	loginLimiter := middleware.NewIPRateLimiter(10, 5)
	webhookLimiter := middleware.NewIPRateLimiter(600, 50)

	// 9. Setup router
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware(cfg.CORSAllowedHosts))
	router.Use(middleware.LoggingMiddleware())
	setupRoutes(router, handlers, jwtMw, loginLimiter, webhookLimiter)

	// 10. Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 11. Start workers
	loginLimiter.StartCleanup(5*time.Minute, ctx.Done())
	webhookLimiter.StartCleanup(5*time.Minute, ctx.Done())
	if cfg.Worker.AutoSyncInterval > 0 {
		go worker.NewSyncWorker(syncSvc, cfg.Worker.AutoSyncInterval).Start(ctx)
	} else {
		log.Info().Msg("scheduled marketplace sync disabled")
	}

	// 12. Start HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// 13. Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// 14. Cancel context to stop workers
	cancel()

	// 15. Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited")
}

// Handlers groups all HTTP handlers used by the server.
type Handlers struct {
	Health  *handler.HealthHandler
	Auth    *handler.AuthHandler
	Import  *handler.ImportHandler
	Sync    *handler.SyncHandler
	Seller  *handler.SellerHandler
	Product *handler.ProductHandler
	Webhook *handler.WebhookHandler
	SSE     *handler.SSEHandler
}

// setupRoutes registers all routes.
func setupRoutes(router *gin.Engine, handlers *Handlers, jwtMiddleware *middleware.JWTMiddleware, loginLimiter, webhookLimiter *middleware.IPRateLimiter) {
	// Marketplace webhooks (signature checked per platform)
	router.POST("/webhooks/:platform", webhookLimiter.Handle(), handlers.Webhook.Handle)

	router.GET("/v1/health", handlers.Health.GetHealth)
	router.POST("/v1/auth/login", loginLimiter.Handle(), handlers.Auth.Login)

	// Seller and admin product routes
	products := router.Group("/v1/products")
	products.Use(jwtMiddleware.Handle(), middleware.RequireRole(models.RoleSeller, models.RoleAdmin))
	{
		products.GET("", handlers.Product.List)
		products.POST("", handlers.Product.Create)
	}

	// EventSource cannot send headers, so the stream takes ?token=
	router.GET("/v1/admin/events", jwtMiddleware.WithQueryToken().Handle(), middleware.AdminOnly(), handlers.SSE.Stream)

	// Admin routes
	admin := router.Group("/v1/admin")
	admin.Use(jwtMiddleware.Handle(), middleware.AdminOnly())
	{
		// Spreadsheet import
		admin.POST("/import/excel", handlers.Import.Import)
		admin.GET("/import/template", handlers.Import.Template)

		// Marketplace sync
		admin.POST("/sync/:platform", handlers.Sync.Sync)
		admin.GET("/sync/:platform", handlers.Sync.Last)
		admin.GET("/sync-logs", handlers.Sync.Logs)

		// Seller directory
		admin.GET("/sellers", handlers.Seller.List)
	}
}

// runMigrations runs database migrations using golang-migrate.
func runMigrations(db *sql.DB) error {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://migrations",
		"postgres", driver)
	if err != nil {
		return fmt.Errorf("could not create migration instance: %w", err)
	}

	// Run migrations
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("could not run migrations: %w", err)
	}

	return nil
}

func setupLogger(env string) {
	if env == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
}
