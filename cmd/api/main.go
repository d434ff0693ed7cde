package main

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"docvault/docs"
	"docvault/internal/config"
	"docvault/internal/database"
	"docvault/internal/database/migration"
	"docvault/internal/filestore"
	handlers "docvault/internal/http/handler"
	"docvault/internal/http/middleware"
	"docvault/internal/otel"
	"docvault/internal/repository/postgres"
	"docvault/internal/service"
)

// @title DocVault API
// @version 1.0
// @BasePath /
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	ctx := context.Background()
	loc := time.UTC

	// Tracing is optional; a missing collector degrades to a noop provider.
	shutdownTracing, err := otel.Init(ctx, loc)
	if err != nil {
		log.Fatalf("failed to initialize tracing: %v", err)
	}
	defer shutdownTracing(ctx)

	// Initialize PostgreSQL connection (with pooling via database/sql)
	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, loc, cfg.Database.Host); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	store, err := newStore(cfg)
	if err != nil {
		log.Fatalf("failed to initialize file store: %v", err)
	}

	// Initialize repositories and services
	docRepo := postgres.NewDocumentPostgres(db)
	shareRepo := postgres.NewSharePostgres(db)
	catRepo := postgres.NewCategoryPostgres(db)

	limits := filestore.DefaultLimits()
	limits.MaxFileSize = cfg.Storage.MaxFileSize

	docSvc := service.NewDocumentService(store, docRepo, shareRepo, limits)
	catSvc := service.NewCategoryService(catRepo, docRepo)

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
		BodyLimit:    cfg.Storage.BodyLimit(),
	})

	// Register global middleware
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	// JSON Logger middleware for structured request logs
	app.Use(middleware.Logger())
	app.Use(otelfiber.Middleware())

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	promMiddleware, err := middleware.NewPrometheusMiddleware(registry)
	if err != nil {
		log.Fatalf("failed to register metrics: %v", err)
	}
	app.Use(promMiddleware.Handler())
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	// Register HTTP routes with injected services
	handlers.RegisterRoutes(app, db, docSvc, catSvc, cfg.Storage.MaxFilesPerUpload)

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	go cleanupLoop(ctx, store, cfg.Storage)

	addr := ":" + cfg.Port

	if err := app.Listen(addr); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}

// newStore selects the file store backend from configuration. Local disk is
// the default; MinIO serves deployments that need shared object storage.
func newStore(cfg *config.AppConfig) (filestore.Store, error) {
	nameKey := []byte(cfg.Storage.NameSecret)
	switch cfg.Storage.Backend {
	case "minio":
		return filestore.NewMinIO(cfg.MinIO, nameKey)
	default:
		return filestore.NewLocal(cfg.Storage.Root, nameKey)
	}
}

// cleanupLoop periodically removes expired files from the temp bucket.
func cleanupLoop(ctx context.Context, store filestore.Store, cfg config.StorageConfig) {
	interval := time.Duration(cfg.CleanupEveryMin) * time.Minute
	maxAge := time.Duration(cfg.TempMaxAgeHours) * time.Hour
	if interval <= 0 || maxAge <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := store.CleanupTemp(ctx, maxAge); n > 0 {
				log.Printf("cleanup: removed %d expired temp files", n)
			}
		}
	}
}
