package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"docvault/internal/http/middleware"
	"docvault/internal/service"
)

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// Handlers stay thin: parse, delegate, translate errors.
func RegisterRoutes(app *fiber.App, db *sql.DB, docSvc service.DocumentService, catSvc service.CategoryService, maxUploadFiles int) {
	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	// Everything under /documents requires the identity injected by the
	// upstream auth layer.
	docs := app.Group("/documents", middleware.Identity())

	// Static paths must register before the :id wildcards.
	docs.Post("/upload", UploadDocuments(docSvc, maxUploadFiles))
	docs.Get("/stats", DocumentStats(docSvc))
	docs.Get("/storage/stats", StorageStats(docSvc))

	docs.Get("/categories", CategoryTree(catSvc))
	docs.Post("/categories", CreateCategory(catSvc))
	docs.Put("/categories/:id", UpdateCategory(catSvc))
	docs.Delete("/categories/:id", DeleteCategory(catSvc))

	docs.Get("/", ListDocuments(docSvc))
	docs.Get("/:id", GetDocument(docSvc))
	docs.Get("/:id/download", DownloadDocument(docSvc))
	docs.Put("/:id", UpdateDocument(docSvc))
	docs.Delete("/:id", DeleteDocument(docSvc))
	docs.Get("/:id/shares", ListShares(docSvc))
	docs.Post("/:id/share", ShareDocument(docSvc))
	docs.Delete("/:id/share/:userId", UnshareDocument(docSvc))
}
