package repository

import (
	"context"

	"docvault/internal/model"
)

// CategoryRepository defines data access for document categories.
type CategoryRepository interface {
	// Create inserts a category and returns the stored row.
	Create(ctx context.Context, c *model.DocumentCategory) (*model.DocumentCategory, error)

	// FindByID returns a category belonging to the company, or sql.ErrNoRows.
	FindByID(ctx context.Context, id, companyID string) (*model.DocumentCategory, error)

	// ListByCompany returns every category of the tenant ordered by name.
	ListByCompany(ctx context.Context, companyID string) ([]model.DocumentCategory, error)

	// ActiveDocumentCounts returns category id -> number of active documents
	// directly assigned, for the whole tenant in one query.
	ActiveDocumentCounts(ctx context.Context, companyID string) (map[string]int, error)

	// Update persists name, description, and icon. Returns sql.ErrNoRows when
	// the category does not belong to the company.
	Update(ctx context.Context, c *model.DocumentCategory) (*model.DocumentCategory, error)

	// Delete removes the category row. Returns sql.ErrNoRows when no row
	// matched. Callers must check the active-document count first.
	Delete(ctx context.Context, id, companyID string) error
}
