package repository

// Package repository contains data access layer abstractions.
// Implementations live in subpackages (e.g., postgres) inside this directory.
// Every operation is scoped by company id; no query may cross tenants.

import (
	"context"
	"time"

	"docvault/internal/model"
)

// SortField enumerates the columns a document search may order by.
type SortField string

const (
	SortByName      SortField = "name"
	SortByCreatedAt SortField = "created_at"
	SortBySize      SortField = "size"
	SortByUpdatedAt SortField = "updated_at"
)

// SearchQuery holds the optional document filters. All filters combine with
// AND semantics except Tags, which matches documents carrying ANY of the
// requested tags. Zero values mean "no filter".
type SearchQuery struct {
	Query      string // case-insensitive over name, description, original name
	CategoryID string
	OwnerID    string
	MimeType   string // substring match
	Tags       []string
	DateFrom   *time.Time // inclusive
	DateTo     *time.Time // inclusive
	Page       int
	Limit      int
	SortBy     SortField
	SortDesc   bool
}

// Offset derives the row offset from page and limit.
func (q SearchQuery) Offset() int {
	page := q.Page
	if page < 1 {
		page = 1
	}
	return (page - 1) * q.Limit
}

// PageResult is a generic pagination result wrapper.
// T is typically a model type.
type PageResult[T any] struct {
	Items []T
	Total int
}

// CategoryCount is one bucket of the per-category document statistic.
// Name resolves to "Uncategorized" for documents without a category.
type CategoryCount struct {
	Name  string `json:"category"`
	Count int    `json:"count"`
}

// MimeTypeCount is one bucket of the per-MIME-type document statistic.
type MimeTypeCount struct {
	MimeType string `json:"mime_type"`
	Count    int    `json:"count"`
}

// DocumentStats aggregates active documents for one tenant.
type DocumentStats struct {
	TotalDocuments int             `json:"total_documents"`
	TotalSize      uint64          `json:"total_size"`
	ByCategory     []CategoryCount `json:"by_category"`
	ByMimeType     []MimeTypeCount `json:"by_mime_type"`
	RecentUploads  int             `json:"recent_uploads"`
}

// DocumentRepository defines data access for documents using SQL queries only.
// No business logic here — strictly persistence operations.
type DocumentRepository interface {
	// Create inserts a new document record and returns the stored row.
	Create(ctx context.Context, doc *model.Document) (*model.Document, error)

	// FindByID returns an active document belonging to the company, or
	// sql.ErrNoRows when missing, inactive, or owned by another tenant.
	FindByID(ctx context.Context, id, companyID string) (*model.Document, error)

	// MaxChainVersion returns the highest version across the chain keyed by
	// chainID (rows whose id or parent_document_id equals chainID), and 0
	// when the chain has no rows. Soft-deleted revisions still count so
	// version numbers are never reused.
	MaxChainVersion(ctx context.Context, chainID, companyID string) (int, error)

	// Search returns a filtered, sorted page of active documents plus the
	// total row count for the filter.
	Search(ctx context.Context, companyID string, q SearchQuery) (*PageResult[model.Document], error)

	// UpdateMetadata persists the mutable fields (name, description, tags,
	// category) of doc and returns the stored row.
	UpdateMetadata(ctx context.Context, doc *model.Document) (*model.Document, error)

	// SoftDelete marks a document inactive. Returns sql.ErrNoRows when no
	// active row matched.
	SoftDelete(ctx context.Context, id, companyID string) error

	// CountActiveByCategory counts active documents assigned to a category.
	CountActiveByCategory(ctx context.Context, categoryID, companyID string) (int, error)

	// Stats aggregates active documents for the tenant; recent uploads cover
	// the window starting at since.
	Stats(ctx context.Context, companyID string, since time.Time) (*DocumentStats, error)
}
