package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"docvault/internal/model"
	"docvault/internal/repository"
)

// DocumentPostgres is a PostgreSQL implementation of repository.DocumentRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type DocumentPostgres struct {
	db *sql.DB
}

// NewDocumentPostgres creates a new DocumentPostgres repository.
func NewDocumentPostgres(db *sql.DB) *DocumentPostgres {
	return &DocumentPostgres{db: db}
}

var _ repository.DocumentRepository = (*DocumentPostgres)(nil)

const documentColumns = `id, name, original_name, storage_path, size, mime_type, description, tags,
	version, parent_document_id, category_id, owner_id, company_id, is_active, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*model.Document, error) {
	var (
		d        model.Document
		parentID sql.NullString
		catID    sql.NullString
	)
	if err := row.Scan(
		&d.ID,
		&d.Name,
		&d.OriginalName,
		&d.StoragePath,
		&d.Size,
		&d.MimeType,
		&d.Description,
		&d.Tags,
		&d.Version,
		&parentID,
		&catID,
		&d.OwnerID,
		&d.CompanyID,
		&d.IsActive,
		&d.CreatedAt,
		&d.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if parentID.Valid {
		d.ParentDocumentID = &parentID.String
	}
	if catID.Valid {
		d.CategoryID = &catID.String
	}
	return &d, nil
}

func nullable(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

// Create inserts a new document row and returns the stored record.
func (r *DocumentPostgres) Create(ctx context.Context, doc *model.Document) (*model.Document, error) {
	q := `
		INSERT INTO documents (id, name, original_name, storage_path, size, mime_type, description, tags,
			version, parent_document_id, category_id, owner_id, company_id, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING ` + documentColumns
	row := r.db.QueryRowContext(ctx, q,
		doc.ID,
		doc.Name,
		doc.OriginalName,
		doc.StoragePath,
		doc.Size,
		doc.MimeType,
		doc.Description,
		doc.Tags,
		doc.Version,
		nullable(doc.ParentDocumentID),
		nullable(doc.CategoryID),
		doc.OwnerID,
		doc.CompanyID,
		doc.IsActive,
		doc.CreatedAt,
		doc.UpdatedAt,
	)
	return scanDocument(row)
}

// FindByID fetches a single active document scoped to the company.
func (r *DocumentPostgres) FindByID(ctx context.Context, id, companyID string) (*model.Document, error) {
	q := `
		SELECT ` + documentColumns + `
		FROM documents
		WHERE id = $1 AND company_id = $2 AND is_active = TRUE
	`
	return scanDocument(r.db.QueryRowContext(ctx, q, id, companyID))
}

// MaxChainVersion returns the highest version across the chain keyed by chainID.
// Soft-deleted revisions are included so numbers are never reused.
func (r *DocumentPostgres) MaxChainVersion(ctx context.Context, chainID, companyID string) (int, error) {
	const q = `
		SELECT COALESCE(MAX(version), 0)
		FROM documents
		WHERE (id = $1 OR parent_document_id = $1) AND company_id = $2
	`
	var max int
	if err := r.db.QueryRowContext(ctx, q, chainID, companyID).Scan(&max); err != nil {
		return 0, err
	}
	return max, nil
}

var sortColumns = map[repository.SortField]string{
	repository.SortByName:      "name",
	repository.SortByCreatedAt: "created_at",
	repository.SortBySize:      "size",
	repository.SortByUpdatedAt: "updated_at",
}

// Search returns a filtered, sorted page of active documents and the total
// count for the same filter.
func (r *DocumentPostgres) Search(ctx context.Context, companyID string, sq repository.SearchQuery) (*repository.PageResult[model.Document], error) {
	where := []string{"company_id = $1", "is_active = TRUE"}
	args := []any{companyID}

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if sq.Query != "" {
		p := arg("%" + sq.Query + "%")
		where = append(where, fmt.Sprintf("(name ILIKE %[1]s OR description ILIKE %[1]s OR original_name ILIKE %[1]s)", p))
	}
	if sq.CategoryID != "" {
		where = append(where, "category_id = "+arg(sq.CategoryID))
	}
	if sq.OwnerID != "" {
		where = append(where, "owner_id = "+arg(sq.OwnerID))
	}
	if sq.MimeType != "" {
		where = append(where, "mime_type LIKE "+arg("%"+sq.MimeType+"%"))
	}
	if len(sq.Tags) > 0 {
		// ANY-of semantics: the JSONB tag array must contain at least one
		// of the requested tags.
		clauses := make([]string, 0, len(sq.Tags))
		for _, tag := range sq.Tags {
			clauses = append(clauses, "tags ? "+arg(tag))
		}
		where = append(where, "("+strings.Join(clauses, " OR ")+")")
	}
	if sq.DateFrom != nil {
		where = append(where, "created_at >= "+arg(*sq.DateFrom))
	}
	if sq.DateTo != nil {
		where = append(where, "created_at <= "+arg(*sq.DateTo))
	}

	cond := strings.Join(where, " AND ")

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM documents WHERE "+cond, args...).Scan(&total); err != nil {
		return nil, err
	}

	sortCol, ok := sortColumns[sq.SortBy]
	if !ok {
		sortCol = "created_at"
	}
	order := "ASC"
	if sq.SortDesc {
		order = "DESC"
	}

	limit := sq.Limit
	if limit <= 0 {
		limit = 20
	}

	listQ := fmt.Sprintf(
		"SELECT %s FROM documents WHERE %s ORDER BY %s %s, id DESC LIMIT %s OFFSET %s",
		documentColumns, cond, sortCol, order, arg(limit), arg(sq.Offset()),
	)

	rows, err := r.db.QueryContext(ctx, listQ, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Document, 0)
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.Document]{Items: items, Total: total}, nil
}

// UpdateMetadata persists the mutable metadata fields of an active document.
func (r *DocumentPostgres) UpdateMetadata(ctx context.Context, doc *model.Document) (*model.Document, error) {
	q := `
		UPDATE documents
		SET name = $3, description = $4, tags = $5, category_id = $6, updated_at = $7
		WHERE id = $1 AND company_id = $2 AND is_active = TRUE
		RETURNING ` + documentColumns
	row := r.db.QueryRowContext(ctx, q,
		doc.ID,
		doc.CompanyID,
		doc.Name,
		doc.Description,
		doc.Tags,
		nullable(doc.CategoryID),
		time.Now().UTC(),
	)
	return scanDocument(row)
}

// SoftDelete marks a document inactive; the physical bytes stay on disk.
func (r *DocumentPostgres) SoftDelete(ctx context.Context, id, companyID string) error {
	const q = `
		UPDATE documents
		SET is_active = FALSE, updated_at = now()
		WHERE id = $1 AND company_id = $2 AND is_active = TRUE
	`
	res, err := r.db.ExecContext(ctx, q, id, companyID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// CountActiveByCategory counts active documents assigned to the category.
func (r *DocumentPostgres) CountActiveByCategory(ctx context.Context, categoryID, companyID string) (int, error) {
	const q = `
		SELECT COUNT(*)
		FROM documents
		WHERE category_id = $1 AND company_id = $2 AND is_active = TRUE
	`
	var count int
	if err := r.db.QueryRowContext(ctx, q, categoryID, companyID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// Stats aggregates active documents for the tenant.
func (r *DocumentPostgres) Stats(ctx context.Context, companyID string, since time.Time) (*repository.DocumentStats, error) {
	stats := &repository.DocumentStats{}

	const qTotals = `
		SELECT COUNT(*), COALESCE(SUM(size), 0)
		FROM documents
		WHERE company_id = $1 AND is_active = TRUE
	`
	if err := r.db.QueryRowContext(ctx, qTotals, companyID).Scan(&stats.TotalDocuments, &stats.TotalSize); err != nil {
		return nil, err
	}

	const qByCategory = `
		SELECT COALESCE(c.name, 'Uncategorized'), COUNT(*)
		FROM documents d
		LEFT JOIN document_categories c ON d.category_id = c.id
		WHERE d.company_id = $1 AND d.is_active = TRUE
		GROUP BY 1
		ORDER BY 2 DESC
	`
	rows, err := r.db.QueryContext(ctx, qByCategory, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var cc repository.CategoryCount
		if err := rows.Scan(&cc.Name, &cc.Count); err != nil {
			return nil, err
		}
		stats.ByCategory = append(stats.ByCategory, cc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	const qByMime = `
		SELECT mime_type, COUNT(*)
		FROM documents
		WHERE company_id = $1 AND is_active = TRUE
		GROUP BY mime_type
		ORDER BY 2 DESC
	`
	mimeRows, err := r.db.QueryContext(ctx, qByMime, companyID)
	if err != nil {
		return nil, err
	}
	defer mimeRows.Close()
	for mimeRows.Next() {
		var mc repository.MimeTypeCount
		if err := mimeRows.Scan(&mc.MimeType, &mc.Count); err != nil {
			return nil, err
		}
		stats.ByMimeType = append(stats.ByMimeType, mc)
	}
	if err := mimeRows.Err(); err != nil {
		return nil, err
	}

	const qRecent = `
		SELECT COUNT(*)
		FROM documents
		WHERE company_id = $1 AND is_active = TRUE AND created_at >= $2
	`
	if err := r.db.QueryRowContext(ctx, qRecent, companyID, since).Scan(&stats.RecentUploads); err != nil {
		return nil, err
	}

	return stats, nil
}
