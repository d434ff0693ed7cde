package postgres

import (
	"context"
	"database/sql"
	"time"

	"docvault/internal/model"
	"docvault/internal/repository"
)

// CategoryPostgres is a PostgreSQL implementation of repository.CategoryRepository.
type CategoryPostgres struct {
	db *sql.DB
}

// NewCategoryPostgres creates a new CategoryPostgres repository.
func NewCategoryPostgres(db *sql.DB) *CategoryPostgres {
	return &CategoryPostgres{db: db}
}

var _ repository.CategoryRepository = (*CategoryPostgres)(nil)

const categoryColumns = `id, name, description, icon, parent_id, company_id, created_at, updated_at`

func scanCategory(row rowScanner) (*model.DocumentCategory, error) {
	var (
		c        model.DocumentCategory
		parentID sql.NullString
	)
	if err := row.Scan(
		&c.ID,
		&c.Name,
		&c.Description,
		&c.Icon,
		&parentID,
		&c.CompanyID,
		&c.CreatedAt,
		&c.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if parentID.Valid {
		c.ParentID = &parentID.String
	}
	return &c, nil
}

// Create inserts a category row and returns the stored record.
func (r *CategoryPostgres) Create(ctx context.Context, c *model.DocumentCategory) (*model.DocumentCategory, error) {
	q := `
		INSERT INTO document_categories (id, name, description, icon, parent_id, company_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
		RETURNING ` + categoryColumns
	row := r.db.QueryRowContext(ctx, q,
		c.ID,
		c.Name,
		c.Description,
		c.Icon,
		nullable(c.ParentID),
		c.CompanyID,
		time.Now().UTC(),
	)
	return scanCategory(row)
}

// FindByID fetches a category scoped to the company.
func (r *CategoryPostgres) FindByID(ctx context.Context, id, companyID string) (*model.DocumentCategory, error) {
	q := `
		SELECT ` + categoryColumns + `
		FROM document_categories
		WHERE id = $1 AND company_id = $2
	`
	return scanCategory(r.db.QueryRowContext(ctx, q, id, companyID))
}

// ListByCompany returns every category of the tenant ordered by name.
func (r *CategoryPostgres) ListByCompany(ctx context.Context, companyID string) ([]model.DocumentCategory, error) {
	q := `
		SELECT ` + categoryColumns + `
		FROM document_categories
		WHERE company_id = $1
		ORDER BY name
	`
	rows, err := r.db.QueryContext(ctx, q, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := make([]model.DocumentCategory, 0)
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return categories, nil
}

// ActiveDocumentCounts returns category id -> active document count for the
// tenant in one grouped query.
func (r *CategoryPostgres) ActiveDocumentCounts(ctx context.Context, companyID string) (map[string]int, error) {
	const q = `
		SELECT category_id, COUNT(*)
		FROM documents
		WHERE company_id = $1 AND is_active = TRUE AND category_id IS NOT NULL
		GROUP BY category_id
	`
	rows, err := r.db.QueryContext(ctx, q, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var (
			id    string
			count int
		)
		if err := rows.Scan(&id, &count); err != nil {
			return nil, err
		}
		counts[id] = count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return counts, nil
}

// Update persists name, description, and icon of a scoped category.
func (r *CategoryPostgres) Update(ctx context.Context, c *model.DocumentCategory) (*model.DocumentCategory, error) {
	q := `
		UPDATE document_categories
		SET name = $3, description = $4, icon = $5, updated_at = $6
		WHERE id = $1 AND company_id = $2
		RETURNING ` + categoryColumns
	row := r.db.QueryRowContext(ctx, q,
		c.ID,
		c.CompanyID,
		c.Name,
		c.Description,
		c.Icon,
		time.Now().UTC(),
	)
	return scanCategory(row)
}

// Delete removes the category row.
func (r *CategoryPostgres) Delete(ctx context.Context, id, companyID string) error {
	const q = `DELETE FROM document_categories WHERE id = $1 AND company_id = $2`
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
