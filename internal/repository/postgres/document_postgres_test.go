package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"docvault/internal/model"
	"docvault/internal/repository"
	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

var documentColumnList = []string{
	"id", "name", "original_name", "storage_path", "size", "mime_type", "description", "tags",
	"version", "parent_document_id", "category_id", "owner_id", "company_id", "is_active",
	"created_at", "updated_at",
}

func documentRow(id string) *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows(documentColumnList).
		AddRow(id, "report.pdf", "report.pdf", "documents/x.pdf", 123, "application/pdf",
			"", []byte(`["tag1"]`), 1, nil, nil, "owner-1", "company-1", true, now, now)
}

func TestDocumentPostgres_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewDocumentPostgres(db)
	ctx := context.Background()

	now := time.Now().UTC()
	doc := &model.Document{
		ID:           "test-uuid",
		Name:         "report.pdf",
		OriginalName: "report.pdf",
		StoragePath:  "documents/x.pdf",
		Size:         123,
		MimeType:     "application/pdf",
		Tags:         model.Tags{"tag1"},
		Version:      1,
		OwnerID:      "owner-1",
		CompanyID:    "company-1",
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	mock.ExpectQuery("INSERT INTO documents").
		WithArgs(doc.ID, doc.Name, doc.OriginalName, doc.StoragePath, doc.Size, doc.MimeType,
			doc.Description, sqlmock.AnyArg(), doc.Version, nil, nil, doc.OwnerID, doc.CompanyID,
			doc.IsActive, doc.CreatedAt, doc.UpdatedAt).
		WillReturnRows(documentRow(doc.ID))

	result, err := repo.Create(ctx, doc)

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, doc.ID, result.ID)
	assert.Equal(t, model.Tags{"tag1"}, result.Tags)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentPostgres_FindByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewDocumentPostgres(db)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM documents WHERE id = (.+) AND company_id = (.+) AND is_active").
			WithArgs("test-id", "company-1").
			WillReturnRows(documentRow("test-id"))

		doc, err := repo.FindByID(ctx, "test-id", "company-1")

		assert.NoError(t, err)
		assert.NotNil(t, doc)
		assert.Equal(t, "test-id", doc.ID)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM documents WHERE id = (.+)").
			WithArgs("missing", "company-1").
			WillReturnError(sql.ErrNoRows)

		doc, err := repo.FindByID(ctx, "missing", "company-1")

		assert.ErrorIs(t, err, sql.ErrNoRows)
		assert.Nil(t, doc)
	})
}

func TestDocumentPostgres_MaxChainVersion(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewDocumentPostgres(db)
	ctx := context.Background()

	t.Run("existing chain", func(t *testing.T) {
		mock.ExpectQuery("SELECT COALESCE\\(MAX\\(version\\), 0\\)").
			WithArgs("chain-id", "company-1").
			WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(3))

		max, err := repo.MaxChainVersion(ctx, "chain-id", "company-1")

		assert.NoError(t, err)
		assert.Equal(t, 3, max)
	})

	t.Run("empty chain yields zero", func(t *testing.T) {
		mock.ExpectQuery("SELECT COALESCE\\(MAX\\(version\\), 0\\)").
			WithArgs("nobody", "company-1").
			WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(0))

		max, err := repo.MaxChainVersion(ctx, "nobody", "company-1")

		assert.NoError(t, err)
		assert.Equal(t, 0, max)
	})
}

func TestDocumentPostgres_Search(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewDocumentPostgres(db)
	ctx := context.Background()

	t.Run("text filter and paging", func(t *testing.T) {
		mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM documents WHERE company_id").
			WithArgs("company-1", "%report%").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		mock.ExpectQuery("SELECT (.+) FROM documents WHERE company_id (.+) ORDER BY created_at DESC").
			WithArgs("company-1", "%report%", 10, 0).
			WillReturnRows(documentRow("test-id"))

		res, err := repo.Search(ctx, "company-1", repository.SearchQuery{
			Query:    "report",
			Limit:    10,
			Page:     1,
			SortBy:   repository.SortByCreatedAt,
			SortDesc: true,
		})

		assert.NoError(t, err)
		assert.Equal(t, 1, res.Total)
		assert.Len(t, res.Items, 1)
	})

	t.Run("tag filter uses jsonb containment", func(t *testing.T) {
		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM documents WHERE company_id = \$1 AND is_active = TRUE AND \(tags \? \$2 OR tags \? \$3\)`).
			WithArgs("company-1", "legal", "2024").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

		mock.ExpectQuery("SELECT (.+) FROM documents WHERE (.+) ORDER BY").
			WithArgs("company-1", "legal", "2024", 20, 0).
			WillReturnRows(sqlmock.NewRows(documentColumnList))

		res, err := repo.Search(ctx, "company-1", repository.SearchQuery{
			Tags: []string{"legal", "2024"},
		})

		assert.NoError(t, err)
		assert.Equal(t, 0, res.Total)
		assert.Empty(t, res.Items)
	})

	t.Run("unknown sort column falls back to created_at", func(t *testing.T) {
		mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM documents").
			WithArgs("company-1").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

		mock.ExpectQuery("ORDER BY created_at ASC").
			WithArgs("company-1", 20, 0).
			WillReturnRows(sqlmock.NewRows(documentColumnList))

		_, err := repo.Search(ctx, "company-1", repository.SearchQuery{
			SortBy: repository.SortField("drop table"),
		})

		assert.NoError(t, err)
	})
}

func TestDocumentPostgres_SoftDelete(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewDocumentPostgres(db)
	ctx := context.Background()

	t.Run("marks the row inactive", func(t *testing.T) {
		mock.ExpectExec("UPDATE documents SET is_active = FALSE").
			WithArgs("test-id", "company-1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.SoftDelete(ctx, "test-id", "company-1"))
	})

	t.Run("no active row matched", func(t *testing.T) {
		mock.ExpectExec("UPDATE documents SET is_active = FALSE").
			WithArgs("gone", "company-1").
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.SoftDelete(ctx, "gone", "company-1"), sql.ErrNoRows)
	})
}

func TestDocumentPostgres_Stats(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewDocumentPostgres(db)
	ctx := context.Background()
	since := time.Now().Add(-7 * 24 * time.Hour)

	mock.ExpectQuery("SELECT COUNT\\(\\*\\), COALESCE\\(SUM\\(size\\), 0\\)").
		WithArgs("company-1").
		WillReturnRows(sqlmock.NewRows([]string{"count", "sum"}).AddRow(5, 5120))

	mock.ExpectQuery("LEFT JOIN document_categories").
		WithArgs("company-1").
		WillReturnRows(sqlmock.NewRows([]string{"name", "count"}).
			AddRow("Contracts", 3).
			AddRow("Uncategorized", 2))

	mock.ExpectQuery("SELECT mime_type, COUNT\\(\\*\\)").
		WithArgs("company-1").
		WillReturnRows(sqlmock.NewRows([]string{"mime_type", "count"}).
			AddRow("application/pdf", 4).
			AddRow("image/png", 1))

	mock.ExpectQuery("created_at >= ").
		WithArgs("company-1", since).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	stats, err := repo.Stats(ctx, "company-1", since)

	assert.NoError(t, err)
	assert.Equal(t, 5, stats.TotalDocuments)
	assert.Equal(t, uint64(5120), stats.TotalSize)
	assert.Len(t, stats.ByCategory, 2)
	assert.Equal(t, "Contracts", stats.ByCategory[0].Name)
	assert.Len(t, stats.ByMimeType, 2)
	assert.Equal(t, 2, stats.RecentUploads)
	assert.NoError(t, mock.ExpectationsWereMet())
}
