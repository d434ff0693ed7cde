package migration

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sentinelQuery = "SELECT to_regclass('public.documents') IS NOT NULL"

func TestEnsureMigrated_SkipsWhenSchemaExists(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(sentinelQuery)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	err = EnsureMigrated(context.Background(), db, time.UTC, "db-host")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnsureMigrated_RunsAllSteps(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(sentinelQuery)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	for _, step := range steps {
		mock.ExpectExec(regexp.QuoteMeta(step.SQL)).
			WillReturnResult(sqlmock.NewResult(0, 0))
	}

	err = EnsureMigrated(context.Background(), db, time.UTC, "db-host")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnsureMigrated_StepFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(sentinelQuery)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec(regexp.QuoteMeta(steps[0].SQL)).
		WillReturnError(errors.New("boom"))

	err = EnsureMigrated(context.Background(), db, time.UTC, "db-host")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), steps[0].Name)
}

// Category deletion only checks active documents, so the schema has to
// release category references itself. Without SET NULL, deleting a category
// whose documents were all soft-deleted (or a parent with child categories)
// would hit a foreign key violation.
func TestSchemaReleasesCategoryReferences(t *testing.T) {
	var docs, cats string
	for _, step := range steps {
		switch step.Name {
		case "create_table_documents":
			docs = step.SQL
		case "create_table_document_categories":
			cats = step.SQL
		}
	}
	require.NotEmpty(t, docs)
	require.NotEmpty(t, cats)

	docFK := regexp.MustCompile(`category_id\s+UUID\s+REFERENCES document_categories \(id\) ON DELETE SET NULL`)
	assert.Regexp(t, docFK, docs)

	parentFK := regexp.MustCompile(`parent_id\s+UUID\s+REFERENCES document_categories \(id\) ON DELETE SET NULL`)
	assert.Regexp(t, parentFK, cats)

	// Version chains must stay intact; the parent document FK keeps RESTRICT.
	assert.False(t, strings.Contains(docs, "REFERENCES documents (id) ON DELETE"))
}
