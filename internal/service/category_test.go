package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"docvault/internal/model"
	repoMocks "docvault/internal/repository/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCategoryService_Tree(t *testing.T) {
	ctx := context.Background()

	t.Run("nests children under parents with counts", func(t *testing.T) {
		mCats := new(repoMocks.MockCategoryRepository)
		svc := NewCategoryService(mCats, new(repoMocks.MockDocumentRepository))

		child := "child-1"
		mCats.On("ListByCompany", ctx, testCompanyID).Return([]model.DocumentCategory{
			{ID: "root-1", Name: "Contracts"},
			{ID: child, Name: "NDAs", ParentID: strPtr("root-1")},
		}, nil)
		mCats.On("ActiveDocumentCounts", ctx, testCompanyID).
			Return(map[string]int{"root-1": 3, child: 1}, nil)

		tree, err := svc.Tree(ctx, testCompanyID)
		require.NoError(t, err)
		require.Len(t, tree, 1)
		assert.Equal(t, "Contracts", tree[0].Name)
		assert.Equal(t, 3, tree[0].DocumentCount)
		require.Len(t, tree[0].Children, 1)
		assert.Equal(t, "NDAs", tree[0].Children[0].Name)
		assert.Equal(t, 1, tree[0].Children[0].DocumentCount)
	})

	t.Run("orphaned parent reference lands at root", func(t *testing.T) {
		mCats := new(repoMocks.MockCategoryRepository)
		svc := NewCategoryService(mCats, new(repoMocks.MockDocumentRepository))

		mCats.On("ListByCompany", ctx, testCompanyID).Return([]model.DocumentCategory{
			{ID: "a", Name: "A", ParentID: strPtr("deleted-parent")},
		}, nil)
		mCats.On("ActiveDocumentCounts", ctx, testCompanyID).Return(map[string]int{}, nil)

		tree, err := svc.Tree(ctx, testCompanyID)
		require.NoError(t, err)
		require.Len(t, tree, 1)
		assert.Equal(t, "A", tree[0].Name)
	})

	t.Run("parent cycle does not loop forever", func(t *testing.T) {
		mCats := new(repoMocks.MockCategoryRepository)
		svc := NewCategoryService(mCats, new(repoMocks.MockDocumentRepository))

		mCats.On("ListByCompany", ctx, testCompanyID).Return([]model.DocumentCategory{
			{ID: "a", Name: "A", ParentID: strPtr("b")},
			{ID: "b", Name: "B", ParentID: strPtr("a")},
		}, nil)
		mCats.On("ActiveDocumentCounts", ctx, testCompanyID).Return(map[string]int{}, nil)

		tree, err := svc.Tree(ctx, testCompanyID)
		require.NoError(t, err)
		// Both cycle members surface as roots instead of recursing.
		assert.Len(t, tree, 2)
	})
}

func TestCategoryService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a root category", func(t *testing.T) {
		mCats := new(repoMocks.MockCategoryRepository)
		svc := NewCategoryService(mCats, new(repoMocks.MockDocumentRepository))

		mCats.On("Create", ctx, mock.MatchedBy(func(c *model.DocumentCategory) bool {
			return c.Name == "Invoices" && c.CompanyID == testCompanyID && c.ID != ""
		})).Return(&model.DocumentCategory{ID: "cat-1", Name: "Invoices"}, nil)

		cat, err := svc.Create(ctx, testCompanyID, CategoryInput{Name: "Invoices"})
		assert.NoError(t, err)
		assert.Equal(t, "Invoices", cat.Name)
	})

	t.Run("verifies the parent exists", func(t *testing.T) {
		mCats := new(repoMocks.MockCategoryRepository)
		svc := NewCategoryService(mCats, new(repoMocks.MockDocumentRepository))

		mCats.On("FindByID", ctx, "missing-parent", testCompanyID).Return(nil, sql.ErrNoRows)

		_, err := svc.Create(ctx, testCompanyID, CategoryInput{
			Name:     "Sub",
			ParentID: strPtr("missing-parent"),
		})
		assert.ErrorIs(t, err, ErrNotFound)
		mCats.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("empty name rejected", func(t *testing.T) {
		mCats := new(repoMocks.MockCategoryRepository)
		svc := NewCategoryService(mCats, new(repoMocks.MockDocumentRepository))

		_, err := svc.Create(ctx, testCompanyID, CategoryInput{Name: ""})
		assert.Error(t, err)
		mCats.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestCategoryService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes an empty category", func(t *testing.T) {
		mCats := new(repoMocks.MockCategoryRepository)
		mDocs := new(repoMocks.MockDocumentRepository)
		svc := NewCategoryService(mCats, mDocs)

		mDocs.On("CountActiveByCategory", ctx, "cat-1", testCompanyID).Return(0, nil)
		mCats.On("Delete", ctx, "cat-1", testCompanyID).Return(nil)

		assert.NoError(t, svc.Delete(ctx, "cat-1", testCompanyID))
	})

	t.Run("soft-deleted documents do not block deletion", func(t *testing.T) {
		mCats := new(repoMocks.MockCategoryRepository)
		mDocs := new(repoMocks.MockDocumentRepository)
		svc := NewCategoryService(mCats, mDocs)

		// Only active documents count; rows left behind by soft deletes are
		// released at the schema level when the category row goes away.
		mDocs.On("CountActiveByCategory", ctx, "cat-1", testCompanyID).Return(0, nil)
		mCats.On("Delete", ctx, "cat-1", testCompanyID).Return(nil)

		assert.NoError(t, svc.Delete(ctx, "cat-1", testCompanyID))
		mCats.AssertExpectations(t)
	})

	t.Run("blocked while documents reference it", func(t *testing.T) {
		mCats := new(repoMocks.MockCategoryRepository)
		mDocs := new(repoMocks.MockDocumentRepository)
		svc := NewCategoryService(mCats, mDocs)

		mDocs.On("CountActiveByCategory", ctx, "cat-1", testCompanyID).Return(4, nil)

		err := svc.Delete(ctx, "cat-1", testCompanyID)
		var inUse *CategoryInUseError
		require.ErrorAs(t, err, &inUse)
		assert.Equal(t, 4, inUse.Count)
		mCats.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("missing category", func(t *testing.T) {
		mCats := new(repoMocks.MockCategoryRepository)
		mDocs := new(repoMocks.MockDocumentRepository)
		svc := NewCategoryService(mCats, mDocs)

		mDocs.On("CountActiveByCategory", ctx, "gone", testCompanyID).Return(0, nil)
		mCats.On("Delete", ctx, "gone", testCompanyID).Return(sql.ErrNoRows)

		assert.ErrorIs(t, svc.Delete(ctx, "gone", testCompanyID), ErrNotFound)
	})

	t.Run("count query failure propagates", func(t *testing.T) {
		mCats := new(repoMocks.MockCategoryRepository)
		mDocs := new(repoMocks.MockDocumentRepository)
		svc := NewCategoryService(mCats, mDocs)

		mDocs.On("CountActiveByCategory", ctx, "cat-1", testCompanyID).
			Return(0, errors.New("db fail"))

		assert.Error(t, svc.Delete(ctx, "cat-1", testCompanyID))
	})
}

func TestCategoryService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("renames a category", func(t *testing.T) {
		mCats := new(repoMocks.MockCategoryRepository)
		svc := NewCategoryService(mCats, new(repoMocks.MockDocumentRepository))

		mCats.On("Update", ctx, mock.MatchedBy(func(c *model.DocumentCategory) bool {
			return c.ID == "cat-1" && c.Name == "Renamed"
		})).Return(&model.DocumentCategory{ID: "cat-1", Name: "Renamed"}, nil)

		cat, err := svc.Update(ctx, "cat-1", testCompanyID, CategoryInput{Name: "Renamed"})
		assert.NoError(t, err)
		assert.Equal(t, "Renamed", cat.Name)
	})

	t.Run("missing category", func(t *testing.T) {
		mCats := new(repoMocks.MockCategoryRepository)
		svc := NewCategoryService(mCats, new(repoMocks.MockDocumentRepository))

		mCats.On("Update", ctx, mock.Anything).Return(nil, sql.ErrNoRows)

		_, err := svc.Update(ctx, "gone", testCompanyID, CategoryInput{Name: "X"})
		assert.ErrorIs(t, err, ErrNotFound)
	})
}
