package mocks

import (
	"context"

	"docvault/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) Create(ctx context.Context, c *model.DocumentCategory) (*model.DocumentCategory, error) {
	args := m.Called(ctx, c)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DocumentCategory), args.Error(1)
}

func (m *MockCategoryRepository) FindByID(ctx context.Context, id, companyID string) (*model.DocumentCategory, error) {
	args := m.Called(ctx, id, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DocumentCategory), args.Error(1)
}

func (m *MockCategoryRepository) ListByCompany(ctx context.Context, companyID string) ([]model.DocumentCategory, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.DocumentCategory), args.Error(1)
}

func (m *MockCategoryRepository) ActiveDocumentCounts(ctx context.Context, companyID string) (map[string]int, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int), args.Error(1)
}

func (m *MockCategoryRepository) Update(ctx context.Context, c *model.DocumentCategory) (*model.DocumentCategory, error) {
	args := m.Called(ctx, c)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DocumentCategory), args.Error(1)
}

func (m *MockCategoryRepository) Delete(ctx context.Context, id, companyID string) error {
	args := m.Called(ctx, id, companyID)
	return args.Error(0)
}
