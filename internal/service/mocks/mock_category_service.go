package mocks

import (
	"context"

	"docvault/internal/model"
	"docvault/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockCategoryService struct {
	mock.Mock
}

func (m *MockCategoryService) Tree(ctx context.Context, companyID string) ([]*model.CategoryNode, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.CategoryNode), args.Error(1)
}

func (m *MockCategoryService) Create(ctx context.Context, companyID string, in service.CategoryInput) (*model.DocumentCategory, error) {
	args := m.Called(ctx, companyID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DocumentCategory), args.Error(1)
}

func (m *MockCategoryService) Update(ctx context.Context, id, companyID string, in service.CategoryInput) (*model.DocumentCategory, error) {
	args := m.Called(ctx, id, companyID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DocumentCategory), args.Error(1)
}

func (m *MockCategoryService) Delete(ctx context.Context, id, companyID string) error {
	args := m.Called(ctx, id, companyID)
	return args.Error(0)
}
