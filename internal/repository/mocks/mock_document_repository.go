package mocks

import (
	"context"
	"time"

	"docvault/internal/model"
	"docvault/internal/repository"

	"github.com/stretchr/testify/mock"
)

type MockDocumentRepository struct {
	mock.Mock
}

func (m *MockDocumentRepository) Create(ctx context.Context, doc *model.Document) (*model.Document, error) {
	args := m.Called(ctx, doc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentRepository) FindByID(ctx context.Context, id, companyID string) (*model.Document, error) {
	args := m.Called(ctx, id, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentRepository) MaxChainVersion(ctx context.Context, chainID, companyID string) (int, error) {
	args := m.Called(ctx, chainID, companyID)
	return args.Int(0), args.Error(1)
}

func (m *MockDocumentRepository) Search(ctx context.Context, companyID string, q repository.SearchQuery) (*repository.PageResult[model.Document], error) {
	args := m.Called(ctx, companyID, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.Document]), args.Error(1)
}

func (m *MockDocumentRepository) UpdateMetadata(ctx context.Context, doc *model.Document) (*model.Document, error) {
	args := m.Called(ctx, doc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentRepository) SoftDelete(ctx context.Context, id, companyID string) error {
	args := m.Called(ctx, id, companyID)
	return args.Error(0)
}

func (m *MockDocumentRepository) CountActiveByCategory(ctx context.Context, categoryID, companyID string) (int, error) {
	args := m.Called(ctx, categoryID, companyID)
	return args.Int(0), args.Error(1)
}

func (m *MockDocumentRepository) Stats(ctx context.Context, companyID string, since time.Time) (*repository.DocumentStats, error) {
	args := m.Called(ctx, companyID, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.DocumentStats), args.Error(1)
}
