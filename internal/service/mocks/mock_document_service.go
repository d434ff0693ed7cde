package mocks

import (
	"context"
	"io"

	"docvault/internal/filestore"
	"docvault/internal/model"
	"docvault/internal/repository"
	"docvault/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockDocumentService struct {
	mock.Mock
}

func (m *MockDocumentService) Upload(ctx context.Context, r io.Reader, originalName, mimeType string, size uint64, ownerID, companyID string, opts service.UploadOptions) (*model.Document, error) {
	args := m.Called(ctx, r, originalName, mimeType, size, ownerID, companyID, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentService) List(ctx context.Context, companyID string, q repository.SearchQuery) (*service.DocumentListResult, error) {
	args := m.Called(ctx, companyID, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.DocumentListResult), args.Error(1)
}

func (m *MockDocumentService) Get(ctx context.Context, id, companyID, userID string) (*model.Document, error) {
	args := m.Called(ctx, id, companyID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentService) Download(ctx context.Context, id, companyID, userID string) (*service.DownloadResult, error) {
	args := m.Called(ctx, id, companyID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.DownloadResult), args.Error(1)
}

func (m *MockDocumentService) Update(ctx context.Context, id, companyID, userID string, patch service.UpdatePatch) (*model.Document, error) {
	args := m.Called(ctx, id, companyID, userID, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentService) Delete(ctx context.Context, id, companyID, userID string) error {
	args := m.Called(ctx, id, companyID, userID)
	return args.Error(0)
}

func (m *MockDocumentService) Share(ctx context.Context, id, companyID, byUserID string, req service.ShareRequest) (*model.DocumentShare, error) {
	args := m.Called(ctx, id, companyID, byUserID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DocumentShare), args.Error(1)
}

func (m *MockDocumentService) Unshare(ctx context.Context, id, companyID, byUserID, withUserID string) error {
	args := m.Called(ctx, id, companyID, byUserID, withUserID)
	return args.Error(0)
}

func (m *MockDocumentService) Shares(ctx context.Context, id, companyID, userID string) ([]model.DocumentShare, error) {
	args := m.Called(ctx, id, companyID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.DocumentShare), args.Error(1)
}

func (m *MockDocumentService) Stats(ctx context.Context, companyID string) (*repository.DocumentStats, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.DocumentStats), args.Error(1)
}

func (m *MockDocumentService) StorageStats(ctx context.Context) (filestore.StorageStats, error) {
	args := m.Called(ctx)
	return args.Get(0).(filestore.StorageStats), args.Error(1)
}
