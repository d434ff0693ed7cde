package mocks

import (
	"context"
	"io"
	"time"

	"docvault/internal/filestore"

	"github.com/stretchr/testify/mock"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) Save(ctx context.Context, r io.Reader, originalName, mimeType, ownerID string) (filestore.SaveResult, error) {
	args := m.Called(ctx, r, originalName, mimeType, ownerID)
	return args.Get(0).(filestore.SaveResult), args.Error(1)
}

func (m *MockStore) Open(ctx context.Context, relativePath string) (io.ReadCloser, error) {
	args := m.Called(ctx, relativePath)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}

func (m *MockStore) Delete(ctx context.Context, relativePath string) bool {
	args := m.Called(ctx, relativePath)
	return args.Bool(0)
}

func (m *MockStore) Exists(ctx context.Context, relativePath string) bool {
	args := m.Called(ctx, relativePath)
	return args.Bool(0)
}

func (m *MockStore) Stat(ctx context.Context, relativePath string) (*filestore.FileInfo, error) {
	args := m.Called(ctx, relativePath)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*filestore.FileInfo), args.Error(1)
}

func (m *MockStore) Stats(ctx context.Context) (filestore.StorageStats, error) {
	args := m.Called(ctx)
	return args.Get(0).(filestore.StorageStats), args.Error(1)
}

func (m *MockStore) CleanupTemp(ctx context.Context, maxAge time.Duration) int {
	args := m.Called(ctx, maxAge)
	return args.Int(0)
}
