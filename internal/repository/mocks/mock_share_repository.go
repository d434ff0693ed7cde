package mocks

import (
	"context"
	"time"

	"docvault/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockShareRepository struct {
	mock.Mock
}

func (m *MockShareRepository) Upsert(ctx context.Context, share *model.DocumentShare) (*model.DocumentShare, error) {
	args := m.Called(ctx, share)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DocumentShare), args.Error(1)
}

func (m *MockShareRepository) Delete(ctx context.Context, documentID, sharedWithUserID string) (bool, error) {
	args := m.Called(ctx, documentID, sharedWithUserID)
	return args.Bool(0), args.Error(1)
}

func (m *MockShareRepository) FindForUser(ctx context.Context, documentID, userID string, now time.Time) (*model.DocumentShare, error) {
	args := m.Called(ctx, documentID, userID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DocumentShare), args.Error(1)
}

func (m *MockShareRepository) ListByDocument(ctx context.Context, documentID string) ([]model.DocumentShare, error) {
	args := m.Called(ctx, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.DocumentShare), args.Error(1)
}
