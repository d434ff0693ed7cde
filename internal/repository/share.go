package repository

import (
	"context"
	"time"

	"docvault/internal/model"
)

// ShareRepository defines data access for document shares.
type ShareRepository interface {
	// Upsert inserts the share or, when the (document, user) pair already
	// exists, updates permission, expiry, and granting user in place. The
	// operation is atomic at the storage layer.
	Upsert(ctx context.Context, share *model.DocumentShare) (*model.DocumentShare, error)

	// Delete removes the share row for the pair. Reports whether a row
	// existed.
	Delete(ctx context.Context, documentID, sharedWithUserID string) (bool, error)

	// FindForUser returns the non-expired share held by userID on the
	// document, or sql.ErrNoRows. A share expiring before now is treated as
	// absent.
	FindForUser(ctx context.Context, documentID, userID string, now time.Time) (*model.DocumentShare, error)

	// ListByDocument returns all share rows for a document, expired included.
	ListByDocument(ctx context.Context, documentID string) ([]model.DocumentShare, error)
}
