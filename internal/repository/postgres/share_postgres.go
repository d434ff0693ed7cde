package postgres

import (
	"context"
	"database/sql"
	"time"

	"docvault/internal/model"
	"docvault/internal/repository"
)

// SharePostgres is a PostgreSQL implementation of repository.ShareRepository.
type SharePostgres struct {
	db *sql.DB
}

// NewSharePostgres creates a new SharePostgres repository.
func NewSharePostgres(db *sql.DB) *SharePostgres {
	return &SharePostgres{db: db}
}

var _ repository.ShareRepository = (*SharePostgres)(nil)

const shareColumns = `id, document_id, shared_with_user_id, shared_by_user_id, permission, expires_at, created_at, updated_at`

func scanShare(row rowScanner) (*model.DocumentShare, error) {
	var (
		s         model.DocumentShare
		expiresAt sql.NullTime
	)
	if err := row.Scan(
		&s.ID,
		&s.DocumentID,
		&s.SharedWithUserID,
		&s.SharedByUserID,
		&s.Permission,
		&expiresAt,
		&s.CreatedAt,
		&s.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if expiresAt.Valid {
		t := expiresAt.Time
		s.ExpiresAt = &t
	}
	return &s, nil
}

// Upsert inserts or updates the share keyed by (document_id, shared_with_user_id).
// ON CONFLICT makes the operation atomic, so two concurrent grants for the
// same pair can never produce duplicate rows.
func (r *SharePostgres) Upsert(ctx context.Context, share *model.DocumentShare) (*model.DocumentShare, error) {
	q := `
		INSERT INTO document_shares (id, document_id, shared_with_user_id, shared_by_user_id, permission, expires_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
		ON CONFLICT (document_id, shared_with_user_id) DO UPDATE
		SET permission = EXCLUDED.permission,
			expires_at = EXCLUDED.expires_at,
			shared_by_user_id = EXCLUDED.shared_by_user_id,
			updated_at = EXCLUDED.updated_at
		RETURNING ` + shareColumns
	var expires any
	if share.ExpiresAt != nil {
		expires = *share.ExpiresAt
	}
	row := r.db.QueryRowContext(ctx, q,
		share.ID,
		share.DocumentID,
		share.SharedWithUserID,
		share.SharedByUserID,
		share.Permission,
		expires,
		time.Now().UTC(),
	)
	return scanShare(row)
}

// Delete removes the share row for the pair and reports whether one existed.
func (r *SharePostgres) Delete(ctx context.Context, documentID, sharedWithUserID string) (bool, error) {
	const q = `DELETE FROM document_shares WHERE document_id = $1 AND shared_with_user_id = $2`
	res, err := r.db.ExecContext(ctx, q, documentID, sharedWithUserID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// FindForUser returns the user's non-expired share on the document.
func (r *SharePostgres) FindForUser(ctx context.Context, documentID, userID string, now time.Time) (*model.DocumentShare, error) {
	q := `
		SELECT ` + shareColumns + `
		FROM document_shares
		WHERE document_id = $1 AND shared_with_user_id = $2
			AND (expires_at IS NULL OR expires_at > $3)
	`
	return scanShare(r.db.QueryRowContext(ctx, q, documentID, userID, now))
}

// ListByDocument returns all share rows for a document, expired included.
func (r *SharePostgres) ListByDocument(ctx context.Context, documentID string) ([]model.DocumentShare, error) {
	q := `
		SELECT ` + shareColumns + `
		FROM document_shares
		WHERE document_id = $1
		ORDER BY created_at
	`
	rows, err := r.db.QueryContext(ctx, q, documentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	shares := make([]model.DocumentShare, 0)
	for rows.Next() {
		s, err := scanShare(rows)
		if err != nil {
			return nil, err
		}
		shares = append(shares, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return shares, nil
}
