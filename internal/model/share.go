package model

import "time"

// Permission is the access level granted by a document share.
// Levels form a total order: PermissionRead < PermissionWrite < PermissionAdmin.
type Permission string

const (
	PermissionRead  Permission = "read"
	PermissionWrite Permission = "write"
	PermissionAdmin Permission = "admin"
)

var permissionRank = map[Permission]int{
	PermissionRead:  1,
	PermissionWrite: 2,
	PermissionAdmin: 3,
}

// Valid reports whether p is one of the known permission levels.
func (p Permission) Valid() bool {
	_, ok := permissionRank[p]
	return ok
}

// Covers reports whether p grants at least the given minimum level.
// Unknown permissions cover nothing.
func (p Permission) Covers(min Permission) bool {
	return permissionRank[p] != 0 && permissionRank[p] >= permissionRank[min]
}

// DocumentShare grants a user access to a document, independent of ownership.
// The (DocumentID, SharedWithUserID) pair is unique; re-sharing updates the
// existing grant in place. An expired share is treated as absent.
type DocumentShare struct {
	ID               string     `json:"id"`
	DocumentID       string     `json:"document_id"`
	SharedWithUserID string     `json:"shared_with_user_id"`
	SharedByUserID   string     `json:"shared_by_user_id"`
	Permission       Permission `json:"permission"`
	ExpiresAt        *time.Time `json:"expires_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// Expired reports whether the share has an expiry in the past relative to now.
func (s *DocumentShare) Expired(now time.Time) bool {
	return s.ExpiresAt != nil && s.ExpiresAt.Before(now)
}
