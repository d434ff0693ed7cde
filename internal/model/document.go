package model

// Package model contains domain models/data structures.
// Pure domain types with no database-specific dependencies; usable across
// layers (HTTP, service, storage) without coupling to persistence.

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Tags is an unordered set of free-form labels attached to a document.
// It is persisted as a JSONB column, hence the Valuer/Scanner implementations.
type Tags []string

// Value implements driver.Valuer by encoding the tag list as JSON.
func (t Tags) Value() (driver.Value, error) {
	if t == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(t)
}

// Scan implements sql.Scanner for JSONB columns.
func (t *Tags) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*t = nil
		return nil
	case []byte:
		return json.Unmarshal(v, t)
	case string:
		return json.Unmarshal([]byte(v), t)
	default:
		return fmt.Errorf("unsupported tags source type %T", src)
	}
}

// Contains reports whether the set holds the given tag.
func (t Tags) Contains(tag string) bool {
	for _, s := range t {
		if s == tag {
			return true
		}
	}
	return false
}

// Document represents one stored file revision in the system.
//
// A logical document is a chain of Document rows: the first upload has no
// ParentDocumentID and Version 1; every later revision carries the chain's
// stable parent id and a strictly increasing version number. Size is unsigned
// 64-bit so files of 4 GiB and above are representable.
type Document struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	OriginalName     string    `json:"original_name"`
	StoragePath      string    `json:"storage_path"`
	Size             uint64    `json:"size"`
	MimeType         string    `json:"mime_type"`
	Description      string    `json:"description,omitempty"`
	Tags             Tags      `json:"tags"`
	Version          int       `json:"version"`
	ParentDocumentID *string   `json:"parent_document_id,omitempty"`
	CategoryID       *string   `json:"category_id,omitempty"`
	OwnerID          string    `json:"owner_id"`
	CompanyID        string    `json:"company_id"`
	IsActive         bool      `json:"is_active"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// ChainID returns the stable identity of the document's version chain:
// the parent id for revisions, the document's own id for chain roots.
func (d *Document) ChainID() string {
	if d.ParentDocumentID != nil {
		return *d.ParentDocumentID
	}
	return d.ID
}
