package model

import "time"

// DocumentCategory is a node in a tenant's category tree.
// Root categories have no parent. A category cannot be deleted while any
// active document is still assigned to it.
type DocumentCategory struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Icon        string    `json:"icon,omitempty"`
	ParentID    *string   `json:"parent_id,omitempty"`
	CompanyID   string    `json:"company_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CategoryNode is a category plus its nested children and the number of
// active documents directly assigned to it. Used by the tree endpoint.
type CategoryNode struct {
	DocumentCategory
	DocumentCount int             `json:"document_count"`
	Children      []*CategoryNode `json:"children"`
}
