package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"docvault/internal/model"
	"docvault/internal/repository"
)

// maxTreeDepth caps category nesting. The data model does not prevent a
// malformed parent cycle, so the tree fold refuses to follow chains deeper
// than this and treats the offending node as a root.
const maxTreeDepth = 32

// CategoryInput is the payload for creating a category.
type CategoryInput struct {
	Name        string
	Description string
	Icon        string
	ParentID    *string
}

// Validate checks the category payload.
func (in CategoryInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Name, validation.Required, validation.Length(1, 255)),
		validation.Field(&in.Description, validation.Length(0, 2000)),
	)
}

// CategoryService manages a tenant's category tree.
type CategoryService interface {
	// Tree returns root categories with recursively nested children and a
	// per-node count of active documents.
	Tree(ctx context.Context, companyID string) ([]*model.CategoryNode, error)

	// Create adds a category, optionally under a parent of the same tenant.
	Create(ctx context.Context, companyID string, in CategoryInput) (*model.DocumentCategory, error)

	// Update changes name, description, and icon.
	Update(ctx context.Context, id, companyID string, in CategoryInput) (*model.DocumentCategory, error)

	// Delete removes an empty category. While active documents reference it,
	// the call fails with CategoryInUseError carrying the blocking count.
	Delete(ctx context.Context, id, companyID string) error
}

type categoryService struct {
	categories repository.CategoryRepository
	docs       repository.DocumentRepository
}

// NewCategoryService constructs a new CategoryService.
func NewCategoryService(categories repository.CategoryRepository, docs repository.DocumentRepository) CategoryService {
	return &categoryService{categories: categories, docs: docs}
}

func (s *categoryService) Tree(ctx context.Context, companyID string) ([]*model.CategoryNode, error) {
	flat, err := s.categories.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	counts, err := s.categories.ActiveDocumentCounts(ctx, companyID)
	if err != nil {
		return nil, err
	}
	return buildTree(flat, counts), nil
}

// buildTree folds a flat scoped fetch into the nested shape. A node whose
// parent is missing, too deep, or part of a cycle is attached at root level
// rather than recursed into forever.
func buildTree(flat []model.DocumentCategory, counts map[string]int) []*model.CategoryNode {
	nodes := make(map[string]*model.CategoryNode, len(flat))
	byID := make(map[string]*model.DocumentCategory, len(flat))
	for i := range flat {
		c := flat[i]
		byID[c.ID] = &flat[i]
		nodes[c.ID] = &model.CategoryNode{
			DocumentCategory: c,
			DocumentCount:    counts[c.ID],
			Children:         []*model.CategoryNode{},
		}
	}

	roots := make([]*model.CategoryNode, 0)
	for _, c := range flat {
		node := nodes[c.ID]
		if c.ParentID == nil || !validChain(c.ID, byID) {
			roots = append(roots, node)
			continue
		}
		parent, ok := nodes[*c.ParentID]
		if !ok {
			roots = append(roots, node)
			continue
		}
		parent.Children = append(parent.Children, node)
	}
	return roots
}

// validChain walks the parent pointers from id and reports whether they
// reach a root without revisiting a node or exceeding maxTreeDepth.
func validChain(id string, byID map[string]*model.DocumentCategory) bool {
	seen := map[string]bool{}
	cur := byID[id]
	for depth := 0; cur != nil && cur.ParentID != nil; depth++ {
		if depth >= maxTreeDepth || seen[cur.ID] {
			return false
		}
		seen[cur.ID] = true
		cur = byID[*cur.ParentID]
	}
	return true
}

func (s *categoryService) Create(ctx context.Context, companyID string, in CategoryInput) (*model.DocumentCategory, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if in.ParentID != nil {
		if _, err := s.categories.FindByID(ctx, *in.ParentID, companyID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, ErrNotFound
			}
			return nil, err
		}
	}
	now := time.Now().UTC()
	return s.categories.Create(ctx, &model.DocumentCategory{
		ID:          uuid.New().String(),
		Name:        in.Name,
		Description: in.Description,
		Icon:        in.Icon,
		ParentID:    in.ParentID,
		CompanyID:   companyID,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
}

func (s *categoryService) Update(ctx context.Context, id, companyID string, in CategoryInput) (*model.DocumentCategory, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	updated, err := s.categories.Update(ctx, &model.DocumentCategory{
		ID:          id,
		Name:        in.Name,
		Description: in.Description,
		Icon:        in.Icon,
		CompanyID:   companyID,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return updated, nil
}

func (s *categoryService) Delete(ctx context.Context, id, companyID string) error {
	if id == "" {
		return ErrIDRequired
	}
	count, err := s.docs.CountActiveByCategory(ctx, id, companyID)
	if err != nil {
		return err
	}
	if count > 0 {
		return &CategoryInUseError{Count: count}
	}
	if err := s.categories.Delete(ctx, id, companyID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	return nil
}
