package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"docvault/internal/filestore"
	"docvault/internal/model"
	"docvault/internal/repository"
)

// recentUploadWindow is the look-back used by the recent-uploads statistic.
const recentUploadWindow = 7 * 24 * time.Hour

// UploadOptions carries the optional metadata attached to an upload.
// ParentDocumentID marks the upload as a new revision of an existing chain.
type UploadOptions struct {
	CategoryID       *string
	Description      string
	Tags             []string
	ParentDocumentID *string
}

// Validate checks the option fields that have structural constraints.
func (o UploadOptions) Validate() error {
	return validation.ValidateStruct(&o,
		validation.Field(&o.Description, validation.Length(0, 2000)),
		validation.Field(&o.Tags, validation.Length(0, 50)),
	)
}

// UpdatePatch holds the mutable metadata of a document. Nil pointers leave
// the field unchanged; an empty-string CategoryID clears the assignment.
// Version, owner, and file bytes are immutable through this path.
type UpdatePatch struct {
	Name        *string
	Description *string
	Tags        []string
	CategoryID  *string
}

// Validate checks the patch fields that have structural constraints.
func (p UpdatePatch) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Name, validation.Length(1, 255)),
		validation.Field(&p.Description, validation.Length(0, 2000)),
		validation.Field(&p.Tags, validation.Length(0, 50)),
	)
}

// ShareRequest is a grant (or re-grant) of access to a document.
type ShareRequest struct {
	WithUserID string
	Permission model.Permission
	ExpiresAt  *time.Time
}

// Validate checks the share request.
func (r ShareRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.WithUserID, validation.Required),
		validation.Field(&r.Permission, validation.Required,
			validation.In(model.PermissionRead, model.PermissionWrite, model.PermissionAdmin)),
	)
}

// DocumentListResult is the service-level DTO for paginated documents.
type DocumentListResult struct {
	Items      []model.Document `json:"data"`
	Total      int              `json:"total"`
	Page       int              `json:"page"`
	TotalPages int              `json:"total_pages"`
}

// DownloadResult resolves a document to a readable byte stream plus the
// header fields a transport needs.
type DownloadResult struct {
	Reader   io.ReadCloser
	Name     string
	MimeType string
	Size     uint64
}

// DocumentService defines the use cases of the document registry: metadata
// lifecycle, version chains, search, sharing, and statistics. Every call is
// scoped by company id.
type DocumentService interface {
	// Upload validates the file, stores its bytes, and persists the metadata
	// row. Without a parent option the document starts a new chain at
	// version 1; with one, the version is 1 + the chain's current maximum.
	Upload(ctx context.Context, r io.Reader, originalName, mimeType string, size uint64, ownerID, companyID string, opts UploadOptions) (*model.Document, error)

	// List returns a filtered page of the tenant's active documents.
	List(ctx context.Context, companyID string, q repository.SearchQuery) (*DocumentListResult, error)

	// Get returns a single active document. When userID is non-empty the
	// caller must be owner or hold a non-expired share; otherwise the
	// document is reported as not found.
	Get(ctx context.Context, id, companyID, userID string) (*model.Document, error)

	// Download resolves a document to its content stream.
	Download(ctx context.Context, id, companyID, userID string) (*DownloadResult, error)

	// Update mutates name/description/tags/category. Requires owner or a
	// write/admin share.
	Update(ctx context.Context, id, companyID, userID string, patch UpdatePatch) (*model.Document, error)

	// Delete soft-deletes a document. Requires owner or an admin share.
	// Physical bytes are retained for recovery.
	Delete(ctx context.Context, id, companyID, userID string) error

	// Share grants or updates access for a user (idempotent upsert).
	// Requires owner or an admin share.
	Share(ctx context.Context, id, companyID, byUserID string, req ShareRequest) (*model.DocumentShare, error)

	// Unshare revokes a user's access. Same permission gate as Share.
	Unshare(ctx context.Context, id, companyID, byUserID, withUserID string) error

	// Shares lists every grant on a document, expired ones included so the
	// owner can see and clean them up. Requires owner or an admin share.
	Shares(ctx context.Context, id, companyID, userID string) ([]model.DocumentShare, error)

	// Stats aggregates the tenant's active documents.
	Stats(ctx context.Context, companyID string) (*repository.DocumentStats, error)

	// StorageStats reports aggregate disk usage across category buckets.
	StorageStats(ctx context.Context) (filestore.StorageStats, error)
}

// documentService is a concrete implementation of DocumentService.
type documentService struct {
	store       filestore.Store
	docs        repository.DocumentRepository
	shares      repository.ShareRepository
	limits      filestore.Limits
	thumbnailer Thumbnailer
	extractor   TextExtractor
}

// Option configures optional capabilities of the document service.
type Option func(*documentService)

// WithThumbnailer plugs in a thumbnail generator.
func WithThumbnailer(t Thumbnailer) Option {
	return func(s *documentService) { s.thumbnailer = t }
}

// WithTextExtractor plugs in a searchable-text extractor.
func WithTextExtractor(e TextExtractor) Option {
	return func(s *documentService) { s.extractor = e }
}

// NewDocumentService constructs a new DocumentService. Capabilities default
// to no-ops.
func NewDocumentService(store filestore.Store, docs repository.DocumentRepository, shares repository.ShareRepository, limits filestore.Limits, opts ...Option) DocumentService {
	s := &documentService{
		store:       store,
		docs:        docs,
		shares:      shares,
		limits:      limits,
		thumbnailer: NoopThumbnailer(),
		extractor:   NoopTextExtractor(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *documentService) Upload(ctx context.Context, r io.Reader, originalName, mimeType string, size uint64, ownerID, companyID string, opts UploadOptions) (*model.Document, error) {
	if r == nil {
		return nil, ErrReaderNil
	}
	if err := filestore.ValidateFile(s.limits, originalName, mimeType, size); err != nil {
		return nil, err
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	// Resolve the version before any byte hits the store, so a bogus parent
	// cannot leave an orphaned file behind.
	version := 1
	if opts.ParentDocumentID != nil {
		max, err := s.docs.MaxChainVersion(ctx, *opts.ParentDocumentID, companyID)
		if err != nil {
			return nil, fmt.Errorf("resolve chain version: %w", err)
		}
		if max == 0 {
			return nil, ErrNotFound
		}
		version = max + 1
	}

	saved, err := s.store.Save(ctx, r, originalName, mimeType, ownerID)
	if err != nil {
		return nil, fmt.Errorf("store file: %w", err)
	}

	now := time.Now().UTC()
	doc := &model.Document{
		ID:               uuid.New().String(),
		Name:             originalName,
		OriginalName:     originalName,
		StoragePath:      saved.RelativePath,
		Size:             saved.Size,
		MimeType:         mimeType,
		Description:      opts.Description,
		Tags:             model.Tags(opts.Tags),
		Version:          version,
		ParentDocumentID: opts.ParentDocumentID,
		CategoryID:       opts.CategoryID,
		OwnerID:          ownerID,
		CompanyID:        companyID,
		IsActive:         true,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	stored, err := s.docs.Create(ctx, doc)
	if err != nil {
		// Rollback the stored bytes; a failed rollback leaves an orphan that
		// reconciliation has to pick up, so it is logged loudly.
		if !s.store.Delete(ctx, saved.RelativePath) {
			log.Printf("service: orphaned file %s after failed metadata insert", saved.RelativePath)
		}
		return nil, fmt.Errorf("save metadata: %w", err)
	}

	if strings.HasPrefix(mimeType, "image/") {
		if _, err := s.thumbnailer.Generate(ctx, stored.StoragePath, mimeType); err != nil {
			log.Printf("service: thumbnail generation for %s: %v", stored.ID, err)
		}
	}
	if _, err := s.extractor.Extract(ctx, stored.StoragePath, mimeType); err != nil {
		log.Printf("service: text extraction for %s: %v", stored.ID, err)
	}

	return stored, nil
}

func (s *documentService) List(ctx context.Context, companyID string, q repository.SearchQuery) (*DocumentListResult, error) {
	if q.Limit <= 0 {
		q.Limit = 20
	}
	if q.Page < 1 {
		q.Page = 1
	}

	res, err := s.docs.Search(ctx, companyID, q)
	if err != nil {
		return nil, err
	}

	totalPages := (res.Total + q.Limit - 1) / q.Limit
	return &DocumentListResult{
		Items:      res.Items,
		Total:      res.Total,
		Page:       q.Page,
		TotalPages: totalPages,
	}, nil
}

// find loads an active, tenant-scoped document and, when userID is set,
// verifies the user may see it at all. Missing document and missing access
// are reported identically as ErrNotFound.
func (s *documentService) find(ctx context.Context, id, companyID, userID string) (*model.Document, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	doc, err := s.docs.FindByID(ctx, id, companyID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if userID == "" || doc.OwnerID == userID {
		return doc, nil
	}
	if _, err := s.shares.FindForUser(ctx, doc.ID, userID, time.Now().UTC()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return doc, nil
}

// requireLevel checks that the user holds at least min on a document they
// can already see. Owners hold every level implicitly.
func (s *documentService) requireLevel(ctx context.Context, doc *model.Document, userID string, min model.Permission) error {
	if doc.OwnerID == userID {
		return nil
	}
	share, err := s.shares.FindForUser(ctx, doc.ID, userID, time.Now().UTC())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrPermissionDenied
		}
		return err
	}
	if !share.Permission.Covers(min) {
		return ErrPermissionDenied
	}
	return nil
}

func (s *documentService) Get(ctx context.Context, id, companyID, userID string) (*model.Document, error) {
	return s.find(ctx, id, companyID, userID)
}

func (s *documentService) Download(ctx context.Context, id, companyID, userID string) (*DownloadResult, error) {
	doc, err := s.find(ctx, id, companyID, userID)
	if err != nil {
		return nil, err
	}
	rc, err := s.store.Open(ctx, doc.StoragePath)
	if err != nil {
		// Metadata row with unreadable bytes: the accepted orphan condition.
		log.Printf("service: document %s has unreadable storage path %s: %v", doc.ID, doc.StoragePath, err)
		return nil, fmt.Errorf("open stored file: %w", err)
	}
	return &DownloadResult{
		Reader:   rc,
		Name:     doc.OriginalName,
		MimeType: doc.MimeType,
		Size:     doc.Size,
	}, nil
}

func (s *documentService) Update(ctx context.Context, id, companyID, userID string, patch UpdatePatch) (*model.Document, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	doc, err := s.find(ctx, id, companyID, userID)
	if err != nil {
		return nil, err
	}
	if err := s.requireLevel(ctx, doc, userID, model.PermissionWrite); err != nil {
		return nil, err
	}

	if patch.Name != nil {
		doc.Name = *patch.Name
	}
	if patch.Description != nil {
		doc.Description = *patch.Description
	}
	if patch.Tags != nil {
		doc.Tags = model.Tags(patch.Tags)
	}
	if patch.CategoryID != nil {
		if *patch.CategoryID == "" {
			doc.CategoryID = nil
		} else {
			doc.CategoryID = patch.CategoryID
		}
	}

	updated, err := s.docs.UpdateMetadata(ctx, doc)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return updated, nil
}

func (s *documentService) Delete(ctx context.Context, id, companyID, userID string) error {
	doc, err := s.find(ctx, id, companyID, userID)
	if err != nil {
		return err
	}
	if err := s.requireLevel(ctx, doc, userID, model.PermissionAdmin); err != nil {
		return err
	}
	// Soft delete only: bytes stay in the store for recovery and are never
	// purged by this path.
	if err := s.docs.SoftDelete(ctx, doc.ID, companyID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (s *documentService) Share(ctx context.Context, id, companyID, byUserID string, req ShareRequest) (*model.DocumentShare, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	doc, err := s.find(ctx, id, companyID, byUserID)
	if err != nil {
		return nil, err
	}
	if err := s.requireLevel(ctx, doc, byUserID, model.PermissionAdmin); err != nil {
		return nil, err
	}

	share := &model.DocumentShare{
		ID:               uuid.New().String(),
		DocumentID:       doc.ID,
		SharedWithUserID: req.WithUserID,
		SharedByUserID:   byUserID,
		Permission:       req.Permission,
		ExpiresAt:        req.ExpiresAt,
	}
	return s.shares.Upsert(ctx, share)
}

func (s *documentService) Unshare(ctx context.Context, id, companyID, byUserID, withUserID string) error {
	doc, err := s.find(ctx, id, companyID, byUserID)
	if err != nil {
		return err
	}
	if err := s.requireLevel(ctx, doc, byUserID, model.PermissionAdmin); err != nil {
		return err
	}
	existed, err := s.shares.Delete(ctx, doc.ID, withUserID)
	if err != nil {
		return err
	}
	if !existed {
		return ErrNotFound
	}
	return nil
}

func (s *documentService) Shares(ctx context.Context, id, companyID, userID string) ([]model.DocumentShare, error) {
	doc, err := s.find(ctx, id, companyID, userID)
	if err != nil {
		return nil, err
	}
	if err := s.requireLevel(ctx, doc, userID, model.PermissionAdmin); err != nil {
		return nil, err
	}
	return s.shares.ListByDocument(ctx, doc.ID)
}

func (s *documentService) Stats(ctx context.Context, companyID string) (*repository.DocumentStats, error) {
	return s.docs.Stats(ctx, companyID, time.Now().UTC().Add(-recentUploadWindow))
}

func (s *documentService) StorageStats(ctx context.Context) (filestore.StorageStats, error) {
	return s.store.Stats(ctx)
}
