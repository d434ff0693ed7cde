package handler

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"docvault/internal/filestore"
	"docvault/internal/http/middleware"
	"docvault/internal/model"
	"docvault/internal/repository"
	"docvault/internal/service"
)

// uploadedFile is one successful entry of a multi-file upload response.
type uploadedFile struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	OriginalName string `json:"original_name"`
	Size         uint64 `json:"size"`
	MimeType     string `json:"mime_type"`
	Version      int    `json:"version"`
}

// uploadError is one failed entry of a multi-file upload response.
type uploadError struct {
	Filename string `json:"filename"`
	Error    string `json:"error"`
}

// UploadDocuments accepts a multipart form with one or more "files" parts
// plus optional metadata fields. Each file is processed independently so one
// rejected file does not fail the batch.
func UploadDocuments(svc service.DocumentService, maxFiles int) fiber.Handler {
	return func(c *fiber.Ctx) error {
		form, err := c.MultipartForm()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_FORM", "multipart form required")
		}
		files := form.File["files"]
		if len(files) == 0 {
			return writeError(c, fiber.StatusBadRequest, "NO_FILES", "no files provided")
		}
		if len(files) > maxFiles {
			return writeError(c, fiber.StatusBadRequest, "TOO_MANY_FILES",
				fmt.Sprintf("at most %d files per upload", maxFiles))
		}

		opts := service.UploadOptions{
			Description: c.FormValue("description"),
			Tags:        splitTags(c.FormValue("tags")),
		}
		if v := c.FormValue("category_id"); v != "" {
			if _, err := uuid.Parse(v); err != nil {
				return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid category id")
			}
			opts.CategoryID = &v
		}
		if v := c.FormValue("parent_document_id"); v != "" {
			if _, err := uuid.Parse(v); err != nil {
				return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid parent document id")
			}
			opts.ParentDocumentID = &v
		}

		userID := middleware.UserID(c)
		companyID := middleware.CompanyID(c)

		uploaded := make([]uploadedFile, 0, len(files))
		failures := make([]uploadError, 0)
		for _, fh := range files {
			f, err := fh.Open()
			if err != nil {
				failures = append(failures, uploadError{Filename: fh.Filename, Error: "unreadable file part"})
				continue
			}
			doc, err := svc.Upload(c.UserContext(), f, fh.Filename,
				fh.Header.Get("Content-Type"), uint64(fh.Size), userID, companyID, opts)
			f.Close()
			if err != nil {
				failures = append(failures, uploadError{Filename: fh.Filename, Error: safeUploadError(err)})
				continue
			}
			uploaded = append(uploaded, uploadedFile{
				ID:           doc.ID,
				Name:         doc.Name,
				OriginalName: doc.OriginalName,
				Size:         doc.Size,
				MimeType:     doc.MimeType,
				Version:      doc.Version,
			})
		}

		status := fiber.StatusCreated
		if len(uploaded) == 0 {
			status = fiber.StatusBadRequest
		}
		return c.Status(status).JSON(fiber.Map{
			"uploaded": uploaded,
			"errors":   failures,
		})
	}
}

// ListDocuments returns a filtered page of the tenant's documents.
func ListDocuments(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := repository.SearchQuery{
			Query:    c.Query("query"),
			MimeType: c.Query("mime_type"),
			Tags:       splitTags(c.Query("tags")),
			Page:       c.QueryInt("page", 1),
			Limit:      c.QueryInt("limit", 20),
			SortBy:     repository.SortField(c.Query("sort_by", string(repository.SortByCreatedAt))),
			SortDesc:   c.Query("sort_order", "desc") == "desc",
		}
		if q.Limit > 100 {
			q.Limit = 100
		}
		// UUID-typed filters get validated up front so a malformed value is a
		// client error, not a database one.
		if v := c.Query("category_id"); v != "" {
			if _, err := uuid.Parse(v); err != nil {
				return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid category id")
			}
			q.CategoryID = v
		}
		if v := c.Query("owner_id"); v != "" {
			if _, err := uuid.Parse(v); err != nil {
				return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid owner id")
			}
			q.OwnerID = v
		}
		if v := c.Query("date_from"); v != "" {
			t, err := time.Parse(time.RFC3339, v)
			if err != nil {
				return writeError(c, fiber.StatusBadRequest, "INVALID_REQUEST", "date_from must be RFC 3339")
			}
			q.DateFrom = &t
		}
		if v := c.Query("date_to"); v != "" {
			t, err := time.Parse(time.RFC3339, v)
			if err != nil {
				return writeError(c, fiber.StatusBadRequest, "INVALID_REQUEST", "date_to must be RFC 3339")
			}
			q.DateTo = &t
		}

		res, err := svc.List(c.UserContext(), middleware.CompanyID(c), q)
		if err != nil {
			return serviceError(c, err)
		}
		return c.Status(fiber.StatusOK).JSON(res)
	}
}

// GetDocument returns a single document's metadata.
func GetDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := pathID(c, "id")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid document id")
		}
		doc, err := svc.Get(c.UserContext(), id, middleware.CompanyID(c), middleware.UserID(c))
		if err != nil {
			return serviceError(c, err)
		}
		return c.Status(fiber.StatusOK).JSON(doc)
	}
}

// DownloadDocument streams the stored bytes with download headers.
func DownloadDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := pathID(c, "id")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid document id")
		}
		res, err := svc.Download(c.UserContext(), id, middleware.CompanyID(c), middleware.UserID(c))
		if err != nil {
			return serviceError(c, err)
		}
		c.Set(fiber.HeaderContentType, res.MimeType)
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", res.Name))
		return c.SendStream(res.Reader, streamSize(res.Size))
	}
}

// updateDocumentRequest is the JSON body of PUT /documents/:id. Absent
// fields stay unchanged; an empty category_id clears the assignment.
type updateDocumentRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Tags        []string `json:"tags"`
	CategoryID  *string  `json:"category_id"`
}

// UpdateDocument mutates a document's metadata.
func UpdateDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := pathID(c, "id")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid document id")
		}
		var req updateDocumentRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_REQUEST", "invalid request body")
		}
		doc, err := svc.Update(c.UserContext(), id, middleware.CompanyID(c), middleware.UserID(c), service.UpdatePatch{
			Name:        req.Name,
			Description: req.Description,
			Tags:        req.Tags,
			CategoryID:  req.CategoryID,
		})
		if err != nil {
			return serviceError(c, err)
		}
		return c.Status(fiber.StatusOK).JSON(doc)
	}
}

// DeleteDocument soft-deletes a document.
func DeleteDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := pathID(c, "id")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid document id")
		}
		if err := svc.Delete(c.UserContext(), id, middleware.CompanyID(c), middleware.UserID(c)); err != nil {
			return serviceError(c, err)
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "document deleted"})
	}
}

// shareDocumentRequest is the JSON body of POST /documents/:id/share.
type shareDocumentRequest struct {
	UserID     string     `json:"user_id"`
	Permission string     `json:"permission"`
	ExpiresAt  *time.Time `json:"expires_at"`
}

// ShareDocument grants or refreshes another user's access.
func ShareDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := pathID(c, "id")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid document id")
		}
		var req shareDocumentRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_REQUEST", "invalid request body")
		}
		if _, err := uuid.Parse(req.UserID); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid user id")
		}
		share, err := svc.Share(c.UserContext(), id, middleware.CompanyID(c), middleware.UserID(c), service.ShareRequest{
			WithUserID: req.UserID,
			Permission: model.Permission(req.Permission),
			ExpiresAt:  req.ExpiresAt,
		})
		if err != nil {
			return serviceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(share)
	}
}

// ListShares returns every grant on a document.
func ListShares(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := pathID(c, "id")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid document id")
		}
		shares, err := svc.Shares(c.UserContext(), id, middleware.CompanyID(c), middleware.UserID(c))
		if err != nil {
			return serviceError(c, err)
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"data": shares})
	}
}

// UnshareDocument revokes a user's access.
func UnshareDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := pathID(c, "id")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid document id")
		}
		withUserID, err := pathID(c, "userId")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid user id")
		}
		if err := svc.Unshare(c.UserContext(), id, middleware.CompanyID(c), middleware.UserID(c), withUserID); err != nil {
			return serviceError(c, err)
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "share revoked"})
	}
}

// DocumentStats returns the tenant's aggregate document statistics.
func DocumentStats(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		stats, err := svc.Stats(c.UserContext(), middleware.CompanyID(c))
		if err != nil {
			return serviceError(c, err)
		}
		return c.Status(fiber.StatusOK).JSON(stats)
	}
}

// StorageStats reports aggregate disk usage across storage categories.
func StorageStats(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		stats, err := svc.StorageStats(c.UserContext())
		if err != nil {
			return serviceError(c, err)
		}
		return c.Status(fiber.StatusOK).JSON(stats)
	}
}

// streamSize converts a stored size to fiber's int-typed stream length.
// Sizes beyond the platform int range fall back to -1, which streams the
// body chunked until EOF instead of truncating.
func streamSize(size uint64) int {
	if size > uint64(math.MaxInt) {
		return -1
	}
	return int(size)
}

// pathID reads a UUID path parameter.
func pathID(c *fiber.Ctx, name string) (string, error) {
	id := c.Params(name)
	if _, err := uuid.Parse(id); err != nil {
		return "", err
	}
	return id, nil
}

// splitTags turns a comma-separated query/form value into a clean slice.
func splitTags(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			tags = append(tags, t)
		}
	}
	if len(tags) == 0 {
		return nil
	}
	return tags
}

// safeUploadError keeps per-file error strings free of internals. Validation
// failures and bad parent references carry their message; anything else is
// reported generically.
func safeUploadError(err error) string {
	var fileErr *filestore.ValidationError
	var ozzoErrs validation.Errors
	switch {
	case errors.As(err, &fileErr), errors.As(err, &ozzoErrs):
		return err.Error()
	case errors.Is(err, service.ErrNotFound):
		return "parent document not found"
	default:
		return "upload failed"
	}
}
