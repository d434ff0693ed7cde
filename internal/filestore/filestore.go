package filestore

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// Package filestore contains raw file persistence, independent of any
// document metadata. Implementations keep bytes under a fixed set of
// category subdirectories (or key prefixes) and only ever hand out paths
// relative to the storage root, so the root can be relocated.

// Categories are the fixed buckets files are classified into.
// CategoryTemp is reserved for transient files and excluded from stats.
const (
	CategoryDocuments = "documents"
	CategoryImages    = "images"
	CategoryArchives  = "archives"
	CategoryVideos    = "videos"
	CategoryAudio     = "audio"
	CategoryTemp      = "temp"
)

// Categories lists the persistent buckets, excluding temp.
var Categories = []string{CategoryDocuments, CategoryImages, CategoryArchives, CategoryVideos, CategoryAudio}

// SaveResult describes a stored file: the path relative to the storage root
// and the number of bytes written.
type SaveResult struct {
	RelativePath string
	Size         uint64
}

// FileInfo contains basic information about a stored file.
type FileInfo struct {
	Size       uint64
	CreatedAt  time.Time
	ModifiedAt time.Time
}

// CategoryStats aggregates file count and size for one category bucket.
type CategoryStats struct {
	Files int    `json:"files"`
	Size  uint64 `json:"size"`
}

// StorageStats aggregates storage usage across all category buckets.
type StorageStats struct {
	TotalFiles int                      `json:"total_files"`
	TotalSize  uint64                   `json:"total_size"`
	ByCategory map[string]CategoryStats `json:"by_category"`
}

// Store persists raw file bytes. Implementations are safe for concurrent use;
// filename uniqueness is guaranteed by SecureName's random component, not by
// locking.
type Store interface {
	// Save classifies the file by MIME type, writes the bytes under a secure
	// name inside the category bucket, and returns the root-relative path.
	// Callers must run ValidateFile first; Save does not re-validate.
	Save(ctx context.Context, r io.Reader, originalName, mimeType, ownerID string) (SaveResult, error)

	// Open returns a reader over a stored file's content.
	Open(ctx context.Context, relativePath string) (io.ReadCloser, error)

	// Delete removes a stored file. Failures are logged and reported as
	// false, never raised as fatal.
	Delete(ctx context.Context, relativePath string) bool

	// Exists reports whether a stored file is present.
	Exists(ctx context.Context, relativePath string) bool

	// Stat returns file information, or nil (with nil error) when absent.
	Stat(ctx context.Context, relativePath string) (*FileInfo, error)

	// Stats walks every category bucket and sums file counts and sizes.
	// A bucket that does not exist yet contributes zero. O(total files).
	Stats(ctx context.Context) (StorageStats, error)

	// CleanupTemp deletes temp files whose modification time is older than
	// maxAge. Best-effort: it continues past individual file errors and
	// returns the number of files removed.
	CleanupTemp(ctx context.Context, maxAge time.Duration) int
}

// ValidationError reports a file rejected before any byte was written.
type ValidationError struct {
	Filename string
	Reason   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid file %q: %s", e.Filename, e.Reason)
}

// Limits holds the validation policy applied to every incoming file.
type Limits struct {
	MaxFileSize       uint64
	AllowedMimeTypes  []string
	AllowedExtensions []string
}

// DefaultLimits returns the stock policy: 100 MB per file plus the standard
// office/image/archive/media allow-lists.
func DefaultLimits() Limits {
	return Limits{
		MaxFileSize: 100 * humanize.MiByte,
		AllowedMimeTypes: []string{
			"application/pdf",
			"application/msword",
			"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
			"application/vnd.ms-excel",
			"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			"application/vnd.ms-powerpoint",
			"application/vnd.openxmlformats-officedocument.presentationml.presentation",
			"text/plain",
			"text/csv",
			"application/rtf",
			"image/jpeg",
			"image/png",
			"image/gif",
			"image/webp",
			"image/svg+xml",
			"image/bmp",
			"image/tiff",
			"application/zip",
			"application/x-rar-compressed",
			"application/x-7z-compressed",
			"application/gzip",
			"video/mp4",
			"video/mpeg",
			"video/quicktime",
			"video/x-msvideo",
			"video/webm",
			"audio/mpeg",
			"audio/wav",
			"audio/ogg",
			"audio/webm",
		},
		AllowedExtensions: []string{
			".pdf", ".doc", ".docx", ".xls", ".xlsx", ".ppt", ".pptx",
			".txt", ".csv", ".rtf",
			".jpg", ".jpeg", ".png", ".gif", ".webp", ".svg", ".bmp", ".tiff",
			".zip", ".rar", ".7z", ".gz",
			".mp4", ".mpeg", ".mov", ".avi", ".webm",
			".mp3", ".wav", ".ogg",
		},
	}
}

// suspiciousPatterns reject path traversal, characters illegal on common
// filesystems, Windows reserved device names, and executable or script
// extensions regardless of the allow-lists.
var suspiciousPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\.\.`),
	regexp.MustCompile(`[<>:"|?*]`),
	regexp.MustCompile(`(?i)^(CON|PRN|AUX|NUL|COM[1-9]|LPT[1-9])(\.|$)`),
	regexp.MustCompile(`(?i)\.(exe|bat|cmd|scr|vbs|js|php|asp|jsp)$`),
}

// ValidateFile checks a declared name, MIME type, and size against the
// limits. It is pure and must run before any byte is written.
func ValidateFile(limits Limits, name, mimeType string, size uint64) error {
	if size > limits.MaxFileSize {
		return &ValidationError{
			Filename: name,
			Reason:   fmt.Sprintf("file size exceeds limit of %s", humanize.IBytes(limits.MaxFileSize)),
		}
	}

	if !contains(limits.AllowedMimeTypes, mimeType) {
		return &ValidationError{
			Filename: name,
			Reason:   fmt.Sprintf("file type %q is not allowed", mimeType),
		}
	}

	ext := strings.ToLower(filepath.Ext(name))
	if !contains(limits.AllowedExtensions, ext) {
		return &ValidationError{
			Filename: name,
			Reason:   fmt.Sprintf("file extension %q is not allowed", ext),
		}
	}

	for _, p := range suspiciousPatterns {
		if p.MatchString(name) {
			return &ValidationError{
				Filename: name,
				Reason:   "file name contains suspicious content",
			}
		}
	}

	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// SecureName builds an unguessable yet debuggable filename:
// ownerID_timestamp_hash_random.ext. The hash is an HMAC-SHA256 over
// ownerID|name|timestamp under the store's key, so it cannot be recomputed
// from the public name parts alone; the random component keeps two uploads
// distinct even within the same millisecond.
func SecureName(originalName, ownerID string, key []byte) string {
	ext := strings.ToLower(filepath.Ext(originalName))
	ts := time.Now().UnixMilli()

	mac := hmac.New(sha256.New, key)
	fmt.Fprintf(mac, "%s|%s|%d", ownerID, originalName, ts)
	hash := hex.EncodeToString(mac.Sum(nil))[:8]

	buf := make([]byte, 8)
	_, _ = rand.Read(buf)

	return fmt.Sprintf("%s_%d_%s_%s%s", ownerID, ts, hash, hex.EncodeToString(buf), ext)
}

// ensureKey returns the configured naming key, or a random per-process key
// when none is set. Name stability across restarts is not required; stored
// paths are persisted alongside the metadata.
func ensureKey(key []byte) []byte {
	if len(key) > 0 {
		return key
	}
	k := make([]byte, 32)
	_, _ = rand.Read(k)
	return k
}

// Classify maps a MIME type onto a category bucket. Anything that is not an
// image, video, audio stream, or archive lands in documents.
func Classify(mimeType string) string {
	switch {
	case strings.HasPrefix(mimeType, "image/"):
		return CategoryImages
	case strings.HasPrefix(mimeType, "video/"):
		return CategoryVideos
	case strings.HasPrefix(mimeType, "audio/"):
		return CategoryAudio
	case strings.Contains(mimeType, "zip"),
		strings.Contains(mimeType, "rar"),
		strings.Contains(mimeType, "7z"),
		strings.Contains(mimeType, "gzip"):
		return CategoryArchives
	default:
		return CategoryDocuments
	}
}
