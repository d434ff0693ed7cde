package filestore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// localStore implements Store on a local directory tree:
// root/{documents,images,archives,videos,audio,temp}/<secure name>.
type localStore struct {
	root    string
	nameKey []byte
}

// NewLocal creates a disk-backed Store rooted at dir, creating the root and
// every category subdirectory up front. nameKey keys the filename hash; when
// empty a random per-process key is used.
func NewLocal(dir string, nameKey []byte) (Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("storage root is required")
	}
	for _, sub := range append([]string{CategoryTemp}, Categories...) {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0o755); err != nil {
			return nil, fmt.Errorf("create storage directory %s: %w", sub, err)
		}
	}
	return &localStore{root: dir, nameKey: ensureKey(nameKey)}, nil
}

// resolve maps a root-relative path to an absolute one, refusing anything
// that would escape the storage root.
func (l *localStore) resolve(relativePath string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(relativePath))
	if clean == "." || filepath.IsAbs(clean) || strings.HasPrefix(clean, "..") {
		return "", fmt.Errorf("invalid storage path %q", relativePath)
	}
	return filepath.Join(l.root, clean), nil
}

func (l *localStore) Save(ctx context.Context, r io.Reader, originalName, mimeType, ownerID string) (SaveResult, error) {
	if r == nil {
		return SaveResult{}, fmt.Errorf("reader is nil")
	}

	category := Classify(mimeType)
	name := SecureName(originalName, ownerID, l.nameKey)

	dir := filepath.Join(l.root, category)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return SaveResult{}, fmt.Errorf("create category directory: %w", err)
	}

	full := filepath.Join(dir, name)
	dst, err := os.OpenFile(full, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return SaveResult{}, fmt.Errorf("create file: %w", err)
	}

	written, err := io.Copy(dst, r)
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(full)
		return SaveResult{}, fmt.Errorf("write file: %w", err)
	}

	return SaveResult{
		RelativePath: filepath.ToSlash(filepath.Join(category, name)),
		Size:         uint64(written),
	}, nil
}

func (l *localStore) Open(ctx context.Context, relativePath string) (io.ReadCloser, error) {
	full, err := l.resolve(relativePath)
	if err != nil {
		return nil, err
	}
	return os.Open(full)
}

func (l *localStore) Delete(ctx context.Context, relativePath string) bool {
	full, err := l.resolve(relativePath)
	if err != nil {
		log.Printf("filestore: delete rejected: %v", err)
		return false
	}
	if err := os.Remove(full); err != nil {
		log.Printf("filestore: delete %s: %v", relativePath, err)
		return false
	}
	return true
}

func (l *localStore) Exists(ctx context.Context, relativePath string) bool {
	full, err := l.resolve(relativePath)
	if err != nil {
		return false
	}
	_, err = os.Stat(full)
	return err == nil
}

func (l *localStore) Stat(ctx context.Context, relativePath string) (*FileInfo, error) {
	full, err := l.resolve(relativePath)
	if err != nil {
		return nil, err
	}
	st, err := os.Stat(full)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &FileInfo{
		Size:       uint64(st.Size()),
		CreatedAt:  st.ModTime(),
		ModifiedAt: st.ModTime(),
	}, nil
}

func (l *localStore) Stats(ctx context.Context) (StorageStats, error) {
	stats := StorageStats{ByCategory: make(map[string]CategoryStats, len(Categories))}

	for _, category := range Categories {
		var cs CategoryStats
		entries, err := os.ReadDir(filepath.Join(l.root, category))
		if err != nil {
			// Missing directory contributes zero, not an error.
			stats.ByCategory[category] = cs
			continue
		}
		for _, entry := range entries {
			info, err := entry.Info()
			if err != nil || entry.IsDir() {
				continue
			}
			cs.Files++
			cs.Size += uint64(info.Size())
		}
		stats.ByCategory[category] = cs
		stats.TotalFiles += cs.Files
		stats.TotalSize += cs.Size
	}

	return stats, nil
}

func (l *localStore) CleanupTemp(ctx context.Context, maxAge time.Duration) int {
	cutoff := time.Now().Add(-maxAge)
	deleted := 0

	entries, err := os.ReadDir(filepath.Join(l.root, CategoryTemp))
	if err != nil {
		log.Printf("filestore: read temp directory: %v", err)
		return 0
	}

	for _, entry := range entries {
		info, err := entry.Info()
		if err != nil || entry.IsDir() {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(filepath.Join(l.root, CategoryTemp, entry.Name())); err != nil {
				log.Printf("filestore: cleanup temp file %s: %v", entry.Name(), err)
				continue
			}
			deleted++
		}
	}

	return deleted
}
