package filestore

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"docvault/internal/config"
)

// minioStore implements Store against an S3-compatible bucket (MinIO, AWS
// S3, etc.) for deployments without a shared disk. Category buckets become
// key prefixes; paths stay relative exactly like the local backend.
// It is safe for concurrent use by multiple goroutines.
type minioStore struct {
	client  *minio.Client
	bucket  string
	nameKey []byte
}

// NewMinIO creates an object-storage backed Store.
// It validates connectivity and ensures the bucket exists (creates it if missing).
// nameKey keys the object-name hash; when empty a random per-process key is used.
func NewMinIO(cfg config.MinIOConfig, nameKey []byte) (Store, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("minio endpoint is required")
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, fmt.Errorf("minio credentials are required")
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("minio bucket is required")
	}

	cli, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	ms := &minioStore{client: cli, bucket: cfg.Bucket, nameKey: ensureKey(nameKey)}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	exists, err := cli.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket existence: %w", err)
	}
	if !exists {
		if err := cli.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket: %w", err)
		}
	}

	return ms, nil
}

func (m *minioStore) Save(ctx context.Context, r io.Reader, originalName, mimeType, ownerID string) (SaveResult, error) {
	if r == nil {
		return SaveResult{}, fmt.Errorf("reader is nil")
	}

	key := Classify(mimeType) + "/" + SecureName(originalName, ownerID, m.nameKey)

	info, err := m.client.PutObject(ctx, m.bucket, key, r, -1, minio.PutObjectOptions{
		ContentType:  mimeType,
		UserMetadata: map[string]string{"original-filename": originalName},
	})
	if err != nil {
		return SaveResult{}, fmt.Errorf("put object: %w", err)
	}

	return SaveResult{RelativePath: key, Size: uint64(info.Size)}, nil
}

func (m *minioStore) Open(ctx context.Context, relativePath string) (io.ReadCloser, error) {
	obj, err := m.client.GetObject(ctx, m.bucket, relativePath, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	// GetObject is lazy; force the first request so missing keys surface here.
	if _, err := obj.Stat(); err != nil {
		obj.Close()
		return nil, err
	}
	return obj, nil
}

func (m *minioStore) Delete(ctx context.Context, relativePath string) bool {
	if err := m.client.RemoveObject(ctx, m.bucket, relativePath, minio.RemoveObjectOptions{}); err != nil {
		log.Printf("filestore: delete object %s: %v", relativePath, err)
		return false
	}
	return true
}

func (m *minioStore) Exists(ctx context.Context, relativePath string) bool {
	_, err := m.client.StatObject(ctx, m.bucket, relativePath, minio.StatObjectOptions{})
	return err == nil
}

func (m *minioStore) Stat(ctx context.Context, relativePath string) (*FileInfo, error) {
	st, err := m.client.StatObject(ctx, m.bucket, relativePath, minio.StatObjectOptions{})
	if err != nil {
		if resp := minio.ToErrorResponse(err); resp.Code == "NoSuchKey" {
			return nil, nil
		}
		return nil, err
	}
	return &FileInfo{
		Size:       uint64(st.Size),
		CreatedAt:  st.LastModified,
		ModifiedAt: st.LastModified,
	}, nil
}

func (m *minioStore) Stats(ctx context.Context) (StorageStats, error) {
	stats := StorageStats{ByCategory: make(map[string]CategoryStats, len(Categories))}

	for _, category := range Categories {
		var cs CategoryStats
		for obj := range m.client.ListObjects(ctx, m.bucket, minio.ListObjectsOptions{
			Prefix:    category + "/",
			Recursive: true,
		}) {
			if obj.Err != nil {
				return StorageStats{}, fmt.Errorf("list %s objects: %w", category, obj.Err)
			}
			cs.Files++
			cs.Size += uint64(obj.Size)
		}
		stats.ByCategory[category] = cs
		stats.TotalFiles += cs.Files
		stats.TotalSize += cs.Size
	}

	return stats, nil
}

func (m *minioStore) CleanupTemp(ctx context.Context, maxAge time.Duration) int {
	cutoff := time.Now().Add(-maxAge)
	deleted := 0

	for obj := range m.client.ListObjects(ctx, m.bucket, minio.ListObjectsOptions{
		Prefix:    CategoryTemp + "/",
		Recursive: true,
	}) {
		if obj.Err != nil {
			log.Printf("filestore: list temp objects: %v", obj.Err)
			return deleted
		}
		if obj.LastModified.Before(cutoff) {
			if err := m.client.RemoveObject(ctx, m.bucket, obj.Key, minio.RemoveObjectOptions{}); err != nil {
				log.Printf("filestore: cleanup temp object %s: %v", obj.Key, err)
				continue
			}
			deleted++
		}
	}

	return deleted
}
