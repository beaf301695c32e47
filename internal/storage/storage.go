package storage

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/certfolio/apiserver/config"
)

// URLPrefix is the public path prefix under which stored files are served.
const URLPrefix = "/uploads/"

// Backend persists uploaded file bytes under unique keys.
type Backend interface {
	Save(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Remove(ctx context.Context, key string) error
}

// FileStore wraps a Backend with key generation and URL mapping.
type FileStore struct {
	backend Backend
}

// NewFileStore constructs a FileStore over the provided backend.
func NewFileStore(backend Backend) *FileStore {
	return &FileStore{backend: backend}
}

// NewBackend constructs the storage backend selected by config.
func NewBackend(ctx context.Context, cfg config.StorageConfig) (Backend, error) {
	switch cfg.Backend {
	case config.StorageBackendLocal:
		return NewLocalBackend(cfg.LocalDir)
	case config.StorageBackendMinio:
		return NewMinioBackend(ctx, cfg.Minio)
	case config.StorageBackendGCS:
		return NewGCSBackend(ctx, cfg.GCS)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

// Save writes the file under a freshly generated key and returns the public
// URL path. The backend write completes before the URL is returned.
func (s *FileStore) Save(ctx context.Context, originalName string, r io.Reader, size int64, contentType string) (string, error) {
	key := NewKey(originalName)
	if err := s.backend.Save(ctx, key, r, size, contentType); err != nil {
		return "", err
	}
	return URLPrefix + key, nil
}

// Open returns a reader for a previously stored file.
func (s *FileStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	return s.backend.Open(ctx, key)
}

// Remove deletes a previously stored file.
func (s *FileStore) Remove(ctx context.Context, key string) error {
	return s.backend.Remove(ctx, key)
}

// NewKey generates a collision-resistant storage key preserving the
// original file extension.
func NewKey(originalName string) string {
	suffix := make([]byte, 6)
	_, _ = rand.Read(suffix)
	return fmt.Sprintf("%d-%s%s", time.Now().UnixNano(), hex.EncodeToString(suffix), filepath.Ext(originalName))
}
