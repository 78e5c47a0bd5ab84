package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/steemit/yatube/pkg/config"
)

// ImageDir is the directory post images are stored under
const ImageDir = "posts"

// Store persists uploaded media files
type Store interface {
	// Save writes data under name and returns the stored path
	Save(ctx context.Context, name string, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, path string) error
	// URL returns the public URL of a stored path
	URL(path string) string
}

// New creates the store selected by configuration
func New(ctx context.Context, cfg *config.StorageConfig) (Store, error) {
	switch cfg.Backend {
	case "local":
		return NewLocalStore(cfg.MediaRoot, cfg.MediaURL)
	case "minio":
		store, err := NewMinIOStore(cfg.MinIO, cfg.MediaURL)
		if err != nil {
			return nil, err
		}
		if err := store.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported storage backend: %s", cfg.Backend)
	}
}

// ImageName returns a unique object name for a post image with the given extension
func ImageName(ext string) string {
	return ImageDir + "/" + uuid.NewString() + "." + ext
}

func joinURL(base, path string) string {
	if path == "" {
		return ""
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}
