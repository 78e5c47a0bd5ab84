package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/steemit/yatube/pkg/logging"
)

// LocalStore keeps media files on the local filesystem
type LocalStore struct {
	root    string
	baseURL string
	logger  *zap.Logger
}

// NewLocalStore creates a store rooted at root
func NewLocalStore(root, baseURL string) (*LocalStore, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve media root: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create media root: %w", err)
	}
	return &LocalStore{
		root:    abs,
		baseURL: baseURL,
		logger:  logging.WithComponent("storage-local"),
	}, nil
}

// Root returns the absolute media directory
func (s *LocalStore) Root() string {
	return s.root
}

func (s *LocalStore) resolve(name string) (string, error) {
	full := filepath.Join(s.root, filepath.FromSlash(name))
	if full != s.root && !strings.HasPrefix(full, s.root+string(filepath.Separator)) {
		return "", fmt.Errorf("path escapes media root: %s", name)
	}
	return full, nil
}

// Save implements Store
func (s *LocalStore) Save(ctx context.Context, name string, data []byte, contentType string) (string, error) {
	full, err := s.resolve(name)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("failed to create media directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(full), ".upload-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to write media file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to write media file: %w", err)
	}
	if err := os.Rename(tmp.Name(), full); err != nil {
		return "", fmt.Errorf("failed to store media file: %w", err)
	}

	s.logger.Debug("Stored media file",
		zap.String("path", name),
		zap.Int("size", len(data)),
		zap.String("content_type", contentType))
	return name, nil
}

// Delete implements Store
func (s *LocalStore) Delete(ctx context.Context, path string) error {
	full, err := s.resolve(path)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// URL implements Store
func (s *LocalStore) URL(path string) string {
	return joinURL(s.baseURL, path)
}
