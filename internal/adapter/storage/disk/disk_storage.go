package disk

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/HamzaAshfaq01/sellsgoods/internal/adapter/storage"
	"github.com/google/uuid"
)

// DiskStorage writes uploads under a local directory, the files being served
// statically from /uploads/. Stored paths are "uploads/<uuid><ext>".
type DiskStorage struct {
	dir string
}

func NewDiskStorage(dir string) (*DiskStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create uploads dir %s: %w", dir, err)
	}
	return &DiskStorage{dir: dir}, nil
}

// Dir is the filesystem root the static file server should expose.
func (s *DiskStorage) Dir() string { return s.dir }

func (s *DiskStorage) Save(ctx context.Context, originalName string, data []byte) (string, error) {
	ext := filepath.Ext(originalName)
	name := uuid.New().String() + ext

	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write upload %s: %w", name, err)
	}
	return storage.PathPrefix + name, nil
}

// fullPath maps a stored path back to its location on disk.
func (s *DiskStorage) fullPath(path string) string {
	return filepath.Join(s.dir, strings.TrimPrefix(path, storage.PathPrefix))
}

func (s *DiskStorage) Remove(ctx context.Context, path string) error {
	if err := os.Remove(s.fullPath(path)); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%s: %w", path, storage.ErrFileNotFound)
		}
		return fmt.Errorf("failed to remove %s: %w", path, err)
	}
	return nil
}

func (s *DiskStorage) RemoveIfExists(ctx context.Context, path string) error {
	if err := os.Remove(s.fullPath(path)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove %s: %w", path, err)
	}
	return nil
}
