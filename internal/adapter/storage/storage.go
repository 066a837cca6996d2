package storage

import (
	"context"
	"errors"
)

// ErrFileNotFound is returned by Remove when the stored file is absent.
var ErrFileNotFound = errors.New("stored file not found")

// Storage persists uploaded product images. Save returns the stored path
// exactly as it is recorded on the product (slash-normalized, prefixed with
// the upload prefix). Remove is strict about missing files; RemoveIfExists
// tolerates them.
type Storage interface {
	Save(ctx context.Context, originalName string, data []byte) (string, error)
	Remove(ctx context.Context, path string) error
	RemoveIfExists(ctx context.Context, path string) error
}

// PathPrefix is the public prefix every stored path starts with.
const PathPrefix = "uploads/"
