package storage

import (
	"context"
	"io"
)

// Store defines the interface for a file storage backend. Paths are relative
// to the store's root and always use forward slashes.
type Store interface {
	Save(ctx context.Context, path string, reader io.Reader) (int64, error)
	Create(ctx context.Context, path string) (io.WriteCloser, error)
	Open(ctx context.Context, path string) (io.ReadCloser, error)
	Delete(ctx context.Context, path string) error
}
