package storage

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// AferoStore implements Store on any afero filesystem. Production wraps the OS
// filesystem in a base path; tests use an in-memory one.
type AferoStore struct {
	fs afero.Fs
}

// NewAferoStore creates a new AferoStore.
func NewAferoStore(fs afero.Fs) *AferoStore {
	return &AferoStore{fs: fs}
}

// NewDiskStore returns a store confined to root on the local disk.
func NewDiskStore(root string) (*AferoStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	return NewAferoStore(afero.NewBasePathFs(afero.NewOsFs(), root)), nil
}

// Save writes the content of the reader to path, creating parent directories.
func (s *AferoStore) Save(ctx context.Context, path string, reader io.Reader) (int64, error) {
	f, err := s.Create(ctx, path)
	if err != nil {
		return 0, err
	}
	n, err := io.Copy(f, reader)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	return n, err
}

// Create opens path for writing, truncating any previous content.
func (s *AferoStore) Create(ctx context.Context, path string) (io.WriteCloser, error) {
	if err := s.fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return s.fs.Create(path)
}

// Open opens path for reading.
func (s *AferoStore) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	return s.fs.OpenFile(path, os.O_RDONLY, 0)
}

// Delete removes path. A file that is already gone is not an error.
func (s *AferoStore) Delete(ctx context.Context, path string) error {
	err := s.fs.Remove(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
