package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/custodia-labs/cmsbuild/internal/core/domain"
	"github.com/custodia-labs/cmsbuild/internal/core/ports/driven"
)

// Ensure ManifestStore implements the interface.
var _ driven.ManifestRepository = (*ManifestStore)(nil)

// ManifestStore reads and writes <dir>/<name>.json.
type ManifestStore struct{}

// NewManifestStore creates a filesystem manifest store.
func NewManifestStore() *ManifestStore {
	return &ManifestStore{}
}

// Read loads the manifest file.
// A missing file returns domain.ErrNotFound; any other failure is a *domain.ManifestIOError.
func (s *ManifestStore) Read(_ context.Context, dir, name string) ([]byte, error) {
	path := s.Location(dir, name)
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("manifest %s: %w", path, domain.ErrNotFound)
	}
	if err != nil {
		return nil, &domain.ManifestIOError{Op: "read", Path: path, Err: err}
	}
	return data, nil
}

// Write replaces the manifest file.
func (s *ManifestStore) Write(_ context.Context, dir, name string, data []byte) error {
	path := s.Location(dir, name)
	if err := writeFileAtomic(path, data); err != nil {
		return &domain.ManifestIOError{Op: "write", Path: path, Err: err}
	}
	return nil
}

// EnsureDir creates dir and any missing parents.
func (s *ManifestStore) EnsureDir(_ context.Context, dir string) error {
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return fmt.Errorf("creating build directory: %w", err)
	}
	return nil
}

// Location returns <dir>/<name>.json.
func (s *ManifestStore) Location(dir, name string) string {
	return filepath.Join(dir, name+".json")
}
