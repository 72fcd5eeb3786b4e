package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/custodia-labs/cmsbuild/internal/core/ports/driven"
)

// Ensure ArtifactStore implements the interface.
var _ driven.ArtifactStore = (*ArtifactStore)(nil)

// ArtifactStore writes body artifacts and catalogs as plain files.
type ArtifactStore struct{}

// NewArtifactStore creates a filesystem artifact store.
func NewArtifactStore() *ArtifactStore {
	return &ArtifactStore{}
}

// Write creates or replaces dir/file.
func (s *ArtifactStore) Write(_ context.Context, dir, file string, content []byte) error {
	path := filepath.Join(dir, file)
	if err := os.WriteFile(path, content, filePerm); err != nil {
		return fmt.Errorf("writing artifact %s: %w", path, err)
	}
	return nil
}

// Delete removes dir/file. A missing file is not an error.
func (s *ArtifactStore) Delete(_ context.Context, dir, file string) error {
	path := filepath.Join(dir, file)
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("deleting artifact %s: %w", path, err)
	}
	return nil
}
