package file

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/custodia-labs/cmsbuild/internal/core/domain"
	"github.com/custodia-labs/cmsbuild/internal/core/ports/driven"
)

// StandaloneDir is the directory under a build root holding standalone pages.
const StandaloneDir = "standalone"

// Ensure PageStore implements the interface.
var _ driven.PageStore = (*PageStore)(nil)

// PageStore reads and writes <root>/standalone/<name>.json.
type PageStore struct{}

// NewPageStore creates a filesystem page store.
func NewPageStore() *PageStore {
	return &PageStore{}
}

// Read returns the stored page, or domain.ErrNotFound.
func (s *PageStore) Read(_ context.Context, root, name string) (*driven.StoredPage, error) {
	path := pagePath(root, name)
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("page %s: %w", path, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var page driven.StoredPage
	if err := json.Unmarshal(data, &page); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &page, nil
}

// Write replaces the stored page, creating the standalone directory if needed.
// The build root itself must already exist.
func (s *PageStore) Write(_ context.Context, root, name string, page driven.StoredPage) error {
	if _, err := os.Stat(root); err != nil {
		return fmt.Errorf("%w: cannot find build root %s", domain.ErrInvalidPath, root)
	}
	if err := os.MkdirAll(filepath.Join(root, StandaloneDir), dirPerm); err != nil {
		return fmt.Errorf("creating standalone directory: %w", err)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(page); err != nil {
		return fmt.Errorf("encoding page: %w", err)
	}

	path := pagePath(root, name)
	if err := writeFileAtomic(path, bytes.TrimSuffix(buf.Bytes(), []byte("\n"))); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func pagePath(root, name string) string {
	return filepath.Join(root, StandaloneDir, name+".json")
}
