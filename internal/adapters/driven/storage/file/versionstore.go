package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/custodia-labs/cmsbuild/internal/core/domain"
	"github.com/custodia-labs/cmsbuild/internal/core/ports/driven"
)

// VersionsFile is the version stamp file name under a build root.
const VersionsFile = "versions.json"

// Ensure VersionStore implements the interface.
var _ driven.VersionStore = (*VersionStore)(nil)

// VersionStore reads and writes <root>/versions.json.
type VersionStore struct{}

// NewVersionStore creates a filesystem version store.
func NewVersionStore() *VersionStore {
	return &VersionStore{}
}

// Load returns the stamps for root. A missing file yields an empty set.
func (s *VersionStore) Load(_ context.Context, root string) (domain.Versions, error) {
	path := filepath.Join(root, VersionsFile)
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return domain.Versions{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	versions := domain.Versions{}
	if err := json.Unmarshal(data, &versions); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if versions == nil {
		versions = domain.Versions{}
	}
	return versions, nil
}

// Save replaces the stamps for root.
func (s *VersionStore) Save(_ context.Context, root string, versions domain.Versions) error {
	data, err := json.MarshalIndent(versions, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding versions: %w", err)
	}
	path := filepath.Join(root, VersionsFile)
	if err := writeFileAtomic(path, data); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
