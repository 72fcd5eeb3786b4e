package memory

import (
	"context"
	"maps"
	"path"
	"sync"

	"github.com/custodia-labs/cmsbuild/internal/core/domain"
	"github.com/custodia-labs/cmsbuild/internal/core/ports/driven"
)

// Ensure VersionStore and PageStore implement the interfaces.
var (
	_ driven.VersionStore = (*VersionStore)(nil)
	_ driven.PageStore    = (*PageStore)(nil)
)

// VersionStore is an in-memory implementation of driven.VersionStore.
type VersionStore struct {
	mu    sync.RWMutex
	roots map[string]domain.Versions
}

// NewVersionStore creates a new in-memory version store.
func NewVersionStore() *VersionStore {
	return &VersionStore{
		roots: make(map[string]domain.Versions),
	}
}

// Load returns a copy of the stamps for root.
func (s *VersionStore) Load(_ context.Context, root string) (domain.Versions, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	versions := domain.Versions{}
	maps.Copy(versions, s.roots[root])
	return versions, nil
}

// Save stores a copy of the stamps for root.
func (s *VersionStore) Save(_ context.Context, root string, versions domain.Versions) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.roots[root] = maps.Clone(versions)
	return nil
}

// PageStore is an in-memory implementation of driven.PageStore.
type PageStore struct {
	mu    sync.RWMutex
	pages map[string]driven.StoredPage
}

// NewPageStore creates a new in-memory page store.
func NewPageStore() *PageStore {
	return &PageStore{
		pages: make(map[string]driven.StoredPage),
	}
}

// Read retrieves a stored page.
func (s *PageStore) Read(_ context.Context, root, name string) (*driven.StoredPage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	page, ok := s.pages[path.Join(root, name)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &page, nil
}

// Write stores a page.
func (s *PageStore) Write(_ context.Context, root, name string, page driven.StoredPage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pages[path.Join(root, name)] = page
	return nil
}
