package memory

import (
	"context"
	"path"
	"sync"

	"github.com/custodia-labs/cmsbuild/internal/core/domain"
	"github.com/custodia-labs/cmsbuild/internal/core/ports/driven"
)

// Ensure ManifestStore implements the interface.
var _ driven.ManifestRepository = (*ManifestStore)(nil)

// ManifestStore is an in-memory implementation of driven.ManifestRepository.
type ManifestStore struct {
	mu        sync.RWMutex
	manifests map[string][]byte
	dirs      map[string]struct{}
}

// NewManifestStore creates a new in-memory manifest store.
func NewManifestStore() *ManifestStore {
	return &ManifestStore{
		manifests: make(map[string][]byte),
		dirs:      make(map[string]struct{}),
	}
}

// Read retrieves an encoded manifest.
func (s *ManifestStore) Read(_ context.Context, dir, name string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.manifests[s.Location(dir, name)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return append([]byte(nil), data...), nil
}

// Write stores a copy of the encoded manifest.
func (s *ManifestStore) Write(_ context.Context, dir, name string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.manifests[s.Location(dir, name)] = append([]byte(nil), data...)
	return nil
}

// EnsureDir records the directory.
func (s *ManifestStore) EnsureDir(_ context.Context, dir string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dirs[dir] = struct{}{}
	return nil
}

// Location returns the manifest key for dir and name.
func (s *ManifestStore) Location(dir, name string) string {
	return path.Join(dir, name+".json")
}

// HasDir reports whether EnsureDir was called for dir.
func (s *ManifestStore) HasDir(dir string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.dirs[dir]
	return ok
}
