package memory

import (
	"context"
	"path"
	"sort"
	"sync"

	"github.com/custodia-labs/cmsbuild/internal/core/ports/driven"
)

// Ensure ArtifactStore implements the interface.
var _ driven.ArtifactStore = (*ArtifactStore)(nil)

// ArtifactStore is an in-memory implementation of driven.ArtifactStore.
type ArtifactStore struct {
	mu    sync.RWMutex
	files map[string][]byte
}

// NewArtifactStore creates a new in-memory artifact store.
func NewArtifactStore() *ArtifactStore {
	return &ArtifactStore{
		files: make(map[string][]byte),
	}
}

// Write stores a copy of content at dir/file.
func (s *ArtifactStore) Write(_ context.Context, dir, file string, content []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[path.Join(dir, file)] = append([]byte(nil), content...)
	return nil
}

// Delete removes dir/file. Missing files are ignored.
func (s *ArtifactStore) Delete(_ context.Context, dir, file string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.files, path.Join(dir, file))
	return nil
}

// Get returns the content stored at name.
func (s *ArtifactStore) Get(name string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	content, ok := s.files[name]
	return content, ok
}

// Names returns every stored artifact path, sorted.
func (s *ArtifactStore) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.files))
	for name := range s.files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
