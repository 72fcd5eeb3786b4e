package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/cmsbuild/internal/core/domain"
	"github.com/custodia-labs/cmsbuild/internal/core/ports/driven"
)

// Ensure BuildRunStore implements the interface.
var _ driven.BuildRunStore = (*BuildRunStore)(nil)

// BuildRunStore is an in-memory implementation of driven.BuildRunStore.
type BuildRunStore struct {
	mu   sync.RWMutex
	runs map[string]domain.BuildRun
}

// NewBuildRunStore creates a new in-memory build run store.
func NewBuildRunStore() *BuildRunStore {
	return &BuildRunStore{
		runs: make(map[string]domain.BuildRun),
	}
}

// Save stores or replaces a run.
func (s *BuildRunStore) Save(_ context.Context, run domain.BuildRun) error {
	if run.ID == "" {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[run.ID] = run
	return nil
}

// List returns runs newest first.
func (s *BuildRunStore) List(_ context.Context, collectionKey string, limit int) ([]domain.BuildRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	runs := make([]domain.BuildRun, 0, len(s.runs))
	for _, run := range s.runs {
		if collectionKey == "" || run.CollectionKey == collectionKey {
			runs = append(runs, run)
		}
	}
	sort.Slice(runs, func(i, j int) bool {
		return runs[i].StartedAt.After(runs[j].StartedAt)
	})

	if limit > 0 && len(runs) > limit {
		runs = runs[:limit]
	}
	return runs, nil
}
