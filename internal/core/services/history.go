package services

import (
	"context"
	"errors"

	"github.com/custodia-labs/cmsbuild/internal/core/domain"
	"github.com/custodia-labs/cmsbuild/internal/core/ports/driven"
	"github.com/custodia-labs/cmsbuild/internal/core/ports/driving"
)

// Ensure HistoryService implements the interface.
var _ driving.HistoryService = (*HistoryService)(nil)

// DefaultHistoryLimit caps history listings when no limit is given.
const DefaultHistoryLimit = 20

// HistoryService lists recorded build runs.
type HistoryService struct {
	runs driven.BuildRunStore
}

// NewHistoryService creates a history service.
func NewHistoryService(runs driven.BuildRunStore) *HistoryService {
	return &HistoryService{runs: runs}
}

// List returns recent runs, newest first.
func (s *HistoryService) List(ctx context.Context, collectionKey string, limit int) ([]domain.BuildRun, error) {
	if s.runs == nil {
		return nil, errors.New("build history not configured")
	}
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return s.runs.List(ctx, collectionKey, limit)
}
