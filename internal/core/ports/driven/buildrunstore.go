package driven

import (
	"context"

	"github.com/custodia-labs/cmsbuild/internal/core/domain"
)

// BuildRunStore persists build history.
type BuildRunStore interface {
	// Save records a build run.
	Save(ctx context.Context, run domain.BuildRun) error

	// List returns the most recent runs, newest first.
	// An empty collectionKey lists every collection. limit <= 0 means no limit.
	List(ctx context.Context, collectionKey string, limit int) ([]domain.BuildRun, error)
}
