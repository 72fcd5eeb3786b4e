package driving

import (
	"context"

	"github.com/custodia-labs/cmsbuild/internal/core/domain"
)

// HistoryService exposes recorded build runs.
type HistoryService interface {
	// List returns recent runs, newest first.
	// An empty collectionKey lists every collection.
	List(ctx context.Context, collectionKey string, limit int) ([]domain.BuildRun, error)
}
