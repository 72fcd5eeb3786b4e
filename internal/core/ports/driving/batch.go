package driving

import (
	"context"

	"github.com/custodia-labs/cmsbuild/internal/core/domain"
)

// BatchRunner builds every configured collection and standalone page under a root.
type BatchRunner interface {
	// Run builds each selected collection in order.
	// A failing collection does not stop the batch; every failure is
	// returned joined once the batch completes.
	Run(ctx context.Context, opts BatchOptions) (*domain.BatchReport, error)
}

// BatchOptions configures a batch run.
type BatchOptions struct {
	// Root is the build root holding versions.json and the collection directories.
	Root string

	// Only restricts the batch to these collection and page keys. Empty means all.
	Only []string

	// DryRun computes changes without writing manifests, artifacts or versions.
	DryRun bool
}
