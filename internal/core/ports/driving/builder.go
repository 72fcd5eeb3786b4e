package driving

import (
	"context"

	"github.com/custodia-labs/cmsbuild/internal/core/domain"
)

// Builder runs an incremental build for a single build path.
type Builder interface {
	// Build fetches the latest entries, diffs them against the stored
	// manifest, applies side effects and rewrites the manifest if anything changed.
	Build(ctx context.Context, opts domain.BuildOptions) (*domain.BuildResult, error)
}
