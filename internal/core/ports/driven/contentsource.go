package driven

import (
	"context"

	"github.com/custodia-labs/cmsbuild/internal/core/domain"
)

// ContentSource fetches stories from a headless CMS.
// Each implementation (Storyblok HTTP API, local fixture file) serves one
// page per call; pagination is driven by the core.
type ContentSource interface {
	// Get returns one page of stories under slug matching params.
	// A page past the last story returns an empty slice, not an error.
	Get(ctx context.Context, slug string, params domain.StoryParams) (*domain.StoriesResponse, error)
}
