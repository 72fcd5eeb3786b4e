package driven

import (
	"context"

	"github.com/custodia-labs/cmsbuild/internal/core/domain"
)

// VersionStore persists the per-collection version stamps of a build root.
type VersionStore interface {
	// Load returns the stamps for root, or an empty set if none exist.
	Load(ctx context.Context, root string) (domain.Versions, error)

	// Save replaces the stamps for root.
	Save(ctx context.Context, root string, versions domain.Versions) error
}

// PageStore persists rendered standalone pages.
type PageStore interface {
	// Read returns the stored page.
	// Returns domain.ErrNotFound if the page has never been written.
	Read(ctx context.Context, root, name string) (*StoredPage, error)

	// Write replaces the stored page.
	Write(ctx context.Context, root, name string, page StoredPage) error
}

// StoredPage is a rendered standalone page and the hash of its source.
type StoredPage struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Hash    string `json:"hash"`
}
