package driven

import "context"

// ArtifactStore persists rendered entry bodies.
type ArtifactStore interface {
	// Write creates or replaces the artifact dir/file.
	Write(ctx context.Context, dir, file string, content []byte) error

	// Delete removes the artifact dir/file.
	// A missing artifact is not an error.
	Delete(ctx context.Context, dir, file string) error
}
