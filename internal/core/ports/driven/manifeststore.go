package driven

import "context"

// ManifestRepository persists encoded manifests.
// Dir is the build directory; name is the manifest file name without extension.
type ManifestRepository interface {
	// Read loads the encoded manifest.
	// Returns domain.ErrNotFound if no manifest exists yet.
	Read(ctx context.Context, dir, name string) ([]byte, error)

	// Write replaces the manifest in full.
	Write(ctx context.Context, dir, name string, data []byte) error

	// EnsureDir creates the build directory. An existing directory is not an error.
	EnsureDir(ctx context.Context, dir string) error

	// Location returns the manifest file location.
	Location(dir, name string) string
}
