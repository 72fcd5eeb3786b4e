// Package domain defines the core business entities for cmsbuild.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Entry: A CMS story after mapping and markdown rendering
//   - ManifestEntry: The persisted projection of an Entry
//   - Collection: A configured content type and its build path
//   - Story: The raw record returned by a content source
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
