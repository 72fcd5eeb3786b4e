// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - ContentSource: Fetches pages of stories from the CMS
//   - Renderer: Converts markdown to HTML
//   - ManifestRepository: Manifest persistence for a build path
//   - ArtifactStore: Body artifact persistence
//   - VersionStore: versions.json persistence
//   - PageStore: Standalone page persistence
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - BuildRunStore: Build history. Without it, runs are not recorded.
//   - PathLocker: Per build path locking. Without it, callers must serialise builds.
//   - Logger: Defaults to a no-op logger.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
