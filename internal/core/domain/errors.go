package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent build failures callers branch on.
// Typed errors below carry details and match these with errors.Is.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidConfig indicates an unusable configuration value.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrInvalidQuery indicates a page size or page number the source cannot serve.
	ErrInvalidQuery = errors.New("invalid query")

	// ErrEmptySource indicates a query matched no stories on any page.
	ErrEmptySource = errors.New("no stories found")

	// ErrMissingBody indicates an entry selected for persistence has no body.
	ErrMissingBody = errors.New("entry missing body")

	// ErrManifestIO indicates a manifest read or write failed for a reason
	// other than the manifest not existing yet.
	ErrManifestIO = errors.New("manifest i/o failed")

	// ErrNoCategories indicates the category list story has no category table.
	ErrNoCategories = errors.New("no categories found")

	// ErrUnknownCategory indicates entries reference categories missing from the list.
	ErrUnknownCategory = errors.New("unknown or missing categories")

	// ErrBuildLocked indicates another build holds the lock for a build path.
	ErrBuildLocked = errors.New("build path locked by another build")

	// ErrTargetConflict indicates two entries write to the same artifact.
	ErrTargetConflict = errors.New("artifact target claimed twice")

	// ErrInvalidPath indicates a build destination outside the root path.
	ErrInvalidPath = errors.New("invalid path")
)

// InvalidQueryError reports a rejected pagination parameter.
type InvalidQueryError struct {
	Field  string
	Value  int
	Reason string
}

// Error implements the error interface.
func (e *InvalidQueryError) Error() string {
	return fmt.Sprintf("invalid query: %s=%d %s", e.Field, e.Value, e.Reason)
}

// Is matches ErrInvalidQuery.
func (e *InvalidQueryError) Is(target error) bool {
	return target == ErrInvalidQuery
}

// EmptySourceError reports a story prefix that yielded no stories.
type EmptySourceError struct {
	StartsWith string
}

// Error implements the error interface.
func (e *EmptySourceError) Error() string {
	return fmt.Sprintf("missing stories from %q", e.StartsWith)
}

// Is matches ErrEmptySource.
func (e *EmptySourceError) Is(target error) bool {
	return target == ErrEmptySource
}

// MissingBodyError reports an entry whose body artifact cannot be written.
type MissingBodyError struct {
	ID    EntryID
	Title string
}

// Error implements the error interface.
func (e *MissingBodyError) Error() string {
	return fmt.Sprintf("entry %s (%q) missing body", e.ID, e.Title)
}

// Is matches ErrMissingBody.
func (e *MissingBodyError) Is(target error) bool {
	return target == ErrMissingBody
}

// ManifestIOError wraps a filesystem failure on the manifest file.
// Unwrap exposes the cause so os.ErrNotExist and friends still classify.
type ManifestIOError struct {
	Op   string
	Path string
	Err  error
}

// Error implements the error interface.
func (e *ManifestIOError) Error() string {
	return fmt.Sprintf("manifest %s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying cause.
func (e *ManifestIOError) Unwrap() error {
	return e.Err
}

// Is matches ErrManifestIO.
func (e *ManifestIOError) Is(target error) bool {
	return target == ErrManifestIO
}

// NoCategoriesFoundError reports a category list request without a table.
type NoCategoriesFoundError struct {
	StartsWith string
}

// Error implements the error interface.
func (e *NoCategoriesFoundError) Error() string {
	return fmt.Sprintf("no categories found at %q", e.StartsWith)
}

// Is matches ErrNoCategories.
func (e *NoCategoriesFoundError) Is(target error) bool {
	return target == ErrNoCategories
}

// TargetConflictError reports two entries that resolve to one artifact target.
type TargetConflictError struct {
	Target string
	First  EntryID
	Second EntryID
}

// Error implements the error interface.
func (e *TargetConflictError) Error() string {
	return fmt.Sprintf("artifact target %q claimed by %s and %s", e.Target, e.First, e.Second)
}

// Is matches ErrTargetConflict.
func (e *TargetConflictError) Is(target error) bool {
	return target == ErrTargetConflict
}

// InvalidEntryError reports a story missing a required field.
type InvalidEntryError struct {
	ID    EntryID
	Field string
}

// Error implements the error interface.
func (e *InvalidEntryError) Error() string {
	return fmt.Sprintf("invalid input: entry %s has no %s", e.ID, e.Field)
}

// Is matches ErrInvalidInput.
func (e *InvalidEntryError) Is(target error) bool {
	return target == ErrInvalidInput
}
