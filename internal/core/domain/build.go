package domain

import (
	"context"
	"time"
)

// ChangeType represents how an entry differs from the previous manifest.
type ChangeType int

const (
	// ChangeAdded indicates an entry with no manifest counterpart.
	ChangeAdded ChangeType = iota

	// ChangeUpdated indicates an entry whose hash differs from the manifest.
	ChangeUpdated

	// ChangeDeleted indicates a manifest entry missing from the latest fetch.
	ChangeDeleted
)

// String returns a short label for logs.
func (c ChangeType) String() string {
	switch c {
	case ChangeAdded:
		return "add"
	case ChangeUpdated:
		return "upd"
	case ChangeDeleted:
		return "omit"
	default:
		return "unknown"
	}
}

// ChangeHandlers receive the side effects of a build.
// Any slot may be nil, in which case that change type has no side effect.
type ChangeHandlers struct {
	// OnAdded is called for each entry absent from the previous manifest,
	// and for every entry when a manifest is bootstrapped.
	OnAdded func(ctx context.Context, entry Entry) error

	// OnUpdated is called for each entry whose hash changed.
	OnUpdated func(ctx context.Context, entry Entry) error

	// OnDeleted is called for each manifest entry no longer in the source,
	// and for the stale target of an entry whose target changed.
	// Deletions always finish before any add or update starts.
	OnDeleted func(ctx context.Context, entry ManifestEntry) error

	// Target names what an entry's side effects write to. When set, two
	// latest entries may not share a target, and OnDeleted is skipped for
	// any target a latest entry still claims.
	Target func(id EntryID, title string) string
}

// BuildOptions configures a single manifest build.
type BuildOptions struct {
	// BuildPath is the directory holding the manifest and artifacts.
	BuildPath string

	// ManifestName overrides the manifest file name (without .json).
	// Defaults to the base name of BuildPath.
	ManifestName string

	// Query selects the stories to build.
	Query Query

	// Mode selects the manifest projection.
	Mode ManifestMode

	// DryRun computes the result without writing the manifest.
	DryRun bool

	// Handlers receive add/update/delete side effects.
	Handlers ChangeHandlers
}

// BuildResult reports the outcome of a build.
type BuildResult struct {
	// ManifestPath is the absolute manifest file path.
	ManifestPath string

	// Entries are the latest entries in fetch order.
	Entries []Entry

	// Updated is true when the manifest was bootstrapped or anything changed.
	Updated bool

	// Bootstrapped is true when no manifest existed before this build.
	Bootstrapped bool

	// Added, Changed and Deleted count the classified entries.
	Added   int
	Changed int
	Deleted int
}

// BuildRun is a recorded build of one collection.
type BuildRun struct {
	ID            string
	CollectionKey string
	BuildPath     string
	StartedAt     time.Time
	Duration      time.Duration
	Added         int
	Changed       int
	Deleted       int
	Updated       bool
	Bootstrapped  bool
	Error         string
}

// Succeeded reports whether the run completed without error.
func (r BuildRun) Succeeded() bool {
	return r.Error == ""
}

// BatchReport summarises a batch of collection builds.
type BatchReport struct {
	Root     string
	Runs     []BuildRun
	Versions Versions
}

// Failed returns the runs that ended in error.
func (r BatchReport) Failed() []BuildRun {
	var failed []BuildRun
	for _, run := range r.Runs {
		if !run.Succeeded() {
			failed = append(failed, run)
		}
	}
	return failed
}
