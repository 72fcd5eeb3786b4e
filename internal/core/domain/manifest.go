package domain

import (
	"fmt"
	"strings"
)

// ManifestEntry is the persisted projection of an Entry.
// Bodies are not part of the manifest; they live in artifact files.
// A hash-only projection populates ID, Title and Hash only.
type ManifestEntry struct {
	ID       EntryID `json:"id"`
	Title    string  `json:"title"`
	Author   string  `json:"author,omitempty"`
	Summary  string  `json:"summary,omitempty"`
	Category string  `json:"category,omitempty"`
	Hash     string  `json:"hash"`
	Date     string  `json:"date,omitempty"`
}

// Manifest is the ordered list of entries last persisted for a build path.
type Manifest []ManifestEntry

// ManifestMode selects which projection a collection persists.
type ManifestMode int

const (
	// ManifestFull persists id, title, author, summary, category, hash and date.
	ManifestFull ManifestMode = iota

	// ManifestHashOnly persists id, title and hash only.
	ManifestHashOnly
)

// String returns the config name of the mode.
func (m ManifestMode) String() string {
	switch m {
	case ManifestFull:
		return "full"
	case ManifestHashOnly:
		return "hash"
	default:
		return "unknown"
	}
}

// ParseManifestMode parses a config value into a ManifestMode.
// An empty string selects ManifestFull.
func ParseManifestMode(s string) (ManifestMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "full":
		return ManifestFull, nil
	case "hash", "hash-only", "hash_only":
		return ManifestHashOnly, nil
	default:
		return ManifestFull, fmt.Errorf("%w: unknown manifest mode %q", ErrInvalidConfig, s)
	}
}

// Project converts an entry into its manifest shape for this mode.
func (m ManifestMode) Project(e Entry) ManifestEntry {
	if m == ManifestHashOnly {
		return ManifestEntry{
			ID:    e.ID,
			Title: e.Title,
			Hash:  e.Hash,
		}
	}
	return ManifestEntry{
		ID:       e.ID,
		Title:    e.Title,
		Author:   e.Author,
		Summary:  e.Summary,
		Category: e.Category,
		Hash:     e.Hash,
		Date:     e.Date,
	}
}

// ProjectAll converts every entry, preserving order.
func (m ManifestMode) ProjectAll(entries []Entry) Manifest {
	manifest := make(Manifest, 0, len(entries))
	for i := range entries {
		manifest = append(manifest, m.Project(entries[i]))
	}
	return manifest
}
