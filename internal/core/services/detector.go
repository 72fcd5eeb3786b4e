package services

import "github.com/custodia-labs/cmsbuild/internal/core/domain"

// Change detection is pure: no I/O, and callbacks fire in the iteration
// order of the collection being walked. Entries are matched by the
// canonical string form of their id.

// DetectAdded calls onAdded for each latest entry with no old counterpart.
// It reports whether any entry was added.
func DetectAdded(old domain.Manifest, latest []domain.Entry, onAdded func(domain.Entry)) bool {
	known := manifestIndex(old)
	added := false
	for i := range latest {
		if _, ok := known[latest[i].ID.String()]; ok {
			continue
		}
		added = true
		if onAdded != nil {
			onAdded(latest[i])
		}
	}
	return added
}

// DetectDeleted calls onDeleted for each old entry missing from latest.
// It reports whether any entry was deleted.
func DetectDeleted(old domain.Manifest, latest []domain.Entry, onDeleted func(domain.ManifestEntry)) bool {
	current := make(map[string]struct{}, len(latest))
	for i := range latest {
		current[latest[i].ID.String()] = struct{}{}
	}

	deleted := false
	for i := range old {
		if _, ok := current[old[i].ID.String()]; ok {
			continue
		}
		deleted = true
		if onDeleted != nil {
			onDeleted(old[i])
		}
	}
	return deleted
}

// DetectUpdated calls onUpdated for each latest entry whose hash differs
// from its old counterpart. Entries without a counterpart are never updates.
// It reports whether any entry was updated.
func DetectUpdated(old domain.Manifest, latest []domain.Entry, onUpdated func(domain.Entry)) bool {
	known := manifestIndex(old)
	updated := false
	for i := range latest {
		prev, ok := known[latest[i].ID.String()]
		if !ok || prev.Hash == latest[i].Hash {
			continue
		}
		updated = true
		if onUpdated != nil {
			onUpdated(latest[i])
		}
	}
	return updated
}

// manifestIndex keys a manifest by id. The first entry wins on duplicates.
func manifestIndex(m domain.Manifest) map[string]domain.ManifestEntry {
	index := make(map[string]domain.ManifestEntry, len(m))
	for i := range m {
		key := m[i].ID.String()
		if _, ok := index[key]; !ok {
			index[key] = m[i]
		}
	}
	return index
}
