package domain

import (
	"strconv"
	"time"
)

// BuildVersionKey is the versions.json key stamped on every batch.
const BuildVersionKey = "build"

// VersionStamp records when a collection last changed.
// V is an opaque version token, N the newest entry date.
type VersionStamp struct {
	V string `json:"v"`
	N string `json:"n"`
}

// Versions maps collection and page keys to their version stamps.
type Versions map[string]VersionStamp

// Reconcile drops keys not in known and adds missing ones with empty stamps.
// It reports whether the set of keys changed.
func (v Versions) Reconcile(known []string) bool {
	changed := false
	want := make(map[string]struct{}, len(known))
	for _, key := range known {
		want[key] = struct{}{}
	}

	for key := range v {
		if _, ok := want[key]; !ok {
			delete(v, key)
			changed = true
		}
	}

	for _, key := range known {
		if _, ok := v[key]; !ok {
			v[key] = VersionStamp{}
			changed = true
		}
	}
	return changed
}

// ContentVersion returns the token stamped on a changed collection.
func ContentVersion(t time.Time) string {
	return strconv.FormatInt(t.UnixMilli(), 36)
}

// BatchVersion returns the token stamped on every batch.
func BatchVersion(t time.Time) string {
	return strconv.FormatInt(t.UnixMilli(), 16)
}
