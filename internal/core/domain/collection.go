package domain

import (
	"fmt"
	"strings"
)

// ArtifactNaming selects how body artifact files are named.
type ArtifactNaming int

const (
	// NameByID names artifacts by entry id.
	NameByID ArtifactNaming = iota

	// NameBySlug names artifacts by the slugified entry title.
	NameBySlug
)

// ParseArtifactNaming parses a config value. An empty string selects NameByID.
func ParseArtifactNaming(s string) (ArtifactNaming, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "id":
		return NameByID, nil
	case "slug":
		return NameBySlug, nil
	default:
		return NameByID, fmt.Errorf("%w: unknown artifact naming %q", ErrInvalidConfig, s)
	}
}

// Identity returns the file stem for an entry under this naming scheme.
func (n ArtifactNaming) Identity(id EntryID, title string) string {
	if n == NameBySlug {
		return Slugify(title)
	}
	return id.String()
}

// DateOrder tells which end of a collection holds the newest entry.
type DateOrder string

const (
	// OrderAsc means the newest entry is last.
	OrderAsc DateOrder = "asc"

	// OrderDesc means the newest entry is first.
	OrderDesc DateOrder = "desc"
)

// Collection is one configured content type.
type Collection struct {
	// Key names the collection in versions.json and build history.
	Key string

	// Path is the build directory relative to the build root.
	Path string

	// StartsWith is the story path prefix in the CMS.
	StartsWith string

	// SortBy is the CMS sort string.
	SortBy string

	// Order tells which entry supplies the collection's newest date.
	Order DateOrder

	// PerPage is the page size used when fetching.
	PerPage int

	// Mode selects the manifest projection.
	Mode ManifestMode

	// ManifestName overrides the manifest file name.
	ManifestName string

	// Artifacts enables body artifact files.
	Artifacts bool

	// Extension is the body artifact file extension, without the dot.
	Extension string

	// Naming selects how artifact files are named.
	Naming ArtifactNaming

	// Catalog, when set, writes a video catalog named <Catalog>.json.
	Catalog string

	// CategoryList is the story prefix of the category table for the catalog.
	CategoryList string
}

// Query returns the story query for this collection.
func (c Collection) Query(version Version) Query {
	q := NewQuery(c.StartsWith, c.SortBy, version)
	if c.PerPage > 0 {
		q.PerPage = c.PerPage
	}
	return q
}

// NewestDate returns the date of the newest entry according to Order.
func (c Collection) NewestDate(entries []Entry) string {
	if len(entries) == 0 {
		return ""
	}
	if c.Order == OrderDesc {
		return entries[0].Date
	}
	return entries[len(entries)-1].Date
}

// PageSpec is a configured standalone page.
type PageSpec struct {
	// Key names the page in versions.json.
	Key string

	// Name is the page name under page-data/standalone/.
	Name string
}
