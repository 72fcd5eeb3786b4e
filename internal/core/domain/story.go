package domain

import "fmt"

// Version selects draft or published story content.
type Version string

const (
	// VersionDraft returns the latest saved content.
	VersionDraft Version = "draft"

	// VersionPublished returns only published content.
	VersionPublished Version = "published"
)

// ParseVersion validates a version string. An empty string selects published.
func ParseVersion(s string) (Version, error) {
	switch Version(s) {
	case "":
		return VersionPublished, nil
	case VersionDraft, VersionPublished:
		return Version(s), nil
	default:
		return "", fmt.Errorf("%w: unknown version %q", ErrInvalidConfig, s)
	}
}

const (
	// DefaultSlug is the content delivery endpoint for stories.
	DefaultSlug = "cdn/stories"

	// MaxPerPage is the largest page the content source will serve.
	MaxPerPage = 100

	// FirstPage is the page a full scan starts from.
	FirstPage = 1

	// NoScan as a Query page fetches page one only, whether it is full or not.
	NoScan = 0
)

// Query describes a paginated story request.
type Query struct {
	// Slug is the content endpoint (e.g. "cdn/stories").
	Slug string

	// StartsWith is the story path prefix.
	StartsWith string

	// Version selects draft or published content.
	Version Version

	// SortBy is a "field:direction" sort string.
	SortBy string

	// Page is the first page to request. NoScan fetches one page only.
	Page int

	// PerPage is the page size, 1..MaxPerPage.
	PerPage int
}

// NewQuery returns a query that scans every page at the maximum page size.
func NewQuery(startsWith, sortBy string, version Version) Query {
	return Query{
		Slug:       DefaultSlug,
		StartsWith: startsWith,
		Version:    version,
		SortBy:     sortBy,
		Page:       FirstPage,
		PerPage:    MaxPerPage,
	}
}

// Validate checks the page parameters before any request is made.
func (q Query) Validate() error {
	if q.PerPage <= 0 {
		return &InvalidQueryError{Field: "per_page", Value: q.PerPage, Reason: "must be greater than 0"}
	}
	if q.PerPage > MaxPerPage {
		return &InvalidQueryError{
			Field:  "per_page",
			Value:  q.PerPage,
			Reason: fmt.Sprintf("must not exceed %d", MaxPerPage),
		}
	}
	if q.Page < 0 {
		return &InvalidQueryError{Field: "page", Value: q.Page, Reason: "must not be negative"}
	}
	return nil
}

// StoryParams are the query parameters sent to a content source.
type StoryParams struct {
	StartsWith string
	Version    Version
	SortBy     string
	Page       int
	PerPage    int
}

// Params converts the query into request parameters for the given page.
func (q Query) Params(page int) StoryParams {
	return StoryParams{
		StartsWith: q.StartsWith,
		Version:    q.Version,
		SortBy:     q.SortBy,
		Page:       page,
		PerPage:    q.PerPage,
	}
}

// StoriesResponse is one page of stories from a content source.
type StoriesResponse struct {
	Stories []Story `json:"stories"`
}

// Story is a raw CMS record before mapping.
type Story struct {
	ID               int64        `json:"id"`
	Name             string       `json:"name"`
	Slug             string       `json:"slug"`
	FullSlug         string       `json:"full_slug,omitempty"`
	CreatedAt        string       `json:"created_at"`
	PublishedAt      *string      `json:"published_at"`
	FirstPublishedAt *string      `json:"first_published_at"`
	Content          StoryContent `json:"content"`
}

// StoryContent holds the editor fields of a story.
type StoryContent struct {
	ID         string         `json:"id,omitempty"`
	Title      string         `json:"title"`
	Author     string         `json:"author"`
	Category   string         `json:"category,omitempty"`
	Summary    string         `json:"summary,omitempty"`
	Body       string         `json:"body,omitempty"`
	Timestamp  string         `json:"timestamp,omitempty"`
	Categories *CategoryTable `json:"categories,omitempty"`
}

// CategoryTable is the table block storing the video category list.
type CategoryTable struct {
	TBody []CategoryRow `json:"tbody"`
}

// CategoryRow is a single table row of [title, code, description] cells.
type CategoryRow struct {
	Body []CategoryCell `json:"body"`
}

// CategoryCell is one table cell.
type CategoryCell struct {
	Value string `json:"value"`
}

// CategoryNone marks a story that belongs to no category.
const CategoryNone = "--"

// Category is a parsed row of the category list.
type Category struct {
	Name string `json:"name"`
	Code string `json:"code"`
	Desc string `json:"desc"`
}

// StaticPage is a standalone CMS page such as the home page.
type StaticPage struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// CategoryGroup is one category of a video catalog and the videos filed under it.
type CategoryGroup struct {
	Name   string       `json:"name"`
	Desc   string       `json:"desc"`
	Videos []VideoEntry `json:"videos"`
}
