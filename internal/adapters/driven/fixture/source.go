// Package fixture serves stories from a local JSON file.
//
// The file holds a single {"stories": [...]} document. Stories are selected
// by full_slug prefix, sorted by the query's sort string and paginated the
// way the content delivery API paginates, so offline builds behave like
// live ones.
package fixture

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/custodia-labs/cmsbuild/internal/core/domain"
	"github.com/custodia-labs/cmsbuild/internal/core/ports/driven"
)

// Ensure Source implements the interface.
var _ driven.ContentSource = (*Source)(nil)

// Source is an in-memory content source loaded from a fixture file.
// It is read-only after construction and safe for concurrent use.
type Source struct {
	path    string
	stories []domain.Story
}

// Load reads a fixture file.
func Load(path string) (*Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: fixture %s", domain.ErrNotFound, path)
		}
		return nil, fmt.Errorf("read fixture: %w", err)
	}

	src, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("fixture %s: %w", path, err)
	}
	src.path = path
	return src, nil
}

// Parse builds a source from fixture JSON.
func Parse(data []byte) (*Source, error) {
	var doc domain.StoriesResponse
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	return &Source{stories: doc.Stories}, nil
}

// Path returns the file the source was loaded from.
func (s *Source) Path() string {
	return s.path
}

// Get returns one page of stories whose slug starts with params.StartsWith.
// The slug argument is ignored; every fixture story lives under one endpoint.
func (s *Source) Get(ctx context.Context, _ string, params domain.StoryParams) (*domain.StoriesResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if params.PerPage <= 0 {
		return nil, &domain.InvalidQueryError{Field: "per_page", Value: params.PerPage, Reason: "must be greater than 0"}
	}

	var matched []domain.Story
	for _, story := range s.stories {
		if strings.HasPrefix(slugOf(story), params.StartsWith) {
			matched = append(matched, story)
		}
	}
	sortStories(matched, params.SortBy)

	page := max(params.Page, domain.FirstPage)
	start := (page - 1) * params.PerPage
	if start >= len(matched) {
		return &domain.StoriesResponse{Stories: []domain.Story{}}, nil
	}
	end := min(start+params.PerPage, len(matched))
	return &domain.StoriesResponse{Stories: slices.Clone(matched[start:end])}, nil
}

func slugOf(story domain.Story) string {
	if story.FullSlug != "" {
		return story.FullSlug
	}
	return story.Slug
}

// sortStories orders stories by a "field:direction" string. Unknown fields keep file order.
func sortStories(stories []domain.Story, sortBy string) {
	field, dir, _ := strings.Cut(sortBy, ":")
	if field == "" {
		return
	}
	desc := strings.EqualFold(dir, "desc")

	slices.SortStableFunc(stories, func(a, b domain.Story) int {
		c := compareValues(sortValue(a, field), sortValue(b, field))
		if desc {
			return -c
		}
		return c
	})
}

func sortValue(story domain.Story, field string) string {
	switch field {
	case "created_at":
		return story.CreatedAt
	case "published_at":
		return deref(story.PublishedAt)
	case "first_published_at":
		return deref(story.FirstPublishedAt)
	case "name":
		return story.Name
	case "slug":
		return story.Slug
	case "content.timestamp":
		return story.Content.Timestamp
	case "content.title":
		return story.Content.Title
	default:
		return ""
	}
}

// compareValues compares numerically when both values are numbers.
func compareValues(a, b string) int {
	fa, errA := strconv.ParseFloat(a, 64)
	fb, errB := strconv.ParseFloat(b, 64)
	if errA == nil && errB == nil {
		return cmp.Compare(fa, fb)
	}
	return strings.Compare(a, b)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
