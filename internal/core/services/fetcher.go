package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/cmsbuild/internal/core/domain"
	"github.com/custodia-labs/cmsbuild/internal/core/ports/driven"
	"github.com/custodia-labs/cmsbuild/internal/logger"
)

// StandalonePrefix is the story path holding standalone pages.
const StandalonePrefix = "page-data/standalone/"

// ContentFetcher retrieves stories from a content source and maps them into entries.
type ContentFetcher struct {
	source   driven.ContentSource
	renderer driven.Renderer
	codec    *Codec
	log      driven.Logger
}

// NewContentFetcher creates a fetcher.
// A nil codec selects the default hash key; a nil log discards messages.
func NewContentFetcher(
	source driven.ContentSource,
	renderer driven.Renderer,
	codec *Codec,
	log driven.Logger,
) *ContentFetcher {
	if codec == nil {
		codec = NewCodec("")
	}
	if log == nil {
		log = logger.Nop()
	}
	return &ContentFetcher{
		source:   source,
		renderer: renderer,
		codec:    codec,
		log:      log,
	}
}

// FetchAll returns every entry matching q in fetch order.
// Returns *domain.EmptySourceError if no page holds any story.
func (f *ContentFetcher) FetchAll(ctx context.Context, q domain.Query) ([]domain.Entry, error) {
	stories, err := f.FetchStories(ctx, q)
	if err != nil {
		return nil, err
	}

	entries := make([]domain.Entry, 0, len(stories))
	for i := range stories {
		entry, err := f.ToEntry(stories[i])
		if err != nil {
			return nil, fmt.Errorf("map story %d: %w", stories[i].ID, err)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// FetchStories returns the raw stories matching q.
// Full pages advance to the next page; a short page ends the scan.
// A query page of domain.NoScan fetches the first page only.
func (f *ContentFetcher) FetchStories(ctx context.Context, q domain.Query) ([]domain.Story, error) {
	if f.source == nil {
		return nil, errors.New("content source not configured")
	}
	if err := q.Validate(); err != nil {
		return nil, err
	}

	slug := q.Slug
	if slug == "" {
		slug = domain.DefaultSlug
	}

	page := q.Page
	scan := page != domain.NoScan
	if !scan {
		page = domain.FirstPage
	}

	var stories []domain.Story
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		resp, err := f.source.Get(ctx, slug, q.Params(page))
		if err != nil {
			return nil, fmt.Errorf("fetch %s page %d: %w", q.StartsWith, page, err)
		}

		var batch []domain.Story
		if resp != nil {
			batch = resp.Stories
		}
		stories = append(stories, batch...)
		f.log.Debug("Fetched %d stories from %s (page %d)", len(batch), q.StartsWith, page)

		if !scan || len(batch) < q.PerPage {
			break
		}
		page++
	}

	if len(stories) == 0 {
		return nil, &domain.EmptySourceError{StartsWith: q.StartsWith}
	}
	return stories, nil
}

// ToEntry maps a raw story into a rendered, hashed entry.
// A story without a title or author is rejected with *domain.InvalidEntryError.
func (f *ContentFetcher) ToEntry(story domain.Story) (domain.Entry, error) {
	content := story.Content

	entry := domain.Entry{
		ID:     domain.NumericID(story.ID),
		Title:  content.Title,
		Author: content.Author,
		Date:   resolveDate(story),
	}
	if content.ID != "" {
		entry.ID = domain.StringID(content.ID)
	}
	switch {
	case entry.Title == "":
		return domain.Entry{}, &domain.InvalidEntryError{ID: entry.ID, Field: "title"}
	case entry.Author == "":
		return domain.Entry{}, &domain.InvalidEntryError{ID: entry.ID, Field: "author"}
	}

	if content.Summary != "" {
		summary, err := f.render(content.Summary, true)
		if err != nil {
			return domain.Entry{}, fmt.Errorf("render summary: %w", err)
		}
		entry.Summary = summary
	}

	if content.Body != "" {
		body, err := f.render(content.Body, false)
		if err != nil {
			return domain.Entry{}, fmt.Errorf("render body: %w", err)
		}
		entry.Body = body
	}

	if content.Category != "" && content.Category != domain.CategoryNone {
		entry.Category = content.Category
	}

	hash, err := f.codec.HashEntry(entry)
	if err != nil {
		return domain.Entry{}, err
	}
	entry.Hash = hash
	return entry, nil
}

// FetchCategories reads the category table of the first story matching q.
// Each row holds [title, code, description] cells.
func (f *ContentFetcher) FetchCategories(ctx context.Context, q domain.Query) ([]domain.Category, error) {
	stories, err := f.FetchStories(ctx, q)
	if err != nil {
		return nil, err
	}

	table := stories[0].Content.Categories
	if table == nil || len(table.TBody) == 0 {
		return nil, &domain.NoCategoriesFoundError{StartsWith: q.StartsWith}
	}

	categories := make([]domain.Category, 0, len(table.TBody))
	for _, row := range table.TBody {
		categories = append(categories, domain.Category{
			Name: cell(row, 0),
			Code: cell(row, 1),
			Desc: cell(row, 2),
		})
	}
	return categories, nil
}

// FetchPage returns the raw title and markdown of a standalone page.
func (f *ContentFetcher) FetchPage(ctx context.Context, name string, version domain.Version) (*domain.StaticPage, error) {
	q := domain.NewQuery(StandalonePrefix+name, "created_at:asc", version)
	q.Page = domain.NoScan

	stories, err := f.FetchStories(ctx, q)
	if err != nil {
		return nil, err
	}

	return &domain.StaticPage{
		Title:   stories[0].Content.Title,
		Content: stories[0].Content.Body,
	}, nil
}

func (f *ContentFetcher) render(markdown string, inline bool) (string, error) {
	if f.renderer == nil {
		return "", errors.New("renderer not configured")
	}
	if inline {
		return f.renderer.RenderInline(markdown)
	}
	return f.renderer.Render(markdown)
}

// resolveDate prefers the content timestamp, then first publication, then creation.
func resolveDate(story domain.Story) string {
	if story.Content.Timestamp != "" {
		return story.Content.Timestamp
	}
	if story.FirstPublishedAt != nil && *story.FirstPublishedAt != "" {
		return *story.FirstPublishedAt
	}
	return story.CreatedAt
}

func cell(row domain.CategoryRow, i int) string {
	if i < len(row.Body) {
		return row.Body[i].Value
	}
	return ""
}
