package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/cmsbuild/internal/core/domain"
	"github.com/custodia-labs/cmsbuild/internal/core/ports/driven"
	"github.com/custodia-labs/cmsbuild/internal/logger"
)

// CatalogOptions configures a video catalog write.
type CatalogOptions struct {
	// Dir is the build directory the catalog is written to.
	Dir string

	// Name is the catalog file name without extension.
	Name string

	// CategoryList is the story prefix of the category table.
	// When empty the catalog is a flat list of videos.
	CategoryList string
}

// VideoCatalogBuilder writes the public video catalog of a collection.
type VideoCatalogBuilder struct {
	fetcher *ContentFetcher
	store   driven.ArtifactStore
	log     driven.Logger
}

// NewVideoCatalogBuilder creates a catalog builder.
func NewVideoCatalogBuilder(fetcher *ContentFetcher, store driven.ArtifactStore, log driven.Logger) *VideoCatalogBuilder {
	if log == nil {
		log = logger.Nop()
	}
	return &VideoCatalogBuilder{fetcher: fetcher, store: store, log: log}
}

// Write groups entries by category, or lists them flat, and writes <Dir>/<Name>.json.
// The category list is always read from draft content since it is never published.
func (b *VideoCatalogBuilder) Write(ctx context.Context, entries []domain.Entry, opts CatalogOptions) error {
	var catalog any
	if opts.CategoryList != "" {
		categories, err := b.fetcher.FetchCategories(ctx,
			domain.NewQuery(opts.CategoryList, "", domain.VersionDraft))
		if err != nil {
			return fmt.Errorf("fetch category list: %w", err)
		}
		groups, err := GroupByCategory(entries, categories)
		if err != nil {
			return err
		}
		catalog = groups
	} else {
		videos := make([]domain.VideoEntry, 0, len(entries))
		for i := range entries {
			videos = append(videos, entries[i].ToVideoEntry())
		}
		catalog = videos
	}

	data, err := encodeJSON(catalog, "  ")
	if err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}

	file := opts.Name + ".json"
	b.log.Debug("create %s/%s", opts.Dir, file)
	return b.store.Write(ctx, opts.Dir, file, data)
}

// GroupByCategory files entries under their category in category list order.
// Categories sharing a name are merged; categories without entries are omitted.
// Returns an error matching domain.ErrUnknownCategory if any entry is left unfiled.
func GroupByCategory(entries []domain.Entry, categories []domain.Category) ([]domain.CategoryGroup, error) {
	var groups []domain.CategoryGroup
	byName := make(map[string]int)
	filed := 0

	for _, cat := range categories {
		var videos []domain.VideoEntry
		for i := range entries {
			if entries[i].Category == cat.Code {
				videos = append(videos, entries[i].ToVideoEntry())
			}
		}
		if len(videos) == 0 {
			continue
		}

		idx, ok := byName[cat.Name]
		if !ok {
			idx = len(groups)
			byName[cat.Name] = idx
			groups = append(groups, domain.CategoryGroup{Name: cat.Name, Desc: cat.Desc})
		}
		groups[idx].Videos = append(groups[idx].Videos, videos...)
		filed += len(videos)
	}

	if filed != len(entries) {
		return nil, fmt.Errorf("%w: %d of %d videos filed", domain.ErrUnknownCategory, filed, len(entries))
	}
	return groups, nil
}
