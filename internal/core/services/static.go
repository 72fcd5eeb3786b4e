package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/cmsbuild/internal/core/domain"
	"github.com/custodia-labs/cmsbuild/internal/core/ports/driven"
	"github.com/custodia-labs/cmsbuild/internal/logger"
)

// PageOptions configures a standalone page build.
type PageOptions struct {
	// Root is the build root; pages live under <Root>/standalone.
	Root string

	// Name is the page name under page-data/standalone/.
	Name string

	// Version selects draft or published content.
	Version domain.Version

	// DryRun reports whether the page changed without writing it.
	DryRun bool
}

// StaticPageBuilder renders standalone pages and rewrites them when their source changes.
type StaticPageBuilder struct {
	fetcher  *ContentFetcher
	renderer driven.Renderer
	pages    driven.PageStore
	codec    *Codec
	log      driven.Logger
}

// NewStaticPageBuilder creates a static page builder.
func NewStaticPageBuilder(
	fetcher *ContentFetcher,
	renderer driven.Renderer,
	pages driven.PageStore,
	codec *Codec,
	log driven.Logger,
) *StaticPageBuilder {
	if codec == nil {
		codec = NewCodec("")
	}
	if log == nil {
		log = logger.Nop()
	}
	return &StaticPageBuilder{
		fetcher:  fetcher,
		renderer: renderer,
		pages:    pages,
		codec:    codec,
		log:      log,
	}
}

// Build fetches a page and writes it if it is new or its source hash changed.
// It reports whether the page was (or in a dry run would be) written.
func (b *StaticPageBuilder) Build(ctx context.Context, opts PageOptions) (bool, error) {
	page, err := b.fetcher.FetchPage(ctx, opts.Name, opts.Version)
	if err != nil {
		return false, fmt.Errorf("fetch page %s: %w", opts.Name, err)
	}

	// The hash covers the raw markdown so renderer changes alone do not rewrite pages.
	hash, err := b.codec.ComputeHash(page)
	if err != nil {
		return false, err
	}

	existing, err := b.pages.Read(ctx, opts.Root, opts.Name)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		b.log.Info("create standalone/%s.json", opts.Name)
	case err != nil:
		return false, fmt.Errorf("read page %s: %w", opts.Name, err)
	case existing.Hash == hash:
		return false, nil
	default:
		b.log.Info("upd Static %s page", opts.Name)
	}

	if opts.DryRun {
		return true, nil
	}

	content, err := b.renderer.Render(page.Content)
	if err != nil {
		return false, fmt.Errorf("render page %s: %w", opts.Name, err)
	}

	err = b.pages.Write(ctx, opts.Root, opts.Name, driven.StoredPage{
		Title:   page.Title,
		Content: content,
		Hash:    hash,
	})
	if err != nil {
		return false, fmt.Errorf("write page %s: %w", opts.Name, err)
	}
	return true, nil
}
