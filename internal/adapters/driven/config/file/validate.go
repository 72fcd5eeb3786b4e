package file

import (
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/custodia-labs/cmsbuild/internal/core/domain"
)

// Validate checks the configuration and returns every problem found.
func (c *Config) Validate() error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{domain.ErrInvalidConfig}, args...)...))
	}

	switch c.Source {
	case SourceStoryblok:
	case SourceFixture:
		if c.Fixture.Path == "" {
			add("fixture.path required when source is %q", SourceFixture)
		}
	default:
		add("unknown source %q", c.Source)
	}

	if _, err := domain.ParseVersion(c.Version); err != nil {
		errs = append(errs, fmt.Errorf("version: %w", err))
	}
	if _, err := domain.ParseVersion(c.PageVersion); err != nil {
		errs = append(errs, fmt.Errorf("page_version: %w", err))
	}
	if c.PerPage < 1 || c.PerPage > domain.MaxPerPage {
		add("per_page must be between 1 and %d, got %d", domain.MaxPerPage, c.PerPage)
	}
	if c.Storyblok.Rate < 0 {
		add("storyblok.rate must not be negative")
	}
	if d, err := time.ParseDuration(c.Storyblok.Timeout); err != nil || d <= 0 {
		add("storyblok.timeout %q is not a positive duration", c.Storyblok.Timeout)
	}

	keys := map[string]bool{domain.BuildVersionKey: true}
	claim := func(kind, key string) {
		if key == "" {
			add("%s key required", kind)
			return
		}
		if keys[key] {
			add("duplicate key %q", key)
		}
		keys[key] = true
	}

	for i, col := range c.Collections {
		claim("collection", col.Key)
		if col.Path == "" || col.Path == "." || strings.HasPrefix(path.Clean(col.Path), "..") {
			add("collection %d (%s): path must be a directory under the build root", i, col.Key)
		}
		if col.StartsWith == "" {
			add("collection %s: starts_with required", col.Key)
		}
		if col.Order != "" && col.Order != string(domain.OrderAsc) && col.Order != string(domain.OrderDesc) {
			add("collection %s: unknown order %q", col.Key, col.Order)
		}
		if col.PerPage < 0 || col.PerPage > domain.MaxPerPage {
			add("collection %s: per_page must be between 1 and %d", col.Key, domain.MaxPerPage)
		}
		if _, err := domain.ParseManifestMode(col.Manifest); err != nil {
			errs = append(errs, fmt.Errorf("collection %s: %w", col.Key, err))
		}
		if _, err := domain.ParseArtifactNaming(col.Naming); err != nil {
			errs = append(errs, fmt.Errorf("collection %s: %w", col.Key, err))
		}
		if col.CategoryList != "" && col.Catalog == "" {
			add("collection %s: category_list requires catalog", col.Key)
		}
	}

	for _, p := range c.Pages {
		claim("page", p.Key)
		if p.Name == "" {
			add("page %s: name required", p.Key)
		}
	}

	return errors.Join(errs...)
}
