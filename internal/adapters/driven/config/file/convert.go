package file

import (
	"github.com/custodia-labs/cmsbuild/internal/core/domain"
)

// ContentVersion returns the parsed collection content version.
func (c *Config) ContentVersion() domain.Version {
	v, err := domain.ParseVersion(c.Version)
	if err != nil {
		return domain.VersionPublished
	}
	return v
}

// PageContentVersion returns the parsed standalone page version.
func (c *Config) PageContentVersion() domain.Version {
	v, err := domain.ParseVersion(c.PageVersion)
	if err != nil {
		return domain.VersionDraft
	}
	return v
}

// BuildCollections converts the configured collections into domain collections.
// Config must have passed Validate.
func (c *Config) BuildCollections() []domain.Collection {
	out := make([]domain.Collection, 0, len(c.Collections))
	for _, col := range c.Collections {
		mode, _ := domain.ParseManifestMode(col.Manifest)
		naming, _ := domain.ParseArtifactNaming(col.Naming)

		perPage := col.PerPage
		if perPage == 0 {
			perPage = c.PerPage
		}
		order := domain.DateOrder(col.Order)
		if order == "" {
			order = domain.OrderAsc
		}

		out = append(out, domain.Collection{
			Key:          col.Key,
			Path:         col.Path,
			StartsWith:   col.StartsWith,
			SortBy:       col.SortBy,
			Order:        order,
			PerPage:      perPage,
			Mode:         mode,
			ManifestName: col.ManifestName,
			Artifacts:    col.Artifacts,
			Extension:    col.Extension,
			Naming:       naming,
			Catalog:      col.Catalog,
			CategoryList: col.CategoryList,
		})
	}
	return out
}

// PageSpecs converts the configured pages into domain page specs.
func (c *Config) PageSpecs() []domain.PageSpec {
	out := make([]domain.PageSpec, 0, len(c.Pages))
	for _, p := range c.Pages {
		out = append(out, domain.PageSpec{Key: p.Key, Name: p.Name})
	}
	return out
}
