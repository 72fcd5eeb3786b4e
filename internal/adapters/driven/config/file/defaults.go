package file

// DefaultCollections returns the built-in collections.
func DefaultCollections() []CollectionConfig {
	return []CollectionConfig{
		{
			Key:        "pubBlog",
			Path:       "blog/public",
			StartsWith: "page-data/blog/public/",
			SortBy:     "first_published_at:asc",
			Order:      "desc",
			Artifacts:  true,
		},
		{
			Key:        "r3dBlog",
			Path:       "blog/red33m",
			StartsWith: "page-data/blog/red33m/",
			SortBy:     "first_published_at:asc",
			Order:      "desc",
			Artifacts:  true,
		},
		{
			Key:        "chglog",
			Path:       "changelog",
			StartsWith: "page-data/changelog/",
			SortBy:     "created_at:desc",
			Order:      "desc",
			Artifacts:  true,
		},
		{
			Key:        "pubLit",
			Path:       "literature/public",
			StartsWith: "page-data/literature/public/",
			SortBy:     "first_published_at:asc",
			Order:      "asc",
			Artifacts:  true,
		},
		{
			Key:        "r3dLit",
			Path:       "literature/red33m",
			StartsWith: "page-data/literature/red33m/",
			SortBy:     "first_published_at:asc",
			Order:      "asc",
			Artifacts:  true,
		},
		{
			Key:          "pubVid",
			Path:         "videos/public",
			StartsWith:   "page-data/videos/public/",
			SortBy:       "content.timestamp:asc",
			Order:        "asc",
			Manifest:     "hash",
			ManifestName: "publicManifest",
			Catalog:      "public",
			CategoryList: "utils/category-list",
		},
		{
			Key:          "r3dVid",
			Path:         "videos/red33m",
			StartsWith:   "page-data/videos/red33m/",
			SortBy:       "content.timestamp:asc",
			Order:        "asc",
			Manifest:     "hash",
			ManifestName: "red33mManifest",
			Catalog:      "red33m",
		},
	}
}

// DefaultPages returns the built-in standalone pages.
func DefaultPages() []PageConfig {
	return []PageConfig{{Key: "home", Name: "home"}}
}
