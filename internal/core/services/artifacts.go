package services

import (
	"context"
	"path/filepath"

	"github.com/custodia-labs/cmsbuild/internal/core/domain"
	"github.com/custodia-labs/cmsbuild/internal/core/ports/driven"
	"github.com/custodia-labs/cmsbuild/internal/logger"
)

// DefaultArtifactExtension is used when a collection names no extension.
const DefaultArtifactExtension = "mdhtml"

// titleLogWidth limits titles in artifact log lines.
const titleLogWidth = 30

// ArtifactOptions configures body artifact handlers.
type ArtifactOptions struct {
	// Dir is the build directory artifacts are written to.
	Dir string

	// Naming selects id or slug file names.
	Naming domain.ArtifactNaming

	// Extension is the file extension without the dot.
	Extension string
}

// NewArtifactHandlers returns change handlers that write rendered bodies
// on add and update, and remove them on delete.
// An entry without a body fails with *domain.MissingBodyError.
// Deleting an artifact that does not exist is not an error.
func NewArtifactHandlers(store driven.ArtifactStore, opts ArtifactOptions, log driven.Logger) domain.ChangeHandlers {
	if log == nil {
		log = logger.Nop()
	}
	ext := opts.Extension
	if ext == "" {
		ext = DefaultArtifactExtension
	}
	fileName := func(id domain.EntryID, title string) string {
		return opts.Naming.Identity(id, title) + "." + ext
	}

	save := func(ctx context.Context, e domain.Entry) error {
		if !e.HasBody() {
			return &domain.MissingBodyError{ID: e.ID, Title: e.Title}
		}
		file := fileName(e.ID, e.Title)
		log.Debug("create /%s/%s (%s)", filepath.Base(opts.Dir), file, domain.FitTitle(e.Title, titleLogWidth))
		return store.Write(ctx, opts.Dir, file, []byte(e.Body))
	}

	return domain.ChangeHandlers{
		OnAdded:   save,
		OnUpdated: save,
		OnDeleted: func(ctx context.Context, e domain.ManifestEntry) error {
			file := fileName(e.ID, e.Title)
			log.Debug("delete /%s/%s", filepath.Base(opts.Dir), file)
			return store.Delete(ctx, opts.Dir, file)
		},
		Target: opts.Naming.Identity,
	}
}
