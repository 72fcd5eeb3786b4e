package services

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/cmsbuild/internal/core/domain"
	"github.com/custodia-labs/cmsbuild/internal/core/ports/driven"
	"github.com/custodia-labs/cmsbuild/internal/logger"
)

// DefaultWriteConcurrency bounds concurrent artifact writes within one build.
const DefaultWriteConcurrency = 8

// BootstrapOptions configures the first build of a build path.
type BootstrapOptions struct {
	// Path is the absolute build directory.
	Path string

	// Name is the manifest file name without extension.
	Name string

	// Mode selects the manifest projection.
	Mode domain.ManifestMode

	// CanSave creates the directory and persists the manifest.
	// When false nothing is written by the store.
	CanSave bool

	// OnAdded is called once per entry and awaited before the manifest is persisted.
	OnAdded func(ctx context.Context, entry domain.Entry) error
}

// ManifestStore loads manifests and bootstraps them on first build.
type ManifestStore struct {
	repo        driven.ManifestRepository
	codec       *Codec
	log         driven.Logger
	concurrency int
}

// NewManifestStore creates a manifest store over repo.
// A nil codec selects the default hash key; a nil log discards messages.
func NewManifestStore(repo driven.ManifestRepository, codec *Codec, log driven.Logger) *ManifestStore {
	if codec == nil {
		codec = NewCodec("")
	}
	if log == nil {
		log = logger.Nop()
	}
	return &ManifestStore{
		repo:        repo,
		codec:       codec,
		log:         log,
		concurrency: DefaultWriteConcurrency,
	}
}

// Load reads the manifest stored under path.
// Returns an error matching domain.ErrNotFound if none exists yet;
// every other failure is a *domain.ManifestIOError.
func (s *ManifestStore) Load(ctx context.Context, path, name string) (domain.Manifest, error) {
	data, err := s.repo.Read(ctx, path, name)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if err != nil {
		var ioErr *domain.ManifestIOError
		if errors.As(err, &ioErr) {
			return nil, err
		}
		return nil, &domain.ManifestIOError{Op: "read", Path: s.repo.Location(path, name), Err: err}
	}

	manifest, err := s.codec.Deserialize(data)
	if err != nil {
		return nil, &domain.ManifestIOError{Op: "decode", Path: s.repo.Location(path, name), Err: err}
	}
	return manifest, nil
}

// Bootstrap creates the first manifest for entries.
// Every entry is passed to OnAdded and all side effects complete
// before the projected manifest is persisted.
func (s *ManifestStore) Bootstrap(
	ctx context.Context,
	entries []domain.Entry,
	opts BootstrapOptions,
) (domain.Manifest, error) {
	if opts.CanSave {
		if err := s.repo.EnsureDir(ctx, opts.Path); err != nil {
			return nil, &domain.ManifestIOError{Op: "mkdir", Path: opts.Path, Err: err}
		}
	}

	if opts.OnAdded != nil {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(s.concurrency)
		for i := range entries {
			entry := entries[i]
			g.Go(func() error {
				return opts.OnAdded(gctx, entry)
			})
		}
		if err := g.Wait(); err != nil {
			return nil, fmt.Errorf("bootstrap %s: %w", opts.Path, err)
		}
	}

	manifest := opts.Mode.ProjectAll(entries)
	if !opts.CanSave {
		return manifest, nil
	}

	if err := s.write(ctx, opts.Path, opts.Name, manifest); err != nil {
		return nil, err
	}
	s.log.Info("Created manifest %s (%d entries)", s.repo.Location(opts.Path, opts.Name), len(manifest))
	return manifest, nil
}

// Save replaces the manifest under path.
func (s *ManifestStore) Save(ctx context.Context, path, name string, manifest domain.Manifest) error {
	return s.write(ctx, path, name, manifest)
}

func (s *ManifestStore) write(ctx context.Context, path, name string, manifest domain.Manifest) error {
	data, err := s.codec.Serialize(manifest)
	if err != nil {
		return err
	}
	if err := s.repo.Write(ctx, path, name, data); err != nil {
		var ioErr *domain.ManifestIOError
		if errors.As(err, &ioErr) {
			return err
		}
		return &domain.ManifestIOError{Op: "write", Path: s.repo.Location(path, name), Err: err}
	}
	return nil
}

// Location returns the manifest file location for path and name.
func (s *ManifestStore) Location(path, name string) string {
	return s.repo.Location(path, name)
}
