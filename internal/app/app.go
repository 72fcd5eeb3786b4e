// Package app wires the configured adapters into the build services.
package app

import (
	"errors"
	"fmt"
	"sync"

	configfile "github.com/custodia-labs/cmsbuild/internal/adapters/driven/config/file"
	"github.com/custodia-labs/cmsbuild/internal/adapters/driven/fixture"
	"github.com/custodia-labs/cmsbuild/internal/adapters/driven/lock"
	"github.com/custodia-labs/cmsbuild/internal/adapters/driven/markdown"
	"github.com/custodia-labs/cmsbuild/internal/adapters/driven/storage/file"
	"github.com/custodia-labs/cmsbuild/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/cmsbuild/internal/adapters/driven/storyblok"
	"github.com/custodia-labs/cmsbuild/internal/core/ports/driven"
	"github.com/custodia-labs/cmsbuild/internal/core/ports/driving"
	"github.com/custodia-labs/cmsbuild/internal/core/services"
	"github.com/custodia-labs/cmsbuild/internal/logger"
)

// App owns the adapters behind one configuration.
// Services are created on first use so commands only open what they need.
type App struct {
	cfg *configfile.Config
	log driven.Logger

	mu      sync.Mutex
	history *sqlite.Store
	batch   *services.BatchRunner
}

// Open loads the config at path and creates an App for it.
func Open(path string, log driven.Logger) (*App, error) {
	cfg, err := configfile.Load(path)
	if err != nil {
		return nil, err
	}
	return New(cfg, log), nil
}

// New creates an App for cfg.
func New(cfg *configfile.Config, log driven.Logger) *App {
	if log == nil {
		log = logger.Nop()
	}
	return &App{cfg: cfg, log: log}
}

// Config returns the loaded configuration.
func (a *App) Config() *configfile.Config {
	return a.cfg
}

// Batch returns the batch runner, creating the content source on first call.
func (a *App) Batch() (driving.BatchRunner, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.batch != nil {
		return a.batch, nil
	}

	source, err := NewSource(a.cfg)
	if err != nil {
		return nil, err
	}
	runs, err := a.runStore()
	if err != nil && !a.cfg.History.Disabled {
		a.log.Warn("Build history unavailable: %v", err)
	}

	renderer := markdown.New()
	codec := services.NewCodec(services.DefaultHashKey)
	artifacts := file.NewArtifactStore()

	fetcher := services.NewContentFetcher(source, renderer, codec, a.log)
	manifests := services.NewManifestStore(file.NewManifestStore(), codec, a.log)
	builder := services.NewBuildOrchestrator(fetcher, manifests, lock.NewFileLocker(), a.log)

	a.batch = services.NewBatchRunner(
		builder,
		services.NewVideoCatalogBuilder(fetcher, artifacts, a.log),
		services.NewStaticPageBuilder(fetcher, renderer, file.NewPageStore(), codec, a.log),
		artifacts,
		file.NewVersionStore(),
		runs,
		services.BatchConfig{
			Collections: a.cfg.BuildCollections(),
			Pages:       a.cfg.PageSpecs(),
			Version:     a.cfg.ContentVersion(),
			PageVersion: a.cfg.PageContentVersion(),
		},
		a.log,
	)
	return a.batch, nil
}

// History returns the build history service.
func (a *App) History() (driving.HistoryService, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	runs, err := a.runStore()
	if err != nil {
		return nil, err
	}
	return services.NewHistoryService(runs), nil
}

// WatchPaths lists the files whose changes should trigger a rebuild.
func (a *App) WatchPaths() []string {
	var paths []string
	if p := a.cfg.Path(); p != "" {
		paths = append(paths, p)
	}
	if a.cfg.Source == configfile.SourceFixture {
		paths = append(paths, a.cfg.FixturePath())
	}
	return paths
}

// Close releases the history database.
func (a *App) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.history == nil {
		return nil
	}
	err := a.history.Close()
	a.history = nil
	return err
}

// runStore opens the history database once. Caller must hold mu.
func (a *App) runStore() (driven.BuildRunStore, error) {
	if a.cfg.History.Disabled {
		return nil, errors.New("history disabled in config")
	}
	if a.history == nil {
		store, err := sqlite.NewStore(a.cfg.HistoryDir())
		if err != nil {
			return nil, fmt.Errorf("open history: %w", err)
		}
		a.history = store
	}
	return a.history.BuildRunStore(), nil
}

// NewSource creates the content source selected by cfg.
func NewSource(cfg *configfile.Config) (driven.ContentSource, error) {
	switch cfg.Source {
	case configfile.SourceFixture:
		src, err := fixture.Load(cfg.FixturePath())
		if err != nil {
			return nil, err
		}
		return src, nil
	case configfile.SourceStoryblok:
		client, err := storyblok.NewClient(storyblok.Config{
			Token:   cfg.Storyblok.Token,
			BaseURL: cfg.Storyblok.BaseURL,
			Rate:    cfg.Storyblok.Rate,
			Timeout: cfg.Timeout(),
		})
		if err != nil {
			return nil, fmt.Errorf("%w (set %s)", err, configfile.EnvStoryblokToken)
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unknown source %q", cfg.Source)
	}
}
