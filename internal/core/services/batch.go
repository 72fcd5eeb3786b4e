package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/cmsbuild/internal/core/domain"
	"github.com/custodia-labs/cmsbuild/internal/core/ports/driven"
	"github.com/custodia-labs/cmsbuild/internal/core/ports/driving"
	"github.com/custodia-labs/cmsbuild/internal/logger"
)

// Ensure BatchRunner implements the interface.
var _ driving.BatchRunner = (*BatchRunner)(nil)

// BatchConfig lists what a batch builds.
type BatchConfig struct {
	// Collections are built in order.
	Collections []domain.Collection

	// Pages are built after every collection.
	Pages []domain.PageSpec

	// Version selects draft or published content for collections.
	Version domain.Version

	// PageVersion selects the content version of standalone pages.
	PageVersion domain.Version
}

// BatchRunner builds every collection and page under a root, isolating failures
// and keeping versions.json current.
type BatchRunner struct {
	builder   driving.Builder
	catalogs  *VideoCatalogBuilder
	pages     *StaticPageBuilder
	artifacts driven.ArtifactStore
	versions  driven.VersionStore
	runs      driven.BuildRunStore
	cfg       BatchConfig
	log       driven.Logger
	now       func() time.Time
}

// NewBatchRunner creates a batch runner.
// The runs store is optional - if nil, build history is not recorded.
func NewBatchRunner(
	builder driving.Builder,
	catalogs *VideoCatalogBuilder,
	pages *StaticPageBuilder,
	artifacts driven.ArtifactStore,
	versions driven.VersionStore,
	runs driven.BuildRunStore,
	cfg BatchConfig,
	log driven.Logger,
) *BatchRunner {
	if log == nil {
		log = logger.Nop()
	}
	return &BatchRunner{
		builder:   builder,
		catalogs:  catalogs,
		pages:     pages,
		artifacts: artifacts,
		versions:  versions,
		runs:      runs,
		cfg:       cfg,
		log:       log,
		now:       time.Now,
	}
}

// Run builds the selected collections sequentially, then the selected pages.
// A failure is logged and recorded, and the batch moves on; all failures are
// returned joined. Version stamps change only for units that succeeded.
func (r *BatchRunner) Run(ctx context.Context, opts driving.BatchOptions) (*domain.BatchReport, error) {
	if opts.Root == "" {
		return nil, fmt.Errorf("%w: build root required", domain.ErrInvalidInput)
	}
	if err := r.checkOnly(opts.Only); err != nil {
		return nil, err
	}

	root, err := filepath.Abs(opts.Root)
	if err != nil {
		return nil, fmt.Errorf("resolve build root: %w", err)
	}

	versions, err := r.versions.Load(ctx, root)
	if err != nil {
		return nil, fmt.Errorf("load versions: %w", err)
	}
	if versions == nil {
		versions = domain.Versions{}
	}
	versions.Reconcile(r.versionKeys())

	report := &domain.BatchReport{Root: root, Versions: versions}
	var errs []error

	for _, c := range r.cfg.Collections {
		if !selected(opts.Only, c.Key) {
			continue
		}
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		r.log.Info("PARSING %s", c.Key)
		run, result, err := r.runCollection(ctx, root, c, opts.DryRun)
		if err != nil {
			r.log.Error("%s: %v", c.Key, err)
			errs = append(errs, fmt.Errorf("%s: %w", c.Key, err))
		} else {
			stamp := versions[c.Key]
			if result.Updated {
				stamp.V = domain.ContentVersion(r.now())
			}
			if newest := c.NewestDate(result.Entries); newest != "" {
				stamp.N = newest
			}
			versions[c.Key] = stamp
		}
		r.record(ctx, run, opts.DryRun)
		report.Runs = append(report.Runs, run)
	}

	for _, p := range r.cfg.Pages {
		if !selected(opts.Only, p.Key) || ctx.Err() != nil {
			continue
		}

		run, updated, err := r.runPage(ctx, root, p, opts.DryRun)
		if err != nil {
			r.log.Error("%s: %v", p.Key, err)
			errs = append(errs, fmt.Errorf("%s: %w", p.Key, err))
		} else if updated {
			stamp := versions[p.Key]
			stamp.V = domain.ContentVersion(r.now())
			versions[p.Key] = stamp
		}
		r.record(ctx, run, opts.DryRun)
		report.Runs = append(report.Runs, run)
	}

	build := versions[domain.BuildVersionKey]
	build.V = domain.BatchVersion(r.now())
	versions[domain.BuildVersionKey] = build

	if !opts.DryRun {
		if err := r.versions.Save(ctx, root, versions); err != nil {
			errs = append(errs, fmt.Errorf("save versions: %w", err))
		}
	}

	return report, errors.Join(errs...)
}

func (r *BatchRunner) runCollection(
	ctx context.Context,
	root string,
	c domain.Collection,
	dryRun bool,
) (domain.BuildRun, *domain.BuildResult, error) {
	dir := filepath.Join(root, c.Path)
	run := r.newRun(c.Key, dir)

	opts := domain.BuildOptions{
		BuildPath:    dir,
		ManifestName: c.ManifestName,
		Query:        c.Query(r.cfg.Version),
		Mode:         c.Mode,
		DryRun:       dryRun,
	}
	if c.Artifacts && !dryRun {
		opts.Handlers = NewArtifactHandlers(r.artifacts, ArtifactOptions{
			Dir:       dir,
			Naming:    c.Naming,
			Extension: c.Extension,
		}, r.log)
	}

	result, err := r.builder.Build(ctx, opts)
	if err == nil && c.Catalog != "" && result.Updated && !dryRun {
		err = r.catalogs.Write(ctx, result.Entries, CatalogOptions{
			Dir:          dir,
			Name:         c.Catalog,
			CategoryList: c.CategoryList,
		})
	}

	r.finish(&run, err)
	if err != nil {
		return run, nil, err
	}
	run.Added = result.Added
	run.Changed = result.Changed
	run.Deleted = result.Deleted
	run.Updated = result.Updated
	run.Bootstrapped = result.Bootstrapped
	return run, result, nil
}

func (r *BatchRunner) runPage(ctx context.Context, root string, p domain.PageSpec, dryRun bool) (domain.BuildRun, bool, error) {
	run := r.newRun(p.Key, filepath.Join(root, "standalone"))

	version := r.cfg.PageVersion
	if version == "" {
		version = domain.VersionDraft
	}
	updated, err := r.pages.Build(ctx, PageOptions{
		Root:    root,
		Name:    p.Name,
		Version: version,
		DryRun:  dryRun,
	})

	r.finish(&run, err)
	run.Updated = updated
	return run, updated, err
}

func (r *BatchRunner) newRun(key, dir string) domain.BuildRun {
	return domain.BuildRun{
		ID:            uuid.NewString(),
		CollectionKey: key,
		BuildPath:     dir,
		StartedAt:     r.now(),
	}
}

func (r *BatchRunner) finish(run *domain.BuildRun, err error) {
	run.Duration = r.now().Sub(run.StartedAt)
	if err != nil {
		run.Error = err.Error()
	}
}

// record persists a run. History is best effort and never fails a batch.
func (r *BatchRunner) record(ctx context.Context, run domain.BuildRun, dryRun bool) {
	if r.runs == nil || dryRun {
		return
	}
	if err := r.runs.Save(ctx, run); err != nil {
		r.log.Warn("Failed to record build run for %s: %v", run.CollectionKey, err)
	}
}

func (r *BatchRunner) versionKeys() []string {
	keys := []string{domain.BuildVersionKey}
	for _, c := range r.cfg.Collections {
		keys = append(keys, c.Key)
	}
	for _, p := range r.cfg.Pages {
		keys = append(keys, p.Key)
	}
	return keys
}

func (r *BatchRunner) checkOnly(only []string) error {
	known := r.versionKeys()
	for _, key := range only {
		if key == domain.BuildVersionKey || !slices.Contains(known, key) {
			return fmt.Errorf("%w: unknown collection %q", domain.ErrInvalidInput, key)
		}
	}
	return nil
}

func selected(only []string, key string) bool {
	return len(only) == 0 || slices.Contains(only, key)
}
