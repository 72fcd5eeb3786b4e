package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/cmsbuild/internal/core/domain"
	"github.com/custodia-labs/cmsbuild/internal/core/ports/driven"
	"github.com/custodia-labs/cmsbuild/internal/core/ports/driving"
	"github.com/custodia-labs/cmsbuild/internal/logger"
)

// Ensure BuildOrchestrator implements the interface.
var _ driving.Builder = (*BuildOrchestrator)(nil)

// BuildOrchestrator runs incremental builds: fetch, load or bootstrap the
// manifest, detect changes, apply side effects, rewrite the manifest.
type BuildOrchestrator struct {
	fetcher     *ContentFetcher
	store       *ManifestStore
	locker      driven.PathLocker
	log         driven.Logger
	concurrency int
}

// NewBuildOrchestrator creates a build orchestrator.
// The locker is optional - if nil, callers must serialise builds per path.
func NewBuildOrchestrator(
	fetcher *ContentFetcher,
	store *ManifestStore,
	locker driven.PathLocker,
	log driven.Logger,
) *BuildOrchestrator {
	if log == nil {
		log = logger.Nop()
	}
	return &BuildOrchestrator{
		fetcher:     fetcher,
		store:       store,
		locker:      locker,
		log:         log,
		concurrency: DefaultWriteConcurrency,
	}
}

// Build runs one incremental build.
// Every side effect completes before the manifest is written; any failure
// aborts the build and leaves the previous manifest untouched.
func (b *BuildOrchestrator) Build(ctx context.Context, opts domain.BuildOptions) (*domain.BuildResult, error) {
	if opts.BuildPath == "" {
		return nil, fmt.Errorf("%w: build path required", domain.ErrInvalidInput)
	}
	if b.fetcher == nil || b.store == nil {
		return nil, errors.New("build orchestrator not configured")
	}

	path, err := filepath.Abs(opts.BuildPath)
	if err != nil {
		return nil, fmt.Errorf("resolve build path: %w", err)
	}
	name := opts.ManifestName
	if name == "" {
		name = filepath.Base(path)
	}

	if b.locker != nil && !opts.DryRun {
		lock, err := b.locker.TryLock(path)
		if err != nil {
			return nil, err
		}
		defer func() {
			if err := lock.Unlock(); err != nil {
				b.log.Warn("Failed to release lock for %s: %v", path, err)
			}
		}()
	}

	entries, err := b.fetcher.FetchAll(ctx, opts.Query)
	if err != nil {
		return nil, err
	}
	claimed, err := claimTargets(entries, opts.Handlers.Target)
	if err != nil {
		return nil, err
	}

	result := &domain.BuildResult{
		ManifestPath: b.store.Location(path, name),
		Entries:      entries,
	}

	old, err := b.store.Load(ctx, path, name)
	if errors.Is(err, domain.ErrNotFound) {
		b.log.Debug("No manifest at %s, bootstrapping", result.ManifestPath)
		_, err = b.store.Bootstrap(ctx, entries, BootstrapOptions{
			Path:    path,
			Name:    name,
			Mode:    opts.Mode,
			CanSave: !opts.DryRun,
			OnAdded: opts.Handlers.OnAdded,
		})
		if err != nil {
			return nil, err
		}
		result.Bootstrapped = true
		result.Updated = true
		result.Added = len(entries)
		return result, nil
	}
	if err != nil {
		return nil, err
	}

	if err := b.applyChanges(ctx, old, entries, opts.Handlers, claimed, result); err != nil {
		return nil, err
	}

	result.Updated = result.Added > 0 || result.Changed > 0 || result.Deleted > 0
	if result.Updated && !opts.DryRun {
		if err := b.store.Save(ctx, path, name, opts.Mode.ProjectAll(entries)); err != nil {
			return nil, err
		}
		b.log.Debug("Rewrote manifest %s", result.ManifestPath)
	}
	return result, nil
}

// applyChanges runs all three detectors, then applies their side effects in
// two waves: deletions first, then adds and updates. A write never races a
// delete of the same target.
func (b *BuildOrchestrator) applyChanges(
	ctx context.Context,
	old domain.Manifest,
	latest []domain.Entry,
	handlers domain.ChangeHandlers,
	claimed map[string]domain.EntryID,
	result *domain.BuildResult,
) error {
	var removals, writes []func(context.Context) error
	var added, changed, deleted int

	isClaimed := func(id domain.EntryID, title string) bool {
		if handlers.Target == nil {
			return false
		}
		_, ok := claimed[handlers.Target(id, title)]
		return ok
	}

	DetectAdded(old, latest, func(e domain.Entry) {
		added++
		b.log.Info("%s %s/%s", domain.ChangeAdded, e.Hash, e.Title)
		if handlers.OnAdded != nil {
			writes = append(writes, func(ctx context.Context) error { return handlers.OnAdded(ctx, e) })
		}
	})

	index := manifestIndex(old)
	DetectUpdated(old, latest, func(e domain.Entry) {
		changed++
		prev := index[e.ID.String()]
		b.log.Info("%s (%s => %s)/%s", domain.ChangeUpdated, prev.Hash, e.Hash, e.Title)
		if handlers.OnUpdated != nil {
			writes = append(writes, func(ctx context.Context) error { return handlers.OnUpdated(ctx, e) })
		}
		if handlers.OnDeleted != nil && handlers.Target != nil &&
			handlers.Target(prev.ID, prev.Title) != handlers.Target(e.ID, e.Title) &&
			!isClaimed(prev.ID, prev.Title) {
			b.log.Debug("Retitled %s, dropping %s", e.ID, handlers.Target(prev.ID, prev.Title))
			removals = append(removals, func(ctx context.Context) error { return handlers.OnDeleted(ctx, prev) })
		}
	})

	DetectDeleted(old, latest, func(e domain.ManifestEntry) {
		deleted++
		b.log.Warn("%s %s/%s", domain.ChangeDeleted, e.Hash, e.Title)
		if handlers.OnDeleted == nil {
			return
		}
		if isClaimed(e.ID, e.Title) {
			b.log.Debug("Keeping %s, claimed by a latest entry", handlers.Target(e.ID, e.Title))
			return
		}
		removals = append(removals, func(ctx context.Context) error { return handlers.OnDeleted(ctx, e) })
	})

	if err := b.runAll(ctx, removals); err != nil {
		return fmt.Errorf("apply deletions: %w", err)
	}
	if err := b.runAll(ctx, writes); err != nil {
		return fmt.Errorf("apply changes: %w", err)
	}

	result.Added = added
	result.Changed = changed
	result.Deleted = deleted
	return nil
}

// runAll runs tasks with bounded concurrency and waits for all of them.
func (b *BuildOrchestrator) runAll(ctx context.Context, tasks []func(context.Context) error) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.concurrency)
	for _, task := range tasks {
		g.Go(func() error { return task(gctx) })
	}
	return g.Wait()
}

// claimTargets maps each latest entry's side-effect target to its id.
// Two distinct entries resolving to one target is an error.
func claimTargets(latest []domain.Entry, target func(domain.EntryID, string) string) (map[string]domain.EntryID, error) {
	if target == nil {
		return nil, nil
	}
	claimed := make(map[string]domain.EntryID, len(latest))
	for _, e := range latest {
		name := target(e.ID, e.Title)
		if owner, ok := claimed[name]; ok && !owner.Same(e.ID) {
			return nil, &domain.TargetConflictError{Target: name, First: owner, Second: e.ID}
		}
		claimed[name] = e.ID
	}
	return claimed, nil
}
