package services

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/cmsbuild/internal/core/domain"
)

const testBuildPath = "/build/literature/public"

type builderFixture struct {
	source    *fakeSource
	manifests *fakeManifests
	artifacts *fakeArtifacts
	locker    *fakeLocker
	builder   *BuildOrchestrator
}

func newBuilderFixture() *builderFixture {
	f := &builderFixture{
		source:    newFakeSource(),
		manifests: newFakeManifests(),
		artifacts: newFakeArtifacts(),
		locker:    newFakeLocker(),
	}
	fetcher := NewContentFetcher(f.source, &fakeRenderer{}, nil, nil)
	f.builder = NewBuildOrchestrator(fetcher, NewManifestStore(f.manifests, nil, nil), f.locker, nil)
	return f
}

func (f *builderFixture) options() domain.BuildOptions {
	return domain.BuildOptions{
		BuildPath: testBuildPath,
		Query:     domain.NewQuery(testPrefix, "first_published_at:asc", domain.VersionPublished),
		Mode:      domain.ManifestFull,
		Handlers:  NewArtifactHandlers(f.artifacts, ArtifactOptions{Dir: testBuildPath}, nil),
	}
}

func TestBuild_Bootstrap(t *testing.T) {
	f := newBuilderFixture()
	f.source.set(testPrefix, story(1, "One", "b1"), story(2, "Two", "b2"), story(3, "Three", "b3"))

	result, err := f.builder.Build(context.Background(), f.options())
	require.NoError(t, err)

	assert.True(t, result.Updated)
	assert.True(t, result.Bootstrapped)
	assert.Equal(t, 3, result.Added)
	assert.Len(t, result.Entries, 3)
	assert.Equal(t, testBuildPath+"/public.json", result.ManifestPath)

	assert.Equal(t, []string{
		testBuildPath + "/1.mdhtml",
		testBuildPath + "/2.mdhtml",
		testBuildPath + "/3.mdhtml",
	}, f.artifacts.names())

	manifest, ok := f.manifests.get(testBuildPath, "public")
	require.True(t, ok)
	assert.Len(t, manifest, 3)
	assert.True(t, f.manifests.dirs[testBuildPath])
}

func TestBuild_SecondRunIsNoop(t *testing.T) {
	f := newBuilderFixture()
	f.source.set(testPrefix, story(1, "One", "b1"), story(2, "Two", "b2"))

	_, err := f.builder.Build(context.Background(), f.options())
	require.NoError(t, err)
	writes := f.manifests.writeCount()

	result, err := f.builder.Build(context.Background(), f.options())
	require.NoError(t, err)

	assert.False(t, result.Updated)
	assert.False(t, result.Bootstrapped)
	assert.Zero(t, result.Added+result.Changed+result.Deleted)
	assert.Equal(t, writes, f.manifests.writeCount())
}

func TestBuild_AddUpdateDelete(t *testing.T) {
	f := newBuilderFixture()
	f.source.set(testPrefix, story(1, "One", "b1"), story(2, "Two", "b2"), story(3, "Three", "b3"))
	_, err := f.builder.Build(context.Background(), f.options())
	require.NoError(t, err)

	f.source.set(testPrefix, story(1, "One", "b1 edited"), story(2, "Two", "b2"), story(4, "Four", "b4"))

	var mu sync.Mutex
	calls := map[string][]string{}
	record := func(kind, id string) {
		mu.Lock()
		defer mu.Unlock()
		calls[kind] = append(calls[kind], id)
	}
	opts := f.options()
	artifactHandlers := opts.Handlers
	opts.Handlers = domain.ChangeHandlers{
		OnAdded: func(ctx context.Context, e domain.Entry) error {
			record("added", e.ID.String())
			return artifactHandlers.OnAdded(ctx, e)
		},
		OnUpdated: func(ctx context.Context, e domain.Entry) error {
			record("updated", e.ID.String())
			return artifactHandlers.OnUpdated(ctx, e)
		},
		OnDeleted: func(ctx context.Context, e domain.ManifestEntry) error {
			record("deleted", e.ID.String())
			return artifactHandlers.OnDeleted(ctx, e)
		},
	}

	result, err := f.builder.Build(context.Background(), opts)
	require.NoError(t, err)

	assert.True(t, result.Updated)
	assert.Equal(t, []string{"4"}, calls["added"])
	assert.Equal(t, []string{"1"}, calls["updated"])
	assert.Equal(t, []string{"3"}, calls["deleted"])
	assert.Equal(t, 1, result.Added)
	assert.Equal(t, 1, result.Changed)
	assert.Equal(t, 1, result.Deleted)

	manifest, ok := f.manifests.get(testBuildPath, "public")
	require.True(t, ok)
	require.Len(t, manifest, 3)
	assert.Equal(t, "1", manifest[0].ID.String())
	assert.Equal(t, "4", manifest[2].ID.String())

	body, ok := f.artifacts.content(testBuildPath + "/1.mdhtml")
	require.True(t, ok)
	assert.Equal(t, "<p>b1 edited</p>\n", body)
	_, ok = f.artifacts.content(testBuildPath + "/3.mdhtml")
	assert.False(t, ok)
}

func (f *builderFixture) slugOptions() domain.BuildOptions {
	opts := f.options()
	opts.Handlers = NewArtifactHandlers(f.artifacts, ArtifactOptions{
		Dir:    testBuildPath,
		Naming: domain.NameBySlug,
	}, nil)
	return opts
}

func posts(firstID int64, n int) []domain.Story {
	stories := make([]domain.Story, 0, n)
	for i := range n {
		stories = append(stories, story(firstID+int64(i), fmt.Sprintf("Post %d", i+1), fmt.Sprintf("body %d", i+1)))
	}
	return stories
}

func TestBuild_RecreatedTitlesKeepArtifacts(t *testing.T) {
	f := newBuilderFixture()
	f.source.set(testPrefix, posts(1, 40)...)
	_, err := f.builder.Build(context.Background(), f.slugOptions())
	require.NoError(t, err)

	f.source.set(testPrefix, posts(101, 40)...)
	result, err := f.builder.Build(context.Background(), f.slugOptions())
	require.NoError(t, err)

	assert.Equal(t, 40, result.Added)
	assert.Equal(t, 40, result.Deleted)
	require.Len(t, f.artifacts.names(), 40)
	for i := 1; i <= 40; i++ {
		body, ok := f.artifacts.content(fmt.Sprintf("%s/post-%d.mdhtml", testBuildPath, i))
		require.True(t, ok, "post-%d.mdhtml missing", i)
		assert.Equal(t, fmt.Sprintf("<p>body %d</p>\n", i), body)
	}
}

func TestBuild_DeletesFinishBeforeWrites(t *testing.T) {
	f := newBuilderFixture()
	f.source.set(testPrefix, story(1, "One", "b1"), story(2, "Two", "b2"), story(3, "Three", "b3"))
	_, err := f.builder.Build(context.Background(), f.options())
	require.NoError(t, err)

	f.source.set(testPrefix, story(1, "One", "b1 edited"), story(4, "Four", "b4"), story(5, "Five", "b5"))

	var mu sync.Mutex
	var order []string
	record := func(kind string) {
		mu.Lock()
		defer mu.Unlock()
		order = append(order, kind)
	}
	opts := f.options()
	opts.Handlers = domain.ChangeHandlers{
		OnAdded:   func(context.Context, domain.Entry) error { record("write"); return nil },
		OnUpdated: func(context.Context, domain.Entry) error { record("write"); return nil },
		OnDeleted: func(context.Context, domain.ManifestEntry) error { record("delete"); return nil },
	}

	_, err = f.builder.Build(context.Background(), opts)
	require.NoError(t, err)

	assert.Equal(t, []string{"delete", "delete", "write", "write", "write"}, order)
}

func TestBuild_RetitleBySlugDropsOldArtifact(t *testing.T) {
	f := newBuilderFixture()
	f.source.set(testPrefix, story(1, "Old Title", "b1"))
	_, err := f.builder.Build(context.Background(), f.slugOptions())
	require.NoError(t, err)
	require.Equal(t, []string{testBuildPath + "/old-title.mdhtml"}, f.artifacts.names())

	f.source.set(testPrefix, story(1, "New Title", "b1"))
	result, err := f.builder.Build(context.Background(), f.slugOptions())
	require.NoError(t, err)

	assert.Equal(t, 1, result.Changed)
	assert.Zero(t, result.Deleted)
	assert.Equal(t, []string{testBuildPath + "/new-title.mdhtml"}, f.artifacts.names())
}

func TestBuild_SwappedTitlesBySlugKeepBoth(t *testing.T) {
	f := newBuilderFixture()
	f.source.set(testPrefix, story(1, "Alpha", "a"), story(2, "Beta", "b"))
	_, err := f.builder.Build(context.Background(), f.slugOptions())
	require.NoError(t, err)

	f.source.set(testPrefix, story(1, "Beta", "a"), story(2, "Alpha", "b"))
	_, err = f.builder.Build(context.Background(), f.slugOptions())
	require.NoError(t, err)

	alpha, ok := f.artifacts.content(testBuildPath + "/alpha.mdhtml")
	require.True(t, ok)
	assert.Equal(t, "<p>b</p>\n", alpha)
	beta, ok := f.artifacts.content(testBuildPath + "/beta.mdhtml")
	require.True(t, ok)
	assert.Equal(t, "<p>a</p>\n", beta)
}

func TestBuild_RetitleByIDKeepsArtifact(t *testing.T) {
	f := newBuilderFixture()
	f.source.set(testPrefix, story(1, "Old Title", "b1"))
	_, err := f.builder.Build(context.Background(), f.options())
	require.NoError(t, err)

	f.source.set(testPrefix, story(1, "New Title", "b1"))
	_, err = f.builder.Build(context.Background(), f.options())
	require.NoError(t, err)

	assert.Equal(t, []string{testBuildPath + "/1.mdhtml"}, f.artifacts.names())
}

func TestBuild_SharedSlugFails(t *testing.T) {
	f := newBuilderFixture()
	f.source.set(testPrefix, story(1, "One", "b1"))
	_, err := f.builder.Build(context.Background(), f.slugOptions())
	require.NoError(t, err)
	writes := f.manifests.writeCount()

	f.source.set(testPrefix, story(1, "One", "b1"), story(2, "one", "b2"))
	_, err = f.builder.Build(context.Background(), f.slugOptions())

	var conflict *domain.TargetConflictError
	require.ErrorAs(t, err, &conflict)
	assert.ErrorIs(t, err, domain.ErrTargetConflict)
	assert.Equal(t, "one", conflict.Target)
	assert.Equal(t, writes, f.manifests.writeCount())
	assert.Equal(t, []string{testBuildPath + "/one.mdhtml"}, f.artifacts.names())
}

func TestBuild_HandlerFailureKeepsManifest(t *testing.T) {
	f := newBuilderFixture()
	f.source.set(testPrefix, story(1, "One", "b1"))
	_, err := f.builder.Build(context.Background(), f.options())
	require.NoError(t, err)
	before, _ := f.manifests.get(testBuildPath, "public")

	f.source.set(testPrefix, story(1, "One", "b1"), story(2, "Two", ""))

	_, err = f.builder.Build(context.Background(), f.options())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrMissingBody)

	after, _ := f.manifests.get(testBuildPath, "public")
	assert.Equal(t, before, after)
}

func TestBuild_BootstrapMissingBodyWritesNoManifest(t *testing.T) {
	f := newBuilderFixture()
	f.source.set(testPrefix, story(1, "One", "b1"), story(2, "Two", ""))

	_, err := f.builder.Build(context.Background(), f.options())
	assert.ErrorIs(t, err, domain.ErrMissingBody)

	_, ok := f.manifests.get(testBuildPath, "public")
	assert.False(t, ok)
}

func TestBuild_DryRun(t *testing.T) {
	f := newBuilderFixture()
	f.source.set(testPrefix, story(1, "One", "b1"))

	opts := f.options()
	opts.DryRun = true
	opts.Handlers = domain.ChangeHandlers{}

	result, err := f.builder.Build(context.Background(), opts)
	require.NoError(t, err)

	assert.True(t, result.Updated)
	assert.True(t, result.Bootstrapped)
	assert.Zero(t, f.manifests.writeCount())
	assert.Empty(t, f.manifests.dirs)
	assert.Empty(t, f.artifacts.names())
}

func TestBuild_ManifestNameOverride(t *testing.T) {
	f := newBuilderFixture()
	f.source.set(testPrefix, story(1, "One", "b1"))

	opts := f.options()
	opts.ManifestName = "publicManifest"
	opts.Mode = domain.ManifestHashOnly

	result, err := f.builder.Build(context.Background(), opts)
	require.NoError(t, err)

	assert.Equal(t, testBuildPath+"/publicManifest.json", result.ManifestPath)
	manifest, ok := f.manifests.get(testBuildPath, "publicManifest")
	require.True(t, ok)
	assert.Empty(t, manifest[0].Author)
}

func TestBuild_LockedPath(t *testing.T) {
	f := newBuilderFixture()
	f.source.set(testPrefix, story(1, "One", "b1"))

	held, err := f.locker.TryLock(testBuildPath)
	require.NoError(t, err)
	defer held.Unlock()

	_, err = f.builder.Build(context.Background(), f.options())
	assert.ErrorIs(t, err, domain.ErrBuildLocked)
	assert.Zero(t, f.source.callCount())
}

func TestBuild_ReleasesLock(t *testing.T) {
	f := newBuilderFixture()
	f.source.set(testPrefix, story(1, "One", "b1"))

	_, err := f.builder.Build(context.Background(), f.options())
	require.NoError(t, err)

	lock, err := f.locker.TryLock(testBuildPath)
	require.NoError(t, err)
	assert.NoError(t, lock.Unlock())
}

func TestBuild_ManifestReadErrorPropagates(t *testing.T) {
	f := newBuilderFixture()
	f.source.set(testPrefix, story(1, "One", "b1"))
	f.manifests.readErr = errBoom

	_, err := f.builder.Build(context.Background(), f.options())
	assert.ErrorIs(t, err, domain.ErrManifestIO)
	assert.Empty(t, f.artifacts.names())
}

func TestBuild_EmptySource(t *testing.T) {
	f := newBuilderFixture()

	_, err := f.builder.Build(context.Background(), f.options())
	assert.ErrorIs(t, err, domain.ErrEmptySource)
	assert.Zero(t, f.manifests.writeCount())
}

func TestBuild_RequiresPath(t *testing.T) {
	f := newBuilderFixture()

	_, err := f.builder.Build(context.Background(), domain.BuildOptions{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
