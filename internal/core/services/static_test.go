package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/cmsbuild/internal/core/domain"
)

func newTestPageBuilder(source *fakeSource, pages *fakePages) *StaticPageBuilder {
	renderer := &fakeRenderer{}
	return NewStaticPageBuilder(NewContentFetcher(source, renderer, nil, nil), renderer, pages, nil, nil)
}

func TestStaticPageBuilder_CreatesThenSkips(t *testing.T) {
	source := newFakeSource()
	source.set(StandalonePrefix+"home", story(1, "Home", "Welcome"))
	pages := newFakePages()
	b := newTestPageBuilder(source, pages)
	opts := PageOptions{Root: "/b", Name: "home", Version: domain.VersionDraft}

	written, err := b.Build(context.Background(), opts)
	require.NoError(t, err)
	assert.True(t, written)

	page := pages.pages["/b/home"]
	assert.Equal(t, "Home", page.Title)
	assert.Equal(t, "<p>Welcome</p>\n", page.Content)
	assert.Len(t, page.Hash, HashLength)

	written, err = b.Build(context.Background(), opts)
	require.NoError(t, err)
	assert.False(t, written)
	assert.Equal(t, 1, pages.writes)
}

func TestStaticPageBuilder_HashCoversRawSource(t *testing.T) {
	source := newFakeSource()
	source.set(StandalonePrefix+"home", story(1, "Home", "Welcome"))
	pages := newFakePages()
	b := newTestPageBuilder(source, pages)

	_, err := b.Build(context.Background(), PageOptions{Root: "/b", Name: "home"})
	require.NoError(t, err)

	expected, err := NewCodec("").ComputeHash(domain.StaticPage{Title: "Home", Content: "Welcome"})
	require.NoError(t, err)
	assert.Equal(t, expected, pages.pages["/b/home"].Hash)
}

func TestStaticPageBuilder_RewritesOnChange(t *testing.T) {
	source := newFakeSource()
	source.set(StandalonePrefix+"home", story(1, "Home", "Welcome"))
	pages := newFakePages()
	b := newTestPageBuilder(source, pages)
	opts := PageOptions{Root: "/b", Name: "home"}

	_, err := b.Build(context.Background(), opts)
	require.NoError(t, err)

	source.set(StandalonePrefix+"home", story(1, "Home", "Welcome back"))
	written, err := b.Build(context.Background(), opts)
	require.NoError(t, err)

	assert.True(t, written)
	assert.Equal(t, 2, pages.writes)
	assert.Equal(t, "<p>Welcome back</p>\n", pages.pages["/b/home"].Content)
}

func TestStaticPageBuilder_DryRun(t *testing.T) {
	source := newFakeSource()
	source.set(StandalonePrefix+"home", story(1, "Home", "Welcome"))
	pages := newFakePages()
	b := newTestPageBuilder(source, pages)

	written, err := b.Build(context.Background(), PageOptions{Root: "/b", Name: "home", DryRun: true})
	require.NoError(t, err)

	assert.True(t, written)
	assert.Zero(t, pages.writes)
}

func TestStaticPageBuilder_MissingPage(t *testing.T) {
	b := newTestPageBuilder(newFakeSource(), newFakePages())

	_, err := b.Build(context.Background(), PageOptions{Root: "/b", Name: "about"})
	assert.ErrorIs(t, err, domain.ErrEmptySource)
}
