package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/custodia-labs/cmsbuild/internal/core/domain"
	"github.com/custodia-labs/cmsbuild/internal/core/ports/driven"
)

// fakeSource serves stories by prefix and paginates like the CDN API.
type fakeSource struct {
	mu      sync.Mutex
	stories map[string][]domain.Story
	calls   []domain.StoryParams
	err     error
}

var _ driven.ContentSource = (*fakeSource)(nil)

func newFakeSource() *fakeSource {
	return &fakeSource{stories: make(map[string][]domain.Story)}
}

func (s *fakeSource) set(prefix string, stories ...domain.Story) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stories[prefix] = stories
}

func (s *fakeSource) Get(_ context.Context, _ string, params domain.StoryParams) (*domain.StoriesResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, params)
	if s.err != nil {
		return nil, s.err
	}

	all := s.stories[params.StartsWith]
	start := (params.Page - 1) * params.PerPage
	if start >= len(all) {
		return &domain.StoriesResponse{Stories: []domain.Story{}}, nil
	}
	end := start + params.PerPage
	if end > len(all) {
		end = len(all)
	}
	return &domain.StoriesResponse{Stories: all[start:end]}, nil
}

func (s *fakeSource) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

// fakeRenderer wraps blocks in a paragraph and leaves inline text untouched.
type fakeRenderer struct {
	err error
}

var _ driven.Renderer = (*fakeRenderer)(nil)

func (r *fakeRenderer) Render(markdown string) (string, error) {
	if r.err != nil {
		return "", r.err
	}
	return "<p>" + markdown + "</p>\n", nil
}

func (r *fakeRenderer) RenderInline(markdown string) (string, error) {
	if r.err != nil {
		return "", r.err
	}
	return markdown, nil
}

// fakeManifests is an in-memory manifest repository.
type fakeManifests struct {
	mu        sync.Mutex
	manifests map[string][]byte
	dirs      map[string]bool
	writes    int
	readErr   error
	writeErr  error
}

var _ driven.ManifestRepository = (*fakeManifests)(nil)

func newFakeManifests() *fakeManifests {
	return &fakeManifests{
		manifests: make(map[string][]byte),
		dirs:      make(map[string]bool),
	}
}

func (m *fakeManifests) Read(_ context.Context, path, name string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.readErr != nil {
		return nil, m.readErr
	}
	data, ok := m.manifests[m.Location(path, name)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return data, nil
}

func (m *fakeManifests) Write(_ context.Context, path, name string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.writeErr != nil {
		return m.writeErr
	}
	m.writes++
	m.manifests[m.Location(path, name)] = append([]byte(nil), data...)
	return nil
}

func (m *fakeManifests) EnsureDir(_ context.Context, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dirs[path] = true
	return nil
}

func (m *fakeManifests) Location(path, name string) string {
	return path + "/" + name + ".json"
}

func (m *fakeManifests) get(path, name string) (domain.Manifest, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.manifests[m.Location(path, name)]
	if !ok {
		return nil, false
	}
	manifest, err := NewCodec("").Deserialize(data)
	if err != nil {
		return nil, false
	}
	return manifest, true
}

func (m *fakeManifests) put(path, name, data string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.manifests[m.Location(path, name)] = []byte(data)
}

func (m *fakeManifests) writeCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

// fakeArtifacts records artifact files in memory.
type fakeArtifacts struct {
	mu       sync.Mutex
	files    map[string]string
	writeErr error
}

var _ driven.ArtifactStore = (*fakeArtifacts)(nil)

func newFakeArtifacts() *fakeArtifacts {
	return &fakeArtifacts{files: make(map[string]string)}
}

func (a *fakeArtifacts) Write(_ context.Context, dir, file string, content []byte) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.writeErr != nil {
		return a.writeErr
	}
	a.files[dir+"/"+file] = string(content)
	return nil
}

func (a *fakeArtifacts) Delete(_ context.Context, dir, file string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.files, dir+"/"+file)
	return nil
}

func (a *fakeArtifacts) names() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	names := make([]string, 0, len(a.files))
	for name := range a.files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (a *fakeArtifacts) content(name string) (string, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	c, ok := a.files[name]
	return c, ok
}

// fakeLocker hands out one lock per path.
type fakeLocker struct {
	mu   sync.Mutex
	held map[string]bool
}

var _ driven.PathLocker = (*fakeLocker)(nil)

func newFakeLocker() *fakeLocker {
	return &fakeLocker{held: make(map[string]bool)}
}

func (l *fakeLocker) TryLock(path string) (driven.Unlocker, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held[path] {
		return nil, fmt.Errorf("%w: %s", domain.ErrBuildLocked, path)
	}
	l.held[path] = true
	return unlockFunc(func() error {
		l.mu.Lock()
		defer l.mu.Unlock()
		delete(l.held, path)
		return nil
	}), nil
}

type unlockFunc func() error

func (f unlockFunc) Unlock() error { return f() }

// story builds a raw story with a body and a first publication date.
func story(id int64, title, body string) domain.Story {
	published := fmt.Sprintf("2023-01-%02dT00:00:00.000Z", id%28+1)
	return domain.Story{
		ID:               id,
		Name:             title,
		Slug:             strings.ToLower(title),
		CreatedAt:        "2022-12-01T00:00:00.000Z",
		FirstPublishedAt: &published,
		Content: domain.StoryContent{
			Title:  title,
			Author: "Ada",
			Body:   body,
		},
	}
}

var errBoom = errors.New("boom")

// fakePages stores standalone pages in memory.
type fakePages struct {
	mu     sync.Mutex
	pages  map[string]driven.StoredPage
	writes int
}

var _ driven.PageStore = (*fakePages)(nil)

func newFakePages() *fakePages {
	return &fakePages{pages: make(map[string]driven.StoredPage)}
}

func (p *fakePages) Read(_ context.Context, root, name string) (*driven.StoredPage, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	page, ok := p.pages[root+"/"+name]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &page, nil
}

func (p *fakePages) Write(_ context.Context, root, name string, page driven.StoredPage) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.writes++
	p.pages[root+"/"+name] = page
	return nil
}

// fakeVersions keeps versions.json contents per root.
type fakeVersions struct {
	mu      sync.Mutex
	roots   map[string]domain.Versions
	saves   int
	loadNil bool
}

var _ driven.VersionStore = (*fakeVersions)(nil)

func newFakeVersions() *fakeVersions {
	return &fakeVersions{roots: make(map[string]domain.Versions)}
}

func (v *fakeVersions) Load(_ context.Context, root string) (domain.Versions, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.loadNil {
		return nil, nil
	}
	out := domain.Versions{}
	for k, s := range v.roots[root] {
		out[k] = s
	}
	return out, nil
}

func (v *fakeVersions) Save(_ context.Context, root string, versions domain.Versions) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.saves++
	stored := domain.Versions{}
	for k, s := range versions {
		stored[k] = s
	}
	v.roots[root] = stored
	return nil
}

// fakeRuns records build runs in insertion order.
type fakeRuns struct {
	mu   sync.Mutex
	runs []domain.BuildRun
}

var _ driven.BuildRunStore = (*fakeRuns)(nil)

func (r *fakeRuns) Save(_ context.Context, run domain.BuildRun) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs = append(r.runs, run)
	return nil
}

func (r *fakeRuns) List(_ context.Context, key string, limit int) ([]domain.BuildRun, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.BuildRun
	for i := len(r.runs) - 1; i >= 0; i-- {
		if key != "" && r.runs[i].CollectionKey != key {
			continue
		}
		out = append(out, r.runs[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}
