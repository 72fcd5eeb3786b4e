package cli

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/cmsbuild/internal/core/domain"
)

func TestBuildCmd_Use(t *testing.T) {
	assert.Equal(t, "build <root> <dest>", buildCmd.Use)
}

func TestBuildCmd_BuildsIntoDest(t *testing.T) {
	root := t.TempDir()
	dest := filepath.Join(root, "data")
	rt := &mockRuntime{batch: &mockBatch{}}
	setupRuntime(t, rt)

	out, err := execute(t, "build", root, dest)

	require.NoError(t, err)
	require.Len(t, rt.batch.calls, 1)
	assert.Equal(t, dest, rt.batch.calls[0].Root)
	assert.False(t, rt.batch.calls[0].DryRun)
	assert.Empty(t, rt.batch.calls[0].Only)
	assert.Contains(t, out, "Building into "+dest)
	assert.Equal(t, 1, rt.closed)
}

func TestBuildCmd_Flags(t *testing.T) {
	root := t.TempDir()
	rt := &mockRuntime{batch: &mockBatch{}}
	setupRuntime(t, rt)

	out, err := execute(t, "build", root, root, "--dry-run", "--only", "pubBlog,home")

	require.NoError(t, err)
	require.Len(t, rt.batch.calls, 1)
	assert.True(t, rt.batch.calls[0].DryRun)
	assert.Equal(t, []string{"pubBlog", "home"}, rt.batch.calls[0].Only)
	assert.Contains(t, out, "Dry run")
}

func TestBuildCmd_ReportsRuns(t *testing.T) {
	root := t.TempDir()
	rt := &mockRuntime{batch: &mockBatch{
		report: &domain.BatchReport{Runs: []domain.BuildRun{
			{CollectionKey: "pubBlog", Updated: true, Added: 1, Changed: 2, Deleted: 3, Duration: time.Second},
			{CollectionKey: "pubVid", Updated: true, Bootstrapped: true, Added: 4},
			{CollectionKey: "home"},
			{CollectionKey: "chglog", Error: "missing stories"},
		}},
		err: errors.New("chglog: missing stories"),
	}}
	setupRuntime(t, rt)

	out, err := execute(t, "build", root, root)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "build failed")
	assert.Contains(t, out, "updated (+1 ~2 -3, 1s)")
	assert.Contains(t, out, "created (4 entries")
	assert.Contains(t, out, "unchanged")
	assert.Contains(t, out, "failed: missing stories")
	assert.Contains(t, out, "1 of 4 builds failed.")
}

func TestBuildCmd_RootMissing(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope")
	rt := &mockRuntime{batch: &mockBatch{}}
	setupRuntime(t, rt)

	_, err := execute(t, "build", missing, filepath.Join(missing, "data"))

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidPath)
	assert.Empty(t, rt.batch.calls)
}

func TestBuildCmd_DestOutsideRoot(t *testing.T) {
	root := t.TempDir()
	rt := &mockRuntime{batch: &mockBatch{}}
	setupRuntime(t, rt)

	_, err := execute(t, "build", root, t.TempDir())

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidPath)
	assert.Empty(t, rt.batch.calls)
}

func TestBuildCmd_RequiresTwoArgs(t *testing.T) {
	setupRuntime(t, &mockRuntime{batch: &mockBatch{}})

	_, err := execute(t, "build", t.TempDir())
	assert.Error(t, err)
}

func TestBuildCmd_RuntimeNotConfigured(t *testing.T) {
	setupRuntime(t, &mockRuntime{})
	SetRuntimeFactory(nil)
	root := t.TempDir()

	_, err := execute(t, "build", root, root)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "runtime not configured")
}

func TestBuildCmd_SourceUnavailable(t *testing.T) {
	root := t.TempDir()
	rt := &mockRuntime{batchErr: errors.New("storyblok: access token not configured")}
	setupRuntime(t, rt)

	_, err := execute(t, "build", root, root)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "access token")
}

func TestValidatePaths(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "file.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	tests := []struct {
		name    string
		root    string
		dest    string
		wantErr bool
	}{
		{name: "dest equals root", root: root, dest: root},
		{name: "nested dest", root: root, dest: filepath.Join(root, "a", "b")},
		{name: "nested dest not yet created", root: root, dest: filepath.Join(root, "new")},
		{name: "sibling dest", root: filepath.Join(root, "a"), dest: filepath.Join(root, "ab"), wantErr: true},
		{name: "parent dest", root: root, dest: filepath.Dir(root), wantErr: true},
		{name: "root missing", root: filepath.Join(root, "missing"), dest: root, wantErr: true},
		{name: "root is a file", root: file, dest: file, wantErr: true},
	}
	require.NoError(t, os.MkdirAll(filepath.Join(root, "a"), 0o755))

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dest, err := ValidatePaths(tt.root, tt.dest)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidPath)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.dest, dest)
		})
	}
}
