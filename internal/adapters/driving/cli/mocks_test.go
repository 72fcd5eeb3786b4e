package cli

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/custodia-labs/cmsbuild/internal/core/domain"
	"github.com/custodia-labs/cmsbuild/internal/core/ports/driving"
)

// mockBatch records the options of each run.
type mockBatch struct {
	mu     sync.Mutex
	calls  []driving.BatchOptions
	report *domain.BatchReport
	err    error
}

func (m *mockBatch) Run(_ context.Context, opts driving.BatchOptions) (*domain.BatchReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, opts)
	if m.report == nil {
		return &domain.BatchReport{Root: opts.Root}, m.err
	}
	return m.report, m.err
}

// mockHistory returns canned runs.
type mockHistory struct {
	runs     []domain.BuildRun
	err      error
	gotKey   string
	gotLimit int
}

func (m *mockHistory) List(_ context.Context, key string, limit int) ([]domain.BuildRun, error) {
	m.gotKey = key
	m.gotLimit = limit
	return m.runs, m.err
}

// mockRuntime implements Runtime for testing.
type mockRuntime struct {
	mu         sync.Mutex
	batch      *mockBatch
	history    *mockHistory
	batchErr   error
	watchPaths []string
	closed     int
}

func (m *mockRuntime) Batch() (driving.BatchRunner, error) {
	if m.batchErr != nil {
		return nil, m.batchErr
	}
	return m.batch, nil
}

func (m *mockRuntime) History() (driving.HistoryService, error) {
	if m.history == nil {
		return nil, errors.New("history disabled")
	}
	return m.history, nil
}

func (m *mockRuntime) WatchPaths() []string { return m.watchPaths }

func (m *mockRuntime) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed++
	return nil
}

func (m *mockRuntime) callCount() int {
	m.batch.mu.Lock()
	defer m.batch.mu.Unlock()
	return len(m.batch.calls)
}

// safeBuffer is a bytes.Buffer safe for concurrent writes and reads.
type safeBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *safeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *safeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// setupRuntime installs rt as the runtime and resets command flags.
func setupRuntime(t *testing.T, rt *mockRuntime) {
	t.Helper()

	factoryMu.RLock()
	old := newRuntime
	factoryMu.RUnlock()

	SetRuntimeFactory(func(string) (Runtime, error) { return rt, nil })
	t.Cleanup(func() {
		SetRuntimeFactory(old)
		buildOnly = nil
		buildDryRun = false
		historyLimit = defaultHistoryLimit
		configPath = ""
	})
}

// execute runs the root command with args and returns its output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return buf.String(), err
}
