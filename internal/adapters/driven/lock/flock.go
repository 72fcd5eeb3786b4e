// Package lock provides advisory lock files that keep two builds off the same build path.
package lock

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"github.com/custodia-labs/cmsbuild/internal/core/domain"
	"github.com/custodia-labs/cmsbuild/internal/core/ports/driven"
)

// Ensure FileLocker implements the interface.
var _ driven.PathLocker = (*FileLocker)(nil)

// FileLocker takes a flock on <parent>/.<base>.lock for each build path.
// The lock file sits beside the build directory so it never lands in build output.
type FileLocker struct{}

// NewFileLocker creates a file locker.
func NewFileLocker() *FileLocker {
	return &FileLocker{}
}

// TryLock acquires the lock for path without blocking.
func (l *FileLocker) TryLock(path string) (driven.Unlocker, error) {
	lockPath := Path(path)
	if err := os.MkdirAll(filepath.Dir(lockPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating lock directory: %w", err)
	}

	fl := flock.New(lockPath)
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock %s: %w", lockPath, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrBuildLocked, path)
	}
	return fl, nil
}

// Path returns the lock file guarding a build path.
func Path(buildPath string) string {
	clean := filepath.Clean(buildPath)
	return filepath.Join(filepath.Dir(clean), "."+filepath.Base(clean)+".lock")
}
