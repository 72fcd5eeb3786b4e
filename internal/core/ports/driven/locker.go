package driven

// PathLocker guards a build path against concurrent builds.
type PathLocker interface {
	// TryLock acquires the lock for path without blocking.
	// Returns domain.ErrBuildLocked if another build holds it.
	TryLock(path string) (Unlocker, error)
}

// Unlocker releases a held lock.
type Unlocker interface {
	Unlock() error
}
