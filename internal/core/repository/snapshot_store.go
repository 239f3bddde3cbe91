package repository

import "github.com/ewout/snapvault/internal/core/domain"

// SnapshotStore manages the directory holding snapshot files.
type SnapshotStore interface {
	// EnsureDir creates the snapshot directory if it is absent. Idempotent.
	EnsureDir() error

	// List returns all snapshots sorted newest-first. A missing directory
	// yields an empty list, not an error. Entries whose metadata cannot be
	// read (deleted mid-enumeration) are skipped.
	List() ([]domain.Snapshot, error)

	// Create copies the file at srcPath into the directory under a fresh
	// timestamp-derived name. The new file becomes visible atomically; no
	// partial file is left behind on failure.
	Create(srcPath string) (*domain.Snapshot, error)

	// Read returns the full contents of the named snapshot. Returns an
	// error satisfying errors.Is(err, fs.ErrNotExist) when absent.
	Read(name string) ([]byte, error)

	// Remove deletes the named snapshot. Returns an error satisfying
	// errors.Is(err, fs.ErrNotExist) when absent.
	Remove(name string) error
}
