// Package lock enforces single-instance daemon startup.
package lock

import (
	"fmt"
	"os"
	"path/filepath"
)

// FileName is the lock file kept in the application data directory.
const FileName = "voicetyprd.lock"

// PIDLock is a single-instance lock implemented via a PID file plus an
// exclusive OS file lock. The lock stays held as long as the file descriptor
// stays open.
type PIDLock struct {
	path string
	f    *os.File
}

// DefaultPath returns the lock file location inside the data directory.
func DefaultPath(dataDir string) string {
	return filepath.Join(dataDir, FileName)
}

// Acquire takes an exclusive non-blocking lock at lockPath and records the
// current PID in the file. A held lock means another daemon instance owns the
// data directory.
func Acquire(lockPath string) (*PIDLock, error) {
	if lockPath == "" {
		return nil, fmt.Errorf("lock path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(lockPath), 0o755); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}

	f, err := os.OpenFile(lockPath, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open lock file: %w", err)
	}

	if err := lockFile(f); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("another voicetyprd instance holds %s: %w", lockPath, err)
	}

	if err := writePID(f); err != nil {
		unlockFile(f)
		_ = f.Close()
		return nil, err
	}

	return &PIDLock{path: lockPath, f: f}, nil
}

func writePID(f *os.File) error {
	if err := f.Truncate(0); err != nil {
		return fmt.Errorf("truncate lock file: %w", err)
	}
	if _, err := f.Seek(0, 0); err != nil {
		return fmt.Errorf("seek lock file: %w", err)
	}
	if _, err := fmt.Fprintf(f, "%d\n", os.Getpid()); err != nil {
		return fmt.Errorf("write pid: %w", err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("sync lock file: %w", err)
	}
	return nil
}

func (l *PIDLock) Path() string { return l.path }

// Release drops the lock. Safe to call on a nil or already-released lock.
func (l *PIDLock) Release() error {
	if l == nil || l.f == nil {
		return nil
	}
	unlockFile(l.f)
	err := l.f.Close()
	l.f = nil
	return err
}
