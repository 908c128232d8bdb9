package filesystem

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"audio-clip-extractor/domain/clip"
)

// DefaultLockDir holds the advisory lock files for output paths
var DefaultLockDir = filepath.Join(os.TempDir(), "audio-clip-extractor", "locks")

// OutputLocker implements clip.Locker with one advisory lock file per output
// path. Lock files are left in place after release: removing one would let a
// waiter lock the unlinked inode while another process locks a fresh file.
type OutputLocker struct {
	dir string
}

// LockerOption is a functional option for configuring OutputLocker
type LockerOption func(*OutputLocker)

// WithLockDir sets the directory lock files are created in
func WithLockDir(dir string) LockerOption {
	return func(l *OutputLocker) {
		l.dir = dir
	}
}

// NewOutputLocker creates a new advisory locker
func NewOutputLocker(opts ...LockerOption) *OutputLocker {
	l := &OutputLocker{dir: DefaultLockDir}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// LockPath returns the lock file guarding path. Equivalent spellings of the
// same output share one lock.
func (l *OutputLocker) LockPath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	sum := sha256.Sum256([]byte(path))
	return filepath.Join(l.dir, hex.EncodeToString(sum[:12])+".lock")
}

// TryLock acquires the lock for path without blocking
func (l *OutputLocker) TryLock(path string) (func() error, error) {
	if err := EnsureDir(l.dir); err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	lock := flock.New(l.LockPath(path))

	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s is locked", clip.ErrExtractionInProgress, path)
	}

	return func() error {
		if err := lock.Unlock(); err != nil {
			return fmt.Errorf("release lock: %w", err)
		}
		return nil
	}, nil
}

// Ensure OutputLocker implements clip.Locker
var _ clip.Locker = (*OutputLocker)(nil)
