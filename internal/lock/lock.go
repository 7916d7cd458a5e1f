package lock

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gofrs/flock"

	gitwipErrors "github.com/bashhack/gitwip/internal/errors"
)

// Locker prevents concurrent gitwip instances on one repository using an
// advisory file lock. The kernel drops the lock when the holder exits, so a
// crashed process never leaves a stale lock behind.
type Locker struct {
	lockFile string
	flock    *flock.Flock
	pid      int
}

// New creates a Locker for the specified repository path
func New(repoPath string) *Locker {
	return NewInDir(repoPath, os.TempDir())
}

// NewInDir creates a Locker whose lock file lives in dir.
func NewInDir(repoPath, dir string) *Locker {
	repoHash := fmt.Sprintf("%x", sha256.Sum256([]byte(repoPath)))[:16]
	lockFile := filepath.Join(dir, fmt.Sprintf("gitwip-%s.lock", repoHash))

	return &Locker{
		lockFile: lockFile,
		flock:    flock.New(lockFile),
		pid:      os.Getpid(),
	}
}

// Path returns the lock file path.
func (l *Locker) Path() string {
	return l.lockFile
}

// Acquire takes the lock without blocking. If another process holds it the
// error is a *errors.LockError wrapping errors.ErrAlreadyRunning, carrying the
// holder's PID when it can be read.
func (l *Locker) Acquire() error {
	locked, err := l.flock.TryLock()
	if err != nil {
		return gitwipErrors.NewLockError(l.lockFile, 0,
			gitwipErrors.Wrap(gitwipErrors.ErrLockAcquisitionFailure, err.Error()))
	}

	if !locked {
		otherPid, _ := l.readLockFilePid()
		return gitwipErrors.NewLockError(l.lockFile, otherPid, gitwipErrors.ErrAlreadyRunning)
	}

	if err := os.WriteFile(l.lockFile, []byte(strconv.Itoa(l.pid)), 0644); err != nil {
		_ = l.flock.Unlock()
		return gitwipErrors.NewLockError(l.lockFile, l.pid,
			gitwipErrors.Wrap(err, "failed to write PID to lock file"))
	}

	return nil
}

// Release releases the lock if it was acquired. The lock file itself is left
// in place; removing it would let a second process lock a different inode
// while a third still holds the old one.
func (l *Locker) Release() error {
	if !l.flock.Locked() {
		return nil
	}
	if err := l.flock.Unlock(); err != nil {
		return gitwipErrors.NewLockError(l.lockFile, l.pid,
			gitwipErrors.Wrap(err, "failed to release lock"))
	}
	return nil
}

// readLockFilePid reads and parses the PID from the lock file
func (l *Locker) readLockFilePid() (int, error) {
	data, err := os.ReadFile(l.lockFile)
	if err != nil {
		return 0, gitwipErrors.Wrap(err, "failed to read lock file")
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, gitwipErrors.Wrap(err, "invalid PID in lock file")
	}

	return pid, nil
}
