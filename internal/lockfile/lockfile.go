// Package lockfile provides an optional, opt-in advisory lock for
// callers that need single-writer discipline across process
// boundaries. Nothing in internal/heap or internal/seqindex takes this
// lock internally — spec.md §5 is explicit that the storage core has
// no internal locking and concurrent external writers are undefined
// behavior. A caller that wants that discipline (such as cmd/bdii)
// wraps its own operations in a Lock.
//
// Grounded on internal/fs/lock.go's flock(2)-based Locker, trimmed to
// the exclusive, single-process-writer case this module needs: no
// shared/read locks, and no MkdirAll-on-demand since callers already
// know their table directory exists by the time they lock it.
package lockfile

import (
	"errors"
	"fmt"
	"os"
	"syscall"
	"time"
)

// ErrWouldBlock is returned by TryLock, or by LockWithTimeout once its
// timeout expires, when another process already holds the lock.
var ErrWouldBlock = errors.New("lockfile: would block")

// Lock is a held advisory lock. Call Close to release it.
type Lock struct {
	file *os.File
}

// Close releases the lock and closes the underlying descriptor. Close
// is idempotent.
func (lk *Lock) Close() error {
	if lk.file == nil {
		return nil
	}
	fd := int(lk.file.Fd())
	unlockErr := flockRetryEINTR(fd, syscall.LOCK_UN)
	closeErr := lk.file.Close()
	lk.file = nil

	if unlockErr != nil {
		return fmt.Errorf("lockfile: unlock: %w", unlockErr)
	}
	if closeErr != nil {
		return fmt.Errorf("lockfile: close: %w", closeErr)
	}
	return nil
}

// Lock acquires an exclusive lock on path, blocking until it is
// available. path is created if it does not already exist; the lock
// is held on that file descriptor, not released by unlinking the path.
func Lock(path string) (*Lock, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o600)
	if err != nil {
		return nil, fmt.Errorf("lockfile: open %q: %w", path, err)
	}
	if err := flockRetryEINTR(int(f.Fd()), syscall.LOCK_EX); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("lockfile: flock %q: %w", path, err)
	}
	return &Lock{file: f}, nil
}

// TryLock attempts to acquire an exclusive lock on path without
// blocking, returning ErrWouldBlock if another process holds it.
func TryLock(path string) (*Lock, error) {
	return lockPolling(path, 0)
}

// LockWithTimeout attempts to acquire an exclusive lock, retrying with
// a short backoff until timeout elapses. Returns ErrWouldBlock if the
// timeout expires first.
func LockWithTimeout(path string, timeout time.Duration) (*Lock, error) {
	if timeout <= 0 {
		return nil, fmt.Errorf("lockfile: timeout must be > 0")
	}
	return lockPolling(path, timeout)
}

func lockPolling(path string, timeout time.Duration) (*Lock, error) {
	var deadline time.Time
	if timeout > 0 {
		deadline = time.Now().Add(timeout)
	}

	backoff := time.Millisecond
	for {
		f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o600)
		if err != nil {
			return nil, fmt.Errorf("lockfile: open %q: %w", path, err)
		}

		err = flockRetryEINTR(int(f.Fd()), syscall.LOCK_EX|syscall.LOCK_NB)
		if err == nil {
			return &Lock{file: f}, nil
		}
		_ = f.Close()

		if !isWouldBlock(err) {
			return nil, fmt.Errorf("lockfile: flock %q: %w", path, err)
		}
		if timeout == 0 {
			return nil, ErrWouldBlock
		}

		remaining := time.Until(deadline)
		if remaining <= 0 {
			return nil, fmt.Errorf("%w: timed out after %s", ErrWouldBlock, timeout)
		}
		sleep := backoff
		if sleep > remaining {
			sleep = remaining
		}
		time.Sleep(sleep)
		if backoff < 25*time.Millisecond {
			backoff *= 2
		}
	}
}

func isWouldBlock(err error) bool {
	return errors.Is(err, syscall.EWOULDBLOCK) || errors.Is(err, syscall.EAGAIN)
}

// flockRetryEINTR wraps syscall.Flock, retrying on EINTR (a signal
// interrupting the blocking call rather than the call itself failing).
func flockRetryEINTR(fd int, how int) error {
	const maxEINTRRetries = 10000
	var err error
	for range maxEINTRRetries {
		err = syscall.Flock(fd, how)
		if err == nil || !errors.Is(err, syscall.EINTR) {
			return err
		}
	}
	return err
}
