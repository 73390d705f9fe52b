package lockfile_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DarkNight7593/Proyecto-BDII/internal/lockfile"
)

func Test_Lock_Then_Close_Allows_A_Second_Lock(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "table.lock")

	lk, err := lockfile.Lock(path)
	require.NoError(t, err)
	require.NoError(t, lk.Close())

	lk2, err := lockfile.Lock(path)
	require.NoError(t, err)
	require.NoError(t, lk2.Close())
}

func Test_TryLock_Fails_While_Another_Handle_Holds_The_Lock(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "table.lock")

	lk, err := lockfile.Lock(path)
	require.NoError(t, err)
	defer lk.Close()

	_, err = lockfile.TryLock(path)
	assert.ErrorIs(t, err, lockfile.ErrWouldBlock)
}

func Test_LockWithTimeout_Gives_Up_And_Reports_ErrWouldBlock(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "table.lock")

	lk, err := lockfile.Lock(path)
	require.NoError(t, err)
	defer lk.Close()

	_, err = lockfile.LockWithTimeout(path, 20*time.Millisecond)
	assert.ErrorIs(t, err, lockfile.ErrWouldBlock)
}

func Test_Close_Is_Idempotent(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "table.lock")
	lk, err := lockfile.Lock(path)
	require.NoError(t, err)

	require.NoError(t, lk.Close())
	require.NoError(t, lk.Close())
}

func Test_Lock_Released_Is_Reacquirable_By_TryLock(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "table.lock")
	lk, err := lockfile.Lock(path)
	require.NoError(t, err)
	require.NoError(t, lk.Close())

	lk2, err := lockfile.TryLock(path)
	require.NoError(t, err)
	require.NoError(t, lk2.Close())
}
