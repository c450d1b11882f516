package datadir

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcquire_SecondLockFails(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")

	first, err := Acquire(dir)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, lockFile))

	_, err = Acquire(dir)
	assert.ErrorIs(t, err, ErrLocked)

	require.NoError(t, first.Release())

	again, err := Acquire(dir)
	require.NoError(t, err)
	require.NoError(t, again.Release())
}

func TestResolve(t *testing.T) {
	t.Setenv("LEADHUB_DATA_DIR", "/var/lib/leadhub")

	assert.Equal(t, "/tmp/x", Resolve("/tmp/x"))
	assert.Equal(t, "/var/lib/leadhub", Resolve(""))

	t.Setenv("LEADHUB_DATA_DIR", "")
	assert.Equal(t, ".", Resolve(""))
}

func TestRelease_NilIsSafe(t *testing.T) {
	var l *Lock
	assert.NoError(t, l.Release())
}
