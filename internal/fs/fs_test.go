package fs

import (
	"os"
	"path/filepath"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalFS(t *testing.T) {
	tmp := t.TempDir()
	lfs := LocalFS{}

	// Test OpenFile (Create)
	fpath := filepath.Join(tmp, "test.txt")
	f, err := lfs.OpenFile(fpath, os.O_CREATE|os.O_RDWR, 0600)
	require.NoError(t, err)
	assert.Equal(t, fpath, f.Name())
	assert.NotZero(t, f.Fd())

	// Truncate via File
	require.NoError(t, f.Truncate(4096))

	info, err := f.Stat()
	require.NoError(t, err)
	assert.Equal(t, int64(4096), info.Size())
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	assert.NoError(t, f.Close())

	// Stat via FS
	info2, err := lfs.Stat(fpath)
	require.NoError(t, err)
	assert.Equal(t, int64(4096), info2.Size())

	// Remove
	assert.NoError(t, lfs.Remove(fpath))
	_, err = lfs.Stat(fpath)
	assert.True(t, os.IsNotExist(err))
}

func TestFaultyFS_Truncate(t *testing.T) {
	tmp := t.TempDir()
	ffs := NewFaultyFS(LocalFS{})
	ffs.AddRule("quota", Fault{FailOnTruncate: true, Err: syscall.EDQUOT})

	fpath := filepath.Join(tmp, "quota.bin")
	f, err := ffs.OpenFile(fpath, os.O_CREATE|os.O_RDWR, 0600)
	require.NoError(t, err)

	err = f.Truncate(4096)
	require.Error(t, err)
	assert.ErrorIs(t, err, syscall.EDQUOT)

	require.NoError(t, f.Close())
	assert.Equal(t, 1, ffs.Opens(fpath))
	assert.Equal(t, 1, ffs.Closes(fpath))

	// Files that do not match the pattern are untouched.
	other := filepath.Join(tmp, "other.bin")
	g, err := ffs.OpenFile(other, os.O_CREATE|os.O_RDWR, 0600)
	require.NoError(t, err)
	assert.NoError(t, g.Truncate(10))
	assert.NoError(t, g.Close())
}

func TestFaultyFS_LongestPatternWins(t *testing.T) {
	tmp := t.TempDir()
	ffs := NewFaultyFS(LocalFS{})
	ffs.AddRule("scratch", Fault{FailOnTruncate: true, Err: syscall.ENOSPC})
	ffs.AddRule("scratch.bin", Fault{FailOnTruncate: true, Err: syscall.EDQUOT})
	ffs.AddRule(".bin", Fault{FailOnTruncate: true, Err: syscall.EIO})

	fpath := filepath.Join(tmp, "scratch.bin")

	// Map iteration order varies between runs; the choice must not.
	for range 20 {
		f, err := ffs.OpenFile(fpath, os.O_CREATE|os.O_RDWR, 0600)
		require.NoError(t, err)
		assert.ErrorIs(t, f.Truncate(4096), syscall.EDQUOT)
		require.NoError(t, f.Close())
	}

	// Equal lengths resolve to the lexically smaller pattern.
	ffs.AddRule("xzz", Fault{FailOnRemove: true, Err: syscall.EROFS})
	ffs.AddRule("qqx", Fault{FailOnRemove: true, Err: syscall.EPERM})
	other := filepath.Join(tmp, "qqxxzz")
	for range 20 {
		assert.ErrorIs(t, ffs.Remove(other), syscall.EPERM)
	}
}

func TestFaultyFS_OpenRemoveClose(t *testing.T) {
	tmp := t.TempDir()
	ffs := NewFaultyFS(nil)

	denied := filepath.Join(tmp, "denied")
	ffs.AddRule("denied", Fault{FailOnOpen: true, Err: syscall.EACCES})
	_, err := ffs.OpenFile(denied, os.O_CREATE|os.O_RDWR, 0600)
	assert.ErrorIs(t, err, syscall.EACCES)
	assert.Equal(t, 0, ffs.Opens(denied))

	sticky := filepath.Join(tmp, "sticky")
	ffs.AddRule("sticky", Fault{FailOnRemove: true, FailOnClose: true})
	f, err := ffs.OpenFile(sticky, os.O_CREATE|os.O_RDWR, 0600)
	require.NoError(t, err)

	assert.ErrorIs(t, ffs.Remove(sticky), ErrInjected)
	_, err = ffs.Stat(sticky)
	assert.NoError(t, err)

	assert.ErrorIs(t, f.Close(), ErrInjected)
	assert.Equal(t, 1, ffs.Closes(sticky))
}
