package fs

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalFS(t *testing.T) {
	tmp := t.TempDir()
	lfs := LocalFS{}

	dir := filepath.Join(tmp, "subdir")
	assert.NoError(t, lfs.MkdirAll(dir, 0o755))

	fpath := filepath.Join(dir, "test.bin")
	f, err := lfs.OpenFile(fpath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	require.NoError(t, err)

	_, err = f.Write([]byte("hello"))
	assert.NoError(t, err)
	assert.NoError(t, f.Sync())

	info, err := f.Stat()
	assert.NoError(t, err)
	assert.Equal(t, int64(5), info.Size())
	assert.NoError(t, f.Close())

	info2, err := lfs.Stat(fpath)
	assert.NoError(t, err)
	assert.Equal(t, int64(5), info2.Size())

	newPath := filepath.Join(dir, "renamed.bin")
	assert.NoError(t, lfs.Rename(fpath, newPath))

	assert.NoError(t, lfs.Remove(newPath))
	_, err = lfs.Stat(newPath)
	assert.True(t, os.IsNotExist(err))
}

func TestLocalFS_OpenFileErrorIsUntypedNil(t *testing.T) {
	f, err := LocalFS{}.OpenFile(filepath.Join(t.TempDir(), "missing", "x"), os.O_RDONLY, 0)
	require.Error(t, err)
	assert.True(t, f == nil)
}

func TestFaultyFS_FailAfterBytes(t *testing.T) {
	ffs := NewFaultyFS(nil)
	ffs.AddRule("faulty", Fault{FailAfterBytes: 5})

	fpath := filepath.Join(t.TempDir(), "faulty.bin")
	f, err := ffs.OpenFile(fpath, os.O_CREATE|os.O_WRONLY, 0o644)
	require.NoError(t, err)

	n, err := f.Write([]byte("hello"))
	assert.NoError(t, err)
	assert.Equal(t, 5, n)

	n, err = f.Write([]byte("!"))
	assert.ErrorIs(t, err, ErrInjected)
	assert.Equal(t, 0, n)

	require.NoError(t, f.Close())

	data, err := os.ReadFile(fpath)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}

func TestFaultyFS_ShortWrite(t *testing.T) {
	ffs := NewFaultyFS(LocalFS{})
	ffs.AddRule("short", Fault{ShortWrite: 3})

	f, err := ffs.OpenFile(filepath.Join(t.TempDir(), "short.bin"), os.O_CREATE|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	defer f.Close()

	n, err := f.Write([]byte("abcdef"))
	assert.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestFaultyFS_OpenStatSyncClose(t *testing.T) {
	boom := errors.New("boom")
	tmp := t.TempDir()

	ffs := NewFaultyFS(nil)
	ffs.AddRule("noopen", Fault{FailOnOpen: true, Err: boom})
	ffs.AddRule("nostat", Fault{FailOnStat: true})
	ffs.AddRule("nosync", Fault{FailOnSync: true, FailOnClose: true})

	_, err := ffs.OpenFile(filepath.Join(tmp, "noopen.bin"), os.O_CREATE|os.O_WRONLY, 0o644)
	assert.ErrorIs(t, err, boom)
	_, statErr := os.Stat(filepath.Join(tmp, "noopen.bin"))
	assert.True(t, os.IsNotExist(statErr), "failed open must not create the file")

	_, err = ffs.Stat(filepath.Join(tmp, "nostat.bin"))
	var pe *os.PathError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "stat", pe.Op)
	assert.ErrorIs(t, err, ErrInjected)

	f, err := ffs.OpenFile(filepath.Join(tmp, "nosync.bin"), os.O_CREATE|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	assert.ErrorIs(t, f.Sync(), ErrInjected)
	assert.ErrorIs(t, f.Close(), ErrInjected)
}

func TestFaultyFS_Ops(t *testing.T) {
	tmp := t.TempDir()
	ffs := NewFaultyFS(nil)

	dir := filepath.Join(tmp, "d")
	require.NoError(t, ffs.MkdirAll(dir, 0o755))

	fpath := filepath.Join(dir, "a.bin")
	f, err := ffs.OpenFile(fpath, os.O_CREATE|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = f.Write([]byte("x"))
	require.NoError(t, err)
	require.NoError(t, f.Close())

	_, err = ffs.Stat(fpath)
	require.NoError(t, err)
	require.NoError(t, ffs.Rename(fpath, fpath+".new"))
	require.NoError(t, ffs.Remove(fpath+".new"))

	assert.Equal(t, []string{
		"mkdir d",
		"open a.bin",
		"write a.bin",
		"close a.bin",
		"stat a.bin",
		"rename a.bin",
		"remove a.bin.new",
	}, ffs.Ops())
}
