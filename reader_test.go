package rawio

import (
	"bytes"
	"errors"
	iofs "io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"syscall"
	"testing"

	"github.com/hupe1980/rawio/buffer"
	"github.com/hupe1980/rawio/internal/fs"
	"github.com/hupe1980/rawio/resource"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadFile(t *testing.T) {
	content := []byte("hello mapped world")
	path := writeTemp(t, "data.bin", content)

	f, err := ReadFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, path, f.Path())
	assert.Equal(t, int64(len(content)), f.Size())
	assert.Equal(t, buffer.CPU, f.Device())
	assert.Equal(t, buffer.Uint8, f.DType())
	assert.Equal(t, 1, f.Rank())
	assert.Equal(t, len(content), f.Len())
	assert.Equal(t, content, f.Bytes())
	assert.Equal(t, 1, f.Pages())
	assert.NoError(t, ValidateBuffer(f))
}

func TestReadFile_Nonexistent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.bin")

	f, err := ReadFile(path)
	require.Error(t, err)
	assert.Nil(t, f)

	var ioErr *IOError
	require.ErrorAs(t, err, &ioErr)
	assert.Equal(t, "stat", ioErr.Op)
	assert.Equal(t, path, ioErr.Path)
	assert.NotZero(t, ioErr.Errno)
	assert.Equal(t, syscall.ENOENT, ioErr.Errno)
	assert.ErrorIs(t, err, iofs.ErrNotExist)
	assert.Contains(t, err.Error(), "missing.bin")
}

func TestReadFile_EmptyPath(t *testing.T) {
	_, err := ReadFile("")

	var ioErr *IOError
	require.ErrorAs(t, err, &ioErr)
	assert.Equal(t, "stat", ioErr.Op)
	assert.NotZero(t, ioErr.Errno)
}

func TestReadFile_Empty(t *testing.T) {
	path := writeTemp(t, "empty.bin", nil)

	_, err := ReadFile(path)
	require.ErrorIs(t, err, ErrEmptyFile)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, path, vErr.Path)
}

func TestReadFile_Directory(t *testing.T) {
	dir := t.TempDir()

	_, err := ReadFile(dir)

	var ioErr *IOError
	require.ErrorAs(t, err, &ioErr)
	assert.Equal(t, "stat", ioErr.Op)
	assert.Equal(t, syscall.EISDIR, ioErr.Errno)
}

func TestReadFile_NotRegular(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("no device files")
	}

	_, err := ReadFile("/dev/null")

	var ioErr *IOError
	require.ErrorAs(t, err, &ioErr)
	assert.Equal(t, "mmap", ioErr.Op)
	assert.Equal(t, syscall.ENODEV, ioErr.Errno)
}

func TestReadFile_StatGoesThroughFileSystem(t *testing.T) {
	path := writeTemp(t, "data.bin", []byte("x"))
	ffs := fs.NewFaultyFS(nil)
	ffs.AddRule("data.bin", fs.Fault{FailOnStat: true})

	_, err := ReadFile(path, WithFileSystem(ffs))
	var ioErr *IOError
	require.ErrorAs(t, err, &ioErr)
	assert.Equal(t, "stat", ioErr.Op)
	assert.ErrorIs(t, err, fs.ErrInjected)
	assert.Equal(t, []string{"stat data.bin"}, ffs.Ops())
}

func TestMappedFile_Close(t *testing.T) {
	path := writeTemp(t, "data.bin", []byte("abc"))

	f, err := ReadFile(path)
	require.NoError(t, err)
	assert.False(t, f.Closed())

	require.NoError(t, f.Close())
	require.NoError(t, f.Close())
	assert.True(t, f.Closed())
	assert.Nil(t, f.Bytes())

	_, err = f.Checksum()
	assert.ErrorIs(t, err, ErrClosed)
	_, err = f.ReadAt(make([]byte, 1), 0)
	assert.ErrorIs(t, err, ErrClosed)
	_, err = f.Region(0, 1)
	assert.ErrorIs(t, err, ErrClosed)
}

func TestMappedFile_ReadAtChecksumRegion(t *testing.T) {
	path := writeTemp(t, "check.bin", []byte("123456789"))

	f, err := ReadFile(path, WithAccessPattern(AccessSequential))
	require.NoError(t, err)
	defer f.Close()

	sum, err := f.Checksum()
	require.NoError(t, err)
	assert.Equal(t, uint32(0xE3069283), sum)

	buf := make([]byte, 4)
	n, err := f.ReadAt(buf, 2)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, "3456", string(buf))

	r, err := f.Region(3, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, r.Offset())
	assert.Equal(t, 3, r.Len())
	assert.Equal(t, "456", string(r.Bytes()))
	assert.NoError(t, r.Advise(AccessRandom))
	assert.NoError(t, ValidateBuffer(r))

	_, err = f.Region(8, 2)
	assert.ErrorIs(t, err, ErrOutOfBounds)

	assert.NoError(t, f.Advise(AccessWillNeed))
}

func TestMappedFile_Resident(t *testing.T) {
	content := bytes.Repeat([]byte{0xAB}, 3*os.Getpagesize())
	path := writeTemp(t, "pages.bin", content)

	f, err := ReadFile(path)
	require.NoError(t, err)
	defer f.Close()

	_, err = f.Resident()
	if runtime.GOOS != "linux" {
		assert.ErrorIs(t, err, ErrUnsupported)
		return
	}
	require.NoError(t, err)

	// Touch every page so they are all in core.
	var sum byte
	for i := 0; i < len(content); i += os.Getpagesize() {
		sum += f.Bytes()[i]
	}
	_ = sum

	bm, err := f.Resident()
	require.NoError(t, err)
	assert.Equal(t, uint64(3), bm.GetCardinality())
}

func TestReadFile_MemoryLimit(t *testing.T) {
	path := writeTemp(t, "big.bin", make([]byte, 100))

	rc := resource.NewController(resource.Config{MemoryLimitBytes: 150})

	f, err := ReadFile(path, WithResourceController(rc))
	require.NoError(t, err)
	assert.Equal(t, int64(100), rc.MemoryUsage())

	_, err = ReadFile(path, WithResourceController(rc))
	var ioErr *IOError
	require.ErrorAs(t, err, &ioErr)
	assert.Equal(t, syscall.ENOMEM, ioErr.Errno)
	assert.Equal(t, int64(100), rc.MemoryUsage())

	require.NoError(t, f.Close())
	assert.Zero(t, rc.MemoryUsage())

	f, err = ReadFile(path, WithResourceController(rc))
	require.NoError(t, err)
	require.NoError(t, f.Close())
}

func TestReadFile_MetricsAndLogging(t *testing.T) {
	path := writeTemp(t, "data.bin", []byte("12345"))
	metrics := &BasicMetricsCollector{}

	var logs bytes.Buffer
	logger := NewLogger(slog.NewJSONHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	f, err := ReadFile(path, WithMetricsCollector(metrics), WithLogger(logger))
	require.NoError(t, err)
	require.NoError(t, f.Close())

	_, err = ReadFile(path+".missing", WithMetricsCollector(metrics), WithLogger(logger))
	require.Error(t, err)

	stats := metrics.GetStats()
	assert.Equal(t, int64(2), stats.ReadCount)
	assert.Equal(t, int64(1), stats.ReadErrors)
	assert.Equal(t, int64(5), stats.ReadBytes)

	assert.Contains(t, logs.String(), `"msg":"file mapped"`)
	assert.Contains(t, logs.String(), `"msg":"map failed"`)
}

func TestMappedFile_LiveView(t *testing.T) {
	path := writeTemp(t, "live.bin", []byte("aaaa"))

	f, err := ReadFile(path)
	require.NoError(t, err)
	defer f.Close()

	fh, err := os.OpenFile(path, os.O_WRONLY, 0)
	require.NoError(t, err)
	_, err = fh.WriteAt([]byte("b"), 0)
	require.NoError(t, err)
	require.NoError(t, fh.Close())

	// MAP_SHARED makes writes by others visible on the platforms we map on.
	if runtime.GOOS != "windows" {
		assert.Equal(t, byte('b'), f.Bytes()[0])
	}
}

func TestIOError_Format(t *testing.T) {
	err := newIOError("open", "out.bin", "could not open output file", &os.PathError{Op: "open", Path: "out.bin", Err: syscall.EACCES})

	assert.Equal(t, syscall.EACCES, err.Errno)
	assert.Contains(t, err.Error(), `rawio: open "out.bin": could not open output file`)
	assert.Contains(t, err.Error(), "errno")
	assert.True(t, errors.Is(err, syscall.EACCES))
}
