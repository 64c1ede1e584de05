package rawio

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"
	"syscall"
	"time"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/rawio/buffer"
	"github.com/hupe1980/rawio/internal/conv"
	"github.com/hupe1980/rawio/internal/hash"
	"github.com/hupe1980/rawio/internal/mmap"
)

// MappedFile is a read-only, memory-mapped view of a whole file.
//
// It implements buffer.ByteBuffer as a rank-1 uint8 CPU buffer of Size
// elements. The content is never copied to the heap; pages are loaded by the
// kernel on first access. Writes to the file by other processes may become
// visible through the mapping. Truncating the file while it is mapped makes
// access past the new end fault (SIGBUS on Unix).
//
// A MappedFile is safe for concurrent reads.
type MappedFile struct {
	path    string
	m       *mmap.Mapping
	rel     *releaser
	cleanup runtime.Cleanup
}

var _ buffer.ByteBuffer = (*MappedFile)(nil)

// ReadFile maps the file at path read-only into memory.
//
// The file is stat'ed once; directories and other non-regular files are
// rejected with *IOError, empty files with a *ValidationError wrapping
// ErrEmptyFile. The descriptor is closed before ReadFile returns; the mapping
// lives until Close.
func ReadFile(path string, optFns ...Option) (*MappedFile, error) {
	o := applyOptions(optFns)
	start := time.Now()

	f, err := readFile(path, &o)

	var size int64
	if f != nil {
		size = f.Size()
	}
	o.metricsCollector.RecordRead(size, time.Since(start), err)
	o.logger.LogRead(context.Background(), path, size, err)

	return f, err
}

func readFile(path string, o *options) (*MappedFile, error) {
	fi, err := o.fs.Stat(path)
	if err != nil {
		return nil, newIOError("stat", path, "could not stat input file", err)
	}
	if fi.IsDir() {
		return nil, newIOError("stat", path, "is a directory", syscall.EISDIR)
	}
	if !fi.Mode().IsRegular() {
		return nil, newIOError("mmap", path, "not a regular file", syscall.ENODEV)
	}

	size := fi.Size()
	if size == 0 {
		return nil, &ValidationError{Path: path, Constraint: ErrEmptyFile}
	}
	length, err := conv.Int64ToInt(size)
	if err != nil {
		return nil, &ValidationError{Path: path, Constraint: ErrTooLarge, Detail: fmt.Sprintf("%d bytes", size)}
	}

	if !o.controller.TryAcquireMemory(size) {
		return nil, newIOError("mmap", path, "mapped memory limit exceeded", syscall.ENOMEM)
	}

	m, err := mmap.Map(path, length)
	if err != nil {
		o.controller.ReleaseMemory(size)
		op := "mmap"
		var pe *os.PathError
		if errors.As(err, &pe) {
			op = pe.Op
		}
		return nil, newIOError(op, path, "could not map input file", err)
	}

	if o.access != AccessDefault {
		if err := m.Advise(o.access); err != nil {
			_ = m.Close()
			o.controller.ReleaseMemory(size)
			return nil, newIOError("madvise", path, "", err)
		}
	}

	return newMappedFile(path, m, &releaser{closer: m, controller: o.controller, reserved: size}), nil
}

func newMappedFile(path string, m *mmap.Mapping, rel *releaser) *MappedFile {
	f := &MappedFile{path: path, m: m, rel: rel}
	f.cleanup = runtime.AddCleanup(f, func(r *releaser) { _ = r.release() }, rel)
	return f
}

// Path returns the path the file was mapped from.
func (f *MappedFile) Path() string { return f.path }

// Size returns the mapped length in bytes.
func (f *MappedFile) Size() int64 { return int64(f.m.Size()) }

// Device implements buffer.ByteBuffer.
func (f *MappedFile) Device() buffer.Device { return buffer.CPU }

// DType implements buffer.ByteBuffer.
func (f *MappedFile) DType() buffer.DType { return buffer.Uint8 }

// Rank implements buffer.ByteBuffer.
func (f *MappedFile) Rank() int { return 1 }

// Len implements buffer.ByteBuffer.
func (f *MappedFile) Len() int { return f.m.Size() }

// Bytes returns the mapped content, or nil after Close.
// The slice is read-only; writing to it faults.
func (f *MappedFile) Bytes() []byte { return f.m.Bytes() }

// Closed reports whether the mapping has been released.
func (f *MappedFile) Closed() bool { return f.rel.released() }

// Close unmaps the file. It is idempotent.
func (f *MappedFile) Close() error {
	if f.rel.released() {
		return nil
	}
	f.cleanup.Stop()
	return f.rel.release()
}

// Advise hints the kernel about the expected access pattern.
func (f *MappedFile) Advise(pattern AccessPattern) error {
	return f.m.Advise(pattern)
}

// ReadAt implements io.ReaderAt over the mapping.
func (f *MappedFile) ReadAt(p []byte, off int64) (int, error) {
	n, err := f.m.ReadAt(p, off)
	runtime.KeepAlive(f)
	return n, err
}

// Checksum returns the CRC32C of the mapped content.
func (f *MappedFile) Checksum() (uint32, error) {
	data := f.m.Bytes()
	if data == nil {
		return 0, ErrClosed
	}
	sum := hash.CRC32C(data)
	runtime.KeepAlive(f)
	return sum, nil
}

// Resident returns the indices of the pages currently held in memory.
// It returns ErrUnsupported on platforms other than Linux.
func (f *MappedFile) Resident() (*roaring.Bitmap, error) {
	bm, err := f.m.Resident()
	runtime.KeepAlive(f)
	return bm, err
}

// Pages returns the number of OS pages the mapping spans.
func (f *MappedFile) Pages() int { return f.m.Pages() }

// Region returns a view of n bytes starting at off. The view shares the
// mapping and becomes invalid when the MappedFile is closed.
func (f *MappedFile) Region(off, n int) (*Region, error) {
	r, err := f.m.Region(off, n)
	if err != nil {
		return nil, err
	}
	return &Region{parent: f, r: r}, nil
}

// Region is a sub-view of a MappedFile. It implements buffer.ByteBuffer and
// keeps its parent reachable.
type Region struct {
	parent *MappedFile
	r      *mmap.Region
}

var _ buffer.ByteBuffer = (*Region)(nil)

// Offset returns the start of the region within the file.
func (r *Region) Offset() int { return r.r.Offset() }

func (r *Region) Device() buffer.Device { return buffer.CPU }
func (r *Region) DType() buffer.DType   { return buffer.Uint8 }
func (r *Region) Rank() int             { return 1 }
func (r *Region) Len() int              { return r.r.Size() }
func (r *Region) Bytes() []byte         { return r.r.Bytes() }

// Advise hints the kernel about the expected access pattern of the region.
func (r *Region) Advise(pattern AccessPattern) error {
	return r.r.Advise(pattern)
}
