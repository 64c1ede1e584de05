package rawio

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"syscall"

	"github.com/hupe1980/rawio/internal/mmap"
)

var (
	// ErrEmptyFile is returned when a file to map has zero length.
	ErrEmptyFile = errors.New("rawio: file is empty")
	// ErrTooLarge is returned when a file does not fit in the address space.
	ErrTooLarge = errors.New("rawio: file exceeds addressable size")
	// ErrNilBuffer is returned when a nil buffer is passed for writing.
	ErrNilBuffer = errors.New("rawio: buffer is nil")
	// ErrNotHost is returned when a buffer does not live in host memory.
	ErrNotHost = errors.New("rawio: buffer is not host-resident")
	// ErrNotUint8 is returned when a buffer's element type is not uint8.
	ErrNotUint8 = errors.New("rawio: buffer element type is not uint8")
	// ErrNotFlat is returned when a buffer is not one-dimensional.
	ErrNotFlat = errors.New("rawio: buffer is not one-dimensional")
	// ErrShortView is returned when a buffer reports more elements than its byte view holds.
	ErrShortView = errors.New("rawio: buffer view is shorter than its length")

	// ErrClosed is returned when using a MappedFile or BlobBuffer after Close.
	ErrClosed = mmap.ErrClosed
	// ErrUnsupported is returned for operations the platform does not provide.
	ErrUnsupported = mmap.ErrUnsupported
	// ErrOutOfBounds is returned for a Region outside the mapped file.
	ErrOutOfBounds = mmap.ErrOutOfBounds
)

// IOError reports a failed operating system call.
//
// The underlying error can be accessed via errors.Unwrap, so
// errors.Is(err, fs.ErrNotExist) works as expected.
type IOError struct {
	Op      string // "stat", "open", "mmap", "madvise", "write", "sync", "close"
	Path    string
	Msg     string
	Errno   syscall.Errno // 0 if the cause carries no errno
	Written int           // bytes written before a failed write
	Err     error
}

func (e *IOError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "rawio: %s %q", e.Op, e.Path)
	if e.Msg != "" {
		b.WriteString(": ")
		b.WriteString(e.Msg)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	if e.Errno != 0 {
		fmt.Fprintf(&b, " (errno %d)", uintptr(e.Errno))
	}
	if e.Op == "write" && e.Written > 0 {
		fmt.Fprintf(&b, " after %d bytes", e.Written)
	}
	return b.String()
}

func (e *IOError) Unwrap() error { return e.Err }

// ValidationError reports an input rejected before any I/O took place.
//
// Unwrap returns the violated constraint, one of the package sentinels.
type ValidationError struct {
	Path       string
	Constraint error
	Detail     string
}

func (e *ValidationError) Error() string {
	msg := e.Constraint.Error()
	if e.Path != "" {
		msg = fmt.Sprintf("%s: %q", msg, e.Path)
	}
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	return msg
}

func (e *ValidationError) Unwrap() error { return e.Constraint }

func newIOError(op, path, msg string, err error) *IOError {
	return &IOError{
		Op:    op,
		Path:  path,
		Msg:   msg,
		Errno: errnoOf(err),
		Err:   err,
	}
}

func errnoOf(err error) syscall.Errno {
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return errno
	}
	if errors.Is(err, fs.ErrNotExist) {
		return syscall.ENOENT
	}
	return 0
}
