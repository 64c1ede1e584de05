package rawio

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/hupe1980/rawio/buffer"
	"github.com/hupe1980/rawio/resource"
)

// WriteFile writes the bytes of buf to path, creating the file or truncating
// an existing one.
//
// buf must be host-resident, of dtype uint8 and rank 1; otherwise a
// *ValidationError is returned and the file system is not touched. The bytes
// are written in one sequential write. There is no atomic replace: a failed
// write leaves a truncated or partial file behind.
func WriteFile(path string, buf buffer.ByteBuffer, optFns ...Option) error {
	return WriteFileContext(context.Background(), path, buf, optFns...)
}

// WriteFileContext is like WriteFile. ctx only bounds waiting on the IO limit
// of a resource controller; the write itself is not interruptible.
func WriteFileContext(ctx context.Context, path string, buf buffer.ByteBuffer, optFns ...Option) error {
	o := applyOptions(optFns)
	start := time.Now()

	n, err := writeFile(ctx, path, buf, &o)

	o.metricsCollector.RecordWrite(int64(n), time.Since(start), err)
	o.logger.LogWrite(ctx, path, n, err)

	return err
}

func writeFile(ctx context.Context, path string, buf buffer.ByteBuffer, o *options) (n int, err error) {
	if err := validate(path, buf); err != nil {
		return 0, err
	}
	data := buf.Bytes()[:buf.Len()]

	f, err := o.fs.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, o.perm)
	if err != nil {
		return 0, newIOError("open", path, "could not open output file", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = newIOError("close", path, "could not close output file", cerr)
		}
	}()

	var w io.Writer = f
	if o.controller.IOLimited() {
		w = resource.NewRateLimitedWriter(ctx, f, o.controller)
	}

	n, err = w.Write(data)
	if err == nil && n < len(data) {
		err = io.ErrShortWrite
	}
	if err != nil {
		e := newIOError("write", path, "could not write output file", err)
		e.Written = n
		return n, e
	}

	if o.sync {
		if err := f.Sync(); err != nil {
			return n, newIOError("sync", path, "could not sync output file", err)
		}
	}

	return n, nil
}

// ValidateBuffer reports whether buf can be written by WriteFile.
// It returns nil or a *ValidationError.
func ValidateBuffer(buf buffer.ByteBuffer) error {
	return validate("", buf)
}

func validate(path string, buf buffer.ByteBuffer) error {
	if buf == nil {
		return &ValidationError{Path: path, Constraint: ErrNilBuffer}
	}
	if d := buf.Device(); !d.IsHost() {
		return &ValidationError{Path: path, Constraint: ErrNotHost, Detail: "device " + d.String()}
	}
	if t := buf.DType(); t != buffer.Uint8 {
		return &ValidationError{Path: path, Constraint: ErrNotUint8, Detail: "dtype " + t.String()}
	}
	if r := buf.Rank(); r != 1 {
		return &ValidationError{Path: path, Constraint: ErrNotFlat, Detail: fmt.Sprintf("rank %d", r)}
	}
	if n, view := buf.Len(), len(buf.Bytes()); n < 0 || n > view {
		return &ValidationError{Path: path, Constraint: ErrShortView, Detail: fmt.Sprintf("%d elements, %d bytes", n, view)}
	}
	return nil
}
