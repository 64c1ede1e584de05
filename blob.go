package rawio

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"syscall"
	"time"

	"github.com/hupe1980/rawio/blobstore"
	"github.com/hupe1980/rawio/buffer"
	"github.com/hupe1980/rawio/internal/conv"
	"github.com/hupe1980/rawio/resource"
)

// BlobBuffer holds the content of a blob read by ReadBlob.
//
// When the store provides memory-mapped blobs the content is zero-copy and
// Mapped reports true; otherwise it is a heap copy loaded in full.
type BlobBuffer struct {
	name    string
	data    []byte
	mapped  bool
	rel     *releaser
	cleanup runtime.Cleanup
}

var _ buffer.ByteBuffer = (*BlobBuffer)(nil)

// ReadBlob reads a whole blob from store.
//
// It follows the ReadFile contract: a missing blob is an *IOError with errno
// ENOENT and an empty blob a *ValidationError wrapping ErrEmptyFile.
func ReadBlob(ctx context.Context, store blobstore.BlobStore, name string, optFns ...Option) (*BlobBuffer, error) {
	o := applyOptions(optFns)
	start := time.Now()

	b, err := readBlob(ctx, store, name, &o)

	var size int64
	mapped := false
	if b != nil {
		size = int64(len(b.data))
		mapped = b.mapped
	}
	o.metricsCollector.RecordRead(size, time.Since(start), err)
	o.logger.LogBlobRead(ctx, name, size, mapped, err)

	return b, err
}

func readBlob(ctx context.Context, store blobstore.BlobStore, name string, o *options) (*BlobBuffer, error) {
	blob, err := store.Open(ctx, name)
	if err != nil {
		e := newIOError("open", name, "could not open blob", err)
		if e.Errno == 0 && errors.Is(err, blobstore.ErrInvalidName) {
			e.Errno = syscall.EINVAL
		}
		return nil, e
	}

	size := blob.Size()
	if size == 0 {
		_ = blob.Close()
		return nil, &ValidationError{Path: name, Constraint: ErrEmptyFile}
	}
	if _, err := conv.Int64ToInt(size); err != nil {
		_ = blob.Close()
		return nil, &ValidationError{Path: name, Constraint: ErrTooLarge, Detail: fmt.Sprintf("%d bytes", size)}
	}

	if !o.controller.TryAcquireMemory(size) {
		_ = blob.Close()
		return nil, newIOError("mmap", name, "memory limit exceeded", syscall.ENOMEM)
	}

	if m, ok := blob.(blobstore.Mappable); ok {
		data, err := m.Bytes()
		if err != nil {
			_ = blob.Close()
			o.controller.ReleaseMemory(size)
			return nil, newIOError("mmap", name, "could not map blob", err)
		}
		if o.access != AccessDefault {
			if a, ok := blob.(interface{ Advise(AccessPattern) error }); ok {
				_ = a.Advise(o.access)
			}
		}
		return newBlobBuffer(name, data, true, &releaser{closer: blob, controller: o.controller, reserved: size}), nil
	}

	data, err := blobstore.ReadAll(ctx, blob)
	_ = blob.Close()
	if err != nil {
		o.controller.ReleaseMemory(size)
		return nil, newIOError("read", name, "could not read blob", err)
	}
	return newBlobBuffer(name, data, false, &releaser{controller: o.controller, reserved: size}), nil
}

func newBlobBuffer(name string, data []byte, mapped bool, rel *releaser) *BlobBuffer {
	b := &BlobBuffer{name: name, data: data, mapped: mapped, rel: rel}
	b.cleanup = runtime.AddCleanup(b, func(r *releaser) { _ = r.release() }, rel)
	return b
}

// Name returns the blob name.
func (b *BlobBuffer) Name() string { return b.name }

// Mapped reports whether the content is memory-mapped rather than copied.
func (b *BlobBuffer) Mapped() bool { return b.mapped }

func (b *BlobBuffer) Device() buffer.Device { return buffer.CPU }
func (b *BlobBuffer) DType() buffer.DType   { return buffer.Uint8 }
func (b *BlobBuffer) Rank() int             { return 1 }
func (b *BlobBuffer) Len() int              { return len(b.data) }

// Bytes returns the blob content, or nil after Close.
func (b *BlobBuffer) Bytes() []byte {
	if b.rel.released() {
		return nil
	}
	return b.data
}

// Close releases the mapping or heap copy. It is idempotent.
func (b *BlobBuffer) Close() error {
	if b.rel.released() {
		return nil
	}
	b.cleanup.Stop()
	err := b.rel.release()
	b.data = nil
	return err
}

// WriteBlob writes the bytes of buf to store under name.
//
// buf is validated like in WriteFile before the store is touched. Unlike
// WriteFile the blob is replaced atomically by stores that support it.
func WriteBlob(ctx context.Context, store blobstore.BlobStore, name string, buf buffer.ByteBuffer, optFns ...Option) error {
	o := applyOptions(optFns)
	start := time.Now()

	n, err := writeBlob(ctx, store, name, buf, &o)

	o.metricsCollector.RecordWrite(int64(n), time.Since(start), err)
	o.logger.LogBlobWrite(ctx, name, n, err)

	return err
}

func writeBlob(ctx context.Context, store blobstore.BlobStore, name string, buf buffer.ByteBuffer, o *options) (int, error) {
	if err := validate(name, buf); err != nil {
		return 0, err
	}
	data := buf.Bytes()[:buf.Len()]

	if !o.controller.IOLimited() && !o.sync {
		if err := store.Put(ctx, name, data); err != nil {
			return 0, newIOError("write", name, "could not write blob", err)
		}
		return len(data), nil
	}

	w, err := store.Create(ctx, name)
	if err != nil {
		return 0, newIOError("open", name, "could not create blob", err)
	}

	n, err := resource.NewRateLimitedWriter(ctx, w, o.controller).Write(data)
	if err != nil {
		_ = blobstore.Abort(w)
		e := newIOError("write", name, "could not write blob", err)
		e.Written = n
		return n, e
	}
	if o.sync {
		if err := w.Sync(); err != nil {
			_ = blobstore.Abort(w)
			return n, newIOError("sync", name, "could not sync blob", err)
		}
	}
	if err := w.Close(); err != nil {
		return n, newIOError("close", name, "could not commit blob", err)
	}
	return n, nil
}
