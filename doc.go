// Package rawio moves raw binary file content into and out of byte buffers.
//
// Two primitives form the core:
//
//   - ReadFile maps a whole file read-only into memory and returns it as a
//     zero-copy byte buffer.
//   - WriteFile validates that a buffer is host-resident, uint8-typed and
//     one-dimensional, then writes its bytes verbatim to a new or truncated file.
//
// # Quick Start
//
//	f, err := rawio.ReadFile("weights.bin")
//	if err != nil {
//	    return err
//	}
//	defer f.Close()
//
//	data := f.Bytes() // valid until Close
//
//	err = rawio.WriteFile("copy.bin", buffer.FromBytes(data))
//
// # Blob Stores
//
// ReadBlob and WriteBlob apply the same contracts to any blobstore.BlobStore.
// Blobs from a local store are mapped zero-copy; blobs from remote stores
// (S3, MinIO) are read into memory in full.
//
//	store := blobstore.NewLocalStore("./data")
//	buf, err := rawio.ReadBlob(ctx, store, "weights.bin")
//	defer buf.Close()
//
// # Errors
//
// Operating system failures are reported as *IOError, carrying the failing
// operation, the path and the errno. Rejected inputs are reported as
// *ValidationError wrapping one of the sentinel errors (ErrEmptyFile,
// ErrNotHost, ErrNotUint8, ErrNotFlat, ...):
//
//	var ioErr *rawio.IOError
//	if errors.As(err, &ioErr) {
//	    log.Printf("%s failed with errno %d", ioErr.Op, ioErr.Errno)
//	}
//	if errors.Is(err, rawio.ErrEmptyFile) {
//	    // nothing to map
//	}
//
// # Lifetime
//
// A MappedFile owns its mapping. Close releases it; if the MappedFile becomes
// unreachable without Close, a runtime cleanup unmaps it. Slices returned by
// Bytes must not be used after Close, and the MappedFile must stay reachable
// while they are in use.
//
// # Observability
//
// Logging uses log/slog through Logger; metrics go to a MetricsCollector.
// Both default to no-ops:
//
//	metrics := &rawio.BasicMetricsCollector{}
//	f, err := rawio.ReadFile(path,
//	    rawio.WithLogger(rawio.NewJSONLogger(slog.LevelDebug)),
//	    rawio.WithMetricsCollector(metrics),
//	)
package rawio
