// Package mmap provides read-only memory-mapped file access for zero-copy I/O.
//
// # Usage
//
//	m, err := mmap.Open("weights.bin")
//	if err != nil { ... }
//	defer m.Close()
//
//	data := m.Bytes()              // zero-copy view of the file
//	r, _ := m.Region(off, n)       // sub-view sharing the mapping
//	_ = m.Advise(mmap.AccessSequential)
//
// Map is the lower-level entry point for callers that already know the size
// (for example from a prior stat): it maps exactly that many bytes.
//
// # Ownership
//
// The file descriptor is closed as soon as the mapping is established. The
// pages stay valid until Close unmaps them. Pages are faulted in lazily, and
// because the mapping is MAP_SHARED, they reflect the live file content.
//
// # Platform Support
//
//   - Unix: mmap(2), madvise(2); mincore(2) for Resident on Linux
//   - Windows: CreateFileMapping/MapViewOfFile (Advise is a no-op, Resident is unsupported)
//
// # Thread Safety
//
// Mapping and Region are safe for concurrent read access. Close is idempotent
// and guarded by an atomic flag, but callers must not touch slices returned by
// Bytes after Close returns.
package mmap
