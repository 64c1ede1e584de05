// Package blobstore abstracts where rawio buffers are stored when they do not
// live at a plain filesystem path.
//
// # Built-in Implementations
//
//   - LocalStore: a directory on local disk; blobs are memory-mapped on Open
//   - MemoryStore: in-process map, for tests
//   - CompressedStore: wraps any store with a codec.Codec
//   - LocalCache: mirrors blobs of a remote store to disk so they can be mapped
//   - s3.Store: Amazon S3 with range reads and multipart uploads
//   - minio.Store: MinIO and other S3-compatible services
//
// Blobs returned by LocalStore (and therefore LocalCache) implement
// [Mappable]; rawio.ReadBlob uses that to hand out a zero-copy view. Every
// other store is read into the heap.
//
// Implementations must be safe for concurrent use.
package blobstore
