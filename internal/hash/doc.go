// Package hash provides the CRC32-Castagnoli checksum used across rawio.
//
// Mapped files report their checksum through MappedFile.Checksum, the CLI
// prints it for each input, and the S3 uploader sends it so the server can
// verify object integrity.
//
// One-shot:
//
//	sum := hash.CRC32C(data)
//
// Streaming:
//
//	h := hash.NewCRC32C()
//	h.Write(chunk1)
//	h.Write(chunk2)
//	sum := h.Sum32()
//
// The standard library uses SSE4.2 or the ARMv8 CRC extension when present.
package hash
