package blobstore

import (
	"context"
	"fmt"

	"github.com/hupe1980/rawio/codec"
)

// CompressedStore compresses blobs on the way into an inner store and
// decompresses them on the way out. Opened blobs live in memory.
type CompressedStore struct {
	inner BlobStore
	codec codec.Codec
}

// NewCompressedStore wraps inner. A nil codec selects codec.Default.
func NewCompressedStore(inner BlobStore, c codec.Codec) *CompressedStore {
	if c == nil {
		c = codec.Default
	}
	return &CompressedStore{inner: inner, codec: c}
}

// Codec returns the codec in use.
func (s *CompressedStore) Codec() codec.Codec { return s.codec }

// Open reads and decompresses the whole blob.
func (s *CompressedStore) Open(ctx context.Context, name string) (Blob, error) {
	b, err := s.inner.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	defer b.Close()

	raw, err := ReadAll(ctx, b)
	if err != nil {
		return nil, err
	}
	data, err := s.codec.Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("blobstore: decode %q with %s: %w", name, s.codec.Name(), err)
	}
	return newBytesBlob(data), nil
}

// Create buffers writes and compresses them on Close.
func (s *CompressedStore) Create(ctx context.Context, name string) (WritableBlob, error) {
	return &bufferedBlob{commit: func(data []byte) error {
		return s.Put(ctx, name, data)
	}}, nil
}

// Put compresses data and stores it.
func (s *CompressedStore) Put(ctx context.Context, name string, data []byte) error {
	enc, err := s.codec.Encode(data)
	if err != nil {
		return fmt.Errorf("blobstore: encode %q with %s: %w", name, s.codec.Name(), err)
	}
	return s.inner.Put(ctx, name, enc)
}

func (s *CompressedStore) Delete(ctx context.Context, name string) error {
	return s.inner.Delete(ctx, name)
}

func (s *CompressedStore) List(ctx context.Context, prefix string) ([]string, error) {
	return s.inner.List(ctx, prefix)
}
