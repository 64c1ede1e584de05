package blobstore

import (
	"context"
	"errors"
	"fmt"
	"io"

	"golang.org/x/sync/errgroup"
)

// LocalCache mirrors blobs of a remote store into a LocalStore.
//
// The first Open of a blob downloads it in parallel ranged reads; later Opens
// map the local copy. Writes go to the remote first, then to the local copy.
// Blobs are assumed immutable: a remote change made by another writer is not
// noticed until Evict is called.
type LocalCache struct {
	remote      BlobStore
	local       *LocalStore
	chunkSize   int64
	concurrency int
}

// LocalCacheOptions configures a LocalCache.
type LocalCacheOptions struct {
	// ChunkSize is the size of each ranged read. Default: 8MB.
	ChunkSize int64
	// Concurrency bounds parallel ranged reads per blob. Default: 8.
	Concurrency int
}

// NewLocalCache creates a cache of remote under dir.
func NewLocalCache(remote BlobStore, dir string, optFns ...func(*LocalCacheOptions)) *LocalCache {
	opts := LocalCacheOptions{
		ChunkSize:   8 << 20,
		Concurrency: 8,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = 8 << 20
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}

	return &LocalCache{
		remote:      remote,
		local:       NewLocalStore(dir),
		chunkSize:   opts.ChunkSize,
		concurrency: opts.Concurrency,
	}
}

// Open returns the local, mappable copy of a blob, downloading it if needed.
func (c *LocalCache) Open(ctx context.Context, name string) (Blob, error) {
	b, err := c.local.Open(ctx, name)
	if err == nil {
		return b, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	if err := c.fetch(ctx, name); err != nil {
		return nil, err
	}
	return c.local.Open(ctx, name)
}

// fetch downloads a blob through LocalStore.Create. Chunks are read in
// parallel, one window of Concurrency chunks at a time, and written in order.
func (c *LocalCache) fetch(ctx context.Context, name string) (err error) {
	rb, err := c.remote.Open(ctx, name)
	if err != nil {
		return err
	}
	defer rb.Close()

	w, err := c.local.Create(ctx, name)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = Abort(w)
		}
	}()

	size := rb.Size()
	window := c.chunkSize * int64(c.concurrency)

	for base := int64(0); base < size; base += window {
		end := min(base+window, size)
		chunks := make([][]byte, 0, c.concurrency)
		for off := base; off < end; off += c.chunkSize {
			chunks = append(chunks, make([]byte, min(c.chunkSize, end-off)))
		}

		g, gctx := errgroup.WithContext(ctx)
		for i, buf := range chunks {
			off := base + int64(i)*c.chunkSize
			g.Go(func() error {
				read, err := rb.ReadAt(gctx, buf, off)
				if err != nil && !(errors.Is(err, io.EOF) && read == len(buf)) {
					return fmt.Errorf("blobstore: fetch %q at %d: %w", name, off, err)
				}
				if read != len(buf) {
					return fmt.Errorf("blobstore: fetch %q at %d: %w", name, off, io.ErrUnexpectedEOF)
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		for _, buf := range chunks {
			if _, err := w.Write(buf); err != nil {
				return err
			}
		}
	}

	if err := w.Sync(); err != nil {
		return err
	}
	return w.Close()
}

// Cached reports whether a local copy exists.
func (c *LocalCache) Cached(name string) bool {
	path, err := c.local.Path(name)
	if err != nil {
		return false
	}
	_, err = c.local.fs.Stat(path)
	return err == nil
}

// Evict removes the local copy of a blob.
func (c *LocalCache) Evict(ctx context.Context, name string) error {
	return c.local.Delete(ctx, name)
}

// Create streams to the remote store; the local copy is dropped so the next
// Open fetches the new content.
func (c *LocalCache) Create(ctx context.Context, name string) (WritableBlob, error) {
	if err := c.local.Delete(ctx, name); err != nil {
		return nil, err
	}
	return c.remote.Create(ctx, name)
}

// Put writes to the remote store, then to the local copy.
func (c *LocalCache) Put(ctx context.Context, name string, data []byte) error {
	if err := c.remote.Put(ctx, name, data); err != nil {
		return err
	}
	return c.local.Put(ctx, name, data)
}

// Delete removes the blob from both stores.
func (c *LocalCache) Delete(ctx context.Context, name string) error {
	if err := c.remote.Delete(ctx, name); err != nil {
		return err
	}
	return c.local.Delete(ctx, name)
}

// List lists the remote store.
func (c *LocalCache) List(ctx context.Context, prefix string) ([]string, error) {
	return c.remote.List(ctx, prefix)
}
