//go:build !linux

package mmap

import "github.com/RoaringBitmap/roaring/v2"

// Resident is only implemented on Linux.
func (m *Mapping) Resident() (*roaring.Bitmap, error) {
	if m.closed.Load() {
		return nil, ErrClosed
	}
	return nil, ErrUnsupported
}
