//go:build linux

package mmap

import (
	"os"

	"github.com/RoaringBitmap/roaring/v2"
	"golang.org/x/sys/unix"
)

// Resident returns the set of page indices that are currently resident in
// physical memory, as reported by mincore(2). Page i covers bytes
// [i*pagesize, (i+1)*pagesize).
func (m *Mapping) Resident() (*roaring.Bitmap, error) {
	if m.closed.Load() {
		return nil, ErrClosed
	}

	bm := roaring.New()
	if len(m.data) == 0 {
		return bm, nil
	}

	ps := os.Getpagesize()
	vec := make([]byte, (len(m.data)+ps-1)/ps)
	if err := unix.Mincore(m.data, vec); err != nil {
		return nil, err
	}

	for i, v := range vec {
		if v&1 != 0 {
			bm.Add(uint32(i))
		}
	}
	return bm, nil
}
