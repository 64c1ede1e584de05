package codec

import (
	"fmt"

	"github.com/pierrec/lz4/v4"
)

// lz4MaxRatio bounds how far an LZ4 block can expand: a single match token
// followed by length bytes of 0xFF covers at most 255 bytes per input byte.
const lz4MaxRatio = 255

// LZ4 is a fast block codec, suited to data read often.
type LZ4 struct{}

func (LZ4) Encode(src []byte) ([]byte, error) {
	if err := checkEncodeSize(src); err != nil {
		return nil, err
	}
	if len(src) == 0 {
		return frame(src, nil), nil
	}

	compressed := make([]byte, lz4.CompressBlockBound(len(src)))
	n, err := lz4.CompressBlock(src, compressed, nil)
	if err != nil {
		return nil, err
	}
	// n == 0 means incompressible.
	return frame(src, compressed[:n]), nil
}

func (LZ4) Decode(src []byte) ([]byte, error) {
	size, payload, raw, err := unframe(src)
	if err != nil {
		return nil, err
	}
	if raw {
		return payload, nil
	}

	if uint64(size) > uint64(len(payload))*lz4MaxRatio+headerSize {
		return nil, fmt.Errorf("%w: declared size %d for %d compressed bytes", ErrCorrupt, size, len(payload))
	}

	out := make([]byte, size)
	n, err := lz4.UncompressBlock(payload, out)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	if n != size {
		return nil, fmt.Errorf("%w: decompressed %d bytes, expected %d", ErrCorrupt, n, size)
	}
	return out, nil
}

// Name returns "lz4".
func (LZ4) Name() string { return "lz4" }
