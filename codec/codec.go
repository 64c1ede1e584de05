// Package codec provides the block compression codecs used by
// blobstore.CompressedStore.
//
// Compressed payloads are self-framed:
//
//	[uncompressed uint64 LE][compressed uint64 LE][data...]
//
// A compressed length of zero means the data is stored raw because
// compression did not pay off. The codec name is not part of the frame; the
// reader must use the same codec as the writer.
package codec

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/hupe1980/rawio/internal/conv"
)

// Codec compresses and decompresses whole byte blocks.
// Implementations must be safe for concurrent use.
type Codec interface {
	Encode(src []byte) ([]byte, error)
	Decode(src []byte) ([]byte, error)
	Name() string
}

// Default is the codec used when none is specified.
var Default Codec = Zstd{}

var (
	// ErrCorrupt is returned when a frame cannot be decoded.
	ErrCorrupt = errors.New("codec: corrupt frame")
)

// ByName returns a built-in codec by its stable name.
func ByName(name string) (Codec, bool) {
	switch name {
	case "none", "":
		return None{}, true
	case "lz4":
		return LZ4{}, true
	case "zstd":
		return Zstd{}, true
	default:
		return nil, false
	}
}

// Names lists the built-in codec names.
func Names() []string {
	return []string{"none", "lz4", "zstd"}
}

const headerSize = 16

// MaxDecodedSize is the largest uncompressed size a frame may declare.
// Larger frames are rejected by Encode and reported as ErrCorrupt by Decode.
const MaxDecodedSize = 1 << 32

// ErrTooLarge is returned by Encode for blocks above MaxDecodedSize.
var ErrTooLarge = errors.New("codec: block too large")

func checkEncodeSize(src []byte) error {
	if uint64(len(src)) > MaxDecodedSize {
		return fmt.Errorf("%w: %d bytes, limit %d", ErrTooLarge, len(src), uint64(MaxDecodedSize))
	}
	return nil
}

// maxRatio is the compressed/uncompressed ratio above which data is stored raw.
const maxRatio = 0.9

func frame(src, compressed []byte) []byte {
	if len(compressed) == 0 || float64(len(compressed)) > float64(len(src))*maxRatio {
		out := make([]byte, headerSize+len(src))
		binary.LittleEndian.PutUint64(out[0:], uint64(len(src)))
		binary.LittleEndian.PutUint64(out[8:], 0)
		copy(out[headerSize:], src)
		return out
	}

	out := make([]byte, headerSize+len(compressed))
	binary.LittleEndian.PutUint64(out[0:], uint64(len(src)))
	binary.LittleEndian.PutUint64(out[8:], uint64(len(compressed)))
	copy(out[headerSize:], compressed)
	return out
}

// unframe returns the uncompressed size and the payload. raw reports whether
// the payload is stored uncompressed.
func unframe(src []byte) (size int, payload []byte, raw bool, err error) {
	if len(src) < headerSize {
		return 0, nil, false, fmt.Errorf("%w: %d bytes is shorter than the header", ErrCorrupt, len(src))
	}

	size, err = conv.Uint64ToInt(binary.LittleEndian.Uint64(src[0:]))
	if err != nil {
		return 0, nil, false, fmt.Errorf("%w: uncompressed size: %w", ErrCorrupt, err)
	}
	csize, err := conv.Uint64ToInt(binary.LittleEndian.Uint64(src[8:]))
	if err != nil {
		return 0, nil, false, fmt.Errorf("%w: compressed size: %w", ErrCorrupt, err)
	}
	if uint64(size) > MaxDecodedSize {
		return 0, nil, false, fmt.Errorf("%w: declared size %d exceeds %d", ErrCorrupt, size, uint64(MaxDecodedSize))
	}
	body := src[headerSize:]

	if csize == 0 {
		if len(body) < size {
			return 0, nil, false, fmt.Errorf("%w: raw payload truncated", ErrCorrupt)
		}
		return size, body[:size], true, nil
	}

	if len(body) < csize {
		return 0, nil, false, fmt.Errorf("%w: compressed payload truncated", ErrCorrupt)
	}
	return size, body[:csize], false, nil
}

// None stores data unframed.
type None struct{}

func (None) Encode(src []byte) ([]byte, error) { return src, nil }
func (None) Decode(src []byte) ([]byte, error) { return src, nil }

// Name returns "none".
func (None) Name() string { return "none" }
