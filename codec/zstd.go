package codec

import (
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
)

var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() *zstd.Encoder {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder)
	}
	enc, _ := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	return enc
}

func getZstdDecoder() *zstd.Decoder {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder)
	}
	dec, _ := zstd.NewReader(nil, zstd.WithDecoderMaxMemory(MaxDecodedSize))
	return dec
}

// Zstd trades speed for a better ratio, suited to cold or remote data.
type Zstd struct{}

func (Zstd) Encode(src []byte) ([]byte, error) {
	if err := checkEncodeSize(src); err != nil {
		return nil, err
	}
	if len(src) == 0 {
		return frame(src, nil), nil
	}

	enc := getZstdEncoder()
	defer zstdEncoderPool.Put(enc)

	return frame(src, enc.EncodeAll(src, nil)), nil
}

func (Zstd) Decode(src []byte) ([]byte, error) {
	size, payload, raw, err := unframe(src)
	if err != nil {
		return nil, err
	}
	if raw {
		return payload, nil
	}

	dec := getZstdDecoder()
	defer zstdDecoderPool.Put(dec)

	out, err := dec.DecodeAll(payload, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	if len(out) != size {
		return nil, fmt.Errorf("%w: decompressed %d bytes, expected %d", ErrCorrupt, len(out), size)
	}
	return out, nil
}

// Name returns "zstd".
func (Zstd) Name() string { return "zstd" }
