package codec

import (
	"bytes"
	"crypto/rand"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodecs_Compressible(t *testing.T) {
	data := bytes.Repeat([]byte("rawio block "), 1000)

	for _, c := range []Codec{LZ4{}, Zstd{}} {
		t.Run(c.Name(), func(t *testing.T) {
			enc, err := c.Encode(data)
			require.NoError(t, err)
			assert.Less(t, len(enc), len(data))

			dec, err := c.Decode(enc)
			require.NoError(t, err)
			assert.Equal(t, data, dec)
		})
	}
}

func TestCodecs_IncompressibleStoredRaw(t *testing.T) {
	data := make([]byte, 4096)
	_, err := rand.Read(data)
	require.NoError(t, err)

	for _, c := range []Codec{LZ4{}, Zstd{}} {
		t.Run(c.Name(), func(t *testing.T) {
			enc, err := c.Encode(data)
			require.NoError(t, err)
			assert.Equal(t, headerSize+len(data), len(enc))

			dec, err := c.Decode(enc)
			require.NoError(t, err)
			assert.Equal(t, data, dec)
		})
	}
}

func TestCodecs_Empty(t *testing.T) {
	for _, c := range []Codec{LZ4{}, Zstd{}} {
		enc, err := c.Encode(nil)
		require.NoError(t, err)
		dec, err := c.Decode(enc)
		require.NoError(t, err)
		assert.Empty(t, dec)
	}
}

func TestCodecs_Corrupt(t *testing.T) {
	for _, c := range []Codec{LZ4{}, Zstd{}} {
		_, err := c.Decode([]byte{1, 2, 3})
		assert.ErrorIs(t, err, ErrCorrupt)

		enc, err := c.Encode(bytes.Repeat([]byte("a"), 1000))
		require.NoError(t, err)
		_, err = c.Decode(enc[:len(enc)-1])
		assert.ErrorIs(t, err, ErrCorrupt, c.Name())

		huge := bytes.Repeat([]byte{0xff}, headerSize)
		_, err = c.Decode(huge)
		assert.ErrorIs(t, err, ErrCorrupt, c.Name())
	}
}

func TestCodecs_OversizedHeader(t *testing.T) {
	header := func(size, csize uint64) []byte {
		b := make([]byte, headerSize+4)
		binary.LittleEndian.PutUint64(b[0:], size)
		binary.LittleEndian.PutUint64(b[8:], csize)
		copy(b[headerSize:], "\x01\x02\x03\x04")
		return b
	}

	frames := map[string][]byte{
		"1<<62":          header(1<<62, 4),
		"limit+1":        header(MaxDecodedSize+1, 4),
		"beyond ratio":   header(1<<20, 4),
		"raw over limit": header(1<<40, 0),
	}

	for _, c := range []Codec{LZ4{}, Zstd{}} {
		for name, src := range frames {
			t.Run(c.Name()+"/"+name, func(t *testing.T) {
				var err error
				require.NotPanics(t, func() { _, err = c.Decode(src) })
				assert.ErrorIs(t, err, ErrCorrupt)
			})
		}
	}
}

func TestNone(t *testing.T) {
	data := []byte("as is")
	enc, err := None{}.Encode(data)
	require.NoError(t, err)
	assert.Equal(t, data, enc)
	dec, err := None{}.Decode(enc)
	require.NoError(t, err)
	assert.Equal(t, data, dec)
}

func TestByName(t *testing.T) {
	for _, name := range Names() {
		c, ok := ByName(name)
		require.True(t, ok, name)
		assert.Equal(t, name, c.Name())
	}

	_, ok := ByName("snappy")
	assert.False(t, ok)
	assert.Equal(t, "zstd", Default.Name())
}
