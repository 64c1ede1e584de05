package rawio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hupe1980/rawio/buffer"
	"github.com/stretchr/testify/require"
)

// fakeBuffer is a ByteBuffer with freely chosen properties.
type fakeBuffer struct {
	device buffer.Device
	dtype  buffer.DType
	rank   int
	n      int
	data   []byte
}

func (b *fakeBuffer) Device() buffer.Device { return b.device }
func (b *fakeBuffer) DType() buffer.DType   { return b.dtype }
func (b *fakeBuffer) Rank() int             { return b.rank }
func (b *fakeBuffer) Len() int              { return b.n }
func (b *fakeBuffer) Bytes() []byte         { return b.data }

func writeTemp(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, content, 0o644))
	return path
}
