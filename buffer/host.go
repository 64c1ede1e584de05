package buffer

import (
	"errors"
	"fmt"
)

var (
	// ErrShape is returned when a shape is invalid or does not match the data.
	ErrShape = errors.New("buffer: invalid shape")
	// ErrDType is returned for an unknown element type.
	ErrDType = errors.New("buffer: unknown dtype")
)

// Host is a host-resident buffer backed by a Go byte slice.
type Host struct {
	dtype DType
	shape []int
	data  []byte
}

var _ ByteBuffer = (*Host)(nil)

// FromBytes wraps data as a rank-1 uint8 buffer without copying.
func FromBytes(data []byte) *Host {
	return &Host{dtype: Uint8, shape: []int{len(data)}, data: data}
}

// New wraps data as a buffer of the given dtype and shape without copying.
// len(data) must equal the product of shape times the element size.
func New(dtype DType, shape []int, data []byte) (*Host, error) {
	size := dtype.Size()
	if size == 0 {
		return nil, fmt.Errorf("%w: %s", ErrDType, dtype)
	}
	n, err := numElements(shape)
	if err != nil {
		return nil, err
	}
	if n*size != len(data) {
		return nil, fmt.Errorf("%w: shape %v of %s needs %d bytes, got %d", ErrShape, shape, dtype, n*size, len(data))
	}
	return &Host{dtype: dtype, shape: append([]int(nil), shape...), data: data}, nil
}

func numElements(shape []int) (int, error) {
	n := 1
	for _, d := range shape {
		if d < 0 {
			return 0, fmt.Errorf("%w: negative dimension in %v", ErrShape, shape)
		}
		n *= d
	}
	return n, nil
}

func (h *Host) Device() Device { return CPU }
func (h *Host) DType() DType   { return h.dtype }
func (h *Host) Rank() int      { return len(h.shape) }
func (h *Host) Bytes() []byte  { return h.data }

// Len returns the element count.
func (h *Host) Len() int {
	n, _ := numElements(h.shape)
	return n
}

// Shape returns a copy of the dimensions.
func (h *Host) Shape() []int { return append([]int(nil), h.shape...) }

// Reshape returns a view of the same bytes with a different shape.
func (h *Host) Reshape(shape ...int) (*Host, error) {
	n, err := numElements(shape)
	if err != nil {
		return nil, err
	}
	if n != h.Len() {
		return nil, fmt.Errorf("%w: cannot reshape %v to %v", ErrShape, h.shape, shape)
	}
	return &Host{dtype: h.dtype, shape: append([]int(nil), shape...), data: h.data}, nil
}

// Flatten returns a rank-1 view of the same bytes.
func (h *Host) Flatten() *Host {
	return &Host{dtype: h.dtype, shape: []int{h.Len()}, data: h.data}
}

// AsBytes reinterprets the buffer as a flat uint8 buffer over the same memory.
func (h *Host) AsBytes() *Host {
	return FromBytes(h.data)
}

func (h *Host) String() string {
	return fmt.Sprintf("Host(%s, %v)", h.dtype, h.shape)
}
