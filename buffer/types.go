package buffer

import "fmt"

// Device identifies where a buffer's memory lives.
type Device uint8

const (
	// CPU is general process memory.
	CPU Device = iota
	// CUDA is NVIDIA accelerator memory.
	CUDA
	// Metal is Apple GPU memory.
	Metal
	// Vulkan is memory owned by a Vulkan device.
	Vulkan
)

// IsHost reports whether the memory is addressable by the process directly.
func (d Device) IsHost() bool { return d == CPU }

func (d Device) String() string {
	switch d {
	case CPU:
		return "cpu"
	case CUDA:
		return "cuda"
	case Metal:
		return "metal"
	case Vulkan:
		return "vulkan"
	default:
		return fmt.Sprintf("device(%d)", uint8(d))
	}
}

// DType is the element type of a buffer.
type DType uint8

const (
	Uint8 DType = iota
	Int8
	Int16
	Int32
	Int64
	Float16
	Float32
	Float64
	Bool
)

// Size returns the element size in bytes, or 0 for an unknown type.
func (t DType) Size() int {
	switch t {
	case Uint8, Int8, Bool:
		return 1
	case Int16, Float16:
		return 2
	case Int32, Float32:
		return 4
	case Int64, Float64:
		return 8
	default:
		return 0
	}
}

func (t DType) String() string {
	switch t {
	case Uint8:
		return "uint8"
	case Int8:
		return "int8"
	case Int16:
		return "int16"
	case Int32:
		return "int32"
	case Int64:
		return "int64"
	case Float16:
		return "float16"
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	case Bool:
		return "bool"
	default:
		return fmt.Sprintf("dtype(%d)", uint8(t))
	}
}

// ByteBuffer is the minimal view of a numeric-array buffer.
type ByteBuffer interface {
	// Device reports where the memory lives.
	Device() Device
	// DType reports the element type.
	DType() DType
	// Rank reports the number of dimensions.
	Rank() int
	// Len reports the number of elements.
	Len() int
	// Bytes returns a view starting at the first byte. The caller must not
	// modify it.
	Bytes() []byte
}
