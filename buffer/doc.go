// Package buffer defines the byte-buffer capability set rawio reads into and
// writes from.
//
// A numeric-array runtime does not need to hand rawio its own array type.
// Anything that can report where its memory lives, what its elements are, how
// many dimensions and elements it has, and a raw view of its bytes satisfies
// [ByteBuffer].
//
// [Host] is a ready-made implementation backed by a Go slice:
//
//	b := buffer.FromBytes([]byte{1, 2, 3, 4, 5})  // uint8, rank 1, CPU
//	m, _ := buffer.New(buffer.Float32, []int{2, 3}, raw)
//	flat := m.Flatten()
package buffer
