package ecs

import (
	"math/bits"
	"unsafe"

	"github.com/plus3/archstore/internal/assert"
)

// AlignedBuffer is a fixed-size byte allocation whose first byte is aligned to
// a power-of-two boundary. Pages and couriers lay records out inside it.
//
// The garbage collector never moves heap objects, so the alignment computed at
// allocation time holds for the buffer's lifetime.
type AlignedBuffer struct {
	raw   []byte
	start int
	size  int
	align int
}

// NewAlignedBuffer allocates a zeroed buffer of size bytes aligned to align.
func NewAlignedBuffer(size, align int) *AlignedBuffer {
	if assert.Enabled && size < 0 {
		assert.Failf("negative buffer size %d", size)
	}
	if assert.Enabled && !isPowerOfTwo(align) {
		assert.Failf("alignment %d is not a power of two", align)
	}

	raw := make([]byte, size+align)
	addr := uintptr(unsafe.Pointer(&raw[0]))
	return &AlignedBuffer{
		raw:   raw,
		start: int(alignUp(addr, uintptr(align)) - addr),
		size:  size,
		align: align,
	}
}

func isPowerOfTwo(n int) bool {
	return n > 0 && bits.OnesCount(uint(n)) == 1
}

// Len returns the usable size of the buffer in bytes.
func (b *AlignedBuffer) Len() int { return b.size }

// Align returns the guaranteed alignment of the buffer's first byte.
func (b *AlignedBuffer) Align() int { return b.align }

// Pointer returns the address of the first usable byte.
func (b *AlignedBuffer) Pointer() unsafe.Pointer {
	return unsafe.Pointer(&b.raw[b.start])
}

// At returns the address offset bytes into the buffer. offset may equal Len
// only for zero-sized accesses at the very end.
func (b *AlignedBuffer) At(offset uintptr) unsafe.Pointer {
	if assert.Enabled && offset > uintptr(b.size) {
		assert.Failf("offset %d out of bounds (%d bytes)", offset, b.size)
	}
	return unsafe.Add(b.Pointer(), offset)
}

// Bytes returns the usable region as a byte slice.
func (b *AlignedBuffer) Bytes() []byte {
	return b.raw[b.start : b.start+b.size : b.start+b.size]
}

// Zero clears the usable region.
func (b *AlignedBuffer) Zero() {
	clear(b.Bytes())
}
