package ecs

import (
	"slices"

	"github.com/plus3/archstore/internal/assert"
)

// commonAlign is the alignment most archetypes need. Requests at or below it
// share one bucket; everything larger goes to the catch-all bucket.
const commonAlign = 8

// PoolStats reports how a pool has been used.
type PoolStats struct {
	Pooled   int // buffers currently waiting for reuse
	Hits     int // allocations served from the pool
	Misses   int // allocations that had to allocate fresh memory
	Released int // buffers returned to the pool
}

// BufferPool recycles AlignedBuffers of one fixed size. It is not safe for
// concurrent use.
type BufferPool struct {
	unitSize int
	common   []*AlignedBuffer
	large    []*AlignedBuffer
	stats    PoolStats
}

// NewBufferPool creates a pool handing out buffers of unitSize bytes.
func NewBufferPool(unitSize int) *BufferPool {
	if assert.Enabled && unitSize <= 0 {
		assert.Failf("pool unit size must be positive, got %d", unitSize)
	}
	return &BufferPool{unitSize: unitSize}
}

// UnitSize returns the size of every buffer the pool hands out.
func (p *BufferPool) UnitSize() int { return p.unitSize }

// Allocate returns a zeroed buffer of the pool's unit size aligned to at least
// align. Pooled buffers are reused most-recently-released first; over-aligned
// buffers from the catch-all bucket satisfy smaller requests. When nothing
// suitable is pooled a fresh buffer is allocated.
func (p *BufferPool) Allocate(align int) *AlignedBuffer {
	if assert.Enabled && !isPowerOfTwo(align) {
		assert.Failf("alignment %d is not a power of two", align)
	}

	if align <= commonAlign {
		if n := len(p.common); n > 0 {
			buf := p.common[n-1]
			p.common[n-1] = nil
			p.common = p.common[:n-1]
			p.stats.Hits++
			return buf
		}
	}
	if buf := p.takeLarge(align); buf != nil {
		p.stats.Hits++
		return buf
	}

	p.stats.Misses++
	return NewAlignedBuffer(p.unitSize, max(align, commonAlign))
}

// takeLarge removes the most recently released catch-all buffer whose
// alignment is at least align.
func (p *BufferPool) takeLarge(align int) *AlignedBuffer {
	for i := len(p.large) - 1; i >= 0; i-- {
		buf := p.large[i]
		if buf.Align() >= align {
			p.large = slices.Delete(p.large, i, i+1)
			return buf
		}
	}
	return nil
}

// Release zeroes buf and returns it to the pool. buf must be exactly the pool's
// unit size and aligned to at least commonAlign.
func (p *BufferPool) Release(buf *AlignedBuffer) {
	assert.That(buf != nil, "release of nil buffer")
	if assert.Enabled && buf.Len() != p.unitSize {
		assert.Failf("buffer of %d bytes released to a pool of %d byte units", buf.Len(), p.unitSize)
	}
	if assert.Enabled && buf.Align() < commonAlign {
		assert.Failf("buffer alignment %d below pool minimum %d", buf.Align(), commonAlign)
	}

	buf.Zero()
	if buf.Align() == commonAlign {
		p.common = append(p.common, buf)
	} else {
		p.large = append(p.large, buf)
	}
	p.stats.Released++
}

// Stats returns the pool's usage counters.
func (p *BufferPool) Stats() PoolStats {
	s := p.stats
	s.Pooled = len(p.common) + len(p.large)
	return s
}
