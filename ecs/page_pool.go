package ecs

import "github.com/plus3/archstore/internal/assert"

// DefaultPageSize is the buffer size of every page handed out by a PagePool
// unless configured otherwise.
const DefaultPageSize = 16 << 10

// PagePool recycles page buffers of one fixed size across archetypes.
// It is not safe for concurrent use.
type PagePool struct {
	buffers *BufferPool
}

// NewPagePool creates a pool of pages backed by pageSize byte buffers.
func NewPagePool(pageSize int) *PagePool {
	return &PagePool{buffers: NewBufferPool(pageSize)}
}

// PageSize returns the buffer size of the pool's pages.
func (pp *PagePool) PageSize() int { return pp.buffers.UnitSize() }

// Allocate returns a page initialized for desc, reusing a pooled buffer whose
// alignment satisfies desc when one is available.
func (pp *PagePool) Allocate(desc *Descriptor) *Page {
	if assert.Enabled && desc.Size() > uintptr(pp.PageSize()) {
		assert.Failf("record of %d bytes does not fit a %d byte page", desc.Size(), pp.PageSize())
	}

	page := NewPage()
	page.Initialize(desc, pp.buffers.Allocate(int(desc.Align())))
	return page
}

// Release destroys the page's records and returns its buffer to the pool.
// The page is left uninitialized. Pages grown with Reserve no longer match
// the pool's buffer size and cannot be released.
func (pp *PagePool) Release(page *Page) {
	assert.That(page.Initialized(), "release of uninitialized page")
	if assert.Enabled && page.buf.Len() != pp.PageSize() {
		assert.Failf("page buffer of %d bytes cannot return to a pool of %d byte pages; was it grown with Reserve?", page.buf.Len(), pp.PageSize())
	}
	pp.buffers.Release(page.Reset())
}

// Stats returns the usage counters of the underlying buffer pool.
func (pp *PagePool) Stats() PoolStats {
	return pp.buffers.Stats()
}
