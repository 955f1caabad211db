package ecs

import (
	"iter"
	"unsafe"

	"github.com/plus3/archstore/internal/assert"
)

// Courier owns records extracted from a page by Take or TakeMany, laid out
// contiguously by its descriptor. Its views are pushed into destination pages
// with Page.PushView or Page.PushMerged, which consumes them. Close destroys
// whatever was not consumed; a courier must be closed once it is done with.
type Courier struct {
	desc      *Descriptor
	buf       *AlignedBuffer
	entities  []EntityId
	consumed  []bool
	remaining int
}

func newCourier(desc *Descriptor, n int) *Courier {
	return &Courier{
		desc:      desc,
		buf:       NewAlignedBuffer(n*int(desc.size), int(desc.align)),
		entities:  make([]EntityId, n),
		consumed:  make([]bool, n),
		remaining: n,
	}
}

func (c *Courier) record(i int) unsafe.Pointer {
	return c.buf.At(uintptr(i) * c.desc.size)
}

func (c *Courier) consume(i int) {
	c.consumed[i] = true
	c.remaining--
}

// Descriptor returns the layout of the courier's records.
func (c *Courier) Descriptor() *Descriptor { return c.desc }

// Len returns the number of records extracted, consumed or not.
func (c *Courier) Len() int { return len(c.entities) }

// Remaining returns the number of records not yet pushed elsewhere.
func (c *Courier) Remaining() int { return c.remaining }

// Entities returns the extracted entity ids in extraction order.
func (c *Courier) Entities() []EntityId { return c.entities }

// View returns a view of record i. The record must not have been consumed.
func (c *Courier) View(i int) View {
	assert.That(c.buf != nil, "courier is closed")
	if assert.Enabled && (i < 0 || i >= len(c.entities)) {
		assert.Failf("courier record %d out of range", i)
	}
	if assert.Enabled && c.consumed[i] {
		assert.Failf("courier record %d was already pushed", i)
	}
	return View{
		desc:    c.desc,
		base:    c.record(i),
		entity:  c.entities[i],
		courier: c,
		slot:    i,
	}
}

// Views iterates the records that have not been consumed yet. Consuming the
// yielded view during iteration is allowed.
func (c *Courier) Views() iter.Seq[View] {
	return func(yield func(View) bool) {
		for i := range c.entities {
			if c.buf == nil || c.consumed[i] {
				continue
			}
			if !yield(c.View(i)) {
				return
			}
		}
	}
}

// PushInto pushes unconsumed records into p until p is full and returns how
// many were pushed.
func (c *Courier) PushInto(p *Page) int {
	n := 0
	for v := range c.Views() {
		if _, ok := p.PushView(v); !ok {
			break
		}
		n++
	}
	return n
}

// Close destroys every record that was not pushed elsewhere and releases the
// buffer. Closing twice is a no-op.
func (c *Courier) Close() {
	if c.buf == nil {
		return
	}
	for i := range c.entities {
		if !c.consumed[i] {
			c.desc.destroyRecord(c.record(i))
			c.consume(i)
		}
	}
	c.buf = nil
}
