package ecs

import (
	"iter"
	"unsafe"

	"github.com/plus3/archstore/internal/assert"
)

// Page stores packed entity records of one archetype in a single fixed-size
// buffer. Records live densely in slots [0, Size); callers address them through
// stable sparse ids handed out by Push.
//
// A Page starts uninitialized, becomes usable once Initialize binds it to a
// descriptor and a buffer, and returns to the uninitialized state on Reset.
// Pages are not safe for concurrent use.
type Page struct {
	desc     *Descriptor
	buf      *AlignedBuffer
	capacity int
	entities []EntityId
	index    sparseIndex
}

// NewPage creates an uninitialized page.
func NewPage() *Page {
	return &Page{}
}

// Initialize binds the page to desc and stores records in buf. buf must be at
// least as aligned as desc and large enough for one record.
func (p *Page) Initialize(desc *Descriptor, buf *AlignedBuffer) {
	assert.That(p.desc == nil, "page is already initialized")
	if assert.Enabled && uintptr(buf.Align()) < desc.Align() {
		assert.Failf("buffer alignment %d below descriptor alignment %d", buf.Align(), desc.Align())
	}

	capacity := buf.Len() / int(desc.Size())
	if assert.Enabled && capacity <= 0 {
		assert.Failf("buffer of %d bytes cannot hold a %d byte record", buf.Len(), desc.Size())
	}

	p.desc = desc
	p.buf = buf
	p.capacity = capacity
	p.entities = make([]EntityId, capacity)
	p.index = newSparseIndex(capacity)
}

// Reset destroys every live record and detaches the page from its descriptor.
// The buffer is returned zeroed so it can be recycled.
func (p *Page) Reset() *AlignedBuffer {
	if p.desc == nil {
		return nil
	}
	p.Clear()
	buf := p.buf
	buf.Zero()

	p.desc = nil
	p.buf = nil
	p.capacity = 0
	p.entities = nil
	p.index = sparseIndex{}
	return buf
}

// Initialized reports whether the page is bound to a descriptor.
func (p *Page) Initialized() bool { return p.desc != nil }

// Descriptor returns the page's layout, or nil when uninitialized.
func (p *Page) Descriptor() *Descriptor { return p.desc }

// Size returns the number of live records.
func (p *Page) Size() int { return p.index.size }

// Capacity returns the number of records the page can hold.
func (p *Page) Capacity() int { return p.capacity }

// Full reports whether Push would fail.
func (p *Page) Full() bool { return p.index.size == p.capacity }

// Empty reports whether the page holds no records.
func (p *Page) Empty() bool { return p.index.size == 0 }

func (p *Page) record(slot int) unsafe.Pointer {
	return p.buf.At(uintptr(slot) * p.desc.size)
}

// Push moves every component of the page's archetype out of b into a new
// record for entity and returns the record's sparse id. Components of b that
// are not part of the archetype stay in b. Push returns false, leaving the page
// untouched, when the page is full. b must hold every component of the archetype.
func (p *Page) Push(entity EntityId, b *Bundle) (SparseId, bool) {
	assert.That(p.desc != nil, "push into uninitialized page")
	if p.Full() {
		return 0, false
	}
	for _, col := range p.desc.columns {
		if assert.Enabled && !b.Has(col.Info.id) {
			assert.Failf("bundle is missing component %s", col.Info)
		}
	}

	id, slot := p.index.acquire()
	base := p.record(slot)
	for _, col := range p.desc.columns {
		src, _ := b.Remove(col.Info.id)
		col.Info.Move(unsafe.Add(base, col.Offset), src)
	}
	p.entities[slot] = entity
	return id, true
}

// PushView moves the record behind a courier view into this page. The view's
// descriptor may order its members differently but must hold every component
// of this page's archetype; extra components are destroyed. The courier record
// is consumed and will not be destroyed again when the courier closes.
func (p *Page) PushView(v View) (SparseId, bool) {
	return p.PushMerged(v, nil)
}

// PushMerged is PushView for migrations that add or overwrite components:
// components held by b are drained from it and take precedence over the view's
// values, which are then destroyed.
func (p *Page) PushMerged(v View, b *Bundle) (SparseId, bool) {
	assert.That(p.desc != nil, "push into uninitialized page")
	assert.That(v.courier != nil, "only courier views can be pushed; extract page records with Take")
	if assert.Enabled && v.courier.consumed[v.slot] {
		assert.Failf("courier record %d was already pushed", v.slot)
	}
	if p.Full() {
		return 0, false
	}

	fromBundle := make([]bool, len(p.desc.columns))
	for i, col := range p.desc.columns {
		fromBundle[i] = b != nil && b.Has(col.Info.id)
		if assert.Enabled && !fromBundle[i] && !v.desc.Has(col.Info.id) {
			assert.Failf("no source for component %s", col.Info)
		}
	}

	id, slot := p.index.acquire()
	base := p.record(slot)
	for i, col := range p.desc.columns {
		dst := unsafe.Add(base, col.Offset)
		if fromBundle[i] {
			src, _ := b.Remove(col.Info.id)
			col.Info.Move(dst, src)
			continue
		}
		srcCol, _ := v.desc.column(col.Info.id)
		srcCol.Info.Move(dst, unsafe.Add(v.base, srcCol.Offset))
	}
	for _, srcCol := range v.desc.columns {
		if i, ok := p.desc.offsets.Get(srcCol.Info.id); ok && !fromBundle[i] {
			continue
		}
		srcCol.Info.Destroy(unsafe.Add(v.base, srcCol.Offset))
	}
	p.entities[slot] = v.entity
	v.courier.consume(v.slot)
	return id, true
}

// Take removes the record id from the page and returns a courier holding it.
// See TakeMany.
func (p *Page) Take(id SparseId, dest *Descriptor) *Courier {
	return p.TakeMany([]SparseId{id}, dest)
}

// TakeMany removes the given records from the page and moves them, in order,
// into a courier laid out by dest. A nil dest keeps this page's layout. dest
// must describe a subset of this page's components; components outside dest
// are destroyed during the take.
func (p *Page) TakeMany(ids []SparseId, dest *Descriptor) *Courier {
	assert.That(p.desc != nil, "take from uninitialized page")
	if dest == nil {
		dest = p.desc
	}
	if assert.Enabled && !p.desc.With(dest.types) {
		assert.Failf("destination %s holds components missing from page %s", dest.types, p.desc.types)
	}

	srcOffsets := make([]uintptr, len(dest.columns))
	for i, col := range dest.columns {
		srcOffsets[i], _ = p.desc.Offset(col.Info.id)
	}
	var dropped []Column
	for _, col := range p.desc.columns {
		if !dest.Has(col.Info.id) {
			dropped = append(dropped, col)
		}
	}

	c := newCourier(dest, len(ids))
	for i, id := range ids {
		slot, ok := p.index.lookup(id)
		if assert.Enabled && !ok {
			assert.Failf("sparse id %d is not live", id)
		}

		src := p.record(slot)
		dst := c.record(i)
		for j, col := range dest.columns {
			col.Info.Move(unsafe.Add(dst, col.Offset), unsafe.Add(src, srcOffsets[j]))
		}
		for _, col := range dropped {
			col.Info.Destroy(unsafe.Add(src, col.Offset))
		}
		c.entities[i] = p.entities[slot]
		p.vacate(id)
	}
	return c
}

// TakeBundle removes the record id and returns its entity and components as a bundle.
func (p *Page) TakeBundle(id SparseId) (EntityId, *Bundle) {
	slot, ok := p.index.lookup(id)
	if assert.Enabled && !ok {
		assert.Failf("sparse id %d is not live", id)
	}

	b := NewBundle(p.desc.registry)
	base := p.record(slot)
	for _, col := range p.desc.columns {
		dst := col.Info.alloc()
		col.Info.Move(dst, unsafe.Add(base, col.Offset))
		b.put(col.Info.id, dst)
	}
	entity := p.entities[slot]
	p.vacate(id)
	return entity, b
}

// Remove destroys the record id. The last dense record moves into the freed
// slot and id becomes the next id handed out by Push.
func (p *Page) Remove(id SparseId) {
	slot, ok := p.index.lookup(id)
	if assert.Enabled && !ok {
		assert.Failf("sparse id %d is not live", id)
	}

	p.desc.destroyRecord(p.record(slot))
	p.vacate(id)
}

// RemoveMany removes every record in ids.
func (p *Page) RemoveMany(ids []SparseId) {
	for _, id := range ids {
		p.Remove(id)
	}
}

// vacate releases id whose record data has already been destroyed or moved
// out, filling the hole with the last dense record.
func (p *Page) vacate(id SparseId) {
	slot, last := p.index.release(id)
	if slot != last {
		p.desc.moveRecord(p.record(slot), p.record(last))
		p.entities[slot] = p.entities[last]
	}
	p.entities[last] = 0
}

// Clear destroys every record. The buffer is kept.
func (p *Page) Clear() {
	if p.desc == nil {
		return
	}
	for slot := 0; slot < p.index.size; slot++ {
		p.desc.destroyRecord(p.record(slot))
		p.entities[slot] = 0
	}
	p.index.reset()
}

// Reserve moves the page into a new buffer of newBufferSize bytes when that
// raises its capacity. Sparse ids and dense order are preserved.
//
// The new buffer is owned by the page alone: a reserved page no longer fits
// the PagePool it came from and must not be released back to it.
func (p *Page) Reserve(newBufferSize int) {
	assert.That(p.desc != nil, "reserve on uninitialized page")

	capacity := newBufferSize / int(p.desc.size)
	if capacity <= p.capacity {
		return
	}

	old := p.buf
	p.buf = NewAlignedBuffer(newBufferSize, max(old.Align(), int(p.desc.align)))
	for slot := 0; slot < p.index.size; slot++ {
		p.desc.moveRecord(p.record(slot), old.At(uintptr(slot)*p.desc.size))
	}

	entities := make([]EntityId, capacity)
	copy(entities, p.entities)
	p.entities = entities
	p.index.grow(capacity)
	p.capacity = capacity
}

// Contains reports whether id refers to a live record.
func (p *Page) Contains(id SparseId) bool {
	_, ok := p.index.lookup(id)
	return ok
}

// Get returns a view of the live record id.
func (p *Page) Get(id SparseId) View {
	v, ok := p.Lookup(id)
	if assert.Enabled && !ok {
		assert.Failf("sparse id %d is not live", id)
	}
	return v
}

// Lookup returns a view of record id, if it is live.
func (p *Page) Lookup(id SparseId) (View, bool) {
	slot, ok := p.index.lookup(id)
	if !ok {
		return View{}, false
	}
	return p.At(slot), true
}

// At returns a view of the record in dense slot.
func (p *Page) At(slot int) View {
	if assert.Enabled && (slot < 0 || slot >= p.index.size) {
		assert.Failf("dense slot %d out of range", slot)
	}
	return View{
		desc:   p.desc,
		base:   p.record(slot),
		entity: p.entities[slot],
		id:     p.index.dense[slot],
	}
}

// Entity returns the entity stored under id.
func (p *Page) Entity(id SparseId) EntityId {
	return p.Get(id).entity
}

// All iterates records in dense order. Removing records reorders them.
func (p *Page) All() iter.Seq2[int, View] {
	return func(yield func(int, View) bool) {
		for slot := 0; slot < p.index.size; slot++ {
			if !yield(slot, p.At(slot)) {
				return
			}
		}
	}
}

// Views iterates records in dense order.
func (p *Page) Views() iter.Seq[View] {
	return func(yield func(View) bool) {
		for _, v := range p.All() {
			if !yield(v) {
				return
			}
		}
	}
}
