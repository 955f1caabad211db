package ecs

import (
	"iter"
	"slices"

	"github.com/plus3/archstore/internal/assert"
)

// Archetype represents a unique combination of component types and owns the
// pages holding every entity with exactly that combination.
type Archetype struct {
	id    uint32
	desc  *Descriptor
	pages []*Page
}

// newArchetype creates an archetype without pages; they are allocated on first insert.
func newArchetype(id uint32, desc *Descriptor) *Archetype {
	return &Archetype{
		id:   id,
		desc: desc,
	}
}

// ID returns the archetype's unique identifier
func (a *Archetype) ID() uint32 {
	return a.id
}

// Descriptor returns the record layout shared by the archetype's pages.
func (a *Archetype) Descriptor() *Descriptor {
	return a.desc
}

// Types returns the sorted component ids for this archetype
func (a *Archetype) Types() TypeSet {
	return a.desc.Types()
}

// HasComponent checks if this archetype has the given component type
func (a *Archetype) HasComponent(id ComponentId) bool {
	return a.desc.Has(id)
}

// Pages returns the archetype's pages. The slice must not be modified.
func (a *Archetype) Pages() []*Page {
	return a.pages
}

// Len returns the number of entities stored in the archetype.
func (a *Archetype) Len() int {
	n := 0
	for _, page := range a.pages {
		n += page.Size()
	}
	return n
}

// Iter returns an iterator over all entities in this archetype
func (a *Archetype) Iter() iter.Seq[EntityId] {
	return func(yield func(EntityId) bool) {
		for v := range a.Views() {
			if !yield(v.Entity()) {
				return
			}
		}
	}
}

// Views returns an iterator over every record of the archetype, page by page
// in dense order.
func (a *Archetype) Views() iter.Seq[View] {
	return func(yield func(View) bool) {
		for _, page := range a.pages {
			for v := range page.Views() {
				if !yield(v) {
					return
				}
			}
		}
	}
}

// insert runs push against the first page with room, allocating a page from
// pool when every page reports full.
func (a *Archetype) insert(pool *PagePool, push func(*Page) (SparseId, bool)) (*Page, SparseId) {
	for _, page := range a.pages {
		if page.Full() {
			continue
		}
		if id, ok := push(page); ok {
			return page, id
		}
	}

	page := pool.Allocate(a.desc)
	a.pages = append(a.pages, page)
	id, ok := push(page)
	assert.That(ok, "push into a fresh page failed")
	return page, id
}

// releaseIfEmpty hands page back to pool once its last record is gone.
func (a *Archetype) releaseIfEmpty(page *Page, pool *PagePool) {
	if !page.Empty() {
		return
	}
	idx := slices.Index(a.pages, page)
	if assert.Enabled && idx < 0 {
		assert.Failf("page does not belong to archetype %d", a.id)
	}
	a.pages = slices.Delete(a.pages, idx, idx+1)
	pool.Release(page)
}

// compact drains the emptiest pages into the free slots of fuller ones and
// releases the drained pages. relocate is told where each moved entity landed.
func (a *Archetype) compact(pool *PagePool, relocate func(EntityId, *Page, SparseId)) {
	slices.SortStableFunc(a.pages, func(x, y *Page) int {
		return y.Size() - x.Size()
	})

	for len(a.pages) > 1 {
		last := a.pages[len(a.pages)-1]
		rest := a.pages[:len(a.pages)-1]

		room := 0
		for _, page := range rest {
			room += page.Capacity() - page.Size()
		}
		if room < last.Size() {
			return
		}

		ids := make([]SparseId, 0, last.Size())
		for v := range last.Views() {
			id, _ := v.SparseId()
			ids = append(ids, id)
		}
		courier := last.TakeMany(ids, nil)
		for _, page := range rest {
			for v := range courier.Views() {
				id, ok := page.PushView(v)
				if !ok {
					break
				}
				relocate(v.Entity(), page, id)
			}
		}
		if assert.Enabled && courier.Remaining() != 0 {
			assert.Failf("compaction left %d records behind", courier.Remaining())
		}
		courier.Close()

		a.pages = rest
		pool.Release(last)
	}
}
