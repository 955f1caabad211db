package ecs

import (
	"reflect"
	"unsafe"

	"github.com/plus3/archstore/internal/assert"
)

// View addresses one record inside a page or a courier. A view is invalidated
// by any structural change to its page (push, remove, take, clear, reserve).
type View struct {
	desc   *Descriptor
	base   unsafe.Pointer
	entity EntityId
	id     SparseId

	courier *Courier
	slot    int
}

// Valid reports whether the view addresses a record.
func (v View) Valid() bool { return v.desc != nil }

// Entity returns the entity the record belongs to.
func (v View) Entity() EntityId { return v.entity }

// SparseId returns the record's sparse id within its page. Views of courier
// records have no sparse id and report false.
func (v View) SparseId() (SparseId, bool) { return v.id, v.courier == nil && v.desc != nil }

// Descriptor returns the record's layout.
func (v View) Descriptor() *Descriptor { return v.desc }

// Has reports whether the record holds component id.
func (v View) Has(id ComponentId) bool {
	return v.desc != nil && v.desc.Has(id)
}

// Get returns the address of component id, or nil if the record does not hold it.
func (v View) Get(id ComponentId) unsafe.Pointer {
	p, _ := v.TryGet(id)
	return p
}

// TryGet returns the address of component id and whether the record holds it.
func (v View) TryGet(id ComponentId) (unsafe.Pointer, bool) {
	if v.desc == nil {
		return nil, false
	}
	col, ok := v.desc.column(id)
	if !ok {
		return nil, false
	}
	return unsafe.Add(v.base, col.Offset), true
}

// Component returns a typed pointer to component id of the record, or nil if
// the record does not hold it. T must be the type registered under id.
func Component[T any](v View, id ComponentId) *T {
	if v.desc == nil {
		return nil
	}
	col, ok := v.desc.column(id)
	if !ok {
		return nil
	}
	if assert.Enabled && col.Info.typ != reflect.TypeFor[T]() {
		assert.Failf("component %d is %s, not %s", id, col.Info, reflect.TypeFor[T]())
	}
	return (*T)(unsafe.Add(v.base, col.Offset))
}
