package ecs

import (
	"reflect"
	"unsafe"

	"github.com/kamstrup/intmap"
	"github.com/plus3/archstore/internal/assert"
)

// Bundle holds owned component values for one entity that is not stored in a
// page. Pages drain bundles on Push and fill them on TakeBundle.
type Bundle struct {
	registry *ComponentRegistry
	values   *intmap.Map[ComponentId, unsafe.Pointer]
}

// NewBundle creates an empty bundle for components of r.
func NewBundle(r *ComponentRegistry) *Bundle {
	return &Bundle{
		registry: r,
		values:   intmap.New[ComponentId, unsafe.Pointer](8),
	}
}

// Put stores value in b, destroying any value of the same type already held.
// T must be registered.
func Put[T any](b *Bundle, value T) *Bundle {
	id, ok := ComponentIdFor[T](b.registry)
	if assert.Enabled && !ok {
		assert.Failf("component type %s is not registered", reflect.TypeFor[T]())
	}

	if old, ok := b.values.Get(id); ok {
		b.registry.Info(id).Destroy(old)
	}
	p := new(T)
	*p = value
	b.values.Put(id, unsafe.Pointer(p))
	return b
}

// BundleValue returns a copy of the T held by b.
func BundleValue[T any](b *Bundle) (T, bool) {
	var zero T
	id, ok := ComponentIdFor[T](b.registry)
	if !ok {
		return zero, false
	}
	p, ok := b.values.Get(id)
	if !ok {
		return zero, false
	}
	return *(*T)(p), true
}

// put stores an already owned value.
func (b *Bundle) put(id ComponentId, p unsafe.Pointer) {
	if old, ok := b.values.Get(id); ok {
		b.registry.Info(id).Destroy(old)
	}
	b.values.Put(id, p)
}

// Remove takes the value for id out of the bundle. Ownership passes to the caller.
func (b *Bundle) Remove(id ComponentId) (unsafe.Pointer, bool) {
	p, ok := b.values.Get(id)
	if ok {
		b.values.Del(id)
	}
	return p, ok
}

// Has reports whether the bundle holds a value for id.
func (b *Bundle) Has(id ComponentId) bool {
	_, ok := b.values.Get(id)
	return ok
}

// Len returns the number of values held.
func (b *Bundle) Len() int {
	return b.values.Len()
}

// Types returns the set of component ids held.
func (b *Bundle) Types() TypeSet {
	ids := make([]ComponentId, 0, b.values.Len())
	b.values.ForEach(func(id ComponentId, _ unsafe.Pointer) bool {
		ids = append(ids, id)
		return true
	})
	return NewTypeSet(ids...)
}

// Registry returns the registry the bundle's ids belong to.
func (b *Bundle) Registry() *ComponentRegistry {
	return b.registry
}

// Clear destroys every value still held.
func (b *Bundle) Clear() {
	b.values.ForEach(func(id ComponentId, p unsafe.Pointer) bool {
		b.registry.Info(id).Destroy(p)
		return true
	})
	b.values.Clear()
}
