package ecs

import (
	"reflect"
	"unsafe"

	"github.com/rotisserie/eris"
)

// ComponentId identifies a registered component type within one ComponentRegistry.
// Ids are assigned in registration order, so they are totally ordered and stable
// for the lifetime of the registry.
type ComponentId uint32

// ComponentInfo describes a registered component type: its identity, its layout
// requirements and the type-erased operations pages use to move and destroy it.
type ComponentInfo struct {
	id    ComponentId
	typ   reflect.Type
	size  uintptr
	align uintptr

	move    func(dst, src unsafe.Pointer)
	destroy func(p unsafe.Pointer)
	alloc   func() unsafe.Pointer
}

// Id returns the component's identifier.
func (c *ComponentInfo) Id() ComponentId { return c.id }

// Type returns the component's Go type.
func (c *ComponentInfo) Type() reflect.Type { return c.typ }

// Size returns the component's size in bytes.
func (c *ComponentInfo) Size() uintptr { return c.size }

// Align returns the component's alignment in bytes. It is always a power of two.
func (c *ComponentInfo) Align() uintptr { return c.align }

// Move constructs the value at dst from the value at src and destroys src,
// leaving it zeroed. The destructor hook is not run: ownership moved.
func (c *ComponentInfo) Move(dst, src unsafe.Pointer) { c.move(dst, src) }

// Destroy runs the component's destructor hook, if any, and zeroes the value at p.
func (c *ComponentInfo) Destroy(p unsafe.Pointer) { c.destroy(p) }

func (c *ComponentInfo) String() string { return c.typ.String() }

// ComponentOption customizes a component registration.
type ComponentOption[T any] func(*componentConfig[T])

type componentConfig[T any] struct {
	destructor func(*T)
}

// WithDestructor installs a hook that runs whenever a stored value of T is destroyed
// (removed, cleared, dropped during migration or discarded with a courier).
// Moves never run it.
func WithDestructor[T any](fn func(*T)) ComponentOption[T] {
	return func(c *componentConfig[T]) {
		c.destructor = fn
	}
}

// ComponentRegistry manages component type registration for a Storage.
// Each Storage has its own registry, so independent storages can coexist
// without sharing ids.
type ComponentRegistry struct {
	byType map[reflect.Type]ComponentId
	infos  []*ComponentInfo
}

// NewComponentRegistry creates an empty component registry.
func NewComponentRegistry() *ComponentRegistry {
	return &ComponentRegistry{
		byType: make(map[reflect.Type]ComponentId),
	}
}

// RegisterComponent registers T with the registry and returns its id.
// Registering a type twice returns the existing id and ignores the new options.
// It panics if T holds pointers, since page memory is not scanned by the garbage collector.
func RegisterComponent[T any](r *ComponentRegistry, opts ...ComponentOption[T]) ComponentId {
	typ := reflect.TypeFor[T]()
	if id, ok := r.byType[typ]; ok {
		return id
	}
	if err := checkPointerFree(typ); err != nil {
		panic(err.Error())
	}

	var cfg componentConfig[T]
	for _, opt := range opts {
		opt(&cfg)
	}

	info := &ComponentInfo{
		id:    ComponentId(len(r.infos)),
		typ:   typ,
		size:  typ.Size(),
		align: uintptr(typ.Align()),
		move: func(dst, src unsafe.Pointer) {
			var zero T
			*(*T)(dst) = *(*T)(src)
			*(*T)(src) = zero
		},
		alloc: func() unsafe.Pointer {
			return unsafe.Pointer(new(T))
		},
	}
	destructor := cfg.destructor
	info.destroy = func(p unsafe.Pointer) {
		var zero T
		if destructor != nil {
			destructor((*T)(p))
		}
		*(*T)(p) = zero
	}

	r.infos = append(r.infos, info)
	r.byType[typ] = info.id
	return info.id
}

// ComponentIdFor returns the id registered for T.
func ComponentIdFor[T any](r *ComponentRegistry) (ComponentId, bool) {
	id, ok := r.byType[reflect.TypeFor[T]()]
	return id, ok
}

// IdOf returns the id registered for typ.
func (r *ComponentRegistry) IdOf(typ reflect.Type) (ComponentId, error) {
	id, ok := r.byType[typ]
	if !ok {
		return 0, eris.Wrapf(ErrNotRegistered, "component type %s", typ)
	}
	return id, nil
}

// Info returns the registration for id, or nil if id was never registered.
func (r *ComponentRegistry) Info(id ComponentId) *ComponentInfo {
	if int(id) >= len(r.infos) {
		return nil
	}
	return r.infos[id]
}

// Len returns the number of registered component types.
func (r *ComponentRegistry) Len() int {
	return len(r.infos)
}

// checkPointerFree reports an error if values of typ contain pointers
// anywhere in their memory representation.
func checkPointerFree(typ reflect.Type) error {
	if hasPointers(typ) {
		return eris.Wrapf(ErrPointerComponent, "component type %s", typ)
	}
	return nil
}

func hasPointers(typ reflect.Type) bool {
	switch typ.Kind() {
	case reflect.Pointer, reflect.UnsafePointer, reflect.String, reflect.Slice,
		reflect.Map, reflect.Chan, reflect.Func, reflect.Interface:
		return true
	case reflect.Array:
		return typ.Len() > 0 && hasPointers(typ.Elem())
	case reflect.Struct:
		for i := 0; i < typ.NumField(); i++ {
			if hasPointers(typ.Field(i).Type) {
				return true
			}
		}
		return false
	default:
		return false
	}
}
