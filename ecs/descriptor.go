package ecs

import (
	"cmp"
	"iter"
	"slices"
	"unsafe"

	"github.com/kamstrup/intmap"
	"github.com/plus3/archstore/internal/assert"
)

// Column is one component's placement inside a packed entity record.
type Column struct {
	Info   *ComponentInfo
	Offset uintptr
}

// Descriptor is the immutable record layout of one archetype: the entity
// alignment, the padded entity size and the byte offset of every component.
// A descriptor is shared by every page of its archetype.
type Descriptor struct {
	registry *ComponentRegistry
	types    TypeSet
	align    uintptr
	size     uintptr
	columns  []Column
	offsets  *intmap.Map[ComponentId, int]
}

// NewDescriptor computes the layout for the given components. Duplicate ids are
// dropped. Members are placed in descending (alignment, size) order to minimize
// padding; ties keep their first-occurrence order. At least one id is required.
func NewDescriptor(r *ComponentRegistry, ids ...ComponentId) *Descriptor {
	assert.That(len(ids) > 0, "descriptor needs at least one component")

	seen := make(map[ComponentId]struct{}, len(ids))
	infos := make([]*ComponentInfo, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		info := r.Info(id)
		if assert.Enabled && info == nil {
			assert.Failf("component %d is not registered", id)
		}
		infos = append(infos, info)
	}

	slices.SortStableFunc(infos, func(a, b *ComponentInfo) int {
		if c := cmp.Compare(b.align, a.align); c != 0 {
			return c
		}
		return cmp.Compare(b.size, a.size)
	})

	d := &Descriptor{
		registry: r,
		columns:  make([]Column, len(infos)),
		offsets:  intmap.New[ComponentId, int](len(infos)),
	}

	var offset uintptr
	typeIds := make([]ComponentId, len(infos))
	for i, info := range infos {
		// Alignments are powers of two, so the largest one is also the least
		// common multiple of all of them.
		d.align = max(d.align, info.align)
		offset = alignUp(offset, info.align)
		d.columns[i] = Column{Info: info, Offset: offset}
		d.offsets.Put(info.id, i)
		typeIds[i] = info.id
		offset += info.size
	}

	d.size = alignUp(offset, d.align)
	if d.size == 0 {
		// Only zero-sized members; give each record one alignment unit so a page
		// still has a finite capacity.
		d.size = d.align
	}
	d.types = NewTypeSet(typeIds...)
	return d
}

// alignUp rounds n up to the next multiple of align, which must be a power of two.
func alignUp(n, align uintptr) uintptr {
	return (n + align - 1) &^ (align - 1)
}

// Align returns the entity alignment.
func (d *Descriptor) Align() uintptr { return d.align }

// Size returns the entity record size, a multiple of Align.
func (d *Descriptor) Size() uintptr { return d.size }

// Types returns the descriptor's component set.
func (d *Descriptor) Types() TypeSet { return d.types }

// Registry returns the registry the descriptor's components belong to.
func (d *Descriptor) Registry() *ComponentRegistry { return d.registry }

// Len returns the number of components in a record.
func (d *Descriptor) Len() int { return len(d.columns) }

// Has reports whether id is part of the layout.
func (d *Descriptor) Has(id ComponentId) bool {
	_, ok := d.offsets.Get(id)
	return ok
}

// Offset returns the byte offset of id within a record.
func (d *Descriptor) Offset(id ComponentId) (uintptr, bool) {
	col, ok := d.column(id)
	if !ok {
		return 0, false
	}
	return col.Offset, true
}

func (d *Descriptor) column(id ComponentId) (Column, bool) {
	idx, ok := d.offsets.Get(id)
	if !ok {
		return Column{}, false
	}
	return d.columns[idx], true
}

// Columns iterates the components in layout order.
func (d *Descriptor) Columns() iter.Seq[Column] {
	return func(yield func(Column) bool) {
		for _, col := range d.columns {
			if !yield(col) {
				return
			}
		}
	}
}

// With reports whether the descriptor holds every component in other.
func (d *Descriptor) With(other TypeSet) bool {
	return d.types.With(other)
}

// Without reports whether the descriptor holds none of the components in other.
func (d *Descriptor) Without(other TypeSet) bool {
	return d.types.Without(other)
}

// Equal reports whether both descriptors describe the same component set.
// Offsets of equally sized members may still differ if the descriptors were
// built from differently ordered ids. A nil descriptor equals nothing.
func (d *Descriptor) Equal(other *Descriptor) bool {
	if other == nil {
		return false
	}
	return d == other || d.types.Equal(other.types)
}

// destroyRecord destroys every component of the record at base.
func (d *Descriptor) destroyRecord(base unsafe.Pointer) {
	for _, col := range d.columns {
		col.Info.Destroy(unsafe.Add(base, col.Offset))
	}
}

// moveRecord moves every component of the record at src into dst. Both
// records must use this descriptor.
func (d *Descriptor) moveRecord(dst, src unsafe.Pointer) {
	for _, col := range d.columns {
		col.Info.Move(unsafe.Add(dst, col.Offset), unsafe.Add(src, col.Offset))
	}
}
