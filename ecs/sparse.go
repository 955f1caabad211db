package ecs

import "github.com/plus3/archstore/internal/assert"

// SparseId is a stable handle to a record within one page. It keeps resolving
// to the same record until that record is removed, however the record moves
// between dense slots.
type SparseId uint32

// hole marks a sparse id that currently maps to no dense slot.
const hole = ^uint32(0)

// sparseIndex maps stable sparse ids to dense slots and back.
//
//	dense[i]  = sparse id stored in dense slot i, for i < size
//	sparse[s] = dense slot of sparse id s, or hole
//
// Freed ids are kept on a LIFO stack and reused before fresh ids.
type sparseIndex struct {
	sparse []uint32
	dense  []SparseId
	holes  []SparseId
	size   int
	next   int // ids below next have been handed out at least once
}

func newSparseIndex(capacity int) sparseIndex {
	x := sparseIndex{
		sparse: make([]uint32, capacity),
		dense:  make([]SparseId, capacity),
	}
	for i := range x.sparse {
		x.sparse[i] = hole
	}
	return x
}

func (x *sparseIndex) capacity() int { return len(x.dense) }

// acquire hands out a sparse id bound to dense slot size and grows size by one.
func (x *sparseIndex) acquire() (SparseId, int) {
	assert.That(x.size < x.capacity(), "sparse index is full")

	var id SparseId
	if n := len(x.holes); n > 0 {
		id = x.holes[n-1]
		x.holes = x.holes[:n-1]
	} else {
		id = SparseId(x.next)
		x.next++
	}

	slot := x.size
	x.sparse[id] = uint32(slot)
	x.dense[slot] = id
	x.size++
	return id, slot
}

// lookup returns the dense slot of id.
func (x *sparseIndex) lookup(id SparseId) (int, bool) {
	if int(id) >= len(x.sparse) || x.sparse[id] == hole {
		return 0, false
	}
	return int(x.sparse[id]), true
}

// release frees id and swap-removes its dense slot. It returns the vacated
// slot and the former last slot; the caller moves the last record's data into
// the vacated slot when they differ.
func (x *sparseIndex) release(id SparseId) (slot, last int) {
	slot, ok := x.lookup(id)
	if assert.Enabled && !ok {
		assert.Failf("sparse id %d is not live", id)
	}

	last = x.size - 1
	moved := x.dense[last]
	x.dense[slot] = moved
	x.sparse[moved] = uint32(slot)

	x.sparse[id] = hole
	x.holes = append(x.holes, id)
	x.size--
	return slot, last
}

// grow extends the index to newCapacity without touching live ids.
func (x *sparseIndex) grow(newCapacity int) {
	if newCapacity <= x.capacity() {
		return
	}
	sparse := make([]uint32, newCapacity)
	copy(sparse, x.sparse)
	for i := len(x.sparse); i < newCapacity; i++ {
		sparse[i] = hole
	}
	dense := make([]SparseId, newCapacity)
	copy(dense, x.dense[:x.size])
	x.sparse = sparse
	x.dense = dense
}

// reset forgets every id.
func (x *sparseIndex) reset() {
	for i := range x.sparse {
		x.sparse[i] = hole
	}
	x.holes = x.holes[:0]
	x.size = 0
	x.next = 0
}
