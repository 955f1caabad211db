package ecs

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// checkSparseIndex verifies that sparse and dense agree on every live id.
func checkSparseIndex(t *testing.T, x *sparseIndex) {
	t.Helper()
	for slot := 0; slot < x.size; slot++ {
		id := x.dense[slot]
		got, ok := x.lookup(id)
		require.True(t, ok, "dense slot %d holds dead id %d", slot, id)
		require.Equal(t, slot, got)
	}
	live := 0
	for _, slot := range x.sparse {
		if slot != hole {
			live++
		}
	}
	require.Equal(t, x.size, live)
}

func TestSparseIndexAcquireAndRelease(t *testing.T) {
	x := newSparseIndex(4)

	a, slotA := x.acquire()
	b, slotB := x.acquire()
	c, _ := x.acquire()
	assert.Equal(t, SparseId(0), a)
	assert.Equal(t, SparseId(1), b)
	assert.Equal(t, 0, slotA)
	assert.Equal(t, 1, slotB)

	slot, last := x.release(a)
	assert.Equal(t, 0, slot)
	assert.Equal(t, 2, last)
	moved, ok := x.lookup(c)
	require.True(t, ok)
	assert.Equal(t, 0, moved, "last record fills the hole")
	_, ok = x.lookup(a)
	assert.False(t, ok)
	checkSparseIndex(t, &x)
}

func TestSparseIndexReusesHolesLIFO(t *testing.T) {
	x := newSparseIndex(8)
	for range 5 {
		x.acquire()
	}

	x.release(1)
	x.release(3)

	id, _ := x.acquire()
	assert.Equal(t, SparseId(3), id)
	id, _ = x.acquire()
	assert.Equal(t, SparseId(1), id)
	id, _ = x.acquire()
	assert.Equal(t, SparseId(5), id)
	checkSparseIndex(t, &x)
}

func TestSparseIndexGrowKeepsIds(t *testing.T) {
	x := newSparseIndex(2)
	a, _ := x.acquire()
	b, _ := x.acquire()

	x.grow(4)

	assert.Equal(t, 4, x.capacity())
	slot, ok := x.lookup(a)
	assert.True(t, ok)
	assert.Equal(t, 0, slot)
	slot, ok = x.lookup(b)
	assert.True(t, ok)
	assert.Equal(t, 1, slot)
	c, _ := x.acquire()
	assert.Equal(t, SparseId(2), c)
	checkSparseIndex(t, &x)
}

func TestSparseIndexReset(t *testing.T) {
	x := newSparseIndex(3)
	x.acquire()
	x.acquire()
	x.release(0)

	x.reset()

	assert.Zero(t, x.size)
	id, _ := x.acquire()
	assert.Equal(t, SparseId(0), id)
	checkSparseIndex(t, &x)
}

func TestSparseIndexRandomized(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	x := newSparseIndex(64)
	var live []SparseId

	for range 2000 {
		if len(live) < x.capacity() && (len(live) == 0 || rng.Intn(2) == 0) {
			id, _ := x.acquire()
			live = append(live, id)
		} else {
			i := rng.Intn(len(live))
			x.release(live[i])
			live[i] = live[len(live)-1]
			live = live[:len(live)-1]
		}
		require.Equal(t, len(live), x.size)
		checkSparseIndex(t, &x)
	}
}
