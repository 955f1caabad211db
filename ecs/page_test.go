package ecs_test

import (
	"math/rand"
	"testing"

	"github.com/plus3/archstore/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPage(r *ecs.ComponentRegistry, bufferSize int, ids ...ecs.ComponentId) *ecs.Page {
	desc := ecs.NewDescriptor(r, ids...)
	page := ecs.NewPage()
	page.Initialize(desc, ecs.NewAlignedBuffer(bufferSize, int(desc.Align())))
	return page
}

func movingBundle(r *ecs.ComponentRegistry, x float32) *ecs.Bundle {
	b := ecs.NewBundle(r)
	ecs.Put(b, Position{X: x, Y: -x})
	ecs.Put(b, Velocity{DX: 1, DY: 2})
	return b
}

func TestPageInitialize(t *testing.T) {
	registry, _ := newCountingRegistry()
	pos := idOf[Position](registry)
	vel := idOf[Velocity](registry)

	page := ecs.NewPage()
	assert.False(t, page.Initialized())

	desc := ecs.NewDescriptor(registry, pos, vel)
	page.Initialize(desc, ecs.NewAlignedBuffer(64, 8))

	assert.True(t, page.Initialized())
	assert.Same(t, desc, page.Descriptor())
	assert.Equal(t, 4, page.Capacity())
	assert.True(t, page.Empty())
	assert.False(t, page.Full())
}

func TestPagePushUntilFull(t *testing.T) {
	registry, _ := newCountingRegistry()
	page := newTestPage(registry, 64, idOf[Position](registry), idOf[Velocity](registry))

	for i := range 4 {
		id, ok := page.Push(ecs.NewEntityId(uint32(i), 1), movingBundle(registry, float32(i)))
		require.True(t, ok)
		assert.Equal(t, ecs.SparseId(i), id)
	}
	assert.True(t, page.Full())

	rejected := movingBundle(registry, 9)
	_, ok := page.Push(ecs.NewEntityId(9, 1), rejected)
	assert.False(t, ok)
	assert.Equal(t, 2, rejected.Len(), "a rejected push leaves the bundle untouched")
	assert.Equal(t, 4, page.Size())

	pos := idOf[Position](registry)
	for i := range 4 {
		v := page.Get(ecs.SparseId(i))
		assert.Equal(t, ecs.NewEntityId(uint32(i), 1), v.Entity())
		assert.Equal(t, Position{X: float32(i), Y: -float32(i)}, *ecs.Component[Position](v, pos))
	}
}

func TestPagePushLeavesExtraComponents(t *testing.T) {
	registry, counts := newCountingRegistry()
	page := newTestPage(registry, 64, idOf[Position](registry), idOf[Velocity](registry))

	b := movingBundle(registry, 1)
	ecs.Put(b, Health{Current: 5, Max: 10})
	id, ok := page.Push(ecs.NewEntityId(0, 1), b)
	require.True(t, ok)

	assert.Equal(t, 1, b.Len())
	health, ok := ecs.BundleValue[Health](b)
	assert.True(t, ok)
	assert.Equal(t, 5, health.Current)

	v := page.Get(id)
	assert.Equal(t, Position{X: 1, Y: -1}, *ecs.Component[Position](v, idOf[Position](registry)))
	assert.Equal(t, Velocity{DX: 1, DY: 2}, *ecs.Component[Velocity](v, idOf[Velocity](registry)))
	assert.Zero(t, counts.position)
}

func TestPageRemoveSwapsLastRecord(t *testing.T) {
	registry, counts := newCountingRegistry()
	pos := idOf[Position](registry)
	page := newTestPage(registry, 64, pos, idOf[Velocity](registry))

	ids := make([]ecs.SparseId, 3)
	for i := range ids {
		ids[i], _ = page.Push(ecs.NewEntityId(uint32(i), 1), movingBundle(registry, float32(i)))
	}

	page.Remove(ids[0])

	assert.Equal(t, 1, counts.position)
	assert.Equal(t, 1, counts.velocity)
	assert.Equal(t, 2, page.Size())
	assert.False(t, page.Contains(ids[0]))

	v := page.At(0)
	id, ok := v.SparseId()
	assert.True(t, ok)
	assert.Equal(t, ids[2], id)
	assert.Equal(t, ecs.NewEntityId(2, 1), v.Entity())
	assert.Equal(t, float32(2), ecs.Component[Position](v, pos).X)

	v = page.Get(ids[1])
	assert.Equal(t, ecs.NewEntityId(1, 1), v.Entity())
	assert.Equal(t, float32(1), ecs.Component[Position](v, pos).X)

	reused, ok := page.Push(ecs.NewEntityId(7, 1), movingBundle(registry, 7))
	require.True(t, ok)
	assert.Equal(t, ids[0], reused, "the freed id is handed out next")
}

func TestPageRemoveLastRecord(t *testing.T) {
	registry, counts := newCountingRegistry()
	page := newTestPage(registry, 64, idOf[Position](registry))

	b := ecs.NewBundle(registry)
	ecs.Put(b, Position{X: 3})
	id, _ := page.Push(ecs.NewEntityId(0, 1), b)

	page.Remove(id)

	assert.True(t, page.Empty())
	assert.Equal(t, 1, counts.position)
	_, ok := page.Lookup(id)
	assert.False(t, ok)
}

func TestPageRemoveMany(t *testing.T) {
	registry, counts := newCountingRegistry()
	page := newTestPage(registry, 128, idOf[Position](registry), idOf[Velocity](registry))

	var ids []ecs.SparseId
	for i := range 6 {
		id, _ := page.Push(ecs.NewEntityId(uint32(i), 1), movingBundle(registry, float32(i)))
		ids = append(ids, id)
	}

	page.RemoveMany([]ecs.SparseId{ids[4], ids[0], ids[2]})

	assert.Equal(t, 3, page.Size())
	assert.Equal(t, 3, counts.position)
	for _, i := range []int{1, 3, 5} {
		assert.Equal(t, ecs.NewEntityId(uint32(i), 1), page.Entity(ids[i]))
	}
}

func TestPageSparseIdsStayStable(t *testing.T) {
	registry, _ := newCountingRegistry()
	pos := idOf[Position](registry)
	page := newTestPage(registry, 1024, pos, idOf[Velocity](registry))
	rng := rand.New(rand.NewSource(7))

	live := make(map[ecs.SparseId]ecs.EntityId)
	next := uint32(0)
	for range 3000 {
		if !page.Full() && (len(live) == 0 || rng.Intn(3) > 0) {
			entity := ecs.NewEntityId(next, 1)
			id, ok := page.Push(entity, movingBundle(registry, float32(next)))
			require.True(t, ok)
			live[id] = entity
			next++
			continue
		}
		for id := range live {
			page.Remove(id)
			delete(live, id)
			break
		}
	}

	require.Equal(t, len(live), page.Size())
	for id, entity := range live {
		v, ok := page.Lookup(id)
		require.True(t, ok)
		assert.Equal(t, entity, v.Entity())
		assert.Equal(t, float32(entity.Index()), ecs.Component[Position](v, pos).X)
	}
}

func TestPageClear(t *testing.T) {
	registry, counts := newCountingRegistry()
	page := newTestPage(registry, 64, idOf[Position](registry), idOf[Velocity](registry))
	for i := range 3 {
		page.Push(ecs.NewEntityId(uint32(i), 1), movingBundle(registry, 1))
	}

	page.Clear()

	assert.True(t, page.Empty())
	assert.Equal(t, 3, counts.position)
	assert.Equal(t, 3, counts.velocity)
	assert.True(t, page.Initialized())

	id, ok := page.Push(ecs.NewEntityId(9, 1), movingBundle(registry, 1))
	assert.True(t, ok)
	assert.Equal(t, ecs.SparseId(0), id)
}

func TestPageReset(t *testing.T) {
	registry, counts := newCountingRegistry()
	page := newTestPage(registry, 64, idOf[Position](registry), idOf[Velocity](registry))
	page.Push(ecs.NewEntityId(0, 1), movingBundle(registry, 4))

	buf := page.Reset()

	require.NotNil(t, buf)
	assert.Equal(t, make([]byte, 64), buf.Bytes())
	assert.Equal(t, 1, counts.position)
	assert.False(t, page.Initialized())
	assert.Nil(t, page.Reset())
}

func TestPageReserve(t *testing.T) {
	registry, _ := newCountingRegistry()
	pos := idOf[Position](registry)
	page := newTestPage(registry, 64, pos, idOf[Velocity](registry))

	var ids []ecs.SparseId
	for i := range 4 {
		id, _ := page.Push(ecs.NewEntityId(uint32(i), 1), movingBundle(registry, float32(i)))
		ids = append(ids, id)
	}
	page.Remove(ids[1])

	page.Reserve(32)
	assert.Equal(t, 4, page.Capacity(), "shrinking is ignored")

	page.Reserve(256)
	assert.Equal(t, 16, page.Capacity())
	assert.Equal(t, 3, page.Size())
	for _, i := range []int{0, 2, 3} {
		v := page.Get(ids[i])
		assert.Equal(t, ecs.NewEntityId(uint32(i), 1), v.Entity())
		assert.Equal(t, float32(i), ecs.Component[Position](v, pos).X)
	}

	id, ok := page.Push(ecs.NewEntityId(8, 1), movingBundle(registry, 8))
	require.True(t, ok)
	assert.Equal(t, ids[1], id)
	id, _ = page.Push(ecs.NewEntityId(9, 1), movingBundle(registry, 9))
	assert.Equal(t, ecs.SparseId(4), id)
}

func TestPageTakeBundle(t *testing.T) {
	registry, counts := newCountingRegistry()
	page := newTestPage(registry, 64, idOf[Position](registry), idOf[Velocity](registry))
	page.Push(ecs.NewEntityId(0, 1), movingBundle(registry, 1))
	id, _ := page.Push(ecs.NewEntityId(1, 1), movingBundle(registry, 2))

	entity, b := page.TakeBundle(id)

	assert.Equal(t, ecs.NewEntityId(1, 1), entity)
	assert.Equal(t, 1, page.Size())
	assert.Zero(t, counts.position, "taking moves, it does not destroy")

	p, ok := ecs.BundleValue[Position](b)
	assert.True(t, ok)
	assert.Equal(t, Position{X: 2, Y: -2}, p)

	b.Clear()
	assert.Equal(t, 1, counts.position)
	assert.Equal(t, 1, counts.velocity)
}

func TestPageViews(t *testing.T) {
	registry, _ := newCountingRegistry()
	pos := idOf[Position](registry)
	health := idOf[Health](registry)
	page := newTestPage(registry, 64, pos, idOf[Velocity](registry))
	for i := range 3 {
		page.Push(ecs.NewEntityId(uint32(i), 1), movingBundle(registry, float32(i)))
	}

	var entities []ecs.EntityId
	for slot, v := range page.All() {
		assert.Equal(t, float32(slot), ecs.Component[Position](v, pos).X)
		assert.True(t, v.Has(pos))
		assert.False(t, v.Has(health))
		assert.Nil(t, v.Get(health))
		assert.Nil(t, ecs.Component[Health](v, health))
		entities = append(entities, v.Entity())
	}
	assert.Len(t, entities, 3)
}
