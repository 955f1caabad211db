package main

import (
	"log"
	"math/rand"

	"github.com/plus3/archstore/ecs"
)

// Operations counts the structural changes applied by a workload.
type Operations struct {
	Spawned int
	Deleted int
	Added   int
	Removed int
	Visited int
}

// workload drives random structural changes against a storage and keeps the
// set of live entities so it can pick targets uniformly.
type workload struct {
	rng   *rand.Rand
	ids   []ecs.ComponentId
	store *ecs.Storage
	live  []ecs.EntityId
	ops   Operations
}

// spawn creates an entity with 1 to 5 random components.
func (w *workload) spawn() {
	b := ecs.NewBundle(w.store.Registry())
	for range w.rng.Intn(5) + 1 {
		PutGeneratedComponent(b, w.rng.Intn(len(w.ids)), w.rng.Uint64())
	}
	id, err := w.store.Spawn(b)
	if err != nil {
		log.Fatalf("Failed to spawn entity: %v", err)
	}
	w.live = append(w.live, id)
	w.ops.Spawned++
}

func (w *workload) pick() (int, ecs.EntityId) {
	i := w.rng.Intn(len(w.live))
	return i, w.live[i]
}

// mutate applies one random structural change.
func (w *workload) mutate() {
	if len(w.live) == 0 {
		w.spawn()
		return
	}

	switch w.rng.Intn(4) {
	case 0:
		w.spawn()
	case 1:
		i, entity := w.pick()
		if err := w.store.Delete(entity); err != nil {
			log.Fatalf("Failed to delete entity: %v", err)
		}
		w.live[i] = w.live[len(w.live)-1]
		w.live = w.live[:len(w.live)-1]
		w.ops.Deleted++
	case 2:
		_, entity := w.pick()
		b := ecs.NewBundle(w.store.Registry())
		PutGeneratedComponent(b, w.rng.Intn(len(w.ids)), w.rng.Uint64())
		if err := w.store.AddComponents(entity, b); err != nil {
			log.Fatalf("Failed to add component: %v", err)
		}
		w.ops.Added++
	case 3:
		i, entity := w.pick()
		types := w.store.Archetype(entity).Types().Ids()
		if err := w.store.RemoveComponents(entity, types[w.rng.Intn(len(types))]); err != nil {
			log.Fatalf("Failed to remove component: %v", err)
		}
		if !w.store.Alive(entity) {
			w.live[i] = w.live[len(w.live)-1]
			w.live = w.live[:len(w.live)-1]
		}
		w.ops.Removed++
	}
}

// iterate touches every record of the archetypes holding the first two
// generated components.
func (w *workload) iterate() {
	a, b := w.ids[0], w.ids[1]
	for arch := range w.store.Matching(ecs.NewTypeSet(a, b), ecs.NewTypeSet()) {
		for v := range arch.Views() {
			c := ecs.Component[Component00](v, a)
			c.Value += float32(ecs.Component[Component01](v, b).Value[0])
			w.ops.Visited++
		}
	}
}
