package ecs_test

import "github.com/plus3/archstore/ecs"

// Common test component types
type Position struct {
	X, Y float32
}

type Velocity struct {
	DX, DY float32
}

type Health struct {
	Current int
	Max     int
}

type Name struct {
	Value [16]byte
}

type PlayerController struct{}

type AI struct {
	State int
}

// Custom primitive types for testing non-struct components
type Score int32
type Temperature float64
type Tiny uint8

type Wide struct {
	Words [4]uint64
}

type Inventory struct {
	Items []string
}

type Link struct {
	Next *Position
}

func newName(s string) Name {
	var n Name
	copy(n.Value[:], s)
	return n
}

func newTestRegistry() *ecs.ComponentRegistry {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[Position](registry)
	ecs.RegisterComponent[Velocity](registry)
	ecs.RegisterComponent[Health](registry)
	ecs.RegisterComponent[Name](registry)
	ecs.RegisterComponent[PlayerController](registry)
	ecs.RegisterComponent[AI](registry)
	ecs.RegisterComponent[Score](registry)
	ecs.RegisterComponent[Temperature](registry)
	ecs.RegisterComponent[Tiny](registry)
	ecs.RegisterComponent[Wide](registry)
	return registry
}

// destructions counts destructor hook calls per component type.
type destructions struct {
	position int
	velocity int
	health   int
}

// newCountingRegistry registers Position, Velocity and Health with destructor
// hooks that count into the returned tally.
func newCountingRegistry() (*ecs.ComponentRegistry, *destructions) {
	counts := &destructions{}
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent(registry, ecs.WithDestructor(func(*Position) { counts.position++ }))
	ecs.RegisterComponent(registry, ecs.WithDestructor(func(*Velocity) { counts.velocity++ }))
	ecs.RegisterComponent(registry, ecs.WithDestructor(func(*Health) { counts.health++ }))
	return registry, counts
}

func idOf[T any](r *ecs.ComponentRegistry) ecs.ComponentId {
	id, ok := ecs.ComponentIdFor[T](r)
	if !ok {
		panic("component not registered")
	}
	return id
}
