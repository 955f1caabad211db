package ecs_test

import (
	"reflect"
	"testing"
	"unsafe"

	"github.com/plus3/archstore/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterComponentAssignsSequentialIds(t *testing.T) {
	registry := ecs.NewComponentRegistry()

	pos := ecs.RegisterComponent[Position](registry)
	vel := ecs.RegisterComponent[Velocity](registry)

	assert.Equal(t, ecs.ComponentId(0), pos)
	assert.Equal(t, ecs.ComponentId(1), vel)
	assert.Equal(t, 2, registry.Len())
}

func TestRegisterComponentIsIdempotent(t *testing.T) {
	registry := ecs.NewComponentRegistry()

	first := ecs.RegisterComponent[Position](registry)
	second := ecs.RegisterComponent[Position](registry)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, registry.Len())
}

func TestComponentInfoLayout(t *testing.T) {
	registry := newTestRegistry()

	tests := []struct {
		name  string
		typ   reflect.Type
		size  uintptr
		align uintptr
	}{
		{"Position", reflect.TypeFor[Position](), 8, 4},
		{"Health", reflect.TypeFor[Health](), unsafe.Sizeof(Health{}), unsafe.Alignof(Health{})},
		{"Tiny", reflect.TypeFor[Tiny](), 1, 1},
		{"PlayerController", reflect.TypeFor[PlayerController](), 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := registry.IdOf(tt.typ)
			require.NoError(t, err)

			info := registry.Info(id)
			require.NotNil(t, info)
			assert.Equal(t, id, info.Id())
			assert.Equal(t, tt.typ, info.Type())
			assert.Equal(t, tt.size, info.Size())
			assert.Equal(t, tt.align, info.Align())
		})
	}
}

func TestUnknownComponent(t *testing.T) {
	registry := ecs.NewComponentRegistry()

	_, ok := ecs.ComponentIdFor[Position](registry)
	assert.False(t, ok)
	assert.Nil(t, registry.Info(42))

	_, err := registry.IdOf(reflect.TypeFor[Position]())
	assert.ErrorIs(t, err, ecs.ErrNotRegistered)
}

func TestRegisterPointerComponentPanics(t *testing.T) {
	registry := ecs.NewComponentRegistry()

	assert.Panics(t, func() { ecs.RegisterComponent[Inventory](registry) })
	assert.Panics(t, func() { ecs.RegisterComponent[Link](registry) })
	assert.Panics(t, func() { ecs.RegisterComponent[string](registry) })
	assert.NotPanics(t, func() { ecs.RegisterComponent[[0]*int](registry) })
	assert.Equal(t, 1, registry.Len())
}

func TestComponentMoveAndDestroy(t *testing.T) {
	registry, counts := newCountingRegistry()
	info := registry.Info(idOf[Position](registry))

	src := Position{X: 1, Y: 2}
	var dst Position
	info.Move(unsafe.Pointer(&dst), unsafe.Pointer(&src))

	assert.Equal(t, Position{X: 1, Y: 2}, dst)
	assert.Equal(t, Position{}, src)
	assert.Equal(t, 0, counts.position, "moves never run the destructor")

	info.Destroy(unsafe.Pointer(&dst))
	assert.Equal(t, Position{}, dst)
	assert.Equal(t, 1, counts.position)
}
