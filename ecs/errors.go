package ecs

import "github.com/rotisserie/eris"

var (
	// ErrEntityNotFound is returned for ids that were never spawned or have been deleted.
	ErrEntityNotFound = eris.New("entity not found")

	// ErrEmptyBundle is returned when an entity would be spawned without components.
	ErrEmptyBundle = eris.New("bundle has no components")

	// ErrComponentMissing is returned when removing a component the entity does not have.
	ErrComponentMissing = eris.New("entity does not have component")

	// ErrNotRegistered is returned for component types unknown to the registry.
	ErrNotRegistered = eris.New("component type not registered")

	// ErrPointerComponent is returned when registering a type that holds pointers.
	ErrPointerComponent = eris.New("component types must not contain pointers")
)
