package ecs

import "errors"

var (
	// ErrDuplicateName is returned when an entity name is already indexed.
	ErrDuplicateName = errors.New("duplicate entity name")
	// ErrDuplicateUnit is returned when a unit of the same concrete type is already attached.
	ErrDuplicateUnit = errors.New("duplicate unit")
	// ErrUnknownEntity is returned by id/name lookups that require a live entity.
	ErrUnknownEntity = errors.New("unknown entity")
	// ErrUnknownUnit is returned for unregistered unit names and for detaching absent units.
	ErrUnknownUnit = errors.New("unknown unit")
	// ErrUnknownTemplate is returned when instantiating an unregistered template.
	ErrUnknownTemplate = errors.New("unknown template")
	// ErrNotFound is returned by Lookup when the sibling unit is not attached.
	ErrNotFound = errors.New("unit not found")
	// ErrUnitOwned is returned when attaching a unit that already has an owner.
	ErrUnitOwned = errors.New("unit already attached")
	// ErrInvalidUnit is returned for nil units or units without type metadata.
	ErrInvalidUnit = errors.New("invalid unit")
	// ErrDispatching is returned by Registry.Clear while Update/Draw is running.
	ErrDispatching = errors.New("registry dispatch in progress")
)
