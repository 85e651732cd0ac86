package ecs

import "fmt"

// Lookup caches a sibling unit of type T on one entity. The cached value is
// re-resolved whenever it has been detached or belongs to another entity.
type Lookup[T Unit] struct {
	entity *Entity
	unit   T
	cached bool
}

func NewLookup[T Unit](e *Entity) *Lookup[T] {
	return &Lookup[T]{entity: e}
}

// Entity returns the entity the lookup is bound to.
func (l *Lookup[T]) Entity() *Entity { return l.entity }

// Get returns the live unit of type T, or ErrNotFound if none is attached.
func (l *Lookup[T]) Get() (T, error) {
	if l.cached && l.unit.IsActive() && l.unit.Owner() == l.entity {
		return l.unit, nil
	}
	u, ok := Get[T](l.entity)
	if !ok {
		var zero T
		l.unit, l.cached = zero, false
		return zero, fmt.Errorf("%w: %s on %s", ErrNotFound, typeOf[T](), l.entity)
	}
	l.unit, l.cached = u, true
	return u, nil
}
