package ecs

import (
	"fmt"
	"reflect"
)

// UnitType is the metadata shared by every instance of one concrete unit.
// Declare it once per type as a package-level var and return it from Type().
type UnitType struct {
	Name  string // registry key and ordering tiebreak
	Layer int    // lower layers update and draw first
}

// Unit is a behavior attached to exactly one Entity.
// Concrete units embed Base and implement only the hooks they need.
type Unit interface {
	Type() *UnitType
	IsActive() bool
	Owner() *Entity
	base() *Base
}

// Base holds the per-instance state of a unit. Embed it by value.
type Base struct {
	active bool
	owner  *Entity
}

// IsActive reports whether the unit is attached and receiving dispatch.
func (b *Base) IsActive() bool { return b.active }

// Owner returns the entity the unit was attached to, or nil before attach.
func (b *Base) Owner() *Entity { return b.owner }

func (b *Base) base() *Base { return b }

// Optional hooks. Which ones a unit implements is resolved once at attach.
type (
	Initializer     interface{ Initialize() }
	Finalizer       interface{ FinalizeEntity() }
	Updater         interface{ Update() }
	Drawer          interface{ Draw() }
	InputHandler    interface{ OnInputAction(action string) }
	EventHandler    interface{ OnEvent(name string, args ...any) bool }
	Clearer         interface{ Clear() }
	PropertyBuilder interface{ BuildProperties(props Properties) }
)

// slot is one attached unit plus its resolved hook table.
type slot struct {
	key    reflect.Type
	unit   Unit
	state  *Base
	update Updater
	draw   Drawer
	input  InputHandler
	event  EventHandler
}

func newSlot(key reflect.Type, u Unit) *slot {
	s := &slot{key: key, unit: u, state: u.base()}
	s.update, _ = u.(Updater)
	s.draw, _ = u.(Drawer)
	s.input, _ = u.(InputHandler)
	s.event, _ = u.(EventHandler)
	return s
}

// less orders by (layer, type name); the Go type string only breaks ties
// between distinct types that declare the same name.
func (s *slot) less(o *slot) bool {
	a, b := s.unit.Type(), o.unit.Type()
	if a.Layer != b.Layer {
		return a.Layer < b.Layer
	}
	if a.Name != b.Name {
		return a.Name < b.Name
	}
	return s.key.String() < o.key.String()
}

// UnitString formats a unit as "+Name" (active) or "-Name".
func UnitString(u Unit) string {
	flag := '-'
	if u.IsActive() {
		flag = '+'
	}
	return fmt.Sprintf("%c%s", flag, u.Type().Name)
}

func typeOf[T Unit]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// Add attaches u to e and returns it with its concrete type.
func Add[T Unit](e *Entity, u T) (T, error) {
	if _, err := e.AddUnit(u); err != nil {
		var zero T
		return zero, err
	}
	return u, nil
}

// Get returns the attached unit of type T.
func Get[T Unit](e *Entity) (T, bool) {
	u, ok := e.Unit(typeOf[T]())
	if !ok {
		var zero T
		return zero, false
	}
	return u.(T), true
}

// Has reports whether a unit of type T is attached.
func Has[T Unit](e *Entity) bool {
	return e.HasUnit(typeOf[T]())
}

// Remove detaches and clears the unit of type T.
func Remove[T Unit](e *Entity) (T, error) {
	u, err := e.RemoveUnit(typeOf[T]())
	if err != nil {
		var zero T
		return zero, err
	}
	return u.(T), nil
}
