package ecs

import (
	"fmt"
	"reflect"
	"slices"
	"sort"

	"go.uber.org/zap"
)

// Entity is an ordered container of units. Entities are created and destroyed
// only through a Registry.
type Entity struct {
	id       int64
	name     string
	active   bool
	registry *Registry
	slots    map[reflect.Type]*slot
	order    []*slot // sorted by slot.less
}

func newEntity(r *Registry, id int64, name string) *Entity {
	return &Entity{
		id:       id,
		name:     name,
		registry: r,
		slots:    make(map[reflect.Type]*slot, 4),
		order:    make([]*slot, 0, 4),
	}
}

func (e *Entity) ID() int64      { return e.id }
func (e *Entity) Name() string   { return e.name }
func (e *Entity) IsActive() bool { return e.active }

// SetActive toggles Update/Draw/OnInputAction dispatch for the entity.
func (e *Entity) SetActive(active bool) { e.active = active }

// SetName renames the entity and re-indexes it. A blank name removes it from
// the name index.
func (e *Entity) SetName(name string) error {
	return e.registry.rename(e, name)
}

// Log returns the registry logger tagged with this entity.
func (e *Entity) Log() *zap.Logger {
	return e.registry.log.With(zap.Int64("entity", e.id))
}

// AddUnit attaches u. The unit is marked active before Initialize runs.
func (e *Entity) AddUnit(u Unit) (Unit, error) {
	if u == nil {
		return nil, fmt.Errorf("%w: nil", ErrInvalidUnit)
	}
	if v := reflect.ValueOf(u); v.Kind() == reflect.Pointer && v.IsNil() {
		return nil, fmt.Errorf("%w: nil %T", ErrInvalidUnit, u)
	}
	if u.Type() == nil {
		return nil, fmt.Errorf("%w: %T has no type metadata", ErrInvalidUnit, u)
	}
	key := reflect.TypeOf(u)
	if _, ok := e.slots[key]; ok {
		return nil, fmt.Errorf("%w: %s on %s", ErrDuplicateUnit, u.Type().Name, e)
	}
	state := u.base()
	if state.owner != nil {
		return nil, fmt.Errorf("%w: %s owned by %s", ErrUnitOwned, u.Type().Name, state.owner)
	}

	s := newSlot(key, u)
	e.slots[key] = s
	i := sort.Search(len(e.order), func(i int) bool { return s.less(e.order[i]) })
	e.order = slices.Insert(e.order, i, s)

	state.owner = e
	state.active = true
	if init, ok := u.(Initializer); ok {
		init.Initialize()
	}
	return u, nil
}

// RemoveUnit detaches the unit with the given concrete type. The unit is
// marked inactive before Clear runs.
func (e *Entity) RemoveUnit(t reflect.Type) (Unit, error) {
	s, ok := e.slots[t]
	if !ok {
		return nil, fmt.Errorf("%w: %s on %s", ErrUnknownUnit, t, e)
	}
	delete(e.slots, t)
	if i := slices.Index(e.order, s); i >= 0 {
		e.order = slices.Delete(e.order, i, i+1)
	}

	s.state.active = false
	if c, ok := s.unit.(Clearer); ok {
		c.Clear()
	}
	return s.unit, nil
}

// Unit returns the attached unit with the given concrete type.
func (e *Entity) Unit(t reflect.Type) (Unit, bool) {
	s, ok := e.slots[t]
	if !ok {
		return nil, false
	}
	return s.unit, true
}

func (e *Entity) HasUnit(t reflect.Type) bool {
	_, ok := e.slots[t]
	return ok
}

// Units returns the attached units in dispatch order.
func (e *Entity) Units() []Unit {
	units := make([]Unit, len(e.order))
	for i, s := range e.order {
		units[i] = s.unit
	}
	return units
}

func (e *Entity) snapshot() []*slot {
	return slices.Clone(e.order)
}

// FinalizeEntity runs every unit's FinalizeEntity hook in dispatch order.
// Call it once after a burst of AddUnit calls so units can wire up siblings.
func (e *Entity) FinalizeEntity() {
	for _, s := range e.snapshot() {
		if f, ok := s.unit.(Finalizer); ok {
			f.FinalizeEntity()
		}
	}
}

func (e *Entity) Update() {
	for _, s := range e.snapshot() {
		if s.update != nil && s.state.active {
			s.update.Update()
		}
	}
}

func (e *Entity) Draw() {
	for _, s := range e.snapshot() {
		if s.draw != nil && s.state.active {
			s.draw.Draw()
		}
	}
}

func (e *Entity) OnInputAction(action string) {
	for _, s := range e.snapshot() {
		if s.input != nil && s.state.active {
			s.input.OnInputAction(action)
		}
	}
}

// OnEvent offers the event to every active unit and reports whether all of
// them accepted it. Units without an event hook accept implicitly.
func (e *Entity) OnEvent(name string, args ...any) bool {
	result := true
	for _, s := range e.snapshot() {
		if s.event == nil || !s.state.active {
			continue
		}
		if !s.event.OnEvent(name, args...) {
			result = false
		}
	}
	return result
}

// BuildProperties hands a flat property bag to every unit that accepts one.
func (e *Entity) BuildProperties(props Properties) {
	for _, s := range e.snapshot() {
		if b, ok := s.unit.(PropertyBuilder); ok {
			b.BuildProperties(props)
		}
	}
}

// Clear removes every active unit, then empties the collection.
func (e *Entity) Clear() {
	for _, s := range e.snapshot() {
		if !s.state.active {
			continue
		}
		// A sibling's Clear hook may already have detached it.
		if _, ok := e.slots[s.key]; ok {
			_, _ = e.RemoveUnit(s.key)
		}
	}
	clear(e.slots)
	e.order = e.order[:0]
}

// String formats the entity as "+name<id>" (active) or "-name<id>".
func (e *Entity) String() string {
	flag := '-'
	if e.active {
		flag = '+'
	}
	return fmt.Sprintf("%c%s<%d>", flag, e.name, e.id)
}

// Info is a serializable view of an entity, used by debug tooling.
type Info struct {
	ID     int64      `json:"id"`
	Name   string     `json:"name,omitempty"`
	Active bool       `json:"active"`
	Units  []UnitInfo `json:"units"`
}

type UnitInfo struct {
	Name   string `json:"name"`
	Layer  int    `json:"layer"`
	Active bool   `json:"active"`
}

func (e *Entity) Info() Info {
	info := Info{ID: e.id, Name: e.name, Active: e.active, Units: make([]UnitInfo, 0, len(e.order))}
	for _, s := range e.order {
		t := s.unit.Type()
		info.Units = append(info.Units, UnitInfo{Name: t.Name, Layer: t.Layer, Active: s.state.active})
	}
	return info
}
