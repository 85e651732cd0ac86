package ecs

import (
	"fmt"
	"reflect"
	"slices"
	"sort"
	"strings"

	"go.uber.org/zap"
)

type unitEntry struct {
	key     reflect.Type
	factory Factory
}

// Registry owns every entity: id assignment, the name index, and the
// by-name unit type and template registries. Single-goroutine access only
// (game loop), no locks.
type Registry struct {
	log       *zap.Logger
	nextID    int64
	entities  map[int64]*Entity
	order     []*Entity // ascending id
	names     map[string]*Entity
	unitTypes map[string]unitEntry
	templates map[string]Template

	dispatching int
}

func NewRegistry(log *zap.Logger) *Registry {
	if log == nil {
		log = zap.NewNop()
	}
	return &Registry{
		log:       log,
		entities:  make(map[int64]*Entity, 256),
		order:     make([]*Entity, 0, 256),
		names:     make(map[string]*Entity, 64),
		unitTypes: make(map[string]unitEntry, 32),
		templates: make(map[string]Template, 16),
	}
}

// Len returns the number of live entities.
func (r *Registry) Len() int { return len(r.order) }

// Entities returns a snapshot of the live entities in ascending id order.
func (r *Registry) Entities() []*Entity {
	return slices.Clone(r.order)
}

// CreateEntity creates an active entity. A blank name leaves it unnamed.
func (r *Registry) CreateEntity(name string) (*Entity, error) {
	name = strings.TrimSpace(name)
	if name != "" {
		if _, ok := r.names[name]; ok {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateName, name)
		}
	}
	e := newEntity(r, r.nextID, name)
	r.nextID++
	r.entities[e.id] = e
	r.order = append(r.order, e)
	if name != "" {
		r.names[name] = e
	}
	e.active = true
	return e, nil
}

// CreateEntityWith creates an entity and runs build on it. If build fails the
// entity is removed again.
func (r *Registry) CreateEntityWith(name string, build func(*Entity) error) (*Entity, error) {
	e, err := r.CreateEntity(name)
	if err != nil {
		return nil, err
	}
	if err := build(e); err != nil {
		r.RemoveEntity(e)
		return nil, err
	}
	return e, nil
}

// RemoveEntity clears every unit on e and forgets it. Entities that are not
// live in this registry are ignored.
func (r *Registry) RemoveEntity(e *Entity) {
	if e == nil || r.entities[e.id] != e {
		return
	}
	e.Clear()
	e.active = false
	delete(r.entities, e.id)
	i := sort.Search(len(r.order), func(i int) bool { return r.order[i].id >= e.id })
	if i < len(r.order) && r.order[i] == e {
		r.order = slices.Delete(r.order, i, i+1)
	}
	if e.name != "" && r.names[e.name] == e {
		delete(r.names, e.name)
	}
}

func (r *Registry) GetEntityByID(id int64) *Entity {
	return r.entities[id]
}

func (r *Registry) GetEntityByName(name string) *Entity {
	return r.names[name]
}

// RequireEntity is GetEntityByID for callers that need an error.
func (r *Registry) RequireEntity(id int64) (*Entity, error) {
	e, ok := r.entities[id]
	if !ok {
		return nil, fmt.Errorf("%w: id %d", ErrUnknownEntity, id)
	}
	return e, nil
}

func (r *Registry) rename(e *Entity, name string) error {
	name = strings.TrimSpace(name)
	if name == e.name {
		return nil
	}
	if name != "" {
		if other, ok := r.names[name]; ok && other != e {
			return fmt.Errorf("%w: %q", ErrDuplicateName, name)
		}
	}
	if r.entities[e.id] == e {
		if e.name != "" && r.names[e.name] == e {
			delete(r.names, e.name)
		}
		if name != "" {
			r.names[name] = e
		}
	}
	e.name = name
	return nil
}

// CreateEntityFromTemplate builds an unnamed entity from a registered template.
func (r *Registry) CreateEntityFromTemplate(template string, args ...any) (*Entity, error) {
	return r.instantiate(template, "", args)
}

// CreateNamedEntityFromTemplate builds a named entity from a registered template.
func (r *Registry) CreateNamedEntityFromTemplate(template, name string, args ...any) (*Entity, error) {
	return r.instantiate(template, name, args)
}

func (r *Registry) instantiate(template, name string, args []any) (*Entity, error) {
	tpl, ok := r.templates[template]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTemplate, template)
	}
	e, err := r.CreateEntity(name)
	if err != nil {
		return nil, err
	}
	built, err := tpl.Build(e, args...)
	if err != nil {
		r.RemoveEntity(e)
		return nil, fmt.Errorf("template %q: %w", template, err)
	}
	if built != nil && built != e {
		r.RemoveEntity(e)
		return nil, fmt.Errorf("template %q: returned %s instead of %s", template, built, e)
	}
	return e, nil
}

// RegisterUnitType makes a unit type constructible by name. Malformed entries
// are logged and skipped so one bad type cannot block startup.
func (r *Registry) RegisterUnitType(name string, factory Factory) bool {
	log := r.log.With(zap.String("unit", name))
	if strings.TrimSpace(name) == "" {
		log.Warn("unit type has no name")
		return false
	}
	if factory == nil {
		log.Warn("unit type has no factory")
		return false
	}
	u, err := probe(factory)
	if err != nil {
		log.Warn("unit factory failed", zap.Error(err))
		return false
	}
	if u.Type().Name != name {
		log.Warn("unit type name mismatch", zap.String("declared", u.Type().Name))
		return false
	}
	if _, ok := r.unitTypes[name]; ok {
		log.Warn("unit type already registered")
		return false
	}
	r.unitTypes[name] = unitEntry{key: reflect.TypeOf(u), factory: factory}
	log.Debug("registered unit type", zap.Int("layer", u.Type().Layer))
	return true
}

// RegisterUnitTypes registers each entry and returns how many succeeded.
func (r *Registry) RegisterUnitTypes(entries ...UnitEntry) int {
	n := 0
	for _, e := range entries {
		if r.RegisterUnitType(e.Name, e.New) {
			n++
		}
	}
	return n
}

func probe(factory Factory) (u Unit, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic: %v", rec)
		}
	}()
	u = factory()
	if u == nil {
		return nil, ErrInvalidUnit
	}
	if v := reflect.ValueOf(u); v.Kind() == reflect.Pointer && v.IsNil() {
		return nil, ErrInvalidUnit
	}
	if u.Type() == nil {
		return nil, ErrInvalidUnit
	}
	return u, nil
}

// RegisterTemplate makes a template instantiable by name. Malformed entries
// are logged and skipped.
func (r *Registry) RegisterTemplate(name string, t Template) bool {
	log := r.log.With(zap.String("template", name))
	if strings.TrimSpace(name) == "" {
		log.Warn("template has no name")
		return false
	}
	if t == nil {
		log.Warn("template is nil")
		return false
	}
	if _, ok := r.templates[name]; ok {
		log.Warn("template already registered")
		return false
	}
	r.templates[name] = t
	log.Debug("registered template")
	return true
}

// RegisterTemplates registers each entry and returns how many succeeded.
func (r *Registry) RegisterTemplates(entries ...TemplateEntry) int {
	n := 0
	for _, e := range entries {
		if r.RegisterTemplate(e.Name, e.Template) {
			n++
		}
	}
	return n
}

// NewUnit constructs a fresh unit of the named type.
func (r *Registry) NewUnit(name string) (Unit, error) {
	entry, ok := r.unitTypes[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownUnit, name)
	}
	return entry.factory(), nil
}

// UnitType resolves a registered unit name to its concrete type, for
// detaching by name.
func (r *Registry) UnitType(name string) (reflect.Type, error) {
	entry, ok := r.unitTypes[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownUnit, name)
	}
	return entry.key, nil
}

func (r *Registry) HasTemplate(name string) bool {
	_, ok := r.templates[name]
	return ok
}

// UnitTypeNames returns the registered unit names, sorted.
func (r *Registry) UnitTypeNames() []string {
	names := make([]string, 0, len(r.unitTypes))
	for name := range r.unitTypes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// TemplateNames returns the registered template names, sorted.
func (r *Registry) TemplateNames() []string {
	names := make([]string, 0, len(r.templates))
	for name := range r.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Update, Draw and OnInputAction walk a snapshot so callbacks may create or
// remove entities mid-pass. Entities removed earlier in the pass are inactive
// and get skipped.
func (r *Registry) Update() {
	r.dispatching++
	defer func() { r.dispatching-- }()
	for _, e := range r.Entities() {
		if e.active {
			e.Update()
		}
	}
}

func (r *Registry) Draw() {
	r.dispatching++
	defer func() { r.dispatching-- }()
	for _, e := range r.Entities() {
		if e.active {
			e.Draw()
		}
	}
}

func (r *Registry) OnInputAction(action string) {
	r.dispatching++
	defer func() { r.dispatching-- }()
	for _, e := range r.Entities() {
		if e.active {
			e.OnInputAction(action)
		}
	}
}

// Clear removes every entity and resets the id counter.
func (r *Registry) Clear() error {
	if r.dispatching > 0 {
		return ErrDispatching
	}
	// a unit's Clear hook may spawn entities; keep going until none are left
	for len(r.order) > 0 {
		for _, e := range r.Entities() {
			r.RemoveEntity(e)
		}
	}
	clear(r.entities)
	clear(r.names)
	r.order = r.order[:0]
	r.nextID = 0
	return nil
}
