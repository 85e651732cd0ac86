package ecs

import "fmt"

// Template assembles a stock set of units onto a fresh entity. Parameters
// arrive through args; templates must not read ambient state.
type Template interface {
	Build(e *Entity, args ...any) (*Entity, error)
}

// TemplateFunc adapts a function to Template.
type TemplateFunc func(e *Entity, args ...any) (*Entity, error)

func (f TemplateFunc) Build(e *Entity, args ...any) (*Entity, error) {
	return f(e, args...)
}

// Factory builds a fresh, unattached unit.
type Factory func() Unit

// Compose returns a template that attaches one fresh unit per factory, in
// order, and applies any Properties found in args.
func Compose(factories ...Factory) Template {
	return TemplateFunc(func(e *Entity, args ...any) (*Entity, error) {
		for _, f := range factories {
			u := f()
			if _, err := e.AddUnit(u); err != nil {
				return nil, fmt.Errorf("compose: %w", err)
			}
		}
		if props := PropertiesArg(args); props != nil {
			e.BuildProperties(props)
		}
		return e, nil
	})
}

// UnitEntry and TemplateEntry are the startup registration records.
type UnitEntry struct {
	Name string
	New  Factory
}

type TemplateEntry struct {
	Name     string
	Template Template
}
