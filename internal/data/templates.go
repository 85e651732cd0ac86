package data

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/diveengine/dive/internal/core/ecs"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// TemplateDef describes a data-driven template: the units to attach, by
// registered name, and the default properties applied after attaching.
type TemplateDef struct {
	Name       string            `yaml:"name"`
	Units      []string          `yaml:"units"`
	Properties map[string]string `yaml:"properties"`
}

type templateListFile struct {
	Templates []TemplateDef `yaml:"templates"`
}

// LoadTemplates loads template definitions from a YAML file.
func LoadTemplates(path string) ([]TemplateDef, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read templates: %w", err)
	}
	return ParseTemplates(data)
}

// ParseTemplates decodes template definitions from YAML.
func ParseTemplates(data []byte) ([]TemplateDef, error) {
	var f templateListFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return f.Templates, nil
}

// Check reports what is wrong with d given the registered unit names.
func (d TemplateDef) Check(hasUnit func(string) bool) error {
	var errs []error
	if strings.TrimSpace(d.Name) == "" {
		errs = append(errs, errors.New("template has no name"))
	}
	if len(d.Units) == 0 {
		errs = append(errs, fmt.Errorf("template %q has no units", d.Name))
	}
	seen := make(map[string]bool, len(d.Units))
	for _, u := range d.Units {
		if seen[u] {
			errs = append(errs, fmt.Errorf("template %q lists unit %q twice", d.Name, u))
		}
		seen[u] = true
		if hasUnit != nil && !hasUnit(u) {
			errs = append(errs, fmt.Errorf("template %q: %w: %q", d.Name, ecs.ErrUnknownUnit, u))
		}
	}
	return errors.Join(errs...)
}

// Template returns an ecs.Template that builds d through reg. Properties
// passed at creation override the defaults key by key.
func (d TemplateDef) Template(reg *ecs.Registry) ecs.Template {
	units := append([]string(nil), d.Units...)
	defaults := ecs.Properties(d.Properties).Merge(nil)
	return ecs.TemplateFunc(func(e *ecs.Entity, args ...any) (*ecs.Entity, error) {
		for _, name := range units {
			u, err := reg.NewUnit(name)
			if err != nil {
				return nil, err
			}
			if _, err := e.AddUnit(u); err != nil {
				return nil, fmt.Errorf("unit %q: %w", name, err)
			}
		}
		e.BuildProperties(defaults.Merge(ecs.PropertiesArg(args)))
		return e, nil
	})
}

// RegisterTemplates registers every well-formed definition with reg and
// returns how many were accepted. Malformed definitions are logged and
// skipped.
func RegisterTemplates(reg *ecs.Registry, defs []TemplateDef, log *zap.Logger) int {
	if log == nil {
		log = zap.NewNop()
	}
	known := unitSet(reg)
	n := 0
	for _, d := range defs {
		if err := d.Check(known); err != nil {
			log.Warn("template skipped", zap.String("template", d.Name), zap.Error(err))
			continue
		}
		if reg.RegisterTemplate(d.Name, d.Template(reg)) {
			n++
		}
	}
	log.Info("data templates registered", zap.Int("count", n), zap.Int("defined", len(defs)))
	return n
}

func unitSet(reg *ecs.Registry) func(string) bool {
	names := reg.UnitTypeNames()
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return func(name string) bool { return set[name] }
}
