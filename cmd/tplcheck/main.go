// tplcheck validates template and scene YAML against the built-in unit
// catalog, by registering the templates and importing the scene into a
// scratch registry.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/diveengine/dive/internal/core/ecs"
	"github.com/diveengine/dive/internal/data"
	"github.com/diveengine/dive/internal/units"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: tplcheck <templates.yaml> [scene.yaml]")
		os.Exit(1)
	}
	scene := ""
	if len(os.Args) > 2 {
		scene = os.Args[2]
	}
	if problems := check(os.Stdout, os.Args[1], scene); problems > 0 {
		fmt.Fprintf(os.Stderr, "%d problem(s)\n", problems)
		os.Exit(1)
	}
}

// check reports every problem to w and returns how many it found.
func check(w io.Writer, templatesPath, scenePath string) int {
	reg := ecs.NewRegistry(nil)
	units.RegisterAll(reg, units.Deps{Registry: reg})
	hasUnit := func(name string) bool {
		_, err := reg.UnitType(name)
		return err == nil
	}

	problems := 0
	defs, err := data.LoadTemplates(templatesPath)
	if err != nil {
		fmt.Fprintln(w, err)
		return 1
	}
	for _, d := range defs {
		if err := d.Check(hasUnit); err != nil {
			fmt.Fprintf(w, "template %q: %v\n", d.Name, err)
			problems++
			continue
		}
		if reg.HasTemplate(d.Name) {
			fmt.Fprintf(w, "template %q: already defined\n", d.Name)
			problems++
			continue
		}
		reg.RegisterTemplate(d.Name, d.Template(reg))
	}
	fmt.Fprintf(w, "%d/%d templates ok\n", len(defs)-problems, len(defs))

	if scenePath == "" {
		return problems
	}
	s, err := data.LoadScene(scenePath)
	if err != nil {
		fmt.Fprintln(w, err)
		return problems + 1
	}
	ents, err := data.ImportScene(reg, s, nil)
	if err != nil {
		fmt.Fprintln(w, err)
		return problems + 1
	}
	fmt.Fprintf(w, "scene %q: %d entities ok\n", s.Name, len(ents))
	return problems
}
