package data

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/diveengine/dive/internal/core/ecs"
	"github.com/diveengine/dive/internal/core/render"
	"github.com/diveengine/dive/internal/core/scheduler"
	"github.com/diveengine/dive/internal/units"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const templatesYAML = `
templates:
  - name: Game.Coin
    units: [Engine.Transform, Engine.Graphics.Sprite]
    properties:
      Sprite.Glyph: "$"
      Sprite.Color: "yellow"
  - name: Game.Spark
    units: [Engine.Transform, Engine.Lifetime]
    properties:
      Lifetime.Seconds: "0.5"
  - name: ""
    units: [Engine.Transform]
  - name: Game.Broken
    units: [Engine.Transform, Engine.Nope]
  - name: Game.Twice
    units: [Engine.Transform, Engine.Transform]
`

func newRegistry(t *testing.T) (*ecs.Registry, *scheduler.Scheduler) {
	t.Helper()
	reg := ecs.NewRegistry(nil)
	sched := scheduler.New(nil)
	units.RegisterAll(reg, units.Deps{
		Registry:  reg,
		Scheduler: sched,
		Queue:     render.NewQueue(nil),
		Tick:      100 * time.Millisecond,
	})
	return reg, sched
}

func TestLoadTemplatesFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "templates.yaml")
	require.NoError(t, os.WriteFile(path, []byte(templatesYAML), 0o644))

	defs, err := LoadTemplates(path)
	require.NoError(t, err)
	require.Len(t, defs, 5)
	assert.Equal(t, "Game.Coin", defs[0].Name)
	assert.Equal(t, []string{"Engine.Transform", "Engine.Graphics.Sprite"}, defs[0].Units)
	assert.Equal(t, "$", defs[0].Properties["Sprite.Glyph"])

	_, err = LoadTemplates(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "read templates")
	_, err = ParseTemplates([]byte("templates: ["))
	assert.ErrorContains(t, err, "parse templates")
}

func TestRegisterTemplatesSkipsMalformed(t *testing.T) {
	reg, _ := newRegistry(t)
	core, logs := observer.New(zapcore.WarnLevel)
	defs, err := ParseTemplates([]byte(templatesYAML))
	require.NoError(t, err)

	n := RegisterTemplates(reg, defs, zap.New(core))
	assert.Equal(t, 2, n)
	assert.True(t, reg.HasTemplate("Game.Coin"))
	assert.True(t, reg.HasTemplate("Game.Spark"))
	assert.False(t, reg.HasTemplate("Game.Broken"))
	assert.False(t, reg.HasTemplate("Game.Twice"))
	assert.Equal(t, 3, logs.FilterMessage("template skipped").Len())
}

func TestCheckReportsUnknownUnit(t *testing.T) {
	d := TemplateDef{Name: "X", Units: []string{"Engine.Nope"}}
	err := d.Check(func(string) bool { return false })
	assert.ErrorIs(t, err, ecs.ErrUnknownUnit)
	assert.NoError(t, d.Check(nil))
}

func TestDataTemplateArgsOverrideDefaults(t *testing.T) {
	reg, _ := newRegistry(t)
	defs, _ := ParseTemplates([]byte(templatesYAML))
	RegisterTemplates(reg, defs, nil)

	e, err := reg.CreateNamedEntityFromTemplate("Game.Coin", "coin1", ecs.Properties{
		"Sprite.Glyph": "o",
		"Transform.X":  "4",
	})
	require.NoError(t, err)
	sprite, ok := ecs.Get[*units.Sprite](e)
	require.True(t, ok)
	assert.Equal(t, 'o', sprite.Glyph)
	tr, _ := ecs.Get[*units.Transform](e)
	assert.Equal(t, 4.0, tr.X)

	// defaults are not mutated by a previous instantiation
	e2, err := reg.CreateEntityFromTemplate("Game.Coin")
	require.NoError(t, err)
	sprite2, _ := ecs.Get[*units.Sprite](e2)
	assert.Equal(t, '$', sprite2.Glyph)
}

const sceneYAML = `
name: level1
objects:
  - name: hero
    template: Engine.Actor
    x: 2
    y: 3
    properties:
      Motion.VX: "10"
  - name: title
    template: Engine.Label
    properties:
      Text.String: "Level 1"
      Text.DrawLayer: "50"
  - name: marker
    units: [Engine.Graphics.Sprite]
    x: 7.5
  - units: [Engine.Lifetime]
    properties:
      Lifetime.Seconds: "2"
`

func TestImportScene(t *testing.T) {
	reg, sched := newRegistry(t)
	s, err := ParseScene([]byte(sceneYAML))
	require.NoError(t, err)

	ents, err := ImportScene(reg, s, nil)
	require.NoError(t, err)
	require.Len(t, ents, 4)
	assert.Equal(t, 4, reg.Len())

	hero := reg.GetEntityByName("hero")
	require.NotNil(t, hero)
	tr, _ := ecs.Get[*units.Transform](hero)
	assert.Equal(t, 2.0, tr.X)
	assert.Equal(t, 3.0, tr.Y)
	m, _ := ecs.Get[*units.Motion](hero)
	assert.Equal(t, 10.0, m.VX)
	sp, _ := ecs.Get[*units.Sprite](hero)
	assert.Equal(t, SceneLayerStart, sp.DrawLayer)

	title, _ := ecs.Get[*units.Label](reg.GetEntityByName("title"))
	assert.Equal(t, 50, title.DrawLayer)
	assert.Equal(t, "Level 1", title.Text)

	marker := reg.GetEntityByName("marker")
	require.NotNil(t, marker)
	mt, ok := ecs.Get[*units.Transform](marker)
	require.True(t, ok, "position adds a transform")
	assert.Equal(t, 7.5, mt.X)
	msp, _ := ecs.Get[*units.Sprite](marker)
	assert.Equal(t, SceneLayerStart+2, msp.DrawLayer)

	// finalized: the lifetime countdown is running
	assert.Equal(t, 1, sched.Len())
}

func TestImportSceneRollsBack(t *testing.T) {
	reg, sched := newRegistry(t)
	s := &Scene{Name: "bad", Objects: []SceneObject{
		{Name: "a", Template: "Engine.Spatial"},
		{Name: "b", Units: []string{"Engine.Lifetime"}, Properties: map[string]string{"Lifetime.Seconds": "1"}},
		{Name: "c", Template: "Game.Missing"},
	}}

	ents, err := ImportScene(reg, s, nil)
	assert.ErrorIs(t, err, ecs.ErrUnknownTemplate)
	assert.Nil(t, ents)
	assert.Zero(t, reg.Len())
	assert.Nil(t, reg.GetEntityByName("a"))
	assert.Zero(t, sched.Len(), "removed lifetime cancels its task")
}

func TestImportSceneDuplicateNameRollsBack(t *testing.T) {
	reg, _ := newRegistry(t)
	s := &Scene{Objects: []SceneObject{
		{Name: "dup", Units: []string{"Engine.Transform"}},
		{Name: "dup", Units: []string{"Engine.Transform"}},
	}}
	_, err := ImportScene(reg, s, nil)
	assert.ErrorIs(t, err, ecs.ErrDuplicateName)
	assert.Zero(t, reg.Len())
}

func TestLoadSceneErrors(t *testing.T) {
	_, err := LoadScene(filepath.Join(t.TempDir(), "none.yaml"))
	assert.ErrorContains(t, err, "read scene")
	_, err = ParseScene([]byte("objects: {"))
	assert.ErrorContains(t, err, "parse scene")
}
