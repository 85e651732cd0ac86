package units

import (
	"testing"
	"time"

	"github.com/diveengine/dive/internal/core/ecs"
	"github.com/diveengine/dive/internal/core/render"
	"github.com/diveengine/dive/internal/core/scheduler"
	"github.com/diveengine/dive/internal/render/term"
	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type job struct {
	d     render.Drawable
	depth int
}

type fixture struct {
	deps Deps
	jobs []job
}

func newFixture(t *testing.T, log *zap.Logger) *fixture {
	t.Helper()
	if log == nil {
		log = zap.NewNop()
	}
	f := &fixture{}
	f.deps = Deps{
		Registry:  ecs.NewRegistry(log),
		Scheduler: scheduler.New(log),
		Queue: render.NewQueue(render.PresenterFunc(func(d render.Drawable, depth int) {
			f.jobs = append(f.jobs, job{d, depth})
		})),
		Tick: 100 * time.Millisecond,
		Log:  log,
	}
	units, templates := RegisterAll(f.deps.Registry, f.deps)
	require.Equal(t, 7, units)
	require.Equal(t, 4, templates)
	return f
}

func (f *fixture) frame(t *testing.T) {
	t.Helper()
	f.jobs = nil
	f.deps.Registry.Draw()
	_, err := f.deps.Queue.DrainAndPresent()
	require.NoError(t, err)
}

func TestRegisterAllCatalog(t *testing.T) {
	f := newFixture(t, nil)
	assert.Equal(t, []string{"Engine.Actor", "Engine.Label", "Engine.Spatial", "Engine.Sprite"}, f.deps.Registry.TemplateNames())
	assert.Contains(t, f.deps.Registry.UnitTypeNames(), "Engine.Graphics.Sprite")

	u, err := f.deps.Registry.NewUnit("Engine.Transform")
	require.NoError(t, err)
	assert.IsType(t, &Transform{}, u)
}

func TestSpriteTemplateDrawsAtTransform(t *testing.T) {
	f := newFixture(t, nil)
	e, err := f.deps.Registry.CreateNamedEntityFromTemplate("Engine.Sprite", "hero", ecs.Properties{
		"Transform.X":      "3.4",
		"Transform.Y":      "1.6",
		"Sprite.Glyph":     "#",
		"Sprite.DrawLayer": "7",
		"Sprite.Color":     "red",
		"Unrelated.Key":    "ignored",
	})
	require.NoError(t, err)
	e.FinalizeEntity()

	f.frame(t)
	require.Len(t, f.jobs, 1)
	assert.Equal(t, 7, f.jobs[0].depth)
	g, ok := f.jobs[0].d.(term.Glyph)
	require.True(t, ok)
	assert.Equal(t, 3, g.X)
	assert.Equal(t, 2, g.Y)
	assert.Equal(t, '#', g.Rune)
	fg, _, _ := g.Style.Decompose()
	assert.Equal(t, tcell.GetColor("red"), fg)
}

func TestSpriteFollowsReplacedTransform(t *testing.T) {
	f := newFixture(t, nil)
	e, err := f.deps.Registry.CreateEntityFromTemplate("Engine.Sprite")
	require.NoError(t, err)

	_, err = ecs.Remove[*Transform](e)
	require.NoError(t, err)
	fresh, err := ecs.Add(e, NewTransform(f.deps))
	require.NoError(t, err)
	fresh.SetPosition(9, 4)

	f.frame(t)
	require.Len(t, f.jobs, 1)
	g := f.jobs[0].d.(term.Glyph)
	assert.Equal(t, 9, g.X)
	assert.Equal(t, 4, g.Y)
}

func TestSpriteWithoutTransformWarnsOnce(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	f := newFixture(t, zap.New(core))
	e, _ := f.deps.Registry.CreateEntity("ghost")
	_, err := ecs.Add(e, NewSprite(f.deps))
	require.NoError(t, err)

	f.frame(t)
	f.frame(t)
	assert.Empty(t, f.jobs)
	assert.Equal(t, 1, logs.FilterMessage("sprite has no transform").Len())
}

func TestLabelDrawsText(t *testing.T) {
	f := newFixture(t, nil)
	_, err := f.deps.Registry.CreateEntityFromTemplate("Engine.Label", ecs.Properties{
		"Text.String":    "score 10",
		"Text.DrawLayer": "12",
	})
	require.NoError(t, err)

	f.frame(t)
	require.Len(t, f.jobs, 1)
	txt := f.jobs[0].d.(term.Text)
	assert.Equal(t, "score 10", txt.S)
	assert.Equal(t, 12, f.jobs[0].depth)
}

func TestBadPropertyIsLoggedAndSkipped(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	f := newFixture(t, zap.New(core))
	e, err := f.deps.Registry.CreateEntityFromTemplate("Engine.Spatial", ecs.Properties{
		"Transform.X": "left",
		"Transform.Y": "2",
	})
	require.NoError(t, err)

	tr, ok := ecs.Get[*Transform](e)
	require.True(t, ok)
	assert.Zero(t, tr.X)
	assert.Equal(t, 2.0, tr.Y)
	assert.Equal(t, 1, logs.FilterMessage("unable to build property").Len())
}

func TestMotionMovesPerTick(t *testing.T) {
	f := newFixture(t, nil)
	e, err := f.deps.Registry.CreateEntityFromTemplate("Engine.Actor", ecs.Properties{
		"Motion.VX": "10",
		"Motion.VY": "-5",
	})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		f.deps.Registry.Update()
	}
	tr, _ := ecs.Get[*Transform](e)
	assert.InDelta(t, 3.0, tr.X, 1e-9)
	assert.InDelta(t, -1.5, tr.Y, 1e-9)
}

func TestControllerFollowsInput(t *testing.T) {
	f := newFixture(t, nil)
	e, _ := f.deps.Registry.CreateEntityFromTemplate("Engine.Spatial")
	c, err := ecs.Add(e, NewController(f.deps))
	require.NoError(t, err)
	c.BuildProperties(ecs.Properties{"Controller.Step": "2"})

	for _, a := range []string{"right", "right", "down", "jump", "left"} {
		f.deps.Registry.OnInputAction(a)
	}
	tr, _ := ecs.Get[*Transform](e)
	assert.Equal(t, 2.0, tr.X)
	assert.Equal(t, 2.0, tr.Y)
}

func TestLifetimeRemovesEntity(t *testing.T) {
	f := newFixture(t, nil)
	e, _ := f.deps.Registry.CreateEntity("spark")
	l, err := ecs.Add(e, NewLifetime(f.deps))
	require.NoError(t, err)
	e.BuildProperties(ecs.Properties{"Lifetime.Seconds": "1.5"})
	e.FinalizeEntity()
	e.FinalizeEntity()
	assert.Equal(t, 1, f.deps.Scheduler.Len())
	assert.Equal(t, 1500*time.Millisecond, l.Remaining())

	f.deps.Scheduler.RunTasks(time.Second)
	assert.Same(t, e, f.deps.Registry.GetEntityByName("spark"))

	f.deps.Scheduler.RunTasks(time.Second)
	assert.Nil(t, f.deps.Registry.GetEntityByName("spark"))
	assert.False(t, l.IsActive())
	assert.Zero(t, f.deps.Scheduler.Len())
}

func TestLifetimeCancelledWithEntity(t *testing.T) {
	f := newFixture(t, nil)
	e, _ := f.deps.Registry.CreateEntity("")
	l, _ := ecs.Add(e, NewLifetime(f.deps))
	l.TTL = time.Second
	e.FinalizeEntity()
	require.Equal(t, 1, f.deps.Scheduler.Len())

	f.deps.Registry.RemoveEntity(e)
	assert.Zero(t, f.deps.Scheduler.Len())
	assert.Zero(t, l.Remaining())
}

func TestInlineForwardsHooks(t *testing.T) {
	f := newFixture(t, nil)
	e, _ := f.deps.Registry.CreateEntity("")
	var calls []string
	u, err := ecs.Add(e, &Inline{
		UpdateFn: func(*Inline) { calls = append(calls, "update") },
		DrawFn:   func(*Inline) { calls = append(calls, "draw") },
		ClearFn:  func(*Inline) { calls = append(calls, "clear") },
		InputFn:  func(_ *Inline, a string) { calls = append(calls, "input:"+a) },
		EventFn: func(_ *Inline, name string, _ ...any) bool {
			calls = append(calls, "event:"+name)
			return name != "can_delete"
		},
	})
	require.NoError(t, err)

	e.Update()
	e.Draw()
	e.OnInputAction("fire")
	assert.True(t, e.OnEvent("ping"))
	assert.False(t, e.OnEvent("can_delete"))
	_, err = ecs.Remove[*Inline](e)
	require.NoError(t, err)
	assert.False(t, u.IsActive())

	assert.Equal(t, []string{
		"update", "draw", "input:fire", "event:ping", "event:can_delete", "clear",
	}, calls)

	assert.True(t, NewInline().OnEvent("anything"))
}
