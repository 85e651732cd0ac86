package term

import (
	"testing"

	"github.com/diveengine/dive/internal/core/event"
	"github.com/diveengine/dive/internal/core/render"
	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newScreen(t *testing.T) tcell.SimulationScreen {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	screen.SetSize(20, 5)
	t.Cleanup(screen.Fini)
	return screen
}

func cell(screen tcell.Screen, x, y int) rune {
	r, _, _, _ := screen.GetContent(x, y)
	return r
}

func TestPresenterDrawsQueueInDepthOrder(t *testing.T) {
	screen := newScreen(t)
	q := render.NewQueue(NewPresenter(screen, zap.NewNop()))

	// the later (higher depth) job overwrites the cell
	require.NoError(t, q.SubmitAt(Glyph{X: 2, Y: 1, Rune: 'B'}, 5))
	require.NoError(t, q.SubmitAt(Glyph{X: 2, Y: 1, Rune: 'A'}, 1))
	require.NoError(t, q.SubmitAt(&Text{X: 0, Y: 3, S: "hi\nyo"}, 0))

	n, err := q.DrainAndPresent()
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, 'B', cell(screen, 2, 1))
	assert.Equal(t, 'h', cell(screen, 0, 3))
	assert.Equal(t, 'i', cell(screen, 1, 3))
	assert.Equal(t, 'y', cell(screen, 0, 4))
}

func TestPresenterClearsBetweenFrames(t *testing.T) {
	screen := newScreen(t)
	q := render.NewQueue(NewPresenter(screen, nil))

	require.NoError(t, q.SubmitAt(Glyph{X: 1, Y: 1, Rune: '@'}, 0))
	_, _ = q.DrainAndPresent()
	assert.Equal(t, '@', cell(screen, 1, 1))

	_, _ = q.DrainAndPresent()
	assert.NotEqual(t, '@', cell(screen, 1, 1))
}

func TestPresenterClipsOffscreen(t *testing.T) {
	screen := newScreen(t)
	p := NewPresenter(screen, nil)
	assert.NotPanics(t, func() {
		p.Present(Glyph{X: -1, Y: 0, Rune: 'x'}, 0)
		p.Present(Glyph{X: 50, Y: 50, Rune: 'x'}, 0)
		p.Present(Text{X: 18, Y: 0, S: "long line"}, 0)
	})
	p.EndFrame()
	assert.Equal(t, 'l', cell(screen, 18, 0))
	assert.Equal(t, 'o', cell(screen, 19, 0))
}

func TestPresenterTextAdvancesByRuneWidth(t *testing.T) {
	screen := newScreen(t)
	p := NewPresenter(screen, nil)
	p.Present(Text{X: 0, Y: 2, S: "界x世y"}, 0)
	p.EndFrame()

	assert.Equal(t, '界', cell(screen, 0, 2))
	assert.Equal(t, 'x', cell(screen, 2, 2))
	assert.Equal(t, '世', cell(screen, 3, 2))
	assert.Equal(t, 'y', cell(screen, 5, 2))
}

func TestPresenterReportsUnknownDrawableOnce(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	p := NewPresenter(newScreen(t), zap.New(core))
	p.Present(42, 0)
	p.Present(43, 1)
	assert.Equal(t, 1, logs.FilterMessage("unsupported drawable").Len())
}

func TestStyleOf(t *testing.T) {
	fg, bg, _ := StyleOf("red", "").Decompose()
	assert.Equal(t, tcell.GetColor("red"), fg)
	assert.Equal(t, tcell.ColorDefault, bg)

	fg, _, _ = StyleOf("", "").Decompose()
	assert.Equal(t, tcell.ColorDefault, fg)
}

func TestTranslate(t *testing.T) {
	bus := event.NewBus()
	var actions []string
	quit := 0
	var size event.Resize
	event.Subscribe(bus, func(ev event.InputAction) { actions = append(actions, ev.Action) })
	event.Subscribe(bus, func(event.Quit) { quit++ })
	event.Subscribe(bus, func(ev event.Resize) { size = ev })

	b := DefaultBindings()
	assert.True(t, Translate(bus, b, tcell.NewEventKey(tcell.KeyRune, 'w', tcell.ModNone)))
	assert.True(t, Translate(bus, b, tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModNone)))
	assert.False(t, Translate(bus, b, tcell.NewEventKey(tcell.KeyRune, 'z', tcell.ModNone)))
	assert.True(t, Translate(bus, b, tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)))
	assert.True(t, Translate(bus, b, tcell.NewEventResize(80, 24)))

	bus.SwapBuffers()
	bus.DispatchAll()
	assert.Equal(t, []string{"up", "left"}, actions)
	assert.Equal(t, 1, quit)
	assert.Equal(t, event.Resize{Width: 80, Height: 24}, size)
}
