package term

import (
	"fmt"

	"github.com/diveengine/dive/internal/core/render"
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
	"go.uber.org/zap"
)

// Presenter draws Glyph and Text jobs onto a tcell screen. The screen is
// cleared at frame start and shown at frame end.
type Presenter struct {
	screen  tcell.Screen
	log     *zap.Logger
	unknown map[string]bool // drawable types already reported
}

func NewPresenter(screen tcell.Screen, log *zap.Logger) *Presenter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Presenter{
		screen:  screen,
		log:     log,
		unknown: make(map[string]bool),
	}
}

func (p *Presenter) BeginFrame() { p.screen.Clear() }

func (p *Presenter) EndFrame() { p.screen.Show() }

func (p *Presenter) Present(d render.Drawable, depth int) {
	switch v := d.(type) {
	case Glyph:
		p.glyph(v)
	case *Glyph:
		p.glyph(*v)
	case Text:
		p.text(v)
	case *Text:
		p.text(*v)
	default:
		name := fmt.Sprintf("%T", d)
		if !p.unknown[name] {
			p.unknown[name] = true
			p.log.Warn("unsupported drawable", zap.String("type", name), zap.Int("depth", depth))
		}
	}
}

func (p *Presenter) glyph(g Glyph) {
	w, h := p.screen.Size()
	if g.X < 0 || g.Y < 0 || g.X >= w || g.Y >= h {
		return
	}
	p.screen.SetContent(g.X, g.Y, g.Rune, nil, g.Style)
}

// text lays out runes by display width; wide runes take two cells and
// zero-width runes are dropped.
func (p *Presenter) text(t Text) {
	x, y := t.X, t.Y
	for _, r := range t.S {
		if r == '\n' {
			x, y = t.X, y+1
			continue
		}
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		p.glyph(Glyph{X: x, Y: y, Rune: r, Style: t.Style})
		x += w
	}
}
