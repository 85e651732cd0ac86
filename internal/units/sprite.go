package units

import (
	"github.com/diveengine/dive/internal/core/ecs"
	"github.com/diveengine/dive/internal/core/render"
	"github.com/diveengine/dive/internal/render/term"
	"go.uber.org/zap"
)

var SpriteType = &ecs.UnitType{Name: "Engine.Graphics.Sprite", Layer: DrawGame}

// Sprite draws a single glyph at its entity's Transform.
type Sprite struct {
	ecs.Base
	log       *zap.Logger
	queue     *render.Queue
	transform *ecs.Lookup[*Transform]
	warned    bool

	Glyph     rune
	DrawLayer int
	fg, bg    string
}

func NewSprite(d Deps) *Sprite {
	return &Sprite{log: d.log(), queue: d.Queue, Glyph: '@'}
}

func (*Sprite) Type() *ecs.UnitType { return SpriteType }

func (s *Sprite) Initialize() {
	s.transform = ecs.NewLookup[*Transform](s.Owner())
}

func (s *Sprite) Draw() {
	if s.queue == nil {
		return
	}
	t, err := s.transform.Get()
	if err != nil {
		if !s.warned {
			s.warned = true
			s.log.Warn("sprite has no transform", zap.Stringer("entity", s.Owner()), zap.Error(err))
		}
		return
	}
	x, y := t.Cell()
	g := term.Glyph{X: x, Y: y, Rune: s.Glyph, Style: term.StyleOf(s.fg, s.bg)}
	if err := s.queue.SubmitAt(g, s.DrawLayer); err != nil {
		s.log.Warn("sprite submit failed", zap.Error(err))
	}
}

// SetColor sets the foreground and background color names.
func (s *Sprite) SetColor(fg, bg string) { s.fg, s.bg = fg, bg }

func (s *Sprite) BuildProperties(props ecs.Properties) {
	ecs.BuildProperty(s.log, props, "Sprite.DrawLayer", func(v int) { s.DrawLayer = v })
	ecs.BuildProperty(s.log, props, "Sprite.Glyph", func(v string) {
		for _, r := range v {
			s.Glyph = r
			return
		}
	})
	ecs.BuildProperty(s.log, props, "Sprite.Color", func(v string) { s.fg = v })
	ecs.BuildProperty(s.log, props, "Sprite.Background", func(v string) { s.bg = v })
}
