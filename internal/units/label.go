package units

import (
	"github.com/diveengine/dive/internal/core/ecs"
	"github.com/diveengine/dive/internal/core/render"
	"github.com/diveengine/dive/internal/render/term"
	"go.uber.org/zap"
)

var LabelType = &ecs.UnitType{Name: "Engine.Graphics.Text", Layer: DrawGame}

// Label draws a string at its entity's Transform.
type Label struct {
	ecs.Base
	log       *zap.Logger
	queue     *render.Queue
	transform *ecs.Lookup[*Transform]

	Text      string
	DrawLayer int
	fg        string
}

func NewLabel(d Deps) *Label {
	return &Label{log: d.log(), queue: d.Queue}
}

func (*Label) Type() *ecs.UnitType { return LabelType }

func (l *Label) Initialize() {
	l.transform = ecs.NewLookup[*Transform](l.Owner())
}

func (l *Label) Draw() {
	if l.queue == nil || l.Text == "" {
		return
	}
	t, err := l.transform.Get()
	if err != nil {
		return
	}
	x, y := t.Cell()
	txt := term.Text{X: x, Y: y, S: l.Text, Style: term.StyleOf(l.fg, "")}
	if err := l.queue.SubmitAt(txt, l.DrawLayer); err != nil {
		l.log.Warn("label submit failed", zap.Error(err))
	}
}

func (l *Label) BuildProperties(props ecs.Properties) {
	ecs.BuildProperty(l.log, props, "Text.DrawLayer", func(v int) { l.DrawLayer = v })
	ecs.BuildProperty(l.log, props, "Text.String", func(v string) { l.Text = v })
	ecs.BuildProperty(l.log, props, "Text.Color", func(v string) { l.fg = v })
}
