package units

import (
	"github.com/diveengine/dive/internal/core/ecs"
	"go.uber.org/zap"
)

var TransformType = &ecs.UnitType{Name: "Engine.Transform", Layer: UpdatePreDebug}

// Transform holds an entity's position in cells and its rotation in degrees.
type Transform struct {
	ecs.Base
	log *zap.Logger

	X, Y     float64
	Rotation float64
}

func NewTransform(d Deps) *Transform {
	return &Transform{log: d.log()}
}

func (*Transform) Type() *ecs.UnitType { return TransformType }

func (t *Transform) SetPosition(x, y float64) {
	t.X, t.Y = x, y
}

func (t *Transform) AddPosition(dx, dy float64) {
	t.X += dx
	t.Y += dy
}

// Cell rounds the position to the nearest cell.
func (t *Transform) Cell() (int, int) {
	return round(t.X), round(t.Y)
}

func (t *Transform) BuildProperties(props ecs.Properties) {
	ecs.BuildProperty(t.log, props, "Transform.X", func(v float64) { t.X = v })
	ecs.BuildProperty(t.log, props, "Transform.Y", func(v float64) { t.Y = v })
	ecs.BuildProperty(t.log, props, "Transform.Rotation", func(v float64) { t.Rotation = v })
}

func round(f float64) int {
	if f < 0 {
		return int(f - 0.5)
	}
	return int(f + 0.5)
}
