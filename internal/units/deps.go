package units

import (
	"time"

	"github.com/diveengine/dive/internal/core/ecs"
	"github.com/diveengine/dive/internal/core/render"
	"github.com/diveengine/dive/internal/core/scheduler"
	"go.uber.org/zap"
)

// Deps are the engine services built-in units may use. They are captured by
// the unit factories at registration time.
type Deps struct {
	Registry  *ecs.Registry
	Scheduler *scheduler.Scheduler
	Queue     *render.Queue
	Tick      time.Duration // fixed logic step, for per-second rates
	Log       *zap.Logger
}

func (d Deps) log() *zap.Logger {
	if d.Log == nil {
		return zap.NewNop()
	}
	return d.Log
}

// RegisterAll registers the built-in unit types and templates with reg. It
// returns the number of unit types and templates that were accepted.
func RegisterAll(reg *ecs.Registry, d Deps) (unitCount, templateCount int) {
	unitCount = reg.RegisterUnitTypes(
		ecs.UnitEntry{Name: TransformType.Name, New: func() ecs.Unit { return NewTransform(d) }},
		ecs.UnitEntry{Name: SpriteType.Name, New: func() ecs.Unit { return NewSprite(d) }},
		ecs.UnitEntry{Name: LabelType.Name, New: func() ecs.Unit { return NewLabel(d) }},
		ecs.UnitEntry{Name: MotionType.Name, New: func() ecs.Unit { return NewMotion(d) }},
		ecs.UnitEntry{Name: ControllerType.Name, New: func() ecs.Unit { return NewController(d) }},
		ecs.UnitEntry{Name: LifetimeType.Name, New: func() ecs.Unit { return NewLifetime(d) }},
		ecs.UnitEntry{Name: InlineType.Name, New: func() ecs.Unit { return NewInline() }},
	)
	templateCount = reg.RegisterTemplates(
		ecs.TemplateEntry{Name: "Engine.Spatial", Template: ecs.Compose(
			func() ecs.Unit { return NewTransform(d) },
		)},
		ecs.TemplateEntry{Name: "Engine.Sprite", Template: ecs.Compose(
			func() ecs.Unit { return NewTransform(d) },
			func() ecs.Unit { return NewSprite(d) },
		)},
		ecs.TemplateEntry{Name: "Engine.Label", Template: ecs.Compose(
			func() ecs.Unit { return NewTransform(d) },
			func() ecs.Unit { return NewLabel(d) },
		)},
		ecs.TemplateEntry{Name: "Engine.Actor", Template: ecs.Compose(
			func() ecs.Unit { return NewTransform(d) },
			func() ecs.Unit { return NewMotion(d) },
			func() ecs.Unit { return NewSprite(d) },
		)},
	)
	d.log().Info("built-in units registered",
		zap.Int("units", unitCount),
		zap.Int("templates", templateCount),
	)
	return unitCount, templateCount
}
