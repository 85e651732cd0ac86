package units

import (
	"time"

	"github.com/diveengine/dive/internal/core/ecs"
	"go.uber.org/zap"
)

var MotionType = &ecs.UnitType{Name: "Engine.Motion", Layer: UpdatePhysicsPositions}

// Motion moves its entity's Transform at a constant velocity, in cells per
// second.
type Motion struct {
	ecs.Base
	log       *zap.Logger
	step      time.Duration
	transform *ecs.Lookup[*Transform]

	VX, VY float64
}

func NewMotion(d Deps) *Motion {
	step := d.Tick
	if step <= 0 {
		step = time.Second / 60
	}
	return &Motion{log: d.log(), step: step}
}

func (*Motion) Type() *ecs.UnitType { return MotionType }

func (m *Motion) Initialize() {
	m.transform = ecs.NewLookup[*Transform](m.Owner())
}

func (m *Motion) Update() {
	if m.VX == 0 && m.VY == 0 {
		return
	}
	t, err := m.transform.Get()
	if err != nil {
		return
	}
	s := m.step.Seconds()
	t.AddPosition(m.VX*s, m.VY*s)
}

func (m *Motion) BuildProperties(props ecs.Properties) {
	ecs.BuildProperty(m.log, props, "Motion.VX", func(v float64) { m.VX = v })
	ecs.BuildProperty(m.log, props, "Motion.VY", func(v float64) { m.VY = v })
}

var ControllerType = &ecs.UnitType{Name: "Engine.Controller", Layer: UpdateInput}

// Controller moves its entity's Transform one Step per directional input
// action.
type Controller struct {
	ecs.Base
	log       *zap.Logger
	transform *ecs.Lookup[*Transform]

	Step float64
}

func NewController(d Deps) *Controller {
	return &Controller{log: d.log(), Step: 1}
}

func (*Controller) Type() *ecs.UnitType { return ControllerType }

func (c *Controller) Initialize() {
	c.transform = ecs.NewLookup[*Transform](c.Owner())
}

func (c *Controller) OnInputAction(action string) {
	var dx, dy float64
	switch action {
	case "up":
		dy = -c.Step
	case "down":
		dy = c.Step
	case "left":
		dx = -c.Step
	case "right":
		dx = c.Step
	default:
		return
	}
	t, err := c.transform.Get()
	if err != nil {
		c.log.Debug("controller has no transform", zap.Stringer("entity", c.Owner()))
		return
	}
	t.AddPosition(dx, dy)
}

func (c *Controller) BuildProperties(props ecs.Properties) {
	ecs.BuildProperty(c.log, props, "Controller.Step", func(v float64) { c.Step = v })
}
