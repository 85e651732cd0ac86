package engine

import (
	"time"

	"github.com/diveengine/dive/internal/core/ecs"
	"github.com/diveengine/dive/internal/core/event"
	"github.com/diveengine/dive/internal/core/scheduler"
	coresys "github.com/diveengine/dive/internal/core/system"
)

// InputSystem swaps the event bus and delivers last tick's events.
// Phase 0 (Input).
type InputSystem struct {
	bus *event.Bus
}

func NewInputSystem(bus *event.Bus) *InputSystem {
	return &InputSystem{bus: bus}
}

func (s *InputSystem) Phase() coresys.Phase { return coresys.PhaseInput }

func (s *InputSystem) Update(_ time.Duration) {
	s.bus.SwapBuffers()
	s.bus.DispatchAll()
}

// PhysicsSystem steps the external physics world once per tick.
// Phase 1 (Physics).
type PhysicsSystem struct {
	world Stepper
}

func NewPhysicsSystem(world Stepper) *PhysicsSystem {
	return &PhysicsSystem{world: world}
}

func (s *PhysicsSystem) Phase() coresys.Phase { return coresys.PhasePhysics }

func (s *PhysicsSystem) Update(dt time.Duration) { s.world.Step(dt) }

// EntitySystem updates every active entity. Phase 2 (Entities).
type EntitySystem struct {
	registry *ecs.Registry
}

func NewEntitySystem(r *ecs.Registry) *EntitySystem {
	return &EntitySystem{registry: r}
}

func (s *EntitySystem) Phase() coresys.Phase { return coresys.PhaseEntities }

func (s *EntitySystem) Update(_ time.Duration) { s.registry.Update() }

// TaskSystem fires due scheduler tasks after entities have updated.
// Phase 3 (Tasks).
type TaskSystem struct {
	scheduler *scheduler.Scheduler
}

func NewTaskSystem(s *scheduler.Scheduler) *TaskSystem {
	return &TaskSystem{scheduler: s}
}

func (s *TaskSystem) Phase() coresys.Phase { return coresys.PhaseTasks }

func (s *TaskSystem) Update(dt time.Duration) { s.scheduler.RunTasks(dt) }
