package system

import "time"

// Phase defines execution ordering within a single tick.
type Phase int

const (
	PhaseInput    Phase = iota // 0: swap and dispatch the event bus
	PhasePhysics               // 1: step the external physics world
	PhaseEntities              // 2: registry Update
	PhaseTasks                 // 3: scheduler RunTasks
)

func (p Phase) String() string {
	switch p {
	case PhaseInput:
		return "input"
	case PhasePhysics:
		return "physics"
	case PhaseEntities:
		return "entities"
	case PhaseTasks:
		return "tasks"
	}
	return "unknown"
}

// System is one stage of the logic tick.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}

// Func adapts a function to System.
type Func struct {
	P  Phase
	Fn func(dt time.Duration)
}

func (f Func) Phase() Phase { return f.P }
func (f Func) Update(dt time.Duration) { f.Fn(dt) }
