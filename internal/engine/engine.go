package engine

import (
	"sync/atomic"
	"time"

	"github.com/diveengine/dive/internal/config"
	"github.com/diveengine/dive/internal/core/ecs"
	"github.com/diveengine/dive/internal/core/event"
	"github.com/diveengine/dive/internal/core/render"
	"github.com/diveengine/dive/internal/core/scheduler"
	coresys "github.com/diveengine/dive/internal/core/system"
	"go.uber.org/zap"
)

// Stepper advances an external physics world by one logic tick.
type Stepper interface {
	Step(dt time.Duration)
}

// StepperFunc adapts a function to Stepper.
type StepperFunc func(dt time.Duration)

func (f StepperFunc) Step(dt time.Duration) { f(dt) }

type Options struct {
	Config    config.EngineConfig
	Presenter render.Presenter // nil drops frames
	Physics   Stepper          // nil skips the physics phase
	Log       *zap.Logger
}

// Engine owns the runtime core and runs it one tick or frame at a time.
// Everything it owns is driven from a single goroutine.
type Engine struct {
	cfg       config.EngineConfig
	log       *zap.Logger
	registry  *ecs.Registry
	scheduler *scheduler.Scheduler
	queue     *render.Queue
	bus       *event.Bus
	runner    *coresys.Runner

	stopped atomic.Bool
	stats   Stats
}

func New(opts Options) *Engine {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	e := &Engine{
		cfg:       opts.Config,
		log:       log,
		registry:  ecs.NewRegistry(log.Named("ecs")),
		scheduler: scheduler.New(log.Named("scheduler")),
		queue:     render.NewQueue(opts.Presenter),
		bus:       event.NewBus(),
		runner:    coresys.NewRunner(),
	}

	e.runner.Register(NewInputSystem(e.bus))
	if opts.Physics != nil {
		e.runner.Register(NewPhysicsSystem(opts.Physics))
	}
	e.runner.Register(NewEntitySystem(e.registry))
	e.runner.Register(NewTaskSystem(e.scheduler))

	event.Subscribe(e.bus, func(ev event.InputAction) {
		e.registry.OnInputAction(ev.Action)
	})
	event.Subscribe(e.bus, func(ev event.Quit) {
		e.log.Info("quit requested", zap.String("reason", ev.Reason))
		e.Stop()
	})
	return e
}

func (e *Engine) Registry() *ecs.Registry { return e.registry }
func (e *Engine) Scheduler() *scheduler.Scheduler { return e.scheduler }
func (e *Engine) Queue() *render.Queue { return e.queue }
func (e *Engine) Bus() *event.Bus { return e.bus }
func (e *Engine) Config() config.EngineConfig { return e.cfg }
func (e *Engine) Log() *zap.Logger { return e.log }
func (e *Engine) Stats() Stats { return e.stats }

// Register adds a custom system to the tick.
func (e *Engine) Register(s coresys.System) { e.runner.Register(s) }

// Update runs one logic tick: input, physics, entities, then tasks.
func (e *Engine) Update(dt time.Duration) {
	e.runner.Tick(dt)
	e.stats.Ticks++
}

// Draw runs one frame: entities submit drawables, then the queue drains
// through the presenter.
func (e *Engine) Draw() {
	e.registry.Draw()
	n, err := e.queue.DrainAndPresent()
	if err != nil {
		e.log.Error("render queue drain failed", zap.Error(err))
		return
	}
	e.stats.Frames++
	e.stats.LastJobs = n
}

// Stop makes Run return after the current iteration. Safe from any
// goroutine.
func (e *Engine) Stop() { e.stopped.Store(true) }

func (e *Engine) Stopped() bool { return e.stopped.Load() }
