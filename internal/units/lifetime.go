package units

import (
	"time"

	"github.com/diveengine/dive/internal/core/ecs"
	"github.com/diveengine/dive/internal/core/scheduler"
	"go.uber.org/zap"
)

var LifetimeType = &ecs.UnitType{Name: "Engine.Lifetime", Layer: UpdateFinal}

// Lifetime removes its entity from the registry once TTL has elapsed. The
// countdown starts at FinalizeEntity so properties can set TTL first.
type Lifetime struct {
	ecs.Base
	log       *zap.Logger
	registry  *ecs.Registry
	scheduler *scheduler.Scheduler
	task      *scheduler.Task

	TTL time.Duration
}

func NewLifetime(d Deps) *Lifetime {
	return &Lifetime{log: d.log(), registry: d.Registry, scheduler: d.Scheduler}
}

func (*Lifetime) Type() *ecs.UnitType { return LifetimeType }

func (l *Lifetime) FinalizeEntity() {
	if l.TTL <= 0 || l.scheduler == nil || l.registry == nil {
		return
	}
	if l.task != nil && l.task.Scheduled() {
		return
	}
	owner := l.Owner()
	task, err := l.scheduler.After(l.TTL, func() {
		owner.Log().Debug("lifetime expired")
		l.registry.RemoveEntity(owner)
	})
	if err != nil {
		l.log.Warn("lifetime not scheduled", zap.Stringer("entity", owner), zap.Error(err))
		return
	}
	l.task = task
}

// Remaining returns the time left before the entity is removed, or zero when
// no countdown is running.
func (l *Lifetime) Remaining() time.Duration {
	if l.task == nil || !l.task.Scheduled() {
		return 0
	}
	return l.task.Remaining()
}

func (l *Lifetime) Clear() {
	if l.task != nil {
		l.scheduler.Cancel(l.task)
		l.task = nil
	}
}

func (l *Lifetime) BuildProperties(props ecs.Properties) {
	ecs.BuildProperty(l.log, props, "Lifetime.Seconds", func(v float64) {
		l.TTL = time.Duration(v * float64(time.Second))
	})
}
