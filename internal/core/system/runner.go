package system

import (
	"slices"
	"time"
)

// Runner drives the logic tick. Systems are bucketed by phase; a tick walks
// the buckets from the lowest phase up, and inside a bucket systems keep the
// order they were registered in.
type Runner struct {
	buckets map[Phase][]System
	phases  []Phase // keys of buckets, ascending
	count   int
}

func NewRunner() *Runner {
	return &Runner{buckets: make(map[Phase][]System, 4)}
}

// Register adds s to the bucket of its phase. Phases outside the built-in
// set are accepted and ordered numerically with the rest.
func (r *Runner) Register(s System) {
	p := s.Phase()
	if _, ok := r.buckets[p]; !ok {
		i, _ := slices.BinarySearch(r.phases, p)
		r.phases = slices.Insert(r.phases, i, p)
	}
	r.buckets[p] = append(r.buckets[p], s)
	r.count++
}

func (r *Runner) Len() int { return r.count }

// Phases lists the phases that have at least one system, in tick order.
func (r *Runner) Phases() []Phase { return slices.Clone(r.phases) }

func (r *Runner) Tick(dt time.Duration) {
	for _, p := range r.phases {
		r.TickPhase(p, dt)
	}
}

// TickPhase updates the systems of one phase only.
func (r *Runner) TickPhase(phase Phase, dt time.Duration) {
	for _, s := range r.buckets[phase] {
		s.Update(dt)
	}
}
