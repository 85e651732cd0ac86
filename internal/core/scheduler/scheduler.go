package scheduler

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"go.uber.org/zap"
)

var (
	ErrAlreadyScheduled = errors.New("scheduler: task already scheduled")
	ErrInvalidTask      = errors.New("scheduler: invalid task")
)

// Scheduler runs time-deferred callbacks as part of the logic tick.
// Single-goroutine access only.
//
// RunTasks has no time budget: every task due in a call fires in that call,
// however long the callbacks take.
type Scheduler struct {
	log   *zap.Logger
	tasks []*Task
}

func New(log *zap.Logger) *Scheduler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Scheduler{
		log:   log,
		tasks: make([]*Task, 0, 32),
	}
}

// Len returns the number of scheduled tasks.
func (s *Scheduler) Len() int { return len(s.tasks) }

// Schedule arms t with its full delay and appends it to the task list.
func (s *Scheduler) Schedule(t *Task) error {
	if t == nil || t.Fn == nil {
		return fmt.Errorf("%w: nil task or callback", ErrInvalidTask)
	}
	if t.Delay < 0 {
		return fmt.Errorf("%w: negative delay %s", ErrInvalidTask, t.Delay)
	}
	if t.owner != nil {
		return ErrAlreadyScheduled
	}
	t.owner = s
	t.gen++
	t.remaining = t.Delay
	t.completed = false
	s.tasks = append(s.tasks, t)
	return nil
}

// After schedules fn to run once after delay.
func (s *Scheduler) After(delay time.Duration, fn func()) (*Task, error) {
	if fn == nil {
		return nil, fmt.Errorf("%w: nil callback", ErrInvalidTask)
	}
	t := NewTask(delay, false, func(*Task) { fn() })
	if err := s.Schedule(t); err != nil {
		return nil, err
	}
	return t, nil
}

// Every schedules fn to run every interval until the task is completed or
// cancelled.
func (s *Scheduler) Every(interval time.Duration, fn Func) (*Task, error) {
	t := NewTask(interval, true, fn)
	if err := s.Schedule(t); err != nil {
		return nil, err
	}
	return t, nil
}

// Cancel removes t. It reports false when t is not scheduled here.
func (s *Scheduler) Cancel(t *Task) bool {
	if t == nil || t.owner != s {
		return false
	}
	t.owner = nil
	if i := slices.Index(s.tasks, t); i >= 0 {
		s.tasks = slices.Delete(s.tasks, i, i+1)
	}
	return true
}

// ClearAll drops every task. Other subsystems may depend on their own
// repeating tasks; use with care.
func (s *Scheduler) ClearAll() {
	for _, t := range s.tasks {
		t.owner = nil
	}
	clear(s.tasks)
	s.tasks = s.tasks[:0]
}

// RunTasks advances every task by delta and fires the ones that are due, in
// list order. Tasks scheduled by a callback are not advanced in the same call;
// tasks cancelled by an earlier callback in the same call do not fire.
func (s *Scheduler) RunTasks(delta time.Duration) {
	var due []*Task
	for _, t := range s.tasks {
		if t.completed {
			continue
		}
		t.remaining -= delta
		if t.remaining <= 0 {
			due = append(due, t)
		}
	}

	for _, t := range due {
		if t.owner != s || t.completed {
			continue
		}
		gen := t.gen
		s.fire(t)
		if t.owner != s || t.gen != gen {
			// the callback cancelled or rescheduled its own task
			continue
		}
		if !t.Repeating || t.completed {
			t.completed = true
			continue
		}
		t.remaining = t.Delay
	}

	s.sweep()
}

func (s *Scheduler) sweep() {
	s.tasks = slices.DeleteFunc(s.tasks, func(t *Task) bool {
		if t.owner != s {
			return true
		}
		if t.completed {
			t.owner = nil
			return true
		}
		return false
	})
}

// fire runs a callback with panic recovery so one bad task cannot stop the
// remaining tasks or the frame.
func (s *Scheduler) fire(t *Task) {
	defer func() {
		if rec := recover(); rec != nil {
			s.log.Error("task panic recovered",
				zap.Duration("delay", t.Delay),
				zap.Bool("repeating", t.Repeating),
				zap.Any("panic", rec),
			)
		}
	}()
	t.Fn(t)
}
