package scheduler

import "time"

// Func is a task callback. It receives its own task so it can call Complete.
type Func func(t *Task)

// Task is a deferred, optionally repeating callback. A Task may be scheduled
// on at most one Scheduler at a time; build a fresh one per scheduling.
type Task struct {
	Delay     time.Duration
	Repeating bool
	Fn        Func

	completed bool
	remaining time.Duration
	owner     *Scheduler
	gen       uint64 // bumped by every Schedule
}

func NewTask(delay time.Duration, repeating bool, fn Func) *Task {
	return &Task{Delay: delay, Repeating: repeating, Fn: fn}
}

// Complete stops the task. A repeating task is not re-armed and a task that
// has not fired yet is dropped at the next RunTasks without firing.
func (t *Task) Complete() { t.completed = true }

func (t *Task) Completed() bool { return t.completed }

// Remaining is the time left until the task fires.
func (t *Task) Remaining() time.Duration { return t.remaining }

// Scheduled reports whether the task is currently owned by a scheduler.
func (t *Task) Scheduled() bool { return t.owner != nil }
