package scripting

import (
	"time"

	"github.com/diveengine/dive/internal/core/event"
	"github.com/diveengine/dive/internal/core/scheduler"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// openSchedule installs the global "schedule" module. Delays are in seconds;
// callbacks run on the game loop during the task phase.
func (e *Engine) openSchedule() {
	mod := e.vm.NewTable()
	e.vm.SetFuncs(mod, map[string]lua.LGFunction{
		"after":   e.luaAfter,
		"every":   e.luaEvery,
		"cancel":  e.luaCancel,
		"pending": e.luaPending,
	})
	e.vm.SetGlobal("schedule", mod)
}

func secondsArg(L *lua.LState, n int) time.Duration {
	s := float64(L.CheckNumber(n))
	if s < 0 {
		L.ArgError(n, "delay must not be negative")
	}
	return time.Duration(s * float64(time.Second))
}

// schedule.after(seconds, fn) returns a handle for schedule.cancel.
func (e *Engine) luaAfter(L *lua.LState) int {
	return e.scheduleLua(L, false)
}

// schedule.every(seconds, fn) repeats fn until it returns false or the
// handle is cancelled.
func (e *Engine) luaEvery(L *lua.LState) int {
	return e.scheduleLua(L, true)
}

func (e *Engine) scheduleLua(L *lua.LState, repeating bool) int {
	if e.sched == nil {
		L.RaiseError("schedule: no scheduler")
		return 0
	}
	delay := secondsArg(L, 1)
	fn := L.CheckFunction(2)
	id := e.nextTask
	e.nextTask++

	task := scheduler.NewTask(delay, repeating, func(t *scheduler.Task) {
		if !e.callTask(id, fn) {
			t.Complete()
		}
		if !t.Repeating || t.Completed() {
			delete(e.tasks, id)
		}
	})
	if err := e.sched.Schedule(task); err != nil {
		L.RaiseError("%s", err.Error())
		return 0
	}
	e.tasks[id] = task
	L.Push(lua.LNumber(id))
	return 1
}

// callTask runs a script callback. It returns false when the callback
// asked to stop by returning false.
func (e *Engine) callTask(id int, fn *lua.LFunction) bool {
	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}); err != nil {
		e.log.Error("lua task error", zap.Int("task", id), zap.Error(err))
		return true
	}
	ret := e.vm.Get(-1)
	e.vm.Pop(1)
	return ret != lua.LFalse
}

func (e *Engine) luaCancel(L *lua.LState) int {
	id := L.CheckInt(1)
	t, ok := e.tasks[id]
	if ok {
		delete(e.tasks, id)
		ok = e.sched.Cancel(t)
	}
	L.Push(lua.LBool(ok))
	return 1
}

func (e *Engine) luaPending(L *lua.LState) int {
	L.Push(lua.LNumber(len(e.tasks)))
	return 1
}

// openEngine installs the global "engine" module for host-level requests.
func (e *Engine) openEngine() {
	mod := e.vm.NewTable()
	e.vm.SetFuncs(mod, map[string]lua.LGFunction{
		"quit":  e.luaQuit,
		"input": e.luaInput,
		"log":   e.luaLog,
	})
	e.vm.SetGlobal("engine", mod)
}

// engine.quit([reason]) asks the loop to stop after the current tick.
func (e *Engine) luaQuit(L *lua.LState) int {
	if e.bus == nil {
		L.RaiseError("engine.quit: no event bus")
		return 0
	}
	event.Emit(e.bus, event.Quit{Reason: L.OptString(1, "script")})
	return 0
}

// engine.input(action) injects an input action for the next tick.
func (e *Engine) luaInput(L *lua.LState) int {
	if e.bus == nil {
		L.RaiseError("engine.input: no event bus")
		return 0
	}
	event.Emit(e.bus, event.InputAction{Action: L.CheckString(1)})
	return 0
}

func (e *Engine) luaLog(L *lua.LState) int {
	e.log.Info("lua", zap.String("msg", L.CheckString(1)))
	return 0
}
