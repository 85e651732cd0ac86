package scripting

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/diveengine/dive/internal/core/ecs"
	"github.com/diveengine/dive/internal/core/event"
	"github.com/diveengine/dive/internal/core/scheduler"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Options are the engine services exposed to scripts.
type Options struct {
	Registry  *ecs.Registry
	Scheduler *scheduler.Scheduler
	Bus       *event.Bus
	Log       *zap.Logger
}

// Engine wraps a single gopher-lua VM acting as the developer console.
// Single-goroutine access only (game loop).
type Engine struct {
	vm    *lua.LState
	log   *zap.Logger
	reg   *ecs.Registry
	sched *scheduler.Scheduler
	bus   *event.Bus

	// staged by entity.prop_set, applied by entity.prop_build
	props ecs.Properties

	tasks    map[int]*scheduler.Task
	nextTask int
}

// NewEngine creates a Lua VM with the entity, schedule and engine modules
// installed.
func NewEngine(opts Options) (*Engine, error) {
	if opts.Registry == nil {
		return nil, errors.New("scripting: registry is required")
	}
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})

	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{
		vm:       vm,
		log:      log,
		reg:      opts.Registry,
		sched:    opts.Scheduler,
		bus:      opts.Bus,
		props:    make(ecs.Properties),
		tasks:    make(map[int]*scheduler.Task),
		nextTask: 1,
	}
	e.openEntity()
	e.openSchedule()
	e.openEngine()
	return e, nil
}

// LoadDir runs every .lua file in dir in name order. A missing directory is
// not an error.
func (e *Engine) LoadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // skip missing dirs
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// ExecFile runs a single script file.
func (e *Engine) ExecFile(path string) error {
	if err := e.vm.DoFile(path); err != nil {
		return fmt.Errorf("exec %s: %w", path, err)
	}
	return nil
}

// Exec runs a console line or chunk of Lua source.
func (e *Engine) Exec(src string) error {
	if err := e.vm.DoString(src); err != nil {
		return fmt.Errorf("exec: %w", err)
	}
	return nil
}

// CallHook calls the global Lua function name with string arguments, if it
// is defined. It reports whether the function exists.
func (e *Engine) CallHook(name string, args ...string) (bool, error) {
	fn := e.vm.GetGlobal(name)
	if fn == lua.LNil {
		return false, nil
	}
	lArgs := make([]lua.LValue, len(args))
	for i, a := range args {
		lArgs[i] = lua.LString(a)
	}
	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    0,
		Protect: true,
	}, lArgs...); err != nil {
		return true, fmt.Errorf("lua %s: %w", name, err)
	}
	return true, nil
}

// Close cancels script tasks and shuts down the Lua VM.
func (e *Engine) Close() {
	for id, t := range e.tasks {
		if e.sched != nil {
			e.sched.Cancel(t)
		}
		delete(e.tasks, id)
	}
	e.vm.Close()
}

// --- Lua helpers ---

func stringList(L *lua.LState, items []string) *lua.LTable {
	t := L.CreateTable(len(items), 0)
	for _, s := range items {
		t.Append(lua.LString(s))
	}
	return t
}

// propsTable converts a Lua table to a property bag. Values are stringified
// the way the map importer delivers them.
func propsTable(t *lua.LTable) ecs.Properties {
	props := make(ecs.Properties)
	t.ForEach(func(k, v lua.LValue) {
		if k.Type() != lua.LTString {
			return
		}
		props[k.String()] = v.String()
	})
	return props
}

// goValue converts a Lua argument for OnEvent.
func goValue(v lua.LValue) any {
	switch v := v.(type) {
	case lua.LString:
		return string(v)
	case lua.LNumber:
		return float64(v)
	case lua.LBool:
		return bool(v)
	case *lua.LTable:
		return propsTable(v)
	case *lua.LNilType:
		return nil
	default:
		return v
	}
}
