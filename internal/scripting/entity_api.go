package scripting

import (
	"sort"

	"github.com/diveengine/dive/internal/core/ecs"
	jsoniter "github.com/json-iterator/go"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// openEntity installs the global "entity" module: console commands over the
// registry, addressed by entity id.
func (e *Engine) openEntity() {
	mod := e.vm.NewTable()
	e.vm.SetFuncs(mod, map[string]lua.LGFunction{
		"list":            e.luaList,
		"create":          e.luaCreate,
		"create_template": e.luaCreateTemplate,
		"remove":          e.luaRemove,
		"attach":          e.luaAttach,
		"detach":          e.luaDetach,
		"finalize":        e.luaFinalize,
		"set_name":        e.luaSetName,
		"enable":          e.luaEnable,
		"disable":         e.luaDisable,
		"info":            e.luaInfo,
		"find":            e.luaFind,
		"templates":       e.luaTemplates,
		"units":           e.luaUnits,
		"event":           e.luaEvent,
		"dump":            e.luaDump,
		"prop_init":       e.luaPropInit,
		"prop_set":        e.luaPropSet,
		"prop_build":      e.luaPropBuild,
		"prop_list":       e.luaPropList,
	})
	e.vm.SetGlobal("entity", mod)
}

// entityArg resolves the entity id at argument n or raises a Lua error.
func (e *Engine) entityArg(L *lua.LState, n int) *ecs.Entity {
	id := L.CheckInt64(n)
	ent, err := e.reg.RequireEntity(id)
	if err != nil {
		L.RaiseError("%s", err.Error())
		return nil
	}
	return ent
}

func (e *Engine) luaList(L *lua.LState) int {
	ents := e.reg.Entities()
	out := make([]string, len(ents))
	for i, ent := range ents {
		out[i] = ent.String()
	}
	L.Push(stringList(L, out))
	return 1
}

func (e *Engine) luaCreate(L *lua.LState) int {
	ent, err := e.reg.CreateEntity(L.OptString(1, ""))
	if err != nil {
		L.RaiseError("%s", err.Error())
		return 0
	}
	e.log.Info("created entity", zap.Int64("id", ent.ID()))
	L.Push(lua.LNumber(ent.ID()))
	return 1
}

// entity.create_template(template [, name] [, props])
func (e *Engine) luaCreateTemplate(L *lua.LState) int {
	tpl := L.CheckString(1)
	var (
		name  string
		props ecs.Properties
	)
	switch v := L.Get(2).(type) {
	case lua.LString:
		name = string(v)
		if t, ok := L.Get(3).(*lua.LTable); ok {
			props = propsTable(t)
		}
	case *lua.LTable:
		props = propsTable(v)
	}
	var args []any
	if props != nil {
		args = append(args, props)
	}
	ent, err := e.reg.CreateNamedEntityFromTemplate(tpl, name, args...)
	if err != nil {
		L.RaiseError("%s", err.Error())
		return 0
	}
	e.log.Info("created entity", zap.Int64("id", ent.ID()), zap.String("template", tpl))
	L.Push(lua.LNumber(ent.ID()))
	return 1
}

func (e *Engine) luaRemove(L *lua.LState) int {
	e.reg.RemoveEntity(e.entityArg(L, 1))
	return 0
}

func (e *Engine) luaAttach(L *lua.LState) int {
	ent := e.entityArg(L, 1)
	u, err := e.reg.NewUnit(L.CheckString(2))
	if err == nil {
		_, err = ent.AddUnit(u)
	}
	if err != nil {
		L.RaiseError("%s", err.Error())
	}
	return 0
}

func (e *Engine) luaDetach(L *lua.LState) int {
	ent := e.entityArg(L, 1)
	t, err := e.reg.UnitType(L.CheckString(2))
	if err == nil {
		_, err = ent.RemoveUnit(t)
	}
	if err != nil {
		L.RaiseError("%s", err.Error())
	}
	return 0
}

func (e *Engine) luaFinalize(L *lua.LState) int {
	e.entityArg(L, 1).FinalizeEntity()
	return 0
}

func (e *Engine) luaSetName(L *lua.LState) int {
	ent := e.entityArg(L, 1)
	if err := ent.SetName(L.CheckString(2)); err != nil {
		L.RaiseError("%s", err.Error())
	}
	return 0
}

func (e *Engine) luaEnable(L *lua.LState) int {
	e.entityArg(L, 1).SetActive(true)
	return 0
}

func (e *Engine) luaDisable(L *lua.LState) int {
	e.entityArg(L, 1).SetActive(false)
	return 0
}

// entity.info(id) returns {id, name, active, units = {"+Name", ...}}.
func (e *Engine) luaInfo(L *lua.LState) int {
	ent := e.entityArg(L, 1)
	units := ent.Units()
	names := make([]string, len(units))
	for i, u := range units {
		names[i] = ecs.UnitString(u)
	}
	t := L.NewTable()
	t.RawSetString("id", lua.LNumber(ent.ID()))
	t.RawSetString("name", lua.LString(ent.Name()))
	t.RawSetString("active", lua.LBool(ent.IsActive()))
	t.RawSetString("string", lua.LString(ent.String()))
	t.RawSetString("units", stringList(L, names))
	L.Push(t)
	return 1
}

// entity.find(name) returns the id of a named entity, or nil.
func (e *Engine) luaFind(L *lua.LState) int {
	ent := e.reg.GetEntityByName(L.CheckString(1))
	if ent == nil {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LNumber(ent.ID()))
	return 1
}

func (e *Engine) luaTemplates(L *lua.LState) int {
	L.Push(stringList(L, e.reg.TemplateNames()))
	return 1
}

func (e *Engine) luaUnits(L *lua.LState) int {
	L.Push(stringList(L, e.reg.UnitTypeNames()))
	return 1
}

// entity.event(id, name, ...) returns the AND of every unit's answer.
func (e *Engine) luaEvent(L *lua.LState) int {
	ent := e.entityArg(L, 1)
	name := L.CheckString(2)
	args := make([]any, 0, L.GetTop())
	for i := 3; i <= L.GetTop(); i++ {
		args = append(args, goValue(L.Get(i)))
	}
	L.Push(lua.LBool(ent.OnEvent(name, args...)))
	return 1
}

// entity.dump([id]) returns a JSON snapshot of one entity or the registry.
func (e *Engine) luaDump(L *lua.LState) int {
	var v any
	if L.GetTop() >= 1 {
		v = e.entityArg(L, 1).Info()
	} else {
		ents := e.reg.Entities()
		infos := make([]ecs.Info, len(ents))
		for i, ent := range ents {
			infos[i] = ent.Info()
		}
		v = infos
	}
	data, err := json.Marshal(v)
	if err != nil {
		L.RaiseError("dump: %s", err.Error())
		return 0
	}
	L.Push(lua.LString(data))
	return 1
}

func (e *Engine) luaPropInit(L *lua.LState) int {
	clear(e.props)
	return 0
}

func (e *Engine) luaPropSet(L *lua.LState) int {
	e.props[L.CheckString(1)] = L.CheckAny(2).String()
	return 0
}

func (e *Engine) luaPropBuild(L *lua.LState) int {
	e.entityArg(L, 1).BuildProperties(e.props.Merge(nil))
	return 0
}

// entity.prop_list() returns the staged properties as sorted "key=value"
// strings.
func (e *Engine) luaPropList(L *lua.LState) int {
	out := make([]string, 0, len(e.props))
	for k, v := range e.props {
		out = append(out, k+"="+v)
	}
	sort.Strings(out)
	L.Push(stringList(L, out))
	return 1
}
