package units

import "github.com/diveengine/dive/internal/core/ecs"

var InlineType = &ecs.UnitType{Name: "Engine.InlineComponent", Layer: UpdateGame}

// Inline forwards its hooks to optional callbacks, for one-off behavior
// that does not deserve its own unit type.
type Inline struct {
	ecs.Base

	UpdateFn func(*Inline)
	DrawFn   func(*Inline)
	ClearFn  func(*Inline)
	InputFn  func(u *Inline, action string)
	EventFn  func(u *Inline, name string, args ...any) bool
}

func NewInline() *Inline { return &Inline{} }

func (*Inline) Type() *ecs.UnitType { return InlineType }

func (u *Inline) Update() {
	if u.UpdateFn != nil {
		u.UpdateFn(u)
	}
}

func (u *Inline) Draw() {
	if u.DrawFn != nil {
		u.DrawFn(u)
	}
}

func (u *Inline) Clear() {
	if u.ClearFn != nil {
		u.ClearFn(u)
	}
}

func (u *Inline) OnInputAction(action string) {
	if u.InputFn != nil {
		u.InputFn(u, action)
	}
}

func (u *Inline) OnEvent(name string, args ...any) bool {
	if u.EventFn == nil {
		return true
	}
	return u.EventFn(u, name, args...)
}
