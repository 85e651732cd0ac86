package term

import (
	"github.com/diveengine/dive/internal/core/event"
	"github.com/gdamore/tcell/v2"
)

// Bindings map terminal keys to input action names.
type Bindings struct {
	Keys  map[tcell.Key]string
	Runes map[rune]string
}

// DefaultBindings covers arrows, WASD and space. Escape and Ctrl-C always
// quit.
func DefaultBindings() Bindings {
	return Bindings{
		Keys: map[tcell.Key]string{
			tcell.KeyUp:    "up",
			tcell.KeyDown:  "down",
			tcell.KeyLeft:  "left",
			tcell.KeyRight: "right",
			tcell.KeyEnter: "confirm",
		},
		Runes: map[rune]string{
			'w': "up",
			's': "down",
			'a': "left",
			'd': "right",
			' ': "jump",
		},
	}
}

func (b Bindings) action(ev *tcell.EventKey) (string, bool) {
	if ev.Key() == tcell.KeyRune {
		a, ok := b.Runes[ev.Rune()]
		return a, ok
	}
	a, ok := b.Keys[ev.Key()]
	return a, ok
}

// Translate turns one terminal event into bus events. It reports false when
// the event was not recognised.
func Translate(bus *event.Bus, b Bindings, ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			event.Emit(bus, event.Quit{Reason: "key"})
			return true
		}
		if a, ok := b.action(ev); ok {
			event.Emit(bus, event.InputAction{Action: a})
			return true
		}
	case *tcell.EventResize:
		w, h := ev.Size()
		event.Emit(bus, event.Resize{Width: w, Height: h})
		return true
	}
	return false
}

// PollInput forwards screen events to the bus until the screen is finalized.
// Run it on its own goroutine.
func PollInput(screen tcell.Screen, bus *event.Bus, b Bindings) {
	for {
		ev := screen.PollEvent()
		if ev == nil {
			return
		}
		if _, ok := ev.(*tcell.EventResize); ok {
			screen.Sync()
		}
		Translate(bus, b, ev)
	}
}
