package term

import (
	"strings"

	"github.com/gdamore/tcell/v2"
)

// Glyph is a single cell.
type Glyph struct {
	X, Y  int
	Rune  rune
	Style tcell.Style
}

// Text is a left-aligned run of cells starting at (X, Y). Newlines start a
// new row at X.
type Text struct {
	X, Y  int
	S     string
	Style tcell.Style
}

// StyleOf builds a style from color names understood by tcell ("red",
// "#ff8800"). Blank names keep the terminal default.
func StyleOf(fg, bg string) tcell.Style {
	s := tcell.StyleDefault
	if fg = strings.TrimSpace(fg); fg != "" {
		s = s.Foreground(tcell.GetColor(fg))
	}
	if bg = strings.TrimSpace(bg); bg != "" {
		s = s.Background(tcell.GetColor(bg))
	}
	return s
}
