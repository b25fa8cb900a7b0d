// Package termio touches the terminal exactly once: at startup, to
// learn the viewport size the editor core should bootstrap with.
// Rendering itself is out of scope (see spec's Non-goals); this
// package exists only so internal/editor.New isn't handed a
// hardcoded width/height.
package termio

import (
	"github.com/gdamore/tcell/v2"
)

// DefaultWidth and DefaultHeight are used when no terminal is attached (tests, piped
// stdin) or tcell fails to initialize a screen.
const (
	DefaultWidth  = 80
	DefaultHeight = 24
)

// Size opens a tcell screen just long enough to read its dimensions,
// then tears it down again. It never leaves the terminal in raw/alt
// mode: the caller is expected to create its own screen later for
// actual rendering, which is outside this module's scope.
func Size() (width, height int) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return DefaultWidth, DefaultHeight
	}
	if err := screen.Init(); err != nil {
		return DefaultWidth, DefaultHeight
	}
	width, height = screen.Size()
	screen.Fini()

	if width <= 0 || height <= 0 {
		return DefaultWidth, DefaultHeight
	}
	return width, height
}
