package eventlog

import "github.com/glyphedit/core/internal/engine/state"

// Scroll shifts the viewport by LineOffset lines without moving any
// cursor; its inverse is the same shift in the opposite direction.
type Scroll struct {
	LineOffset int
}

func (e Scroll) Apply(target *state.State) error {
	target.Scroll(e.LineOffset)
	return nil
}

func (e Scroll) Invert() Event {
	return Scroll{LineOffset: -e.LineOffset}
}
