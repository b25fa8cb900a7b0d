// Package eventlog implements the append-only, undo/redo-capable
// event log that sits above a buffer's state.State: every mutation of
// a buffer's content, cursors, overlays, or popups is expressed as an
// Event so it can be replayed, inverted, and persisted uniformly.
package eventlog

import (
	"github.com/glyphedit/core/internal/engine/cursor"
	"github.com/glyphedit/core/internal/engine/state"
)

// Event is one reversible step against a buffer's state. Apply mutates
// target in place; Invert returns the event that would undo it, built
// entirely from the receiver's own payload — no reverse application
// of Apply is needed to compute it.
type Event interface {
	Apply(target *state.State) error
	Invert() Event
}

// Insert records text inserted at Position by the cursor identified by
// CursorID (zero if not attributable to a specific cursor, e.g. a
// paste applied by a script).
type Insert struct {
	Position ByteOffset
	Text     string
	CursorID cursor.ID
}

func (e Insert) Apply(target *state.State) error {
	return target.InsertAt(e.Position, e.Text)
}

func (e Insert) Invert() Event {
	return &Delete{Start: e.Position, End: e.Position + ByteOffset(len(e.Text)), Deleted: e.Text, CursorID: e.CursorID}
}

// Delete records text removed from [Start, End); Deleted holds the
// removed bytes so Invert can reinsert them without reading the
// buffer.
type Delete struct {
	Start, End ByteOffset
	Deleted    string
	CursorID   cursor.ID
}

// Apply has a pointer receiver (unlike most other events) because it
// fills in Deleted from the buffer: the caller only knows the range
// being deleted up front, not its content, so the event's own payload
// is completed as a side effect of applying it.
func (e *Delete) Apply(target *state.State) error {
	got, err := target.DeleteRange(e.Start, e.End)
	if err != nil {
		return err
	}
	e.Deleted = got
	return nil
}

func (e *Delete) Invert() Event {
	return Insert{Position: e.Start, Text: e.Deleted, CursorID: e.CursorID}
}

// MoveCursor records a cursor's selection and sticky column changing
// from Old* to New*; it is symmetric, so Invert just swaps the pairs.
type MoveCursor struct {
	CursorID       cursor.ID
	OldSel, NewSel cursor.Selection
	OldSticky      uint32
	NewSticky      uint32
	OldHasSticky   bool
	NewHasSticky   bool
}

func (e MoveCursor) Apply(target *state.State) error {
	target.MoveCursor(e.CursorID, e.NewSel, e.NewSticky, e.NewHasSticky)
	return nil
}

func (e MoveCursor) Invert() Event {
	return MoveCursor{
		CursorID:     e.CursorID,
		OldSel:       e.NewSel,
		NewSel:       e.OldSel,
		OldSticky:    e.NewSticky,
		NewSticky:    e.OldSticky,
		OldHasSticky: e.NewHasSticky,
		NewHasSticky: e.OldHasSticky,
	}
}

// AddCursor records a secondary cursor added at Selection; Invert is
// RemoveCursor for the same id. ResultID is filled in by Apply, since
// the id isn't known until the cursor set assigns it.
type AddCursor struct {
	Selection cursor.Selection
	ResultID  cursor.ID
}

func (e *AddCursor) Apply(target *state.State) error {
	e.ResultID = target.AddCursor(e.Selection)
	return nil
}

func (e *AddCursor) Invert() Event {
	return RemoveCursor{CursorID: e.ResultID, Selection: e.Selection}
}

// RemoveCursor records a cursor removed at Selection; Invert recreates
// it via AddCursor (which may receive a new id if the original id
// happened to merge away before removal — acceptable since spec.md's
// symmetry requirement is about the visible selection, not raw id
// continuity across a merge).
type RemoveCursor struct {
	CursorID  cursor.ID
	Selection cursor.Selection
}

func (e RemoveCursor) Apply(target *state.State) error {
	target.RemoveCursor(e.CursorID)
	return nil
}

func (e RemoveCursor) Invert() Event {
	return &AddCursor{Selection: e.Selection, ResultID: e.CursorID}
}
