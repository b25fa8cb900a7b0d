package eventlog

import (
	"github.com/glyphedit/core/internal/engine/buffer"
	"github.com/glyphedit/core/internal/engine/state"
)

// BulkEdit replaces a buffer's entire tree in one O(1) root swap,
// used for operations (a project-wide rename's edit set, a full
// ReplaceAllRegex) whose cost as a sequence of per-edit Insert/Delete
// events would be quadratic in the log's undo bookkeeping. Before and
// After are captured once, at construction time, by the caller
// snapshotting the buffer immediately before and after performing the
// bulk mutation directly.
type BulkEdit struct {
	Before *buffer.Snapshot
	After  *buffer.Snapshot
}

func (e BulkEdit) Apply(target *state.State) error {
	target.Buffer.RestoreSnapshot(e.After)
	return nil
}

func (e BulkEdit) Invert() Event {
	return BulkEdit{Before: e.After, After: e.Before}
}

// Compound groups several events into one undo/redo step, grounded on
// the teacher's CompoundCommand: Apply runs every sub-event in order
// and stops at the first error; Invert inverts each sub-event and
// replays them in reverse order.
type Compound struct {
	Events []Event
}

func (e Compound) Apply(target *state.State) error {
	for _, sub := range e.Events {
		if err := sub.Apply(target); err != nil {
			return err
		}
	}
	return nil
}

func (e Compound) Invert() Event {
	inverted := make([]Event, len(e.Events))
	for i, sub := range e.Events {
		inverted[len(e.Events)-1-i] = sub.Invert()
	}
	return Compound{Events: inverted}
}
