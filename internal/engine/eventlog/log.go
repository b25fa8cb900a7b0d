package eventlog

import "github.com/glyphedit/core/internal/engine/state"

// Log is an ordered sequence of applied events plus a cursor pointing
// at the next redo slot. Appending truncates any redo history past
// the cursor, matching the common editor convention that a fresh edit
// abandons a previously undone branch rather than forking history.
type Log struct {
	events []Event
	cursor int
}

// NewLog returns an empty log.
func NewLog() *Log {
	return &Log{}
}

// Len returns the number of events currently retained (including
// ones past the redo cursor, until the next append discards them).
func (l *Log) Len() int { return len(l.events) }

// CanUndo reports whether there is an event left of the cursor.
func (l *Log) CanUndo() bool { return l.cursor > 0 }

// CanRedo reports whether there is an event at or past the cursor.
func (l *Log) CanRedo() bool { return l.cursor < len(l.events) }

// Apply runs the three-step contract for applying an event to target
// through hooks: fire the before-hook (a false return vetoes and the
// event is neither applied nor logged), append (truncating redo
// history first) and apply the event, then fire the after-hook.
// Events with no hooks of their own (hookNamer not implemented) always
// proceed straight to application.
func (l *Log) Apply(target *state.State, ev Event, hooks HookRunner) (bool, error) {
	if hooks == nil {
		hooks = noopHooks{}
	}
	before, after := "", ""
	if hn, ok := ev.(hookNamer); ok {
		before, after = hn.hookNames()
	}
	if before != "" && !hooks.FireBefore(before, ev) {
		return false, nil
	}

	l.events = append(l.events[:l.cursor], ev)
	l.cursor = len(l.events)
	if err := ev.Apply(target); err != nil {
		l.events = l.events[:l.cursor-1]
		l.cursor--
		return false, err
	}

	if after != "" {
		hooks.FireAfter(after, ev)
	}
	return true, nil
}

// applyWithoutLogging applies ev to target directly, bypassing the
// hook protocol and the log entirely. Used by Undo/Redo, which must
// not re-append the event (or its inverse) as a new log entry.
func (l *Log) applyWithoutLogging(target *state.State, ev Event) error {
	return ev.Apply(target)
}

// Undo applies the inverse of the event left of the cursor without
// logging it, and decrements the cursor. Reports whether there was
// anything to undo.
func (l *Log) Undo(target *state.State) (bool, error) {
	if !l.CanUndo() {
		return false, nil
	}
	ev := l.events[l.cursor-1]
	if err := l.applyWithoutLogging(target, ev.Invert()); err != nil {
		return false, err
	}
	l.cursor--
	return true, nil
}

// Redo re-applies the event at the cursor without logging it again,
// and increments the cursor. Reports whether there was anything to
// redo.
func (l *Log) Redo(target *state.State) (bool, error) {
	if !l.CanRedo() {
		return false, nil
	}
	ev := l.events[l.cursor]
	if err := l.applyWithoutLogging(target, ev); err != nil {
		return false, err
	}
	l.cursor++
	return true, nil
}

// Events returns the retained events up to the redo cursor (the
// "real" history, excluding any undone-but-not-yet-discarded tail).
func (l *Log) Events() []Event {
	out := make([]Event, l.cursor)
	copy(out, l.events[:l.cursor])
	return out
}
