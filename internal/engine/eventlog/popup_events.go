package eventlog

import "github.com/glyphedit/core/internal/engine/state"

// ShowPopup records a popup pushed onto the stack; Invert hides it.
// ResultID is populated by Apply.
type ShowPopup struct {
	Kind     string
	Items    []string
	Anchor   ByteOffset
	ResultID uint64
}

func (e *ShowPopup) Apply(target *state.State) error {
	e.ResultID = target.ShowPopup(e.Kind, e.Items, e.Anchor)
	return nil
}

func (e *ShowPopup) Invert() Event {
	return &HidePopup{Popped: state.Popup{ID: e.ResultID, Kind: e.Kind, Items: e.Items, Anchor: e.Anchor}}
}

// HidePopup records the topmost popup popped off the stack; Invert
// pushes it back. Popped is filled in by Apply when constructed bare,
// or pre-filled when built as the inverse of ShowPopup.
type HidePopup struct {
	Popped state.Popup
}

func (e *HidePopup) Apply(target *state.State) error {
	if p, ok := target.HidePopup(); ok {
		e.Popped = p
	}
	return nil
}

func (e *HidePopup) Invert() Event {
	return &ShowPopupRestore{Popup: e.Popped}
}

// ShowPopupRestore is the inverse of HidePopup/ClearPopups: it
// restores a popup with its original id and selection intact, rather
// than allocating a fresh one the way ShowPopup does.
type ShowPopupRestore struct {
	Popup state.Popup
}

func (e *ShowPopupRestore) Apply(target *state.State) error {
	target.ShowPopupRestore(e.Popup)
	return nil
}

func (e *ShowPopupRestore) Invert() Event {
	return &HidePopup{Popped: e.Popup}
}

// ClearPopups records the entire popup stack at the time it was
// applied; Invert restores it.
type ClearPopups struct {
	Popped []state.Popup
}

func (e *ClearPopups) Apply(target *state.State) error {
	e.Popped = target.ClearPopups()
	return nil
}

func (e *ClearPopups) Invert() Event {
	return &RestorePopups{Popups: e.Popped}
}

// RestorePopups is the inverse of ClearPopups.
type RestorePopups struct {
	Popups []state.Popup
}

func (e *RestorePopups) Apply(target *state.State) error {
	target.RestorePopups(e.Popups)
	return nil
}

func (e *RestorePopups) Invert() Event {
	return &ClearPopups{Popped: e.Popups}
}

// PopupSelectDirection names which way a PopupSelect event moves the
// topmost popup's selection.
type PopupSelectDirection int

const (
	PopupSelectNext PopupSelectDirection = iota
	PopupSelectPrev
	PopupSelectPageUp
	PopupSelectPageDown
)

func (d PopupSelectDirection) inverse() PopupSelectDirection {
	switch d {
	case PopupSelectNext:
		return PopupSelectPrev
	case PopupSelectPrev:
		return PopupSelectNext
	case PopupSelectPageUp:
		return PopupSelectPageDown
	default:
		return PopupSelectPageUp
	}
}

// PopupSelect moves the topmost popup's selection one step in
// Direction, paging by Page rows for the page variants.
type PopupSelect struct {
	Direction PopupSelectDirection
	Page      int
}

func (e PopupSelect) Apply(target *state.State) error {
	switch e.Direction {
	case PopupSelectNext:
		target.PopupSelectNext()
	case PopupSelectPrev:
		target.PopupSelectPrev()
	case PopupSelectPageUp:
		target.PopupSelectPageUp(e.Page)
	case PopupSelectPageDown:
		target.PopupSelectPageDown(e.Page)
	}
	return nil
}

func (e PopupSelect) Invert() Event {
	return PopupSelect{Direction: e.Direction.inverse(), Page: e.Page}
}
