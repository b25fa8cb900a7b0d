package state

import (
	"sync"

	"github.com/glyphedit/core/internal/engine/buffer"
	"github.com/glyphedit/core/internal/engine/cursor"
)

// State is everything that makes up one open buffer's live editing
// session. It is the aggregate eventlog events are applied against:
// events never reach into the buffer or cursor set directly, they go
// through State's methods so every mutation also shifts overlays,
// virtual text, and text properties consistently.
//
// This package does not import eventlog; eventlog events take a
// *State directly, so the dependency runs one way.
type State struct {
	mu sync.RWMutex

	Buffer   *buffer.Buffer
	Cursors  *cursor.Set
	Viewport *Viewport
	Overlays *OverlayStore
	Popups   *PopupStack
	VText    *VirtualTextStore
	Props    *TextPropertyStore
	Settings *Settings

	tabWidth int
}

// New builds a State around an already-loaded buffer, with a single
// primary cursor at the start of the buffer.
func New(buf *buffer.Buffer, width, height int) *State {
	return &State{
		Buffer:   buf,
		Cursors:  cursor.NewSet(0),
		Viewport: NewViewport(width, height),
		Overlays: NewOverlayStore(),
		Popups:   NewPopupStack(),
		VText:    NewVirtualTextStore(),
		Props:    NewTextPropertyStore(),
		Settings: NewSettings(),
		tabWidth: 4,
	}
}

// InsertAt inserts text at pos, then shifts cursors, overlays, virtual
// text and text properties to account for the new bytes. It is the
// sole path by which an eventlog Insert event mutates a buffer.
func (s *State) InsertAt(pos ByteOffset, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.Buffer.Insert(pos, text); err != nil {
		return err
	}
	length := ByteOffset(len(text))
	s.Cursors.ShiftForInsert(pos, length)
	s.Overlays.ShiftForInsert(pos, length)
	s.VText.ShiftForInsert(pos, length)
	s.Props.ShiftForInsert(pos, length)
	return nil
}

// DeleteRange deletes [start, end), then shifts every auxiliary store
// to account for the removed bytes. The deleted text is returned so
// the caller (an eventlog Delete event) can build its own inverse.
func (s *State) DeleteRange(start, end ByteOffset) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	old, err := s.Buffer.GetTextRangeMut(start, end)
	if err != nil {
		return "", err
	}
	if err := s.Buffer.Delete(start, end); err != nil {
		return "", err
	}
	s.Cursors.ShiftForDelete(start, end)
	s.Overlays.ShiftForDelete(start, end)
	s.VText.ShiftForDelete(start, end)
	s.Props.ShiftForDelete(start, end)
	return old, nil
}

// MoveCursor repositions the cursor with the given id.
func (s *State) MoveCursor(id cursor.ID, sel cursor.Selection, stickyColumn uint32, hasSticky bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Cursors.Update(id, sel, stickyColumn, hasSticky)
}

// AddCursor adds a new secondary cursor and returns its id.
func (s *State) AddCursor(sel cursor.Selection) cursor.ID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Cursors.Add(sel)
}

// RemoveCursor removes the cursor with the given id.
func (s *State) RemoveCursor(id cursor.ID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Cursors.Remove(id)
}

// AddOverlay adds an overlay and returns its id.
func (s *State) AddOverlay(ns string, start, end ByteOffset, style string, priority OverlayPriority) uint64 {
	return s.Overlays.Add(ns, start, end, style, priority)
}

// RestoreOverlay re-inserts a previously removed overlay, preserving
// its id — used to invert a RemoveOverlay event.
func (s *State) RestoreOverlay(o Overlay) { s.Overlays.Restore(o) }

// RemoveOverlay removes a single overlay by id and returns it so the
// caller can record it for the event's inverse.
func (s *State) RemoveOverlay(ns string, id uint64) (Overlay, bool) {
	return s.Overlays.RemoveWithRecord(ns, id)
}

// RemoveOverlaysInRange removes every overlay in ns overlapping the
// given range and returns what was displaced.
func (s *State) RemoveOverlaysInRange(ns string, start, end ByteOffset) []Overlay {
	return s.Overlays.RemoveInRangeWithRecord(ns, start, end)
}

// RestoreOverlays re-inserts a batch of previously removed overlays.
func (s *State) RestoreOverlays(overlays []Overlay) { s.Overlays.RestoreMany(overlays) }

// ClearOverlays clears every namespace's overlays and returns what was
// removed, keyed by namespace.
func (s *State) ClearOverlays() map[string][]Overlay {
	return s.Overlays.ClearWithRecord()
}

// RestoreClearedOverlays restores a full overlay snapshot produced by
// ClearOverlays.
func (s *State) RestoreClearedOverlays(byNS map[string][]Overlay) {
	for _, list := range byNS {
		s.Overlays.RestoreMany(list)
	}
}

// NamespaceSnapshot records everything displaced by ClearNamespace, so
// the event that triggered it can restore it verbatim on undo.
type NamespaceSnapshot struct {
	Overlays []Overlay
	VText    []VirtualText
	Props    []TextProperty
}

// ClearNamespace clears overlays, virtual text, and text properties
// that belong to ns, used when an LSP client detaches or restarts, and
// returns what was removed.
func (s *State) ClearNamespace(ns string) NamespaceSnapshot {
	return NamespaceSnapshot{
		Overlays: s.Overlays.ClearNamespaceWithRecord(ns),
		VText:    s.VText.ClearNamespaceWithRecord(ns),
		Props:    s.Props.ClearNamespaceWithRecord(ns),
	}
}

// RestoreNamespace re-inserts everything a ClearNamespace call
// displaced.
func (s *State) RestoreNamespace(snap NamespaceSnapshot) {
	s.Overlays.RestoreMany(snap.Overlays)
	s.VText.RestoreMany(snap.VText)
	s.Props.RestoreMany(snap.Props)
}

// ShowPopup pushes a popup and returns its id.
func (s *State) ShowPopup(kind string, items []string, anchor ByteOffset) uint64 {
	return s.Popups.Show(kind, items, anchor)
}

// ShowPopupRestore re-pushes a popup exactly as previously recorded.
func (s *State) ShowPopupRestore(p Popup) { s.Popups.ShowRestore(p) }

// HidePopup pops the topmost popup and returns it, if any.
func (s *State) HidePopup() (Popup, bool) { return s.Popups.HideWithRecord() }

// ClearPopups empties the popup stack and returns what was on it.
func (s *State) ClearPopups() []Popup { return s.Popups.ClearWithRecord() }

// RestorePopups pushes a stack of popups back on, bottom-first.
func (s *State) RestorePopups(popups []Popup) {
	for _, p := range popups {
		s.Popups.ShowRestore(p)
	}
}

// PopupSelectNext/Prev/PageUp/PageDown move the topmost popup's
// selection cursor.
func (s *State) PopupSelectNext()          { s.Popups.SelectNext() }
func (s *State) PopupSelectPrev()          { s.Popups.SelectPrev() }
func (s *State) PopupSelectPageUp(n int)   { s.Popups.SelectPageUp(n) }
func (s *State) PopupSelectPageDown(n int) { s.Popups.SelectPageDown(n) }

// Scroll shifts the viewport by deltaLines and re-syncs column
// visibility against the primary cursor.
func (s *State) Scroll(deltaLines int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Viewport.ScrollBy(s.Buffer, deltaLines)
}

// SyncViewport pulls the primary cursor's position into view,
// called after any edit or cursor-motion event per spec.md §4.5.
func (s *State) SyncViewport() {
	s.mu.RLock()
	primary := s.Cursors.Primary()
	s.mu.RUnlock()

	p := s.Buffer.OffsetToPoint(primary.Position())
	s.Viewport.EnsureRowVisible(s.Buffer, p.Line)

	lineText := s.Buffer.LineText(p.Line)
	lineStart := s.Buffer.LineStartOffset(p.Line)
	col := cursor.VisualColumn(lineText, int(primary.Position()-lineStart), s.tabWidth)
	s.Viewport.EnsureColumnVisible(int(col))
}

// SetTabWidth sets the tab width used for sticky-column and viewport
// calculations; kept in sync with Settings.TabSize by the caller.
func (s *State) SetTabWidth(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n < 1 {
		n = 1
	}
	s.tabWidth = n
}
