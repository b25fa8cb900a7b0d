package state

import "sync"

// Popup is a transient overlay UI element: a completion menu, a
// signature-help box, a hover card. The core only tracks its items and
// selection; rendering owns layout and screen placement.
type Popup struct {
	ID       uint64
	Kind     string
	Items    []string
	Selected int
	Anchor   ByteOffset
}

// PopupStack is a LIFO stack of popups: showing a new popup while one
// is already visible pushes over it (e.g. signature help appearing
// while a completion menu is up), and hiding pops back to whichever
// was showing before.
type PopupStack struct {
	mu     sync.Mutex
	nextID uint64
	stack  []Popup
}

// NewPopupStack creates an empty popup stack.
func NewPopupStack() *PopupStack {
	return &PopupStack{}
}

// Show pushes a new popup and returns its id.
func (s *PopupStack) Show(kind string, items []string, anchor ByteOffset) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	s.stack = append(s.stack, Popup{ID: s.nextID, Kind: kind, Items: items, Anchor: anchor})
	return s.nextID
}

// ShowRestore pushes back a popup exactly as previously recorded,
// preserving its id — used to invert a Hide or Clear.
func (s *PopupStack) ShowRestore(p Popup) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stack = append(s.stack, p)
	if p.ID > s.nextID {
		s.nextID = p.ID
	}
}

// Hide pops the topmost popup, if any.
func (s *PopupStack) Hide() {
	s.HideWithRecord()
}

// HideWithRecord pops the topmost popup and returns it, so a HidePopup
// event can record it for its inverse.
func (s *PopupStack) HideWithRecord() (Popup, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.stack) == 0 {
		return Popup{}, false
	}
	top := s.stack[len(s.stack)-1]
	s.stack = s.stack[:len(s.stack)-1]
	return top, true
}

// Clear empties the stack entirely.
func (s *PopupStack) Clear() {
	s.ClearWithRecord()
}

// ClearWithRecord empties the stack and returns what was on it,
// bottom-first, so a ClearPopups event can restore it in order.
func (s *PopupStack) ClearWithRecord() []Popup {
	s.mu.Lock()
	defer s.mu.Unlock()
	displaced := s.stack
	s.stack = nil
	return displaced
}

// Top returns the topmost popup and whether one is showing.
func (s *PopupStack) Top() (Popup, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.stack) == 0 {
		return Popup{}, false
	}
	return s.stack[len(s.stack)-1], true
}

// SelectNext advances the topmost popup's selection by one, wrapping.
func (s *PopupStack) SelectNext() { s.moveSelection(1) }

// SelectPrev moves the topmost popup's selection back by one, wrapping.
func (s *PopupStack) SelectPrev() { s.moveSelection(-1) }

// SelectPageDown advances the topmost popup's selection by page,
// clamped to the last item.
func (s *PopupStack) SelectPageDown(page int) { s.movePage(page) }

// SelectPageUp moves the topmost popup's selection back by page,
// clamped to the first item.
func (s *PopupStack) SelectPageUp(page int) { s.movePage(-page) }

func (s *PopupStack) moveSelection(delta int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.stack) == 0 {
		return
	}
	top := &s.stack[len(s.stack)-1]
	n := len(top.Items)
	if n == 0 {
		return
	}
	top.Selected = ((top.Selected+delta)%n + n) % n
}

func (s *PopupStack) movePage(delta int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.stack) == 0 {
		return
	}
	top := &s.stack[len(s.stack)-1]
	n := len(top.Items)
	if n == 0 {
		return
	}
	sel := top.Selected + delta
	if sel < 0 {
		sel = 0
	}
	if sel >= n {
		sel = n - 1
	}
	top.Selected = sel
}
