package state

import "sync"

// Settings holds the per-buffer editing configuration that affects
// how the buffer is displayed and edited, independent of its content:
// language id (for LSP routing and syntax), indentation, and the
// whitespace/margin toggles a status line or gutter reads back.
type Settings struct {
	mu sync.RWMutex

	language      string
	tabSize       int
	useTabs       bool
	showTabs      bool
	showSpaces    bool
	editDisabled  bool
	marginColumns []int
}

// NewSettings returns default settings: unknown language, tab size 4,
// spaces not tabs, whitespace hidden, editing enabled, no margins.
func NewSettings() *Settings {
	return &Settings{tabSize: 4}
}

func (s *Settings) Language() string { s.mu.RLock(); defer s.mu.RUnlock(); return s.language }
func (s *Settings) SetLanguage(lang string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.language = lang
}

func (s *Settings) TabSize() int { s.mu.RLock(); defer s.mu.RUnlock(); return s.tabSize }
func (s *Settings) SetTabSize(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n < 1 {
		n = 1
	}
	s.tabSize = n
}

func (s *Settings) UseTabs() bool { s.mu.RLock(); defer s.mu.RUnlock(); return s.useTabs }
func (s *Settings) SetUseTabs(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.useTabs = v
}

func (s *Settings) ShowWhitespace() (tabs, spaces bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.showTabs, s.showSpaces
}

func (s *Settings) SetShowWhitespace(tabs, spaces bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.showTabs, s.showSpaces = tabs, spaces
}

// EditingDisabled reports whether the buffer is currently read-only
// at the editing-session level (distinct from a file-permission
// read-only flag on the buffer itself).
func (s *Settings) EditingDisabled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.editDisabled
}

func (s *Settings) SetEditingDisabled(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.editDisabled = v
}

// MarginColumns returns the configured print-margin column guides
// (e.g. []int{80, 120}).
func (s *Settings) MarginColumns() []int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]int, len(s.marginColumns))
	copy(out, s.marginColumns)
	return out
}

func (s *Settings) SetMarginColumns(cols []int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.marginColumns = append([]int(nil), cols...)
}
