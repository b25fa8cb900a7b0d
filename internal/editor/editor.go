// Package editor coordinates the set of open buffers, their per-buffer
// edit logs, tab order, and the open/close/navigation protocols that
// sit above a single buffer's engine.State. It is the seam between the
// text-editing engine (internal/engine/...) and everything that acts
// on a collection of buffers: tabs, splits, session persistence, LSP
// notification, and hooks.
package editor

import (
	"fmt"
	"sync"

	"github.com/glyphedit/core/internal/config"
	"github.com/glyphedit/core/internal/engine/buffer"
	"github.com/glyphedit/core/internal/engine/eventlog"
	"github.com/glyphedit/core/internal/engine/state"
)

// BufferID identifies an open buffer for the lifetime of the process.
// It is never reused, even after the buffer is closed.
type BufferID uint64

// LanguageNotifier is the editor's view of the language-server manager.
// It is satisfied by *lsp.EditorBridge once wired; kept as a local interface
// so this package does not depend on internal/lsp's construction order.
type LanguageNotifier interface {
	// NotifyOpen announces a newly opened buffer to the server for
	// language, if one can be started for it. ok is false if LSP was
	// not engaged (no server for the language, or it declined).
	NotifyOpen(path, language, text string) (ok bool)
	NotifyClose(path string)
}

// HookFirer is the editor's view of the hook registry (internal/hook).
type HookFirer interface {
	Fire(name string, payload any) (vetoed bool)
}

// FileWatcher is the editor's view of the file-watch / auto-revert
// subsystem; Watch registers path for change notification.
type FileWatcher interface {
	Watch(path string) error
	Unwatch(path string)
}

// SessionStore loads and saves per-file cursor/scroll state, keyed by
// canonical path. It is satisfied by *FileSessionStore (session.go).
type SessionStore interface {
	Load(canonicalPath string) (Session, bool)
	Save(canonicalPath string, s Session) error
}

// Metadata describes an open buffer beyond its text content.
type Metadata struct {
	// Path is the canonical absolute file path, or "" for an unnamed
	// (scratch, stdin, or virtual) buffer.
	Path string
	// DisplayName is shown in the tab bar.
	DisplayName string
	// HiddenFromTabs marks buffers (e.g. composite/virtual views) that
	// should not get their own tab.
	HiddenFromTabs bool
	// ReadOnly forbids Insert/Delete through the editor-level API.
	ReadOnly bool
	// Binary marks a buffer detected as non-text; implies ReadOnly and
	// LSPEnabled=false.
	Binary bool
	// LSPEnabled is false when a buffer was explicitly excluded (binary,
	// too large, or disabled by the user).
	LSPEnabled bool
	// LSPDisabledReason explains why, when LSPEnabled is false.
	LSPDisabledReason string
	// Language is the detected language id, used for LSP and syntax.
	Language string
	// IsTerminal marks a buffer backed by a PTY (closed specially).
	IsTerminal bool
	// IsComposite marks a synthetic view (e.g. a diff or search-results
	// buffer) that open_file's "reuse empty buffer" rule must not touch.
	IsComposite bool
}

// Editor owns every open buffer and the state shared across them:
// focus, tab order, and position history. A zero Editor is not usable;
// construct with New.
type Editor struct {
	mu sync.RWMutex

	workDir string

	buffers  map[BufferID]*state.State
	logs     map[BufferID]*eventlog.Log
	metadata map[BufferID]*Metadata
	// order records tab/open order for Next/PrevBuffer; closing a
	// buffer removes its entry.
	order []BufferID

	active  BufferID
	nextID  uint64

	splits        map[SplitID]*split
	activeSplitID SplitID
	nextSplitID   uint64

	history *PositionHistory
	// inNavigation suppresses position-history recording while
	// navigate_back/navigate_forward are themselves moving the cursor.
	inNavigation bool

	stdin *StdinStreamingState

	lsp      LanguageNotifier
	hooks    HookFirer
	watcher  FileWatcher
	sessions SessionStore

	settings config.Settings

	width, height int
}

// Option configures an Editor at construction time.
type Option func(*Editor)

// WithLanguageNotifier wires the language-server manager.
func WithLanguageNotifier(n LanguageNotifier) Option {
	return func(e *Editor) { e.lsp = n }
}

// WithHooks wires the hook registry.
func WithHooks(h HookFirer) Option {
	return func(e *Editor) { e.hooks = h }
}

// WithFileWatcher wires the file-watch subsystem.
func WithFileWatcher(w FileWatcher) Option {
	return func(e *Editor) { e.watcher = w }
}

// WithSessionStore wires per-file session persistence.
func WithSessionStore(s SessionStore) Option {
	return func(e *Editor) { e.sessions = s }
}

// WithSettings wires editor-core settings (tab width, the LSP file-size
// cutoff, line-number display); without this option New uses
// config.Default().
func WithSettings(s config.Settings) Option {
	return func(e *Editor) { e.settings = s }
}

// New creates an Editor rooted at workDir with one empty scratch
// buffer active, sized width x height.
func New(workDir string, width, height int, opts ...Option) *Editor {
	e := &Editor{
		workDir:  workDir,
		buffers:  make(map[BufferID]*state.State),
		logs:     make(map[BufferID]*eventlog.Log),
		metadata: make(map[BufferID]*Metadata),
		splits:   make(map[SplitID]*split),
		history:  NewPositionHistory(64),
		settings: config.Default(),
		width:    width,
		height:   height,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.nextSplitID = 1
	e.activeSplitID = SplitID(e.nextSplitID)
	id := e.insertBuffer(state.New(buffer.NewBufferFromString(""), width, height), &Metadata{
		DisplayName: "untitled",
		LSPEnabled:  true,
	})
	e.active = id
	return e
}

// insertBuffer assigns a fresh id, registers st under it with a new
// empty event log, and appends it to the tab order. Caller must hold
// e.mu (or be constructing e before publishing it).
func (e *Editor) insertBuffer(st *state.State, md *Metadata) BufferID {
	e.nextID++
	id := BufferID(e.nextID)
	e.buffers[id] = st
	e.logs[id] = eventlog.NewLog()
	e.metadata[id] = md
	e.order = append(e.order, id)
	if e.splits != nil {
		e.activeSplitLocked().addTab(id)
	}
	return id
}

// ActiveBuffer returns the id of the currently focused buffer.
func (e *Editor) ActiveBuffer() BufferID {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.active
}

// State returns the engine state for id, or nil if it is not open.
func (e *Editor) State(id BufferID) *state.State {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buffers[id]
}

// Log returns the edit log for id, or nil if it is not open.
func (e *Editor) Log(id BufferID) *eventlog.Log {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.logs[id]
}

// Metadata returns a copy of id's metadata, or false if it is not open.
func (e *Editor) Metadata(id BufferID) (Metadata, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	md, ok := e.metadata[id]
	if !ok {
		return Metadata{}, false
	}
	return *md, true
}

// ActiveState returns the engine state of the active buffer.
func (e *Editor) ActiveState() *state.State {
	return e.State(e.ActiveBuffer())
}

// ActiveLog returns the edit log of the active buffer.
func (e *Editor) ActiveLog() *eventlog.Log {
	return e.Log(e.ActiveBuffer())
}

// Buffers returns every open buffer id in tab order.
func (e *Editor) Buffers() []BufferID {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]BufferID, len(e.order))
	copy(out, e.order)
	return out
}

// SetActiveBuffer switches focus to id, recording the pre-switch
// position into position history unless a navigation is already in
// flight (which records its own entries). It is a no-op if id is not
// open or already active.
func (e *Editor) SetActiveBuffer(id BufferID) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.setActiveLocked(id)
}

func (e *Editor) setActiveLocked(id BufferID) {
	if _, ok := e.buffers[id]; !ok || id == e.active {
		return
	}
	if !e.inNavigation {
		e.recordCurrentPositionLocked()
	}
	e.active = id
	e.activeSplitLocked().focus(id)
}

// recordCurrentPositionLocked records the active buffer's primary
// cursor into position history. Caller must hold e.mu.
func (e *Editor) recordCurrentPositionLocked() {
	st, ok := e.buffers[e.active]
	if !ok {
		return
	}
	primary := st.Cursors.Primary()
	e.history.RecordMovement(e.active, primary.Selection.Head, primary.Selection.Anchor)
	e.history.CommitPending()
}

// NextBuffer switches to the next buffer in tab order, wrapping around.
func (e *Editor) NextBuffer() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stepBufferLocked(1)
}

// PrevBuffer switches to the previous buffer in tab order, wrapping.
func (e *Editor) PrevBuffer() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stepBufferLocked(-1)
}

func (e *Editor) stepBufferLocked(delta int) {
	n := len(e.order)
	if n < 2 {
		return
	}
	idx := -1
	for i, id := range e.order {
		if id == e.active {
			idx = i
			break
		}
	}
	if idx == -1 {
		return
	}
	next := ((idx+delta)%n + n) % n
	e.setActiveLocked(e.order[next])
}

// NavigateBack moves focus and cursor to the previous position-history
// entry, per spec.md's in_navigation contract: re-entrant recording is
// suppressed for the duration of the jump.
func (e *Editor) NavigateBack() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.inNavigation = true
	defer func() { e.inNavigation = false }()

	e.history.CommitPending()
	if e.history.CanGoBack() && !e.history.CanGoForward() {
		e.recordCurrentPositionLocked()
	}

	entry, ok := e.history.Back()
	if !ok {
		return
	}
	e.jumpToLocked(entry)
}

// NavigateForward moves focus and cursor to the next position-history
// entry.
func (e *Editor) NavigateForward() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.inNavigation = true
	defer func() { e.inNavigation = false }()

	entry, ok := e.history.Forward()
	if !ok {
		return
	}
	e.jumpToLocked(entry)
}

func (e *Editor) jumpToLocked(entry PositionEntry) {
	st, ok := e.buffers[entry.Buffer]
	if !ok {
		return
	}
	e.active = entry.Buffer
	e.activeSplitLocked().focus(entry.Buffer)
	primary := st.Cursors.PrimaryID()
	st.MoveCursor(primary, selectionFor(entry), 0, false)
}

// Resize updates the viewport size used by newly opened buffers and
// every currently open buffer's viewport.
func (e *Editor) Resize(width, height int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.width, e.height = width, height
	for _, st := range e.buffers {
		st.Viewport.Resize(width, height)
	}
}

func (e *Editor) fireHook(name string, payload any) (vetoed bool) {
	if e.hooks == nil {
		return false
	}
	return e.hooks.Fire(name, payload)
}

// bufferDisplayError formats a user-visible error for buffer id, used
// by callers that surface OpenFile/CloseBuffer failures in a status
// line rather than a panic.
func bufferDisplayError(op, path string, err error) error {
	return fmt.Errorf("%s %q: %w", op, path, err)
}
