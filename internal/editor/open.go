package editor

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/glyphedit/core/internal/engine/buffer"
	"github.com/glyphedit/core/internal/engine/eventlog"
	"github.com/glyphedit/core/internal/engine/state"
)

// ErrIsDirectory is returned by OpenFile when path names a directory.
var ErrIsDirectory = errors.New("is a directory")

// ErrLastBuffer is returned by CloseBuffer when asked to close the
// only remaining buffer.
var ErrLastBuffer = errors.New("cannot close the only open buffer")

// ErrBufferModified is returned by CloseBuffer when the target buffer
// has unsaved changes and force was not requested.
var ErrBufferModified = errors.New("buffer has unsaved changes")

// ErrBufferNotOpen is returned for operations against an unknown id.
var ErrBufferNotOpen = errors.New("buffer not open")

// resolvePath implements steps 1-2 of the open-file protocol: resolve
// against workDir (never the process's actual working directory), then
// canonicalize symlinks. If the target doesn't exist yet, only its
// parent directory is canonicalized, and the leaf name is appended
// as-is so a subsequent create-on-save still lands at the right path.
func (e *Editor) resolvePath(path string) (string, error) {
	if !filepath.IsAbs(path) {
		path = filepath.Join(e.workDir, path)
	}
	if real, err := filepath.EvalSymlinks(path); err == nil {
		return real, nil
	}
	dir := filepath.Dir(path)
	realDir, err := filepath.EvalSymlinks(dir)
	if err != nil {
		return "", err
	}
	return filepath.Join(realDir, filepath.Base(path)), nil
}

// findOpenLocked returns the id of the already-open buffer for
// canonicalPath, if any. Caller must hold e.mu.
func (e *Editor) findOpenLocked(canonicalPath string) (BufferID, bool) {
	for _, id := range e.order {
		if md := e.metadata[id]; md != nil && md.Path == canonicalPath {
			return id, true
		}
	}
	return 0, false
}

// reusableEmptyBufferLocked returns the active buffer's id if it is
// empty, unmodified, unnamed, and not a composite view — the case
// open_file reuses rather than allocating a new buffer. Caller must
// hold e.mu.
func (e *Editor) reusableEmptyBufferLocked() (BufferID, bool) {
	id := e.active
	st := e.buffers[id]
	md := e.metadata[id]
	if st == nil || md == nil {
		return 0, false
	}
	if md.IsComposite || md.Path != "" {
		return 0, false
	}
	if !st.Buffer.IsEmpty() || st.Buffer.IsModified() {
		return 0, false
	}
	return id, true
}

// OpenFile opens path with focus, following spec.md's twelve-step
// open-file protocol. If the file is already open, focus moves there
// without reloading it.
func (e *Editor) OpenFile(path string) (BufferID, error) {
	canonical, err := e.resolvePath(path)
	if err != nil {
		return 0, bufferDisplayError("open", path, err)
	}

	info, statErr := os.Stat(canonical)
	if statErr == nil && info.IsDir() {
		return 0, bufferDisplayError("open", canonical, ErrIsDirectory)
	}

	e.mu.Lock()
	if id, ok := e.findOpenLocked(canonical); ok {
		e.setActiveLocked(id)
		e.mu.Unlock()
		return id, nil
	}
	// Record the pre-switch position before anything else changes,
	// matching open_file's (as opposed to open_file_no_focus's) extra
	// bookkeeping step.
	if !e.inNavigation {
		e.recordCurrentPositionLocked()
	}
	e.mu.Unlock()

	loaded, md, err := e.loadFileBuffer(canonical)
	if err != nil {
		return 0, bufferDisplayError("open", canonical, err)
	}

	e.mu.Lock()
	var assigned BufferID
	if reuseID, ok := e.reusableEmptyBufferLocked(); ok {
		e.buffers[reuseID] = loaded
		e.logs[reuseID] = eventlog.NewLog()
		e.metadata[reuseID] = md
		assigned = reuseID
	} else {
		assigned = e.insertBuffer(loaded, md)
	}
	e.active = assigned
	e.activeSplitLocked().focus(assigned)
	e.mu.Unlock()

	e.afterOpen(assigned, md)
	return assigned, nil
}

// OpenFileNoFocus opens path (steps 1-8 plus session/watch/hooks) but
// does not move focus to it and does not touch position history.
func (e *Editor) OpenFileNoFocus(path string) (BufferID, error) {
	canonical, err := e.resolvePath(path)
	if err != nil {
		return 0, bufferDisplayError("open", path, err)
	}
	if info, statErr := os.Stat(canonical); statErr == nil && info.IsDir() {
		return 0, bufferDisplayError("open", canonical, ErrIsDirectory)
	}

	e.mu.RLock()
	if id, ok := e.findOpenLocked(canonical); ok {
		e.mu.RUnlock()
		return id, nil
	}
	e.mu.RUnlock()

	loaded, md, err := e.loadFileBuffer(canonical)
	if err != nil {
		return 0, bufferDisplayError("open", canonical, err)
	}

	e.mu.Lock()
	assigned := e.insertBuffer(loaded, md)
	e.mu.Unlock()

	e.afterOpen(assigned, md)
	return assigned, nil
}

// loadFileBuffer runs steps 3, 6 of the protocol: load the buffer
// content and build its metadata, without touching the editor's
// buffer map yet (that happens under e.mu in the caller so the
// reuse-empty-buffer decision stays race-free).
func (e *Editor) loadFileBuffer(canonical string) (*state.State, *Metadata, error) {
	buf, err := buffer.Open(canonical, buffer.WithTabWidth(e.defaultTabWidth()))
	if err != nil {
		return nil, nil, err
	}

	st := state.New(buf, e.width, e.height)

	md := &Metadata{
		Path:        canonical,
		DisplayName: filepath.Base(canonical),
		Language:    detectLanguage(canonical),
		LSPEnabled:  true,
	}

	if buf.IsBinary() {
		md.ReadOnly = true
		md.Binary = true
		md.LSPEnabled = false
		md.LSPDisabledReason = "binary file"
	} else if size, statErr := os.Stat(canonical); statErr == nil && size.Size() > e.settings.Editor.LSPMaxFileSize {
		md.LSPEnabled = false
		md.LSPDisabledReason = fmt.Sprintf("file too large (%d bytes)", size.Size())
	}

	return st, md, nil
}

func (e *Editor) defaultTabWidth() int {
	return e.settings.Editor.TabWidth
}

// afterOpen runs steps 8-12: LSP notification, session restore,
// file-watch registration, the after_file_open hook, and the
// FILE_OPENED observable event (modeled as a hook fire so callers with
// no observer wired pay nothing).
func (e *Editor) afterOpen(id BufferID, md *Metadata) {
	st := e.State(id)
	if st == nil {
		return
	}

	if md.LSPEnabled && e.lsp != nil {
		if !e.lsp.NotifyOpen(md.Path, md.Language, st.Buffer.Text()) {
			e.mu.Lock()
			if m := e.metadata[id]; m != nil {
				m.LSPEnabled = false
				m.LSPDisabledReason = "language server unavailable"
			}
			e.mu.Unlock()
		}
	}

	if e.sessions != nil && md.Path != "" {
		if sess, ok := e.sessions.Load(md.Path); ok {
			restoreSession(st, sess)
		}
	}

	if e.watcher != nil && md.Path != "" {
		_ = e.watcher.Watch(md.Path)
	}

	e.fireHook(HookAfterFileOpen, OpenPayload{Buffer: id, Path: md.Path})
	e.fireHook(HookFileOpened, OpenPayload{Buffer: id, Path: md.Path})
}

// OpenPayload is passed to after_file_open / FILE_OPENED hook fires.
type OpenPayload struct {
	Buffer BufferID
	Path   string
}

const (
	// HookAfterFileOpen fires once a buffer has finished loading, after
	// LSP notification and session restore.
	HookAfterFileOpen = "after_file_open"
	// HookFileOpened is the observable event emitted at the very end of
	// the open-file protocol.
	HookFileOpened = "file_opened"
	// HookBeforeFileClose fires before a buffer is removed.
	HookBeforeFileClose = "before_file_close"
)

// detectLanguage maps a file extension to a language id. It covers the
// common cases a language-server manager would look for; anything
// unrecognized gets "" and is left to config-level overrides.
func detectLanguage(path string) string {
	switch filepath.Ext(path) {
	case ".go":
		return "go"
	case ".rs":
		return "rust"
	case ".py":
		return "python"
	case ".js", ".mjs", ".cjs":
		return "javascript"
	case ".ts", ".tsx":
		return "typescript"
	case ".c", ".h":
		return "c"
	case ".cpp", ".cc", ".hpp":
		return "cpp"
	case ".md":
		return "markdown"
	case ".json":
		return "json"
	case ".toml":
		return "toml"
	case ".yaml", ".yml":
		return "yaml"
	case ".sh":
		return "shellscript"
	default:
		return ""
	}
}

// NewScratchBuffer creates and focuses a new empty, unnamed buffer.
func (e *Editor) NewScratchBuffer() BufferID {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.inNavigation {
		e.recordCurrentPositionLocked()
	}

	id := e.insertBuffer(newScratchState(e.width, e.height), &Metadata{
		DisplayName: "untitled",
		LSPEnabled:  true,
	})
	e.active = id
	e.activeSplitLocked().focus(id)
	return id
}

func newScratchState(width, height int) *state.State {
	return state.New(buffer.NewBufferFromString(""), width, height)
}
