package editor

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/glyphedit/core/internal/engine/cursor"
	"github.com/glyphedit/core/internal/engine/state"
)

// Session is the per-file state the editor persists across restarts:
// enough to put the cursor and scroll position back where the user
// left them.
type Session struct {
	Head       cursor.ByteOffset
	Anchor     cursor.ByteOffset
	ScrollTop  cursor.ByteOffset
	LeftColumn int
}

// FileSessionStore persists Session records as one JSON file per
// canonical path under $XDG_STATE_HOME/keystorm/sessions, named by the
// sha256 of the path so arbitrarily deep paths collapse to a flat,
// filesystem-safe name.
type FileSessionStore struct {
	dir string
}

// NewFileSessionStore creates a store rooted at dir (the sessions
// directory itself, not its parent). The directory is created lazily
// on first Save.
func NewFileSessionStore(dir string) *FileSessionStore {
	return &FileSessionStore{dir: dir}
}

// DefaultSessionDir returns $XDG_STATE_HOME/keystorm/sessions, falling
// back to $HOME/.local/state/keystorm/sessions per the XDG base
// directory spec's default when XDG_STATE_HOME is unset.
func DefaultSessionDir() string {
	base := os.Getenv("XDG_STATE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		base = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(base, "keystorm", "sessions")
}

func sessionFileName(canonicalPath string) string {
	sum := sha256.Sum256([]byte(canonicalPath))
	return hex.EncodeToString(sum[:]) + ".json"
}

// Load reads the session for canonicalPath, if one exists.
func (s *FileSessionStore) Load(canonicalPath string) (Session, bool) {
	data, err := os.ReadFile(filepath.Join(s.dir, sessionFileName(canonicalPath)))
	if err != nil {
		return Session{}, false
	}

	result := gjson.ParseBytes(data)
	return Session{
		Head:       cursor.ByteOffset(result.Get("head").Int()),
		Anchor:     cursor.ByteOffset(result.Get("anchor").Int()),
		ScrollTop:  cursor.ByteOffset(result.Get("scroll_top").Int()),
		LeftColumn: int(result.Get("left_column").Int()),
	}, true
}

// Save writes sess for canonicalPath, creating the sessions directory
// if necessary.
func (s *FileSessionStore) Save(canonicalPath string, sess Session) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create session directory: %w", err)
	}

	doc := "{}"
	var err error
	for key, val := range map[string]int64{
		"head":        int64(sess.Head),
		"anchor":      int64(sess.Anchor),
		"scroll_top":  int64(sess.ScrollTop),
		"left_column": int64(sess.LeftColumn),
	} {
		doc, err = sjson.Set(doc, key, val)
		if err != nil {
			return fmt.Errorf("encode session: %w", err)
		}
	}

	path := filepath.Join(s.dir, sessionFileName(canonicalPath))
	return os.WriteFile(path, []byte(doc), 0o644)
}

// restoreSession applies a loaded Session to a freshly opened state,
// placing the primary cursor and scroll position without going
// through the event log: a session restore is not a user edit and
// should not be undoable.
func restoreSession(st *state.State, sess Session) {
	st.MoveCursor(st.Cursors.PrimaryID(), cursor.Selection{Anchor: sess.Anchor, Head: sess.Head}, 0, false)
	st.Viewport.JumpTo(sess.ScrollTop, sess.LeftColumn)
}

// captureSession builds a Session from st's current cursor and scroll
// state, for CloseBuffer's "save the per-file session" step.
func captureSession(st *state.State) Session {
	primary := st.Cursors.Primary()
	return Session{
		Head:       primary.Selection.Head,
		Anchor:     primary.Selection.Anchor,
		ScrollTop:  st.Viewport.TopByte(),
		LeftColumn: st.Viewport.LeftColumn(),
	}
}
