package editor

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/glyphedit/core/internal/engine/cursor"
)

func dotSelection(pos cursor.ByteOffset) cursor.Selection {
	return cursor.Selection{Anchor: pos, Head: pos}
}

func newTestEditor(t *testing.T) (*Editor, string) {
	t.Helper()
	dir := t.TempDir()
	return New(dir, 80, 24), dir
}

func TestNewEditorHasOneScratchBuffer(t *testing.T) {
	e, _ := newTestEditor(t)
	if len(e.Buffers()) != 1 {
		t.Fatalf("expected 1 buffer, got %d", len(e.Buffers()))
	}
	md, ok := e.Metadata(e.ActiveBuffer())
	if !ok || md.Path != "" {
		t.Fatalf("expected an unnamed scratch buffer, got %+v ok=%v", md, ok)
	}
}

func TestOpenFileReusesEmptyUnmodifiedScratchBuffer(t *testing.T) {
	e, dir := newTestEditor(t)
	path := filepath.Join(dir, "a.txt")
	if err := os.WriteFile(path, []byte("hello"), 0o644); err != nil {
		t.Fatal(err)
	}

	id, err := e.OpenFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(e.Buffers()) != 1 {
		t.Fatalf("expected the scratch buffer to be reused, got %d buffers", len(e.Buffers()))
	}
	if e.ActiveBuffer() != id {
		t.Fatal("expected the opened file to become active")
	}
	if text := e.State(id).Buffer.Text(); text != "hello" {
		t.Fatalf("expected hello, got %q", text)
	}
}

func TestOpenFileTwiceReturnsSameBuffer(t *testing.T) {
	e, dir := newTestEditor(t)
	path := filepath.Join(dir, "a.txt")
	os.WriteFile(path, []byte("x"), 0o644)

	id1, err := e.OpenFile(path)
	if err != nil {
		t.Fatal(err)
	}
	e.NewScratchBuffer() // so the active buffer is no longer empty/reusable
	id2, err := e.OpenFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if id1 != id2 {
		t.Fatalf("expected the same buffer id, got %d and %d", id1, id2)
	}
	if len(e.Buffers()) != 2 {
		t.Fatalf("expected 2 buffers (scratch + reopened), got %d", len(e.Buffers()))
	}
}

func TestOpenDirectoryFails(t *testing.T) {
	e, dir := newTestEditor(t)
	if _, err := e.OpenFile(dir); err == nil {
		t.Fatal("expected an error opening a directory")
	}
}

func TestCloseBufferRefusesWhenModified(t *testing.T) {
	e, _ := newTestEditor(t)
	e.NewScratchBuffer()
	id := e.ActiveBuffer()
	if err := e.ActiveState().InsertAt(0, "x"); err != nil {
		t.Fatal(err)
	}
	if err := e.CloseBuffer(id, false); err != ErrBufferModified {
		t.Fatalf("expected ErrBufferModified, got %v", err)
	}
	if err := e.CloseBuffer(id, true); err != nil {
		t.Fatalf("expected forced close to succeed, got %v", err)
	}
}

func TestCloseBufferRefusesLastBuffer(t *testing.T) {
	e, _ := newTestEditor(t)
	id := e.ActiveBuffer()
	if err := e.CloseBuffer(id, true); err != ErrLastBuffer {
		t.Fatalf("expected ErrLastBuffer, got %v", err)
	}
}

func TestCloseActiveBufferSwitchesToReplacement(t *testing.T) {
	e, _ := newTestEditor(t)
	first := e.ActiveBuffer()
	second := e.NewScratchBuffer()

	if err := e.CloseBuffer(second, true); err != nil {
		t.Fatal(err)
	}
	if e.ActiveBuffer() != first {
		t.Fatalf("expected to fall back to %d, got %d", first, e.ActiveBuffer())
	}
}

func TestNextBufferWraps(t *testing.T) {
	e, _ := newTestEditor(t)
	first := e.ActiveBuffer()
	second := e.NewScratchBuffer()

	e.NextBuffer()
	if e.ActiveBuffer() != first {
		t.Fatalf("expected wraparound back to %d, got %d", first, e.ActiveBuffer())
	}
	e.PrevBuffer()
	if e.ActiveBuffer() != second {
		t.Fatalf("expected to move back to %d, got %d", second, e.ActiveBuffer())
	}
}

func TestNavigateBackAndForward(t *testing.T) {
	e, _ := newTestEditor(t)
	first := e.ActiveBuffer()
	e.ActiveState().InsertAt(0, "hello world")
	e.ActiveState().MoveCursor(e.ActiveState().Cursors.PrimaryID(), dotSelection(5), 0, false)

	second := e.NewScratchBuffer()
	e.ActiveState().InsertAt(0, "second buffer")

	e.NavigateBack()
	if e.ActiveBuffer() != first {
		t.Fatalf("expected navigate_back to return to %d, got %d", first, e.ActiveBuffer())
	}

	e.NavigateForward()
	if e.ActiveBuffer() != second {
		t.Fatalf("expected navigate_forward to return to %d, got %d", second, e.ActiveBuffer())
	}
}

func TestSessionRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store := NewFileSessionStore(filepath.Join(dir, "sessions"))

	path := filepath.Join(dir, "a.txt")
	if err := store.Save(path, Session{Head: 5, Anchor: 2, ScrollTop: 10, LeftColumn: 3}); err != nil {
		t.Fatal(err)
	}

	got, ok := store.Load(path)
	if !ok {
		t.Fatal("expected session to load")
	}
	if got.Head != 5 || got.Anchor != 2 || got.ScrollTop != 10 || got.LeftColumn != 3 {
		t.Fatalf("unexpected session %+v", got)
	}
}

func TestSessionRestoredOnReopen(t *testing.T) {
	dir := t.TempDir()
	sessDir := filepath.Join(dir, "sessions")
	path := filepath.Join(dir, "a.txt")
	os.WriteFile(path, []byte("hello world"), 0o644)

	e := New(dir, 80, 24, WithSessionStore(NewFileSessionStore(sessDir)))
	id, err := e.OpenFile(path)
	if err != nil {
		t.Fatal(err)
	}
	e.ActiveState().MoveCursor(e.ActiveState().Cursors.PrimaryID(), dotSelection(6), 0, false)

	if err := e.CloseBuffer(id, false); err != nil {
		t.Fatal(err)
	}

	e2 := New(dir, 80, 24, WithSessionStore(NewFileSessionStore(sessDir)))
	id2, err := e2.OpenFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if pos := e2.State(id2).Cursors.Primary().Position(); pos != 6 {
		t.Fatalf("expected restored cursor at 6, got %d", pos)
	}
}
