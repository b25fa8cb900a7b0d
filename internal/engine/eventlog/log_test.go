package eventlog

import (
	"testing"

	"github.com/glyphedit/core/internal/engine/buffer"
	"github.com/glyphedit/core/internal/engine/state"
)

func newTestState(text string) *state.State {
	return state.New(buffer.NewBufferFromString(text), 80, 24)
}

func TestLogAppendAndUndoRedoInsert(t *testing.T) {
	s := newTestState("")
	log := NewLog()

	ev := &Insert{Position: 0, Text: "hello"}
	ok, err := log.Apply(s, ev, nil)
	if err != nil || !ok {
		t.Fatalf("apply failed: ok=%v err=%v", ok, err)
	}
	if s.Buffer.Text() != "hello" {
		t.Fatalf("unexpected text %q", s.Buffer.Text())
	}

	if ok, err := log.Undo(s); err != nil || !ok {
		t.Fatalf("undo failed: ok=%v err=%v", ok, err)
	}
	if s.Buffer.Text() != "" {
		t.Fatalf("expected empty buffer after undo, got %q", s.Buffer.Text())
	}

	if ok, err := log.Redo(s); err != nil || !ok {
		t.Fatalf("redo failed: ok=%v err=%v", ok, err)
	}
	if s.Buffer.Text() != "hello" {
		t.Fatalf("expected hello after redo, got %q", s.Buffer.Text())
	}
}

func TestAppendTruncatesRedoHistory(t *testing.T) {
	s := newTestState("")
	log := NewLog()

	log.Apply(s, &Insert{Position: 0, Text: "a"}, nil)
	log.Apply(s, &Insert{Position: 1, Text: "b"}, nil)
	log.Undo(s) // back to "a"

	log.Apply(s, &Insert{Position: 1, Text: "c"}, nil)
	if s.Buffer.Text() != "ac" {
		t.Fatalf("expected ac, got %q", s.Buffer.Text())
	}
	if log.CanRedo() {
		t.Error("expected redo history to be discarded by the new append")
	}
}

func TestDeleteInvertRestoresDeletedText(t *testing.T) {
	s := newTestState("hello world")
	log := NewLog()

	log.Apply(s, &Delete{Start: 5, End: 11}, nil)
	if s.Buffer.Text() != "hello" {
		t.Fatalf("expected hello, got %q", s.Buffer.Text())
	}

	log.Undo(s)
	if s.Buffer.Text() != "hello world" {
		t.Fatalf("expected hello world restored, got %q", s.Buffer.Text())
	}
}

type vetoHooks struct{ vetoBefore string }

func (h vetoHooks) FireBefore(name string, _ Event) bool { return name != h.vetoBefore }
func (h vetoHooks) FireAfter(string, Event)              {}

func TestBeforeHookCanVetoInsert(t *testing.T) {
	s := newTestState("")
	log := NewLog()

	ok, err := log.Apply(s, &Insert{Position: 0, Text: "x"}, vetoHooks{vetoBefore: HookBeforeInsert})
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("expected the before_insert hook to veto the edit")
	}
	if s.Buffer.Text() != "" {
		t.Errorf("expected no mutation on veto, got %q", s.Buffer.Text())
	}
	if log.Len() != 0 {
		t.Errorf("expected nothing logged on veto, got %d entries", log.Len())
	}
}

func TestMoveCursorFiresOnlyAfterHook(t *testing.T) {
	var before, after []string
	hooks := recordingHooks{before: &before, after: &after}

	s := newTestState("hello")
	log := NewLog()
	primary := s.Cursors.PrimaryID()

	log.Apply(s, MoveCursor{CursorID: primary, NewSel: s.Cursors.Primary().Selection, NewSticky: 0}, hooks)

	if len(before) != 0 {
		t.Errorf("expected no before-hooks for MoveCursor, got %v", before)
	}
	if len(after) != 1 || after[0] != HookCursorMoved {
		t.Errorf("expected a single cursor_moved after-hook, got %v", after)
	}
}

type recordingHooks struct {
	before *[]string
	after  *[]string
}

func (h recordingHooks) FireBefore(name string, _ Event) bool {
	*h.before = append(*h.before, name)
	return true
}

func (h recordingHooks) FireAfter(name string, _ Event) {
	*h.after = append(*h.after, name)
}

func TestOverlayEventsFireNoHooks(t *testing.T) {
	var before, after []string
	hooks := recordingHooks{before: &before, after: &after}

	s := newTestState("hello")
	log := NewLog()
	log.Apply(s, &AddOverlay{Namespace: "diag", Start: 0, End: 5, Style: "#ff0000"}, hooks)

	if len(before) != 0 || len(after) != 0 {
		t.Errorf("expected overlays to fire no hooks, got before=%v after=%v", before, after)
	}
}

func TestBulkEditRestoresSnapshot(t *testing.T) {
	s := newTestState("one two three")
	before := s.Buffer.Snapshot()
	s.Buffer.Replace(0, 3, "ONE")
	after := s.Buffer.Snapshot()

	log := NewLog()
	ev := BulkEdit{Before: before, After: after}
	log.Apply(s, ev, nil)
	if s.Buffer.Text() != "ONE two three" {
		t.Fatalf("unexpected text %q", s.Buffer.Text())
	}

	log.Undo(s)
	if s.Buffer.Text() != "one two three" {
		t.Fatalf("expected original text restored, got %q", s.Buffer.Text())
	}
}

func TestCompoundUndoesInReverseOrder(t *testing.T) {
	s := newTestState("")
	log := NewLog()

	ev := Compound{Events: []Event{
		&Insert{Position: 0, Text: "ab"},
		&Insert{Position: 2, Text: "cd"},
	}}
	log.Apply(s, ev, nil)
	if s.Buffer.Text() != "abcd" {
		t.Fatalf("expected abcd, got %q", s.Buffer.Text())
	}

	log.Undo(s)
	if s.Buffer.Text() != "" {
		t.Fatalf("expected empty buffer after compound undo, got %q", s.Buffer.Text())
	}
}
