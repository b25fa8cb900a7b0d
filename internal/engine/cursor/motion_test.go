package cursor

import (
	"testing"

	"github.com/glyphedit/core/internal/engine/buffer"
)

func TestVisualColumnExpandsTabs(t *testing.T) {
	col := VisualColumn("a\tb", 3, 4)
	if col != 5 {
		t.Errorf("expected column 5 (a=1, tab to 4, b=5), got %d", col)
	}
}

func TestVisualColumnWideRunes(t *testing.T) {
	line := "中文x" // two double-width CJK characters then 'x'
	col := VisualColumn(line, len("中文"), 4)
	if col != 4 {
		t.Errorf("expected column 4 after two double-width characters, got %d", col)
	}
}

func TestByteOffsetForVisualColumnRoundTrips(t *testing.T) {
	line := "hello world"
	pos := ByteOffsetForVisualColumn(line, 5, 4)
	if pos != 5 {
		t.Errorf("expected byte offset 5, got %d", pos)
	}
}

func TestMoveVerticalHoldsStickyColumn(t *testing.T) {
	buf := buffer.NewBufferFromString("short\nmuch longer line\nshort")
	// Start at column 4 on the long middle line and move down with no
	// sticky column yet: the returned sticky column is the starting
	// offset's visual column.
	off, col := MoveVertical(buf, 10, 1, 0, false, 4)
	if off == 0 {
		t.Fatal("expected a valid offset on line 2")
	}
	if col != 4 {
		t.Errorf("expected sticky column 4 derived from starting offset, got %d", col)
	}
}

func TestMoveVerticalClampsAtBufferStart(t *testing.T) {
	buf := buffer.NewBufferFromString("only line")
	off, _ := MoveVertical(buf, 3, -1, 0, false, 4)
	if off != 0 {
		t.Errorf("expected clamp to 0 moving up from the first line, got %d", off)
	}
}

func TestMoveVerticalClampsAtBufferEnd(t *testing.T) {
	buf := buffer.NewBufferFromString("only line")
	off, _ := MoveVertical(buf, 3, 1, 0, false, 4)
	if off != buf.Len() {
		t.Errorf("expected clamp to buffer end moving down from the last line, got %d", off)
	}
}
