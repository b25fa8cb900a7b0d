package buffer

import (
	"strings"
	"unicode/utf8"

	"github.com/glyphedit/core/internal/engine/piecetree"
	"github.com/glyphedit/core/internal/engine/span"
)

// Snapshot is a read-only, point-in-time view of a buffer's content.
// It shares the underlying span registry with the buffer it was taken
// from, but the tree root it holds is immutable: later edits to the
// live buffer never mutate a node a Snapshot still references, so
// reading a Snapshot concurrently with further buffer mutation is
// safe.
type Snapshot struct {
	tree       piecetree.Tree
	registry   *span.Registry
	revisionID RevisionID
	lineEnding LineEnding
	tabWidth   int
}

func (s *Snapshot) textRange(start, end ByteOffset) string {
	var sb strings.Builder
	for pv := range s.tree.IterPiecesInRange(start, end) {
		data, ok := s.registry.Get(pv.SpanID)
		if !ok {
			continue
		}
		sb.Write(data[pv.SpanOffset : pv.SpanOffset+pv.Length])
	}
	return sb.String()
}

// Text returns the full snapshot content as a string.
func (s *Snapshot) Text() string {
	return s.textRange(0, s.tree.TotalBytes())
}

// TextRange returns text in the given byte range.
func (s *Snapshot) TextRange(start, end ByteOffset) string {
	return s.textRange(start, end)
}

// Len returns the total byte length of the snapshot.
func (s *Snapshot) Len() ByteOffset {
	return s.tree.TotalBytes()
}

// LineCount returns the number of lines.
func (s *Snapshot) LineCount() uint32 {
	return s.tree.LineCount()
}

func (s *Snapshot) lineStartOffset(line uint32) ByteOffset {
	return s.tree.PositionToOffset(piecetree.Point{Line: line, Column: 0})
}

func (s *Snapshot) lineEndOffset(line uint32) ByteOffset {
	total := s.tree.TotalBytes()
	if line+1 >= s.tree.LineCount() {
		return total
	}
	next := s.tree.PositionToOffset(piecetree.Point{Line: line + 1, Column: 0})
	if next > 0 {
		return next - 1
	}
	return next
}

// LineText returns the text of a specific line (without newline).
func (s *Snapshot) LineText(line uint32) string {
	return s.textRange(s.lineStartOffset(line), s.lineEndOffset(line))
}

// LineLen returns the length of a specific line in bytes (without newline).
func (s *Snapshot) LineLen(line uint32) int {
	return int(s.lineEndOffset(line) - s.lineStartOffset(line))
}

// ByteAt returns the byte at the given offset.
func (s *Snapshot) ByteAt(offset ByteOffset) (byte, bool) {
	if offset < 0 || offset >= s.tree.TotalBytes() {
		return 0, false
	}
	text := s.textRange(offset, offset+1)
	if text == "" {
		return 0, false
	}
	return text[0], true
}

// RuneAt returns the rune at the given byte offset.
// Returns utf8.RuneError and size 0 if offset is out of range.
func (s *Snapshot) RuneAt(offset ByteOffset) (rune, int) {
	total := s.tree.TotalBytes()
	if offset < 0 || offset >= total {
		return utf8.RuneError, 0
	}
	end := offset + 4
	if end > total {
		end = total
	}
	return utf8.DecodeRuneInString(s.textRange(offset, end))
}

// OffsetToPoint converts a byte offset to line/column.
func (s *Snapshot) OffsetToPoint(offset ByteOffset) Point {
	p := s.tree.OffsetToPosition(offset)
	return Point{Line: p.Line, Column: p.Column}
}

// PointToOffset converts line/column to byte offset.
func (s *Snapshot) PointToOffset(point Point) ByteOffset {
	return s.tree.PositionToOffset(piecetree.Point{Line: point.Line, Column: point.Column})
}

// OffsetToPointUTF16 converts a byte offset to UTF-16 line/column.
func (s *Snapshot) OffsetToPointUTF16(offset ByteOffset) PointUTF16 {
	p := s.tree.OffsetToPosition(offset)
	lineStart := s.lineStartOffset(p.Line)
	lineText := s.textRange(lineStart, offset)
	return PointUTF16{Line: p.Line, Column: utf16ColumnFromString(lineText)}
}

// PointUTF16ToOffset converts UTF-16 line/column to byte offset.
func (s *Snapshot) PointUTF16ToOffset(point PointUTF16) ByteOffset {
	lineStart := s.lineStartOffset(point.Line)
	lineEnd := s.lineEndOffset(point.Line)
	lineText := s.textRange(lineStart, lineEnd)
	return lineStart + ByteOffset(byteOffsetFromUTF16Column(lineText, point.Column))
}

// LineStartOffset returns the byte offset of the start of a line.
func (s *Snapshot) LineStartOffset(line uint32) ByteOffset {
	return s.lineStartOffset(line)
}

// LineEndOffset returns the byte offset of the end of a line (before newline).
func (s *Snapshot) LineEndOffset(line uint32) ByteOffset {
	return s.lineEndOffset(line)
}

// RevisionID returns the revision ID the buffer had when this
// snapshot was taken.
func (s *Snapshot) RevisionID() RevisionID {
	return s.revisionID
}

// IsEmpty returns true if the snapshot is empty.
func (s *Snapshot) IsEmpty() bool {
	return s.tree.TotalBytes() == 0
}

// LineEnding returns the snapshot's line ending style.
func (s *Snapshot) LineEnding() LineEnding {
	return s.lineEnding
}

// TabWidth returns the snapshot's tab width.
func (s *Snapshot) TabWidth() int {
	return s.tabWidth
}

// DiffSince computes the structurally-changed byte ranges between an
// older snapshot and this one. Because the piece tree shares subtrees
// across edits, this is O(changed leaves) rather than O(document
// size): unaffected regions of a large file are never re-scanned.
func (s *Snapshot) DiffSince(older *Snapshot) piecetree.DiffResult {
	return piecetree.DiffByStructure(older.tree, s.tree)
}
