package piecetree

import "github.com/glyphedit/core/internal/engine/span"

// ByteOffset is a byte position within the document.
type ByteOffset int64

// Point is a line/column position (both 0-indexed, column in bytes).
type Point struct {
	Line   uint32
	Column uint32
}

// Piece is a piece-tree leaf: a reference to span [SpanOffset,
// SpanOffset+Length) together with the number of newlines in that
// sub-range.
type Piece struct {
	SpanID    span.ID
	SpanOffset int64
	Length     int64
	Newlines   int64
}

// ByteSource resolves the bytes referenced by a piece. The text buffer
// (C3) supplies an implementation backed by the span registry; it is
// also responsible for realizing Unloaded spans before asking the
// piece tree to count newlines over them (the tree itself never
// triggers I/O).
type ByteSource interface {
	Bytes(id span.ID, offset, length int64) []byte
}

// CountNewlines counts '\n' bytes in b. Pieces always refer to bytes
// already normalized to the buffer's internal line-ending
// representation upstream, so a raw '\n' count is sufficient.
func CountNewlines(b []byte) int64 {
	var n int64
	for _, c := range b {
		if c == '\n' {
			n++
		}
	}
	return n
}
