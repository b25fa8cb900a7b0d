package piecetree

import "github.com/glyphedit/core/internal/engine/span"

// Tree is the piece tree: an immutable, height-balanced binary tree of
// Pieces. The zero value is not usable; construct with New.
type Tree struct {
	root   *Node
	source ByteSource
}

// New creates an empty tree backed by source, used to resolve piece
// bytes whenever a split needs to recompute newline counts.
func New(source ByteSource) Tree {
	return Tree{source: source}
}

// Root returns a cheap-to-clone, immutable handle to the tree's root.
// Two Tree values produced from a common ancestor share Node pointers
// for any untouched subtree; diff_by_structure exploits this.
func (t Tree) Root() *Node { return t.root }

// WithRoot returns a new Tree sharing source with t but rooted at r.
// Used to restore a saved-baseline snapshot or apply a BulkEdit root
// swap in O(1).
func (t Tree) WithRoot(r *Node) Tree { return Tree{root: r, source: t.source} }

// TotalBytes returns the document's total byte length in O(1).
func (t Tree) TotalBytes() int64 { return t.root.Bytes() }

// LineCount returns the number of lines (newlines + 1) in O(1).
func (t Tree) LineCount() uint32 { return uint32(t.root.Newlines() + 1) }

// OffsetToPosition converts a byte offset to a (line, column) in
// O(log N).
func (t Tree) OffsetToPosition(offset int64) Point {
	total := t.TotalBytes()
	if offset < 0 {
		offset = 0
	}
	if offset > total {
		offset = total
	}
	line := countNewlinesBefore(t.root, offset, t.source)
	lineStart := t.lineStartOffset(line)
	return Point{Line: uint32(line), Column: uint32(offset - lineStart)}
}

// PositionToOffset converts a (line, column) to a byte offset in
// O(log N). Out-of-range columns clamp to the line's length;
// out-of-range lines clamp to the document's end.
func (t Tree) PositionToOffset(p Point) int64 {
	lineCount := int64(t.LineCount())
	line := int64(p.Line)
	if line >= lineCount {
		return t.TotalBytes()
	}
	lineStart := t.lineStartOffset(line)
	lineEnd := t.TotalBytes()
	if line+1 < lineCount {
		lineEnd = t.lineStartOffset(line+1) - 1
	}
	col := int64(p.Column)
	if col > lineEnd-lineStart {
		col = lineEnd - lineStart
	}
	return lineStart + col
}

func (t Tree) lineStartOffset(line int64) int64 {
	if line <= 0 {
		return 0
	}
	if line > t.root.Newlines() {
		return t.TotalBytes()
	}
	return lineStartOffset(t.root, line, t.source)
}

func countNewlinesBefore(n *Node, offset int64, src ByteSource) int64 {
	if n == nil || offset <= 0 {
		return 0
	}
	if n.IsLeaf() {
		if offset >= n.piece.Length {
			return n.piece.Newlines
		}
		return CountNewlines(src.Bytes(n.piece.SpanID, n.piece.SpanOffset, offset))
	}
	if offset <= n.left.Bytes() {
		return countNewlinesBefore(n.left, offset, src)
	}
	return n.left.Newlines() + countNewlinesBefore(n.right, offset-n.left.Bytes(), src)
}

func lineStartOffset(n *Node, line int64, src ByteSource) int64 {
	if n.IsLeaf() {
		bytes := src.Bytes(n.piece.SpanID, n.piece.SpanOffset, n.piece.Length)
		var count int64
		for i, c := range bytes {
			if c == '\n' {
				count++
				if count == line {
					return int64(i) + 1
				}
			}
		}
		return int64(len(bytes))
	}
	if line <= n.left.Newlines() {
		return lineStartOffset(n.left, line, src)
	}
	return n.left.Bytes() + lineStartOffset(n.right, line-n.left.Newlines(), src)
}

// Insert inserts a piece [spanOffset, spanOffset+length) of spanID at
// document offset in O(log N).
func (t Tree) Insert(offset int64, spanID span.ID, spanOffset, length, newlines int64) Tree {
	if length == 0 {
		return t
	}
	l, r := split(t.root, offset, t.source)
	leaf := newLeaf(Piece{SpanID: spanID, SpanOffset: spanOffset, Length: length, Newlines: newlines})
	return t.WithRoot(concat(concat(l, leaf), r))
}

// Delete removes [offset, offset+length) in O(log N). No content is
// freed: the removed pieces simply stop being referenced by this root,
// but remain reachable from any earlier root that still references
// them (reversibility).
func (t Tree) Delete(offset, length int64) Tree {
	if length <= 0 {
		return t
	}
	left, mid := split(t.root, offset, t.source)
	_, right := split(mid, length, t.source)
	return t.WithRoot(concat(left, right))
}

// SplitAtOffset forces a piece boundary at offset. Idempotent: if a
// boundary already exists there, the tree is unchanged (structurally).
func (t Tree) SplitAtOffset(offset int64) Tree {
	l, r := split(t.root, offset, t.source)
	return t.WithRoot(concat(l, r))
}

// InsertAtPosition converts (line, column) to an offset and inserts.
func (t Tree) InsertAtPosition(p Point, spanID span.ID, spanOffset, length, newlines int64) Tree {
	return t.Insert(t.PositionToOffset(p), spanID, spanOffset, length, newlines)
}

// DeletePositionRange converts a (line,column) pair to offsets and
// deletes the range between them.
func (t Tree) DeletePositionRange(from, to Point) Tree {
	a, b := t.PositionToOffset(from), t.PositionToOffset(to)
	if b < a {
		a, b = b, a
	}
	return t.Delete(a, b-a)
}

// ReplaceBufferReference atomically re-points the piece occupying
// exactly [docOffset, docOffset+length) — which must currently
// reference [startInOld, startInOld+length) of oldSpan — to
// [0, length) of newSpan. Callers (the text buffer's lazy-chunk
// realization) first call SplitAtOffset at docOffset and
// docOffset+length so that a single leaf exactly covers the range
// before calling this.
func (t Tree) ReplaceBufferReference(docOffset, length int64, newSpan span.ID) Tree {
	leaf, within := findOffset(t.root, docOffset)
	if leaf == nil || within != 0 || leaf.piece.Length != length {
		// Boundary not exact; fall back to a split+rewrite that only
		// touches the requested sub-range.
		l, mid := split(t.root, docOffset, t.source)
		target, r := split(mid, length, t.source)
		target = rewriteLeaves(target, newSpan)
		return t.WithRoot(concat(concat(l, target), r))
	}
	newLeafNode := newLeaf(Piece{SpanID: newSpan, SpanOffset: 0, Length: leaf.piece.Length, Newlines: leaf.piece.Newlines})
	return t.WithRoot(replaceLeafAt(t.root, docOffset, newLeafNode))
}

func rewriteLeaves(n *Node, newSpan span.ID) *Node {
	if n == nil {
		return nil
	}
	if n.IsLeaf() {
		p := *n.piece
		p.SpanID = newSpan
		return newLeaf(p)
	}
	return newInternal(rewriteLeaves(n.left, newSpan), rewriteLeaves(n.right, newSpan))
}

func replaceLeafAt(n *Node, offset int64, replacement *Node) *Node {
	if n.IsLeaf() {
		return replacement
	}
	if offset < n.left.Bytes() {
		return newInternal(replaceLeafAt(n.left, offset, replacement), n.right)
	}
	return newInternal(n.left, replaceLeafAt(n.right, offset-n.left.Bytes(), replacement))
}

// PieceEndingAt reports the piece whose document range ends exactly at
// offset, along with the document offset at which it starts. Used by
// the text buffer's append-optimization to decide whether an insert
// can extend the most recent Added span in place instead of allocating
// a new one.
func (t Tree) PieceEndingAt(offset int64) (piece Piece, docStart int64, ok bool) {
	if offset <= 0 {
		return Piece{}, 0, false
	}
	n, within := findOffset(t.root, offset-1)
	if n == nil || !n.IsLeaf() {
		return Piece{}, 0, false
	}
	if within != n.piece.Length-1 {
		return Piece{}, 0, false
	}
	return *n.piece, offset - n.piece.Length, true
}

// ExtendPieceAt grows the piece occupying [docStart, docStart+oldLength)
// by addLength bytes (with addNewlines additional newlines), in place
// of re-inserting a new leaf. Used together with a span-registry
// in-place Append to keep sequential typing O(log N) with no extra
// node churn after warm-up.
func (t Tree) ExtendPieceAt(docStart, oldLength, addLength, addNewlines int64) Tree {
	left, mid := split(t.root, docStart, t.source)
	pieceSubtree, right := split(mid, oldLength, t.source)
	if pieceSubtree == nil || !pieceSubtree.IsLeaf() {
		// Defensive: boundary wasn't where the caller thought; fall back
		// to a plain insert-after so correctness holds regardless.
		return t.WithRoot(concat(concat(left, pieceSubtree), right))
	}
	p := *pieceSubtree.piece
	p.Length += addLength
	p.Newlines += addNewlines
	return t.WithRoot(concat(concat(left, newLeaf(p)), right))
}

// BulkEdit is a single pre-sorted, non-overlapping replacement applied
// by ApplyBulkEdits.
type BulkEdit struct {
	Start, End int64
	SpanID     span.ID
	SpanOffset int64
	Length     int64
	Newlines   int64
}

// ApplyBulkEdits applies a pre-sorted, non-overlapping sequence of
// edits in a single pass and returns the new tree plus the net byte
// delta. Edits must be sorted by Start ascending and non-overlapping.
func (t Tree) ApplyBulkEdits(edits []BulkEdit) (Tree, int64) {
	if len(edits) == 0 {
		return t, 0
	}
	root := t.root
	var delta int64
	// Apply back-to-front so earlier offsets stay valid.
	for i := len(edits) - 1; i >= 0; i-- {
		e := edits[i]
		left, mid := split(root, e.Start, t.source)
		_, right := split(mid, e.End-e.Start, t.source)
		var piece *Node
		if e.Length > 0 {
			piece = newLeaf(Piece{SpanID: e.SpanID, SpanOffset: e.SpanOffset, Length: e.Length, Newlines: e.Newlines})
		}
		root = concat(concat(left, piece), right)
		delta += e.Length - (e.End - e.Start)
	}
	return t.WithRoot(root), delta
}
