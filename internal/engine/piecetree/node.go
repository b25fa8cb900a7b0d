package piecetree

// Node is an immutable piece-tree node. A leaf carries a Piece; an
// internal node carries left/right children and cached subtree
// aggregates. Node handles are safe to retain and compare by pointer
// identity (structural sharing: an unmodified subtree keeps its old
// Node pointer across an edit).
type Node struct {
	piece *Piece // non-nil for leaves

	left, right *Node
	height      int32

	bytes    int64
	newlines int64
}

// Bytes returns the total byte count of the subtree rooted at n.
func (n *Node) Bytes() int64 {
	if n == nil {
		return 0
	}
	return n.bytes
}

// Newlines returns the total newline count of the subtree rooted at n.
func (n *Node) Newlines() int64 {
	if n == nil {
		return 0
	}
	return n.newlines
}

// IsLeaf reports whether n is a leaf (carries a Piece directly).
func (n *Node) IsLeaf() bool { return n != nil && n.piece != nil }

func height(n *Node) int32 {
	if n == nil {
		return -1
	}
	return n.height
}

func newLeaf(p Piece) *Node {
	return &Node{piece: &p, bytes: p.Length, newlines: p.Newlines}
}

// newInternal builds a balanced internal node from two (already
// balanced) children.
func newInternal(l, r *Node) *Node {
	if l == nil {
		return r
	}
	if r == nil {
		return l
	}
	n := &Node{
		left: l, right: r,
		height:   max32(height(l), height(r)) + 1,
		bytes:    l.Bytes() + r.Bytes(),
		newlines: l.Newlines() + r.Newlines(),
	}
	return rebalance(n)
}

func max32(a, b int32) int32 {
	if a > b {
		return a
	}
	return b
}

func balanceFactor(n *Node) int32 {
	if n == nil || n.IsLeaf() {
		return 0
	}
	return height(n.left) - height(n.right)
}

// rebalance performs AVL rotations on an internal node whose children
// are already balanced but whose own balance factor may be off by one
// rotation (true after any single split/concat step).
func rebalance(n *Node) *Node {
	if n == nil || n.IsLeaf() {
		return n
	}
	bf := balanceFactor(n)
	switch {
	case bf > 1:
		if balanceFactor(n.left) < 0 {
			n.left = rotateLeft(n.left)
		}
		return rotateRight(n)
	case bf < -1:
		if balanceFactor(n.right) > 0 {
			n.right = rotateRight(n.right)
		}
		return rotateLeft(n)
	default:
		return n
	}
}

func rotateRight(n *Node) *Node {
	l := n.left
	newRight := newInternal(l.right, n.right)
	return newInternal(l.left, newRight)
}

func rotateLeft(n *Node) *Node {
	r := n.right
	newLeft := newInternal(n.left, r.left)
	return newInternal(newLeft, r.right)
}

// concat joins two (possibly nil) balanced trees into one, rebalancing
// as needed. This is the workhorse every mutating Tree operation
// reduces to.
func concat(l, r *Node) *Node {
	if l == nil {
		return r
	}
	if r == nil {
		return l
	}
	// Rebuild along the taller side so the result stays balanced
	// without a full rebuild; simple recursive merge by height.
	if height(l)-height(r) > 1 {
		merged := concat(l.right, r)
		return newInternal(l.left, merged)
	}
	if height(r)-height(l) > 1 {
		merged := concat(l, r.left)
		return newInternal(merged, r.right)
	}
	return newInternal(l, r)
}

// split splits the subtree rooted at n at byte offset, returning
// (left, right) where left has exactly `offset` bytes. Splitting a
// leaf whose piece straddles the offset produces two new leaves whose
// newline counts are recomputed from actual bytes via src.
func split(n *Node, offset int64, src ByteSource) (*Node, *Node) {
	if n == nil || offset <= 0 {
		return nil, n
	}
	if offset >= n.Bytes() {
		return n, nil
	}
	if n.IsLeaf() {
		p := *n.piece
		leftPiece := Piece{SpanID: p.SpanID, SpanOffset: p.SpanOffset, Length: offset}
		rightPiece := Piece{SpanID: p.SpanID, SpanOffset: p.SpanOffset + offset, Length: p.Length - offset}
		leftPiece.Newlines = CountNewlines(src.Bytes(p.SpanID, leftPiece.SpanOffset, leftPiece.Length))
		rightPiece.Newlines = p.Newlines - leftPiece.Newlines
		var l, r *Node
		if leftPiece.Length > 0 {
			l = newLeaf(leftPiece)
		}
		if rightPiece.Length > 0 {
			r = newLeaf(rightPiece)
		}
		return l, r
	}
	leftBytes := n.left.Bytes()
	if offset <= leftBytes {
		ll, lr := split(n.left, offset, src)
		return ll, concat(lr, n.right)
	}
	rl, rr := split(n.right, offset-leftBytes, src)
	return concat(n.left, rl), rr
}

// findOffset descends to the leaf containing byte offset, returning
// the leaf and the offset within it.
func findOffset(n *Node, offset int64) (*Node, int64) {
	for n != nil && !n.IsLeaf() {
		if offset < n.left.Bytes() {
			n = n.left
		} else {
			offset -= n.left.Bytes()
			n = n.right
		}
	}
	return n, offset
}

// appendTo walks the subtree in order, calling fn with each leaf's
// piece and its starting document offset.
func appendTo(n *Node, docOffset int64, fn func(docOffset int64, p *Piece)) {
	if n == nil {
		return
	}
	if n.IsLeaf() {
		fn(docOffset, n.piece)
		return
	}
	appendTo(n.left, docOffset, fn)
	appendTo(n.right, docOffset+n.left.Bytes(), fn)
}
