package piecetree

import "github.com/glyphedit/core/internal/engine/span"

// PieceView describes one piece overlapping a requested range, clipped
// to that range.
type PieceView struct {
	SpanID     span.ID
	SpanOffset int64
	Length     int64
	DocOffset  int64
}

// IterPiecesInRange returns an iterator (Go 1.23+ range-over-func) of
// pieces overlapping [start, end), each clipped to that range. A
// single O(log N) seek locates the first piece; stepping through the
// remaining k overlapping pieces is O(k).
func (t Tree) IterPiecesInRange(start, end int64) func(func(PieceView) bool) {
	return func(yield func(PieceView) bool) {
		if end <= start {
			return
		}
		total := t.TotalBytes()
		if start < 0 {
			start = 0
		}
		if end > total {
			end = total
		}
		var walk func(n *Node, docOffset int64) bool
		walk = func(n *Node, docOffset int64) bool {
			if n == nil {
				return true
			}
			nodeEnd := docOffset + n.Bytes()
			if nodeEnd <= start || docOffset >= end {
				return true
			}
			if n.IsLeaf() {
				clipStart := start
				if docOffset > clipStart {
					clipStart = docOffset
				}
				clipEnd := end
				if nodeEnd < clipEnd {
					clipEnd = nodeEnd
				}
				withinStart := clipStart - docOffset
				withinLen := clipEnd - clipStart
				view := PieceView{
					SpanID:     n.piece.SpanID,
					SpanOffset: n.piece.SpanOffset + withinStart,
					Length:     withinLen,
					DocOffset:  clipStart,
				}
				return yield(view)
			}
			if !walk(n.left, docOffset) {
				return false
			}
			return walk(n.right, docOffset+n.left.Bytes())
		}
		walk(t.root, 0)
	}
}

// DiffRange describes a byte range where two trees' leaves differ.
type DiffRange struct {
	Start, End int64
}

// DiffResult is the outcome of a structural diff.
type DiffResult struct {
	Equal  bool
	Ranges []DiffRange
}

// DiffByStructure returns the byte ranges where the leaves of a and b
// differ. Identical roots return Equal at once; otherwise both trees
// are flattened into their full leaf sequences and compared leaf by
// leaf via Node pointer equality, so the cost is linear in the number
// of leaves. Subtrees shared by both trees are not skipped as a whole.
func DiffByStructure(a, b Tree) DiffResult {
	if a.root == b.root {
		return DiffResult{Equal: true}
	}
	la := flattenLeaves(a.root, 0)
	lb := flattenLeaves(b.root, 0)

	var ranges []DiffRange
	i, j := 0, 0
	for i < len(la) && j < len(lb) {
		pa, pb := la[i], lb[j]
		if pa.node == pb.node {
			i++
			j++
			continue
		}
		// Diverged: advance a cursor over both sides until both leaf
		// streams resynchronize on a shared node pointer, recording the
		// widest divergent span seen in either stream meanwhile.
		startA, startB := pa.offset, pb.offset
		endA, endB := pa.offset+pa.node.Bytes(), pb.offset+pb.node.Bytes()
		i++
		j++
		for i < len(la) && j < len(lb) && la[i].node != lb[j].node {
			if la[i].offset+la[i].node.Bytes() > endA {
				endA = la[i].offset + la[i].node.Bytes()
			}
			if lb[j].offset+lb[j].node.Bytes() > endB {
				endB = lb[j].offset + lb[j].node.Bytes()
			}
			i++
			j++
		}
		start := startA
		if startB < start {
			start = startB
		}
		end := endA
		if endB > end {
			end = endB
		}
		ranges = append(ranges, DiffRange{Start: start, End: end})
	}
	// Trailing content only one side has (pure append/truncate at EOF).
	if i < len(la) {
		ranges = append(ranges, DiffRange{Start: la[i].offset, End: a.TotalBytes()})
	}
	if j < len(lb) {
		ranges = append(ranges, DiffRange{Start: lb[j].offset, End: b.TotalBytes()})
	}
	if len(ranges) == 0 {
		return DiffResult{Equal: true}
	}
	return DiffResult{Equal: false, Ranges: mergeRanges(ranges)}
}

type leafRef struct {
	node   *Node
	offset int64
}

func flattenLeaves(n *Node, offset int64) []leafRef {
	if n == nil {
		return nil
	}
	if n.IsLeaf() {
		return []leafRef{{node: n, offset: offset}}
	}
	left := flattenLeaves(n.left, offset)
	right := flattenLeaves(n.right, offset+n.left.Bytes())
	return append(left, right...)
}

func mergeRanges(rs []DiffRange) []DiffRange {
	if len(rs) <= 1 {
		return rs
	}
	out := rs[:1]
	for _, r := range rs[1:] {
		last := &out[len(out)-1]
		if r.Start <= last.End {
			if r.End > last.End {
				last.End = r.End
			}
			continue
		}
		out = append(out, r)
	}
	return out
}
