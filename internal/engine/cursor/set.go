package cursor

import "sort"

// ID stably identifies a cursor across Add/Remove/normalize; ids are
// monotonic per Set and never reused, even once their cursor is
// merged away or removed.
type ID uint64

// MultiCursor is one cursor within a Set: a selection, a stable id,
// and an optional sticky column remembered across vertical motion.
type MultiCursor struct {
	ID           ID
	Selection    Selection
	StickyColumn uint32
	HasSticky    bool
}

// Position returns the cursor's head offset.
func (c MultiCursor) Position() ByteOffset { return c.Selection.Head }

// Set is an id-tracking multi-cursor collection. Unlike CursorSet, a
// cursor's identity survives normalization, so callers (the edit log,
// MoveCursor/AddCursor/RemoveCursor events) can target a specific
// cursor rather than a slice index that shifts on merge.
type Set struct {
	cursors   []MultiCursor
	nextID    ID
	primaryID ID
}

// NewSet creates a set with a single primary cursor at offset.
func NewSet(offset ByteOffset) *Set {
	s := &Set{nextID: 1}
	id := s.allocID()
	s.cursors = []MultiCursor{{ID: id, Selection: NewCursorSelection(offset)}}
	s.primaryID = id
	return s
}

func (s *Set) allocID() ID {
	id := s.nextID
	s.nextID++
	return id
}

// PrimaryID returns the id of the distinguished primary cursor.
func (s *Set) PrimaryID() ID { return s.primaryID }

// Primary returns the distinguished primary cursor.
func (s *Set) Primary() MultiCursor {
	for _, c := range s.cursors {
		if c.ID == s.primaryID {
			return c
		}
	}
	return s.cursors[0]
}

// All returns a copy of every cursor, sorted by position.
func (s *Set) All() []MultiCursor {
	out := make([]MultiCursor, len(s.cursors))
	copy(out, s.cursors)
	return out
}

// Count returns the number of cursors.
func (s *Set) Count() int { return len(s.cursors) }

// Add appends a new secondary cursor and normalizes, returning its
// id. The id may not survive normalization intact if it merges into a
// touching neighbor (see normalize).
func (s *Set) Add(sel Selection) ID {
	id := s.allocID()
	s.cursors = append(s.cursors, MultiCursor{ID: id, Selection: sel})
	s.normalize()
	return id
}

// RemoveSecondary drops every cursor but the primary.
func (s *Set) RemoveSecondary() {
	s.cursors = []MultiCursor{s.Primary()}
}

// Remove drops the cursor with the given id, if present. Removing the
// primary promotes the cursor now occupying index 0 (post-removal,
// pre-renormalize order) to primary.
func (s *Set) Remove(id ID) {
	for i, c := range s.cursors {
		if c.ID == id {
			s.cursors = append(s.cursors[:i], s.cursors[i+1:]...)
			break
		}
	}
	if len(s.cursors) == 0 {
		s.cursors = []MultiCursor{{ID: s.allocID(), Selection: NewCursorSelection(0)}}
	}
	if s.primaryID == id {
		s.primaryID = s.cursors[0].ID
	}
}

// Get returns the cursor with the given id.
func (s *Set) Get(id ID) (MultiCursor, bool) {
	for _, c := range s.cursors {
		if c.ID == id {
			return c, true
		}
	}
	return MultiCursor{}, false
}

// Update replaces the selection and sticky column of the cursor with
// the given id, then re-normalizes the set.
func (s *Set) Update(id ID, sel Selection, stickyColumn uint32, hasSticky bool) {
	for i, c := range s.cursors {
		if c.ID == id {
			s.cursors[i].Selection = sel
			s.cursors[i].StickyColumn = stickyColumn
			s.cursors[i].HasSticky = hasSticky
			break
		}
	}
	s.normalize()
}

// ShiftForInsert moves every cursor whose position lies strictly
// after pos forward by length. A cursor sitting exactly at pos is
// left alone: the cursor that performed the insert is repositioned
// explicitly by its caller after the edit, and any other cursor
// parked at the same offset is, by convention, considered to precede
// the inserted text.
func (s *Set) ShiftForInsert(pos, length ByteOffset) {
	for i := range s.cursors {
		s.cursors[i].Selection.Anchor = shiftInsert(s.cursors[i].Selection.Anchor, pos, length)
		s.cursors[i].Selection.Head = shiftInsert(s.cursors[i].Selection.Head, pos, length)
	}
}

func shiftInsert(offset, pos, length ByteOffset) ByteOffset {
	if offset > pos {
		return offset + length
	}
	return offset
}

// ShiftForDelete moves cursors at or past end back by the deleted
// length, and snaps cursors inside (start, end) to start.
func (s *Set) ShiftForDelete(start, end ByteOffset) {
	r := Range{Start: start, End: end}
	for i := range s.cursors {
		s.cursors[i].Selection.Anchor = AdjustForDeletion(s.cursors[i].Selection.Anchor, r)
		s.cursors[i].Selection.Head = AdjustForDeletion(s.cursors[i].Selection.Head, r)
	}
}

// normalize sorts cursors by (head, anchor, id) and merges any two
// whose ranges touch or overlap, adopting the union (earliest anchor,
// latest head). The primary's identity is preserved across a merge:
// if the primary participates, the merged cursor keeps the primary's
// id; otherwise the lower id of the two survives.
func (s *Set) normalize() {
	if len(s.cursors) <= 1 {
		return
	}
	sort.Slice(s.cursors, func(i, j int) bool {
		a, b := s.cursors[i], s.cursors[j]
		if a.Selection.Head != b.Selection.Head {
			return a.Selection.Head < b.Selection.Head
		}
		if a.Selection.Anchor != b.Selection.Anchor {
			return a.Selection.Anchor < b.Selection.Anchor
		}
		return a.ID < b.ID
	})

	merged := s.cursors[:1]
	for _, c := range s.cursors[1:] {
		last := &merged[len(merged)-1]
		if c.Selection.Range().Start <= last.Selection.Range().End {
			anchor := last.Selection.Anchor
			if c.Selection.Anchor < anchor {
				anchor = c.Selection.Anchor
			}
			head := last.Selection.Head
			if c.Selection.Head > head {
				head = c.Selection.Head
			}
			survivor := last.ID
			if c.ID == s.primaryID || (last.ID != s.primaryID && c.ID < last.ID) {
				survivor = c.ID
			}
			*last = MultiCursor{ID: survivor, Selection: Selection{Anchor: anchor, Head: head}}
		} else {
			merged = append(merged, c)
		}
	}
	s.cursors = merged
}
