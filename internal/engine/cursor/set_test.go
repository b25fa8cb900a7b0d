package cursor

import "testing"

func TestNewSetHasSinglePrimary(t *testing.T) {
	s := NewSet(5)
	if s.Count() != 1 {
		t.Fatalf("expected 1 cursor, got %d", s.Count())
	}
	if s.Primary().Position() != 5 {
		t.Errorf("expected primary at 5, got %d", s.Primary().Position())
	}
}

func TestAddCursorAssignsStableID(t *testing.T) {
	s := NewSet(0)
	primaryID := s.PrimaryID()
	id := s.Add(NewCursorSelection(10))
	if id == primaryID {
		t.Fatal("expected a distinct id for the new cursor")
	}
	if s.Count() != 2 {
		t.Fatalf("expected 2 cursors, got %d", s.Count())
	}
	c, ok := s.Get(id)
	if !ok || c.Position() != 10 {
		t.Errorf("expected cursor %d at 10, got %+v ok=%v", id, c, ok)
	}
}

func TestNormalizeMergesTouchingSelections(t *testing.T) {
	s := NewSet(0)
	s.Add(NewCursorSelection(5))
	s.Update(s.PrimaryID(), Selection{Anchor: 0, Head: 5}, 0, false)
	if s.Count() != 1 {
		t.Fatalf("expected merge into 1 cursor, got %d", s.Count())
	}
}

func TestMergePreservesPrimaryID(t *testing.T) {
	s := NewSet(3)
	primaryID := s.PrimaryID()
	secondaryID := s.Add(NewCursorSelection(3))
	if s.Count() != 1 {
		t.Fatalf("expected the touching cursors to merge immediately, got %d", s.Count())
	}
	merged, ok := s.Get(primaryID)
	if !ok {
		t.Fatalf("expected the primary id %d to survive the merge", primaryID)
	}
	if merged.ID == secondaryID {
		t.Errorf("expected the primary's id to win the merge")
	}
}

func TestShiftForInsertLeavesCursorAtPositionAlone(t *testing.T) {
	s := NewSet(10)
	s.ShiftForInsert(10, 5)
	if s.Primary().Position() != 10 {
		t.Errorf("expected cursor at insert point to stay put, got %d", s.Primary().Position())
	}
}

func TestShiftForInsertMovesCursorAfterPosition(t *testing.T) {
	s := NewSet(11)
	s.ShiftForInsert(10, 5)
	if s.Primary().Position() != 16 {
		t.Errorf("expected cursor to shift to 16, got %d", s.Primary().Position())
	}
}

func TestShiftForDeleteSnapsToStart(t *testing.T) {
	s := NewSet(7)
	s.ShiftForDelete(5, 10)
	if s.Primary().Position() != 5 {
		t.Errorf("expected cursor inside deleted range to snap to 5, got %d", s.Primary().Position())
	}
}

func TestRemoveLastCursorReplacesWithFresh(t *testing.T) {
	s := NewSet(4)
	s.Remove(s.PrimaryID())
	if s.Count() != 1 {
		t.Fatalf("expected removal of the only cursor to leave exactly 1, got %d", s.Count())
	}
}
