package state

import (
	"testing"

	"github.com/glyphedit/core/internal/engine/buffer"
)

func TestInsertAtShiftsOverlays(t *testing.T) {
	s := New(buffer.NewBufferFromString("hello world"), 80, 24)
	overlayID := s.AddOverlay("diag", 6, 11, "#ff0000", PriorityDiagnostic)

	if err := s.InsertAt(0, "say "); err != nil {
		t.Fatal(err)
	}

	hits := s.Overlays.QueryRange(10, 15)
	found := false
	for _, o := range hits {
		if o.ID == overlayID && o.Start == 10 && o.End == 15 {
			found = true
		}
	}
	if !found {
		t.Errorf("expected overlay shifted to [10,15), got %+v", hits)
	}
}

func TestDeleteRangeShiftsOverlayBounds(t *testing.T) {
	s := New(buffer.NewBufferFromString("hello world"), 80, 24)
	id := s.AddOverlay("diag", 6, 11, "#ff0000", PriorityDiagnostic)

	if _, err := s.DeleteRange(0, 6); err != nil {
		t.Fatal(err)
	}

	hits := s.Overlays.QueryRange(0, 5)
	if len(hits) != 1 || hits[0].ID != id || hits[0].Start != 0 || hits[0].End != 5 {
		t.Errorf("expected overlay shifted to [0,5), got %+v", hits)
	}
}

func TestClearNamespaceRoundTripsThroughSnapshot(t *testing.T) {
	s := New(buffer.NewBufferFromString("hello"), 80, 24)
	s.AddOverlay("diag", 0, 5, "#ff0000", PriorityDiagnostic)
	s.VText.Add("diag", 5, " // ok", "#00ff00", PlacementAfterLine)

	snap := s.ClearNamespace("diag")
	if len(snap.Overlays) != 1 || len(snap.VText) != 1 {
		t.Fatalf("expected 1 overlay and 1 marker recorded, got %+v", snap)
	}
	if len(s.Overlays.QueryRange(0, 5)) != 0 {
		t.Fatal("expected overlays cleared")
	}

	s.RestoreNamespace(snap)
	if len(s.Overlays.QueryRange(0, 5)) != 1 {
		t.Fatal("expected overlay restored")
	}
}

func TestViewportEnsureRowVisibleScrollsMinimalAmount(t *testing.T) {
	lines := make([]byte, 0, 200)
	for i := 0; i < 50; i++ {
		lines = append(lines, []byte("line\n")...)
	}
	buf := buffer.NewBufferFromString(string(lines))
	vp := NewViewport(80, 10)
	vp.SetScrollOffset(2)

	vp.EnsureRowVisible(buf, 30)
	topLine := buf.OffsetToPoint(vp.TopByte()).Line
	if topLine == 0 {
		t.Error("expected viewport to scroll down toward line 30")
	}
	if cursorRow := int(30) - int(topLine); cursorRow < 0 || cursorRow >= 10 {
		t.Errorf("expected cursor row within the viewport, got relative row %d", cursorRow)
	}
}

func TestBlendStylesMixesColors(t *testing.T) {
	hex, ok := BlendStyles([]string{"#ff0000", "#0000ff"})
	if !ok {
		t.Fatal("expected a blended color")
	}
	if hex == "#ff0000" || hex == "#0000ff" {
		t.Errorf("expected a genuinely blended color, got %s", hex)
	}
}

func TestPopupStackSelectWraps(t *testing.T) {
	ps := NewPopupStack()
	ps.Show("completion", []string{"a", "b", "c"}, 0)
	ps.SelectPrev()
	top, ok := ps.Top()
	if !ok {
		t.Fatal("expected a popup")
	}
	if top.Selected != 2 {
		t.Errorf("expected wraparound to index 2, got %d", top.Selected)
	}
}
