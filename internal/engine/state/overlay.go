package state

import (
	"sort"
	"sync"

	"github.com/lucasb-eyer/go-colorful"
)

// OverlayPriority orders overlays when two cover the same byte range;
// higher values paint last (on top).
type OverlayPriority int

const (
	PriorityLow OverlayPriority = iota
	PriorityNormal
	PriorityDiagnostic
	PrioritySelection
	PriorityHigh
)

// Overlay is a styled byte-range annotation: a diagnostic squiggle, a
// search-match highlight, a semantic-token color, and so on. Style is
// an opaque hex color string ("#rrggbb"); blending two overlapping
// overlays is done in Lab space via go-colorful rather than flat
// alpha-over-RGB so that blended severities don't wash out.
type Overlay struct {
	ID        uint64
	Namespace string
	Start     ByteOffset
	End       ByteOffset
	Style     string
	Priority  OverlayPriority
}

// OverlayStore is a namespaced collection of overlays queryable by
// byte range. Namespaces let a diagnostics publisher clear and
// replace its own overlays without disturbing another namespace's
// (search highlights, semantic tokens).
type OverlayStore struct {
	mu     sync.RWMutex
	nextID uint64
	byNS   map[string][]Overlay
}

// NewOverlayStore creates an empty overlay store.
func NewOverlayStore() *OverlayStore {
	return &OverlayStore{byNS: make(map[string][]Overlay)}
}

// Add inserts a new overlay into namespace ns and returns its id.
func (s *OverlayStore) Add(ns string, start, end ByteOffset, style string, priority OverlayPriority) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	id := s.nextID
	s.byNS[ns] = append(s.byNS[ns], Overlay{
		ID: id, Namespace: ns, Start: start, End: end, Style: style, Priority: priority,
	})
	return id
}

// Remove deletes the overlay with the given id from namespace ns.
func (s *OverlayStore) Remove(ns string, id uint64) {
	s.RemoveWithRecord(ns, id)
}

// RemoveWithRecord deletes the overlay with the given id from
// namespace ns and returns it, so an eventlog RemoveOverlay event can
// record it for its inverse.
func (s *OverlayStore) RemoveWithRecord(ns string, id uint64) (Overlay, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.byNS[ns]
	for i, o := range list {
		if o.ID == id {
			s.byNS[ns] = append(list[:i:i], list[i+1:]...)
			return o, true
		}
	}
	return Overlay{}, false
}

// Restore re-inserts an overlay previously removed, preserving its
// original id.
func (s *OverlayStore) Restore(o Overlay) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byNS[o.Namespace] = append(s.byNS[o.Namespace], o)
	if o.ID > s.nextID {
		s.nextID = o.ID
	}
}

// RestoreMany re-inserts a batch of previously removed overlays.
func (s *OverlayStore) RestoreMany(overlays []Overlay) {
	for _, o := range overlays {
		s.Restore(o)
	}
}

// RemoveInRange deletes every overlay in namespace ns that overlaps
// [start, end).
func (s *OverlayStore) RemoveInRange(ns string, start, end ByteOffset) {
	s.RemoveInRangeWithRecord(ns, start, end)
}

// RemoveInRangeWithRecord deletes every overlay in namespace ns
// overlapping [start, end) and returns the displaced overlays.
func (s *OverlayStore) RemoveInRangeWithRecord(ns string, start, end ByteOffset) []Overlay {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.byNS[ns]
	kept := list[:0]
	var displaced []Overlay
	for _, o := range list {
		if o.Start < end && start < o.End {
			displaced = append(displaced, o)
			continue
		}
		kept = append(kept, o)
	}
	s.byNS[ns] = kept
	return displaced
}

// ClearNamespace removes every overlay in namespace ns.
func (s *OverlayStore) ClearNamespace(ns string) {
	s.ClearNamespaceWithRecord(ns)
}

// ClearNamespaceWithRecord removes every overlay in namespace ns and
// returns what was removed.
func (s *OverlayStore) ClearNamespaceWithRecord(ns string) []Overlay {
	s.mu.Lock()
	defer s.mu.Unlock()
	displaced := s.byNS[ns]
	delete(s.byNS, ns)
	return displaced
}

// Clear removes every overlay in every namespace.
func (s *OverlayStore) Clear() {
	s.ClearWithRecord()
}

// ClearWithRecord removes every overlay in every namespace and
// returns what was removed, keyed by namespace.
func (s *OverlayStore) ClearWithRecord() map[string][]Overlay {
	s.mu.Lock()
	defer s.mu.Unlock()
	displaced := s.byNS
	s.byNS = make(map[string][]Overlay)
	return displaced
}

// Query returns every overlay covering offset across all namespaces,
// ordered by ascending priority (so the caller paints in order and the
// last one wins, i.e. highest priority on top).
func (s *OverlayStore) Query(offset ByteOffset) []Overlay {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var hits []Overlay
	for _, list := range s.byNS {
		for _, o := range list {
			if offset >= o.Start && offset < o.End {
				hits = append(hits, o)
			}
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Priority < hits[j].Priority })
	return hits
}

// QueryRange returns every overlay that overlaps [start, end), ordered
// by ascending priority.
func (s *OverlayStore) QueryRange(start, end ByteOffset) []Overlay {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var hits []Overlay
	for _, list := range s.byNS {
		for _, o := range list {
			if o.Start < end && start < o.End {
				hits = append(hits, o)
			}
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Priority < hits[j].Priority })
	return hits
}

// ShiftForInsert moves every overlay's bounds to account for length
// bytes inserted at pos, per the same convention as cursor shifting:
// a bound exactly at pos is left in place, growing the overlay only
// when pos falls strictly inside it.
func (s *OverlayStore) ShiftForInsert(pos, length ByteOffset) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for ns, list := range s.byNS {
		for i := range list {
			if list[i].Start > pos {
				list[i].Start += length
			}
			if list[i].End > pos {
				list[i].End += length
			}
		}
		s.byNS[ns] = list
	}
}

// ShiftForDelete adjusts overlay bounds for a deletion of [start, end),
// dropping any overlay left with zero width once collapsed.
func (s *OverlayStore) ShiftForDelete(start, end ByteOffset) {
	s.mu.Lock()
	defer s.mu.Unlock()
	deleted := end - start
	for ns, list := range s.byNS {
		kept := list[:0]
		for _, o := range list {
			o.Start = shiftDeleteBound(o.Start, start, end, deleted)
			o.End = shiftDeleteBound(o.End, start, end, deleted)
			if o.Start < o.End {
				kept = append(kept, o)
			}
		}
		s.byNS[ns] = kept
	}
}

func shiftDeleteBound(b, start, end, deleted ByteOffset) ByteOffset {
	switch {
	case b <= start:
		return b
	case b >= end:
		return b - deleted
	default:
		return start
	}
}

// BlendStyles combines a stack of overlay colors (lowest priority
// first) into one displayed color, mixing successively in Lab space
// so a low-severity tint under a high-severity one doesn't just
// disappear under flat alpha compositing. Invalid hex strings are
// skipped.
func BlendStyles(styles []string) (string, bool) {
	var acc colorful.Color
	have := false
	for _, s := range styles {
		c, err := colorful.Hex(s)
		if err != nil {
			continue
		}
		if !have {
			acc, have = c, true
			continue
		}
		acc = acc.BlendLab(c, 0.5)
	}
	if !have {
		return "", false
	}
	return acc.Hex(), true
}
