package state

import "sync"

// VirtualTextPlacement controls whether a marker renders before or
// after the anchored byte offset on its line.
type VirtualTextPlacement int

const (
	PlacementAfterLine VirtualTextPlacement = iota
	PlacementInline
)

// VirtualText is a piece of text rendered at an anchored buffer
// position without existing in the buffer itself: an inline type
// hint, an end-of-line diagnostic summary. Its Anchor shifts under
// edits the same way a cursor does.
type VirtualText struct {
	ID        uint64
	Namespace string
	Anchor    ByteOffset
	Text      string
	Style     string
	Placement VirtualTextPlacement
}

// VirtualTextStore is a namespaced collection of virtual-text markers.
type VirtualTextStore struct {
	mu     sync.RWMutex
	nextID uint64
	byNS   map[string][]VirtualText
}

// NewVirtualTextStore creates an empty store.
func NewVirtualTextStore() *VirtualTextStore {
	return &VirtualTextStore{byNS: make(map[string][]VirtualText)}
}

// Add inserts a marker into namespace ns and returns its id.
func (s *VirtualTextStore) Add(ns string, anchor ByteOffset, text, style string, placement VirtualTextPlacement) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	id := s.nextID
	s.byNS[ns] = append(s.byNS[ns], VirtualText{
		ID: id, Namespace: ns, Anchor: anchor, Text: text, Style: style, Placement: placement,
	})
	return id
}

// Remove deletes the marker with the given id from namespace ns.
func (s *VirtualTextStore) Remove(ns string, id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.byNS[ns]
	for i, v := range list {
		if v.ID == id {
			s.byNS[ns] = append(list[:i:i], list[i+1:]...)
			return
		}
	}
}

// ClearNamespace removes every marker in namespace ns.
func (s *VirtualTextStore) ClearNamespace(ns string) {
	s.ClearNamespaceWithRecord(ns)
}

// ClearNamespaceWithRecord removes every marker in namespace ns and
// returns what was removed.
func (s *VirtualTextStore) ClearNamespaceWithRecord(ns string) []VirtualText {
	s.mu.Lock()
	defer s.mu.Unlock()
	displaced := s.byNS[ns]
	delete(s.byNS, ns)
	return displaced
}

// RestoreMany re-inserts a batch of previously removed markers.
func (s *VirtualTextStore) RestoreMany(marks []VirtualText) {
	if len(marks) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, v := range marks {
		s.byNS[v.Namespace] = append(s.byNS[v.Namespace], v)
		if v.ID > s.nextID {
			s.nextID = v.ID
		}
	}
}

// AtLine returns every marker anchored within [lineStart, lineEnd).
func (s *VirtualTextStore) AtLine(lineStart, lineEnd ByteOffset) []VirtualText {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var hits []VirtualText
	for _, list := range s.byNS {
		for _, v := range list {
			if v.Anchor >= lineStart && v.Anchor < lineEnd {
				hits = append(hits, v)
			}
		}
	}
	return hits
}

// ShiftForInsert moves markers anchored strictly after pos forward by
// length, same convention as cursor.Set.ShiftForInsert.
func (s *VirtualTextStore) ShiftForInsert(pos, length ByteOffset) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for ns, list := range s.byNS {
		for i := range list {
			if list[i].Anchor > pos {
				list[i].Anchor += length
			}
		}
		s.byNS[ns] = list
	}
}

// ShiftForDelete adjusts marker anchors for a deletion of [start, end):
// anchors inside the deleted range snap to start, anchors past it
// shift back by the deleted length.
func (s *VirtualTextStore) ShiftForDelete(start, end ByteOffset) {
	s.mu.Lock()
	defer s.mu.Unlock()
	deleted := end - start
	for ns, list := range s.byNS {
		for i := range list {
			list[i].Anchor = shiftDeleteBound(list[i].Anchor, start, end, deleted)
		}
		s.byNS[ns] = list
	}
}
