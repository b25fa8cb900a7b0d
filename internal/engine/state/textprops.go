package state

import "sync"

// TextProperty is a namespaced, range-keyed key/value annotation on a
// span of text that carries no visual styling of its own — fold
// ranges, semantic-token classifications, LSP code-lens anchors. It is
// distinct from Overlay, which always implies a rendered style.
type TextProperty struct {
	ID        uint64
	Namespace string
	Start     ByteOffset
	End       ByteOffset
	Key       string
	Value     string
}

// TextPropertyStore is a namespaced collection of TextProperty values.
type TextPropertyStore struct {
	mu     sync.RWMutex
	nextID uint64
	byNS   map[string][]TextProperty
}

// NewTextPropertyStore creates an empty store.
func NewTextPropertyStore() *TextPropertyStore {
	return &TextPropertyStore{byNS: make(map[string][]TextProperty)}
}

// Add inserts a property into namespace ns and returns its id.
func (s *TextPropertyStore) Add(ns string, start, end ByteOffset, key, value string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	id := s.nextID
	s.byNS[ns] = append(s.byNS[ns], TextProperty{
		ID: id, Namespace: ns, Start: start, End: end, Key: key, Value: value,
	})
	return id
}

// Remove deletes the property with the given id from namespace ns.
func (s *TextPropertyStore) Remove(ns string, id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.byNS[ns]
	for i, p := range list {
		if p.ID == id {
			s.byNS[ns] = append(list[:i:i], list[i+1:]...)
			return
		}
	}
}

// ClearNamespace removes every property in namespace ns.
func (s *TextPropertyStore) ClearNamespace(ns string) {
	s.ClearNamespaceWithRecord(ns)
}

// ClearNamespaceWithRecord removes every property in namespace ns and
// returns what was removed.
func (s *TextPropertyStore) ClearNamespaceWithRecord(ns string) []TextProperty {
	s.mu.Lock()
	defer s.mu.Unlock()
	displaced := s.byNS[ns]
	delete(s.byNS, ns)
	return displaced
}

// RestoreMany re-inserts a batch of previously removed properties.
func (s *TextPropertyStore) RestoreMany(props []TextProperty) {
	if len(props) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range props {
		s.byNS[p.Namespace] = append(s.byNS[p.Namespace], p)
		if p.ID > s.nextID {
			s.nextID = p.ID
		}
	}
}

// QueryRange returns every property in namespace ns overlapping
// [start, end).
func (s *TextPropertyStore) QueryRange(ns string, start, end ByteOffset) []TextProperty {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var hits []TextProperty
	for _, p := range s.byNS[ns] {
		if p.Start < end && start < p.End {
			hits = append(hits, p)
		}
	}
	return hits
}

// ShiftForInsert moves property bounds to account for an insertion,
// same convention as OverlayStore.ShiftForInsert.
func (s *TextPropertyStore) ShiftForInsert(pos, length ByteOffset) {
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

// ShiftForDelete adjusts property bounds for a deletion, dropping any
// property collapsed to zero width.
func (s *TextPropertyStore) ShiftForDelete(start, end ByteOffset) {
	s.mu.Lock()
	defer s.mu.Unlock()
	deleted := end - start
	for ns, list := range s.byNS {
		kept := list[:0]
		for _, p := range list {
			p.Start = shiftDeleteBound(p.Start, start, end, deleted)
			p.End = shiftDeleteBound(p.End, start, end, deleted)
			if p.Start < p.End {
				kept = append(kept, p)
			}
		}
		s.byNS[ns] = kept
	}
}
