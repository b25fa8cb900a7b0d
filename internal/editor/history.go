package editor

import "github.com/glyphedit/core/internal/engine/cursor"

// coalesceWindow is the byte distance within which two recorded
// movements in the same buffer are merged into one entry, so that
// scrolling through adjacent lines doesn't fill the jump list with
// near-duplicate stops.
const coalesceWindow = cursor.ByteOffset(64)

// PositionEntry is one stop in the position history: the buffer and
// the primary cursor's selection at the time it was recorded.
type PositionEntry struct {
	Buffer BufferID
	Head   cursor.ByteOffset
	Anchor cursor.ByteOffset
}

func selectionFor(e PositionEntry) cursor.Selection {
	return cursor.Selection{Anchor: e.Anchor, Head: e.Head}
}

// PositionHistory is a bounded deque of PositionEntry with a cursor
// into it, used for navigate_back/navigate_forward (the editor-level
// jump list). RecordMovement stages a pending entry; CommitPending
// promotes it into the deque, truncating anything past the cursor —
// mirroring the edit log's append-truncates-redo discipline so a new
// jump after going back discards the abandoned forward branch.
type PositionHistory struct {
	entries []PositionEntry
	cursor  int
	limit   int

	pending   PositionEntry
	hasPending bool
}

// NewPositionHistory creates a history holding at most limit entries.
func NewPositionHistory(limit int) *PositionHistory {
	if limit < 1 {
		limit = 1
	}
	return &PositionHistory{limit: limit}
}

// RecordMovement stages buf/head/anchor as the pending entry, merging
// with the previous entry if it is in the same buffer and within
// coalesceWindow bytes of it.
func (h *PositionHistory) RecordMovement(buf BufferID, head, anchor cursor.ByteOffset) {
	h.pending = PositionEntry{Buffer: buf, Head: head, Anchor: anchor}
	h.hasPending = true

	if h.cursor > 0 {
		last := h.entries[h.cursor-1]
		if last.Buffer == buf && absOffset(last.Head-head) <= coalesceWindow {
			h.hasPending = false
			h.entries[h.cursor-1] = h.pending
		}
	}
}

// CommitPending appends the staged entry (if any) to the deque,
// truncating any entries past the current cursor first, and enforces
// the size limit by dropping the oldest entry.
func (h *PositionHistory) CommitPending() {
	if !h.hasPending {
		return
	}
	h.hasPending = false

	h.entries = append(h.entries[:h.cursor], h.pending)
	h.cursor = len(h.entries)

	if len(h.entries) > h.limit {
		overflow := len(h.entries) - h.limit
		h.entries = h.entries[overflow:]
		h.cursor = len(h.entries)
	}
}

// CanGoBack reports whether any entry lies behind the cursor.
func (h *PositionHistory) CanGoBack() bool {
	return h.cursor > 0
}

// CanGoForward reports whether Forward would return an entry.
func (h *PositionHistory) CanGoForward() bool {
	return h.cursor < len(h.entries)
}

// Back moves the cursor one entry earlier and returns the entry that
// precedes the caller's current stop (the entry just behind the
// cursor). It reports false when fewer than two entries lie behind the
// cursor.
func (h *PositionHistory) Back() (PositionEntry, bool) {
	if h.cursor < 2 {
		return PositionEntry{}, false
	}
	h.cursor--
	return h.entries[h.cursor-1], true
}

// Forward moves the cursor one entry later and returns it.
func (h *PositionHistory) Forward() (PositionEntry, bool) {
	if !h.CanGoForward() {
		return PositionEntry{}, false
	}
	entry := h.entries[h.cursor]
	h.cursor++
	return entry, true
}

// DiscardBuffer removes every entry referencing buf, used when a
// buffer closes: its jump-list stops are no longer navigable.
func (h *PositionHistory) DiscardBuffer(buf BufferID) {
	if h.hasPending && h.pending.Buffer == buf {
		h.hasPending = false
	}

	filtered := h.entries[:0]
	removedBeforeCursor := 0
	for i, e := range h.entries {
		if e.Buffer == buf {
			if i < h.cursor {
				removedBeforeCursor++
			}
			continue
		}
		filtered = append(filtered, e)
	}
	h.entries = filtered
	h.cursor -= removedBeforeCursor
	if h.cursor < 0 {
		h.cursor = 0
	}
}

func absOffset(o cursor.ByteOffset) cursor.ByteOffset {
	if o < 0 {
		return -o
	}
	return o
}
