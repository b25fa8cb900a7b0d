package buffer

import (
	"bytes"
	"regexp"
)

// Chunk sizes for streaming search, ported from the CHUNK_SIZE/OVERLAP
// constants in _examples/original_source/src/model/buffer.rs. Each
// window is realized via GetTextRangeMut rather than read directly off
// disk, so a search over a large, still-Unloaded file progressively
// loads the regions it scans rather than pulling the whole file into
// memory up front.
const (
	searchChunkSize = 64 << 10
	regexChunkSize  = 1 << 20
	regexOverlap    = 4096
)

// FindNext searches forward from startPos for the first occurrence of
// pattern, wrapping around to the start of the buffer if nothing is
// found before the end.
func (b *Buffer) FindNext(pattern string, startPos ByteOffset) (ByteOffset, bool) {
	return b.FindNextInRange(pattern, startPos, nil)
}

// FindNextInRange searches for pattern starting at startPos. When r is
// non-nil the search is confined to [max(r.Start,startPos), r.End) and
// never wraps; when r is nil it behaves like FindNext and wraps once.
func (b *Buffer) FindNextInRange(pattern string, startPos ByteOffset, r *Range) (ByteOffset, bool) {
	if pattern == "" {
		return 0, false
	}
	if r != nil {
		from := startPos
		if from < r.Start {
			from = r.Start
		}
		return b.findPattern(from, r.End, []byte(pattern))
	}

	total := b.Len()
	if pos, ok := b.findPattern(startPos, total, []byte(pattern)); ok {
		return pos, true
	}
	return b.findPattern(0, startPos, []byte(pattern))
}

// findPattern scans [start, end) in overlapping chunkSize windows so a
// match straddling a chunk boundary is never missed, and returns the
// earliest match lying entirely within [start, end).
func (b *Buffer) findPattern(start, end ByteOffset, pattern []byte) (ByteOffset, bool) {
	if start >= end || len(pattern) == 0 {
		return 0, false
	}
	overlap := ByteOffset(len(pattern) - 1)
	if overlap < 1 {
		overlap = 1
	}
	return b.scanChunks(start, end, searchChunkSize, overlap, func(chunk []byte) (int, bool) {
		idx := bytes.Index(chunk, pattern)
		return idx, idx >= 0
	})
}

// scanChunks streams [start, end) in windows of size chunkSize, each
// overlapping the previous by overlap bytes, stopping at the first
// match reported by find. find receives the window bytes and returns a
// byte offset into that window, or ok=false if nothing matched.
func (b *Buffer) scanChunks(start, end ByteOffset, chunkSize, overlap ByteOffset, find func([]byte) (int, bool)) (ByteOffset, bool) {
	pos := start
	for pos < end {
		windowEnd := pos + chunkSize
		if windowEnd > end {
			windowEnd = end
		}
		chunk, err := b.GetTextRangeMut(pos, windowEnd)
		if err != nil {
			return 0, false
		}
		data := []byte(chunk)
		// Returning on the first match found means this call never
		// revisits a window twice, so a match re-found in the
		// overlap region of a later window is never double-reported:
		// it is simply the first time the full pattern was visible.
		if idx, ok := find(data); ok {
			return pos + ByteOffset(idx), true
		}
		if windowEnd >= end {
			break
		}
		pos = windowEnd - overlap
		if pos < start {
			pos = start
		}
	}
	return 0, false
}

// FindAll returns the start offsets of every non-overlapping occurrence
// of pattern in the buffer, in order.
func (b *Buffer) FindAll(pattern string) []ByteOffset {
	if pattern == "" {
		return nil
	}
	var matches []ByteOffset
	pos := ByteOffset(0)
	total := b.Len()
	for {
		found, ok := b.findPattern(pos, total, []byte(pattern))
		if !ok {
			break
		}
		matches = append(matches, found)
		pos = found + ByteOffset(len(pattern))
		if pos >= total {
			break
		}
	}
	return matches
}

// FindNextRegex behaves like FindNext but matches re against the
// buffer content instead of a literal pattern. It returns the matched
// range.
func (b *Buffer) FindNextRegex(re *regexp.Regexp, startPos ByteOffset) (Range, bool) {
	return b.FindNextRegexInRange(re, startPos, nil)
}

// FindNextRegexInRange is the regex counterpart of FindNextInRange.
func (b *Buffer) FindNextRegexInRange(re *regexp.Regexp, startPos ByteOffset, r *Range) (Range, bool) {
	if r != nil {
		from := startPos
		if from < r.Start {
			from = r.Start
		}
		return b.findRegex(from, r.End, re)
	}

	total := b.Len()
	if m, ok := b.findRegex(startPos, total, re); ok {
		return m, true
	}
	return b.findRegex(0, startPos, re)
}

func (b *Buffer) findRegex(start, end ByteOffset, re *regexp.Regexp) (Range, bool) {
	if start >= end {
		return Range{}, false
	}
	matchPos, ok := b.scanChunks(start, end, regexChunkSize, regexOverlap, func(chunk []byte) (int, bool) {
		loc := re.FindIndex(chunk)
		if loc == nil {
			return 0, false
		}
		return loc[0], true
	})
	if !ok {
		return Range{}, false
	}
	// Re-run the match against a window anchored at matchPos to recover
	// its exact length, since scanChunks only reports a start offset.
	windowEnd := matchPos + ByteOffset(regexChunkSize)
	if total := b.Len(); windowEnd > total {
		windowEnd = total
	}
	text, err := b.GetTextRangeMut(matchPos, windowEnd)
	if err != nil {
		return Range{}, false
	}
	loc := re.FindIndex([]byte(text))
	if loc == nil || loc[0] != 0 {
		return Range{}, false
	}
	return Range{Start: matchPos, End: matchPos + ByteOffset(loc[1])}, true
}

// ReplaceRange replaces the bytes in r with replacement.
func (b *Buffer) ReplaceRange(r Range, replacement string) error {
	_, err := b.Replace(r.Start, r.End, replacement)
	return err
}

// ReplaceNext finds the next occurrence of pattern at or after startPos
// within r (or the whole buffer with wraparound if r is nil) and
// replaces it, returning the offset where the replacement was made.
func (b *Buffer) ReplaceNext(pattern, replacement string, startPos ByteOffset, r *Range) (ByteOffset, bool, error) {
	pos, ok := b.FindNextInRange(pattern, startPos, r)
	if !ok {
		return 0, false, nil
	}
	if err := b.ReplaceRange(Range{Start: pos, End: pos + ByteOffset(len(pattern))}, replacement); err != nil {
		return 0, false, err
	}
	return pos, true, nil
}

// ReplaceAll replaces every non-overlapping occurrence of pattern with
// replacement and returns the number of replacements made. Unlike
// FindNext, the search never wraps: each iteration only looks forward
// from the end of the previous replacement.
func (b *Buffer) ReplaceAll(pattern, replacement string) (int, error) {
	if pattern == "" {
		return 0, nil
	}
	count := 0
	pos := ByteOffset(0)
	for {
		total := b.Len()
		found, ok := b.FindNextInRange(pattern, pos, &Range{Start: 0, End: total})
		if !ok {
			break
		}
		if err := b.ReplaceRange(Range{Start: found, End: found + ByteOffset(len(pattern))}, replacement); err != nil {
			return count, err
		}
		count++
		pos = found + ByteOffset(len(replacement))
		if pos >= b.Len() {
			break
		}
	}
	return count, nil
}

// ReplaceAllRegex replaces every non-overlapping regex match with
// replacement and returns the number of replacements made.
func (b *Buffer) ReplaceAllRegex(re *regexp.Regexp, replacement string) (int, error) {
	count := 0
	pos := ByteOffset(0)
	for {
		total := b.Len()
		m, ok := b.FindNextRegexInRange(re, pos, &Range{Start: 0, End: total})
		if !ok {
			break
		}
		if err := b.ReplaceRange(m, replacement); err != nil {
			return count, err
		}
		count++
		pos = m.Start + ByteOffset(len(replacement))
		if pos >= b.Len() {
			break
		}
	}
	return count, nil
}
