package buffer

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/glyphedit/core/internal/engine/piecetree"
	"github.com/glyphedit/core/internal/engine/span"
)

// Errors returned by buffer operations.
var (
	ErrOffsetOutOfRange = errors.New("offset out of range")
	ErrRangeInvalid     = errors.New("invalid range")
	ErrEditsOverlap     = errors.New("edits overlap or are not in reverse order")
	ErrNoPath           = errors.New("buffer has no associated path")
)

// LineEnding specifies the line ending style.
type LineEnding uint8

const (
	LineEndingLF   LineEnding = iota // Unix: \n
	LineEndingCRLF                   // Windows: \r\n
	LineEndingCR                     // Old Mac: \r
)

// String returns the escaped representation of the line ending.
func (le LineEnding) String() string {
	switch le {
	case LineEndingCRLF:
		return "\\r\\n"
	case LineEndingCR:
		return "\\r"
	default:
		return "\\n"
	}
}

// Sequence returns the actual line ending characters.
func (le LineEnding) Sequence() string {
	switch le {
	case LineEndingCRLF:
		return "\r\n"
	case LineEndingCR:
		return "\r"
	default:
		return "\n"
	}
}

// Large-file and lazy-load tuning, ported from the constants in
// _examples/original_source/src/model/buffer.rs.
const (
	// DefaultLargeFileThreshold is the file size above which Open
	// defers to Unloaded spans instead of reading the file eagerly.
	DefaultLargeFileThreshold int64 = 100 << 20 // 100 MiB

	// LoadChunkSize is the largest Unloaded piece realized in full
	// rather than split into an aligned chunk first.
	LoadChunkSize int64 = 1 << 20 // 1 MiB

	// ChunkAlignment is the alignment boundary used when carving an
	// aligned chunk out of a larger Unloaded piece.
	ChunkAlignment int64 = 64 << 10 // 64 KiB

	binaryPrefixSize = 8 << 10
)

// byteSource adapts a span.Registry to piecetree.ByteSource,
// transparently realizing Unloaded spans the tree needs to read to
// recompute newline counts on a split. The common path never reaches
// here: callers realize the region they're about to edit via
// GetTextRangeMut first.
type byteSource struct {
	registry *span.Registry
}

type ioPanic struct{ err error }

func (s byteSource) Bytes(id span.ID, offset, length int64) []byte {
	data, ok := s.registry.Get(id)
	if !ok {
		if err := s.registry.Load(id); err != nil {
			panic(ioPanic{err})
		}
		data, _ = s.registry.Get(id)
	}
	if offset+length > int64(len(data)) {
		length = int64(len(data)) - offset
	}
	if length < 0 {
		length = 0
	}
	return data[offset : offset+length]
}

func withIOSafety(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if p, ok := r.(ioPanic); ok {
				err = fmt.Errorf("buffer: %w", p.err)
				return
			}
			panic(r)
		}
	}()
	return fn()
}

// Buffer wraps a piece tree and span registry with editor
// functionality: binary/line-ending detection, lazy realization of
// unread file regions, and revision tracking. All methods are
// thread-safe.
type Buffer struct {
	mu sync.RWMutex

	registry  *span.Registry
	tree      piecetree.Tree
	savedRoot *piecetree.Node

	path     string
	modified bool
	// recoveryPending marks that this buffer's content has diverged
	// from what an external recovery journal has last captured. It is
	// cleared only by that journal (outside this package's scope).
	recoveryPending bool

	isBinary  bool
	hadBOM    bool
	largeFile bool // true ⇒ LineCountExact is false

	lineEnding         LineEnding
	originalLineEnding LineEnding // the format the file was loaded with

	savedFileSize    int64
	haveSavedFileSize bool

	largeFileThreshold int64 // 0 ⇒ DefaultLargeFileThreshold

	version uint64

	tabWidth int
}

// NewBuffer creates a new empty buffer.
func NewBuffer(opts ...Option) *Buffer {
	reg := span.NewRegistry()
	b := &Buffer{
		registry:   reg,
		tree:       piecetree.New(byteSource{registry: reg}),
		lineEnding: LineEndingLF,
		tabWidth:   4,
	}
	for _, opt := range opts {
		opt(b)
	}
	b.savedRoot = b.tree.Root()
	return b
}

// NewBufferFromString creates a buffer with initial content held in a
// single append-friendly Loaded span.
func NewBufferFromString(s string, opts ...Option) *Buffer {
	b := NewBuffer(opts...)
	s = b.normalizeLineEndings(s)
	b.insertLoadedSpan([]byte(s))
	b.savedRoot = b.tree.Root()
	b.modified = false
	return b
}

func (b *Buffer) insertLoadedSpan(data []byte) {
	if len(data) == 0 {
		return
	}
	id := b.registry.NewLoaded(data, true)
	nl := piecetree.CountNewlines(data)
	b.tree = b.tree.Insert(b.tree.TotalBytes(), id, 0, int64(len(data)), nl)
}

// normalizeLineEndings converts s to the buffer's target line ending.
func (b *Buffer) normalizeLineEndings(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	if b.lineEnding == LineEndingLF {
		return s
	}
	return strings.ReplaceAll(s, "\n", b.lineEnding.Sequence())
}

// --- Read operations ---

// Text returns the full buffer content. Prefer TextRange for large
// buffers, and GetTextRangeMut first if the range may include
// Unloaded spans.
func (b *Buffer) Text() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.textRangeLocked(0, b.tree.TotalBytes())
}

// TextRange returns text in [start, end). Any Unloaded span
// overlapping the range is silently skipped; call GetTextRangeMut
// first to force realization.
func (b *Buffer) TextRange(start, end ByteOffset) string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.textRangeLocked(start, end)
}

func (b *Buffer) textRangeLocked(start, end ByteOffset) string {
	var sb strings.Builder
	for pv := range b.tree.IterPiecesInRange(start, end) {
		data, ok := b.registry.Get(pv.SpanID)
		if !ok {
			continue
		}
		sb.Write(data[pv.SpanOffset : pv.SpanOffset+pv.Length])
	}
	return sb.String()
}

// GetTextRangeMut realizes every Unloaded piece overlapping [start,
// end) into Loaded spans via RealizeChunk, splitting the tree at the
// range boundaries first, then returns the now-fully-resident text.
func (b *Buffer) GetTextRangeMut(start, end ByteOffset) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if start < 0 || start > end || end > b.tree.TotalBytes() {
		return "", ErrRangeInvalid
	}
	b.tree = b.tree.SplitAtOffset(start)
	b.tree = b.tree.SplitAtOffset(end)

	for {
		realized, err := b.realizeOneUnloadedPiece(start, end)
		if err != nil {
			return "", err
		}
		if !realized {
			break
		}
	}
	return b.textRangeLocked(start, end), nil
}

func (b *Buffer) realizeOneUnloadedPiece(start, end ByteOffset) (bool, error) {
	for pv := range b.tree.IterPiecesInRange(start, end) {
		if _, ok := b.registry.Get(pv.SpanID); ok {
			continue
		}
		newID, err := b.registry.RealizeChunk(pv.SpanID, pv.SpanOffset, pv.Length)
		if err != nil {
			return false, fmt.Errorf("buffer: realize range: %w", err)
		}
		b.tree = b.tree.ReplaceBufferReference(pv.DocOffset, pv.Length, newID)
		return true, nil
	}
	return false, nil
}

// Len returns the total byte length of the buffer.
func (b *Buffer) Len() ByteOffset {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.tree.TotalBytes()
}

// IsEmpty returns true if the buffer is empty.
func (b *Buffer) IsEmpty() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.tree.TotalBytes() == 0
}

// LineCount returns the number of lines. In large-file mode the file's
// own bytes are never scanned for line breaks, so their newlines are
// not counted here; LineCountExact reports false so callers relying
// on it for absolute scroll positioning know to fall back to relative
// line numbering instead.
func (b *Buffer) LineCount() uint32 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.tree.LineCount()
}

// LineCountExact reports whether LineCount reflects content that has
// actually been scanned, rather than an estimate. Always true unless
// the buffer was opened in large-file mode (see IsLargeFile).
func (b *Buffer) LineCountExact() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return !b.largeFile
}

// LineText returns the text of a line, excluding its line ending.
func (b *Buffer) LineText(line uint32) string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	start := b.lineStartOffsetLocked(line)
	end := b.lineEndOffsetLocked(line)
	return b.textRangeLocked(start, end)
}

// LineStartOffset returns the byte offset of the start of a line.
func (b *Buffer) LineStartOffset(line uint32) ByteOffset {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lineStartOffsetLocked(line)
}

// LineEndOffset returns the byte offset of the end of a line, just
// before its line ending (or the buffer's end, on the last line).
func (b *Buffer) LineEndOffset(line uint32) ByteOffset {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lineEndOffsetLocked(line)
}

func (b *Buffer) lineStartOffsetLocked(line uint32) ByteOffset {
	return b.tree.PositionToOffset(piecetree.Point{Line: line, Column: 0})
}

func (b *Buffer) lineEndOffsetLocked(line uint32) ByteOffset {
	total := b.tree.TotalBytes()
	lineCount := b.tree.LineCount()
	if line+1 >= lineCount {
		return total
	}
	next := b.tree.PositionToOffset(piecetree.Point{Line: line + 1, Column: 0})
	if next > 0 {
		return next - 1 // strip the newline the next line's start included
	}
	return next
}

// ByteAt returns the byte at offset.
func (b *Buffer) ByteAt(offset ByteOffset) (byte, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if offset < 0 || offset >= b.tree.TotalBytes() {
		return 0, false
	}
	s := b.textRangeLocked(offset, offset+1)
	if s == "" {
		return 0, false
	}
	return s[0], true
}

// RuneAt returns the rune at the given byte offset. Returns
// utf8.RuneError and size 0 if offset is out of range.
func (b *Buffer) RuneAt(offset ByteOffset) (rune, int) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	total := b.tree.TotalBytes()
	if offset < 0 || offset >= total {
		return utf8.RuneError, 0
	}
	end := offset + 4
	if end > total {
		end = total
	}
	s := b.textRangeLocked(offset, end)
	return utf8.DecodeRuneInString(s)
}

// --- Coordinate conversion ---

// OffsetToPoint converts a byte offset to line/column in O(log N).
func (b *Buffer) OffsetToPoint(offset ByteOffset) Point {
	b.mu.RLock()
	defer b.mu.RUnlock()
	p := b.tree.OffsetToPosition(offset)
	return Point{Line: p.Line, Column: p.Column}
}

// PointToOffset converts line/column to a byte offset in O(log N).
func (b *Buffer) PointToOffset(p Point) ByteOffset {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.tree.PositionToOffset(piecetree.Point{Line: p.Line, Column: p.Column})
}

// --- Write operations ---

// Insert inserts text at offset, returning the end position of the
// inserted text. Implements the append-optimization: sequential
// typing at the end of the buffer's append-friendly span grows that
// span in place instead of allocating a new one.
func (b *Buffer) Insert(offset ByteOffset, text string) (ByteOffset, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if offset < 0 || offset > b.tree.TotalBytes() {
		return 0, ErrOffsetOutOfRange
	}
	text = b.normalizeLineEndings(text)
	data := []byte(text)
	if len(data) == 0 {
		return offset, nil
	}
	nl := piecetree.CountNewlines(data)

	if err := withIOSafety(func() error {
		if b.tryAppendInPlace(offset, data, nl) {
			return nil
		}
		id := b.registry.NewLoaded(data, true)
		b.tree = b.tree.Insert(offset, id, 0, int64(len(data)), nl)
		return nil
	}); err != nil {
		return 0, err
	}

	b.bumpVersionLocked()
	return offset + ByteOffset(len(data)), nil
}

func (b *Buffer) tryAppendInPlace(offset ByteOffset, data []byte, newlines int64) bool {
	piece, docStart, ok := b.tree.PieceEndingAt(offset)
	if !ok {
		return false
	}
	appendID, hasAppend := b.registry.AppendFriendly()
	if !hasAppend || appendID != piece.SpanID || !b.registry.CanAppend(piece.SpanID) {
		return false
	}
	spanRec, err := b.registry.Span(piece.SpanID)
	if err != nil || piece.SpanOffset+piece.Length != spanRec.Len() {
		return false
	}
	if _, err := b.registry.Append(piece.SpanID, data); err != nil {
		return false
	}
	b.tree = b.tree.ExtendPieceAt(docStart, piece.Length, int64(len(data)), newlines)
	return true
}

// Delete removes text in [start, end).
func (b *Buffer) Delete(start, end ByteOffset) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if start < 0 || start > end || end > b.tree.TotalBytes() {
		return ErrRangeInvalid
	}
	if start == end {
		return nil
	}
	b.tree = b.tree.Delete(start, end-start)
	b.bumpVersionLocked()
	return nil
}

// Replace replaces [start, end) with text, returning the end position
// of the replacement.
func (b *Buffer) Replace(start, end ByteOffset, text string) (ByteOffset, error) {
	if start < 0 || start > end {
		return 0, ErrRangeInvalid
	}
	b.mu.RLock()
	total := b.tree.TotalBytes()
	b.mu.RUnlock()
	if end > total {
		return 0, ErrRangeInvalid
	}
	if err := b.Delete(start, end); err != nil {
		return 0, err
	}
	return b.Insert(start, text)
}

// ApplyEdit applies a single edit and returns its result.
func (b *Buffer) ApplyEdit(edit Edit) (EditResult, error) {
	b.mu.RLock()
	oldText := b.textRangeLocked(edit.Range.Start, edit.Range.End)
	b.mu.RUnlock()

	newEnd, err := b.Replace(edit.Range.Start, edit.Range.End, edit.NewText)
	if err != nil {
		return EditResult{}, err
	}
	return EditResult{
		OldRange: edit.Range,
		NewRange: Range{Start: edit.Range.Start, End: newEnd},
		OldText:  oldText,
		Delta:    int64(len(edit.NewText)) - int64(edit.Range.Len()),
	}, nil
}

// ApplyEdits applies multiple edits atomically. Edits must be given in
// reverse document order (highest offset first) and must not overlap.
func (b *Buffer) ApplyEdits(edits []Edit) error {
	if len(edits) == 0 {
		return nil
	}
	for i := 1; i < len(edits); i++ {
		if edits[i].Range.End > edits[i-1].Range.Start {
			return ErrEditsOverlap
		}
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	total := b.tree.TotalBytes()
	for _, e := range edits {
		if e.Range.Start < 0 || e.Range.Start > e.Range.End || e.Range.End > total {
			return ErrRangeInvalid
		}
	}

	bulk := make([]piecetree.BulkEdit, 0, len(edits))
	for i := len(edits) - 1; i >= 0; i-- {
		e := edits[i]
		data := []byte(b.normalizeLineEndings(e.NewText))
		var id span.ID
		if len(data) > 0 {
			id = b.registry.NewLoaded(data, false)
		}
		bulk = append(bulk, piecetree.BulkEdit{
			Start: e.Range.Start, End: e.Range.End,
			SpanID: id, SpanOffset: 0, Length: int64(len(data)),
			Newlines: piecetree.CountNewlines(data),
		})
	}
	newTree, _ := b.tree.ApplyBulkEdits(bulk)
	b.tree = newTree
	b.bumpVersionLocked()
	return nil
}

func (b *Buffer) bumpVersionLocked() {
	b.version++
	b.modified = true
	b.recoveryPending = true
}

// RestoreSnapshot replaces the buffer's current tree wholesale with
// the tree held by snap, an O(1) root swap rather than a byte-by-byte
// edit. It backs BulkEdit's apply/invert, where recomputing the
// change through per-byte Insert/Delete would be quadratic in the
// edit size.
func (b *Buffer) RestoreSnapshot(snap *Snapshot) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tree = snap.tree
	b.bumpVersionLocked()
}

// ClearPath detaches the buffer from its file path, used when a
// stdin-backed buffer should present as unnamed for save purposes even
// though its Unloaded spans still reference a temp file for lazy
// loading.
func (b *Buffer) ClearPath() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.path = ""
}

// ClearModified resets the modified flag without touching content,
// used once after loading stdin content: the text is "fresh" rather
// than user-edited.
func (b *Buffer) ClearModified() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.modified = false
}

// ExtendStreaming appends a new Unloaded span covering the bytes the
// backing file at path has grown by, from the buffer's current length
// up to totalSize. It is how a stdin-to-tempfile buffer grows as the
// background writer produces more data, without re-reading what is
// already indexed.
func (b *Buffer) ExtendStreaming(path string, totalSize int64) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	oldLen := b.tree.TotalBytes()
	if totalSize <= oldLen {
		return nil
	}
	id := b.registry.NewUnloaded(path, oldLen, totalSize-oldLen)
	b.tree = b.tree.Insert(oldLen, id, 0, totalSize-oldLen, 0)
	b.version++
	return nil
}

// --- Buffer state ---

// RevisionID returns a value that changes on every content mutation.
func (b *Buffer) RevisionID() RevisionID {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return RevisionID(b.version)
}

// Version returns the buffer's monotonically increasing revision
// counter. It wraps on overflow.
func (b *Buffer) Version() uint64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.version
}

// IsModified reports whether the buffer has unsaved changes.
func (b *Buffer) IsModified() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.modified
}

// IsBinary reports whether the buffer was detected as binary on open.
func (b *Buffer) IsBinary() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.isBinary
}

// IsLargeFile reports whether the buffer was opened in large-file
// (lazily loaded) mode.
func (b *Buffer) IsLargeFile() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.largeFile
}

// HadBOM reports whether the file had a byte-order mark on open (and,
// for UTF-16, was transcoded to UTF-8 because of it).
func (b *Buffer) HadBOM() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.hadBOM
}

// Path returns the buffer's associated file path, if any.
func (b *Buffer) Path() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.path
}

// LineEnding returns the buffer's target line ending style.
func (b *Buffer) LineEnding() LineEnding {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lineEnding
}

// SetLineEnding sets the buffer's target line ending style. Existing
// content is converted on the next save.
func (b *Buffer) SetLineEnding(le LineEnding) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lineEnding = le
}

// TabWidth returns the buffer's tab width.
func (b *Buffer) TabWidth() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.tabWidth
}

// SetTabWidth sets the buffer's tab width.
func (b *Buffer) SetTabWidth(width int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if width > 0 {
		b.tabWidth = width
	}
}

// Snapshot returns a read-only, point-in-time view of the buffer's
// current content. Since the piece tree is immutable, this is an O(1)
// root capture: later edits to the live buffer build new tree nodes
// without mutating any node the snapshot still references.
func (b *Buffer) Snapshot() *Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return &Snapshot{
		tree:       b.tree,
		registry:   b.registry,
		revisionID: RevisionID(b.version),
		lineEnding: b.lineEnding,
		tabWidth:   b.tabWidth,
	}
}

// --- UTF-16 helpers (shared with position.go's PointUTF16 type) ---

func utf16ColumnFromString(s string) uint32 {
	var col uint32
	for _, r := range s {
		if r >= 0x10000 {
			col += 2
		} else {
			col++
		}
	}
	return col
}

func byteOffsetFromUTF16Column(line string, utf16Col uint32) int {
	var col uint32
	var byteOffset int
	for _, r := range line {
		if col >= utf16Col {
			break
		}
		if r >= 0x10000 {
			col += 2
		} else {
			col++
		}
		byteOffset += utf8.RuneLen(r)
	}
	return byteOffset
}

// OffsetToPointUTF16 converts a byte offset to a UTF-16 line/column,
// for LSP interop.
func (b *Buffer) OffsetToPointUTF16(offset ByteOffset) PointUTF16 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	p := b.tree.OffsetToPosition(offset)
	lineStart := b.lineStartOffsetLocked(p.Line)
	lineText := b.textRangeLocked(lineStart, offset)
	return PointUTF16{Line: p.Line, Column: utf16ColumnFromString(lineText)}
}

// PointUTF16ToOffset converts a UTF-16 line/column to a byte offset.
func (b *Buffer) PointUTF16ToOffset(p PointUTF16) ByteOffset {
	b.mu.RLock()
	defer b.mu.RUnlock()
	lineStart := b.lineStartOffsetLocked(p.Line)
	lineEnd := b.lineEndOffsetLocked(p.Line)
	lineText := b.textRangeLocked(lineStart, lineEnd)
	return lineStart + ByteOffset(byteOffsetFromUTF16Column(lineText, p.Column))
}

// LSPPositionToByte is an alias for PointUTF16ToOffset matching LSP's
// own field naming.
func (b *Buffer) LSPPositionToByte(line uint32, utf16Units uint32) ByteOffset {
	return b.PointUTF16ToOffset(PointUTF16{Line: line, Column: utf16Units})
}

// ByteToLSPPosition is an alias for OffsetToPointUTF16.
func (b *Buffer) ByteToLSPPosition(offset ByteOffset) PointUTF16 {
	return b.OffsetToPointUTF16(offset)
}
