// Package state aggregates everything that makes up one open buffer's
// editing session: the buffer itself, its cursor set, viewport,
// overlays, popups, virtual-text markers, text properties, and
// per-buffer settings. The buffer's edit log is not part of it.
package state

import (
	"sync"

	"github.com/glyphedit/core/internal/engine/buffer"
)

// ByteOffset is an alias for buffer.ByteOffset for convenience.
type ByteOffset = buffer.ByteOffset

// Viewport tracks the visible window into a buffer in byte/line
// terms rather than screen cells: rendering owns cell layout, the
// core only owns where in the document the view currently sits.
type Viewport struct {
	mu sync.RWMutex

	topByte           ByteOffset
	topViewLineOffset uint32 // soft-wrap sub-line offset within the top logical line
	leftColumn        int
	width             int
	height            int
	scrollOffset      int // minimum rows of context kept around the cursor
	lineWrap          bool

	relative     bool // true once line numbering has fallen back to relative (large-file mode)
	relativeBase uint32
}

// NewViewport creates a viewport of the given size with a default
// 5-row scroll offset.
func NewViewport(width, height int) *Viewport {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	return &Viewport{width: width, height: height, scrollOffset: 5}
}

// Resize updates the viewport's screen dimensions, clamped to a
// minimum of 1 in each axis.
func (v *Viewport) Resize(width, height int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	v.width, v.height = width, height
}

func (v *Viewport) Width() int  { v.mu.RLock(); defer v.mu.RUnlock(); return v.width }
func (v *Viewport) Height() int { v.mu.RLock(); defer v.mu.RUnlock(); return v.height }

// TopByte returns the byte offset of the first visible line's start.
func (v *Viewport) TopByte() ByteOffset { v.mu.RLock(); defer v.mu.RUnlock(); return v.topByte }

// LeftColumn returns the first visible column.
func (v *Viewport) LeftColumn() int { v.mu.RLock(); defer v.mu.RUnlock(); return v.leftColumn }

// SetScrollOffset sets the minimum number of context rows kept around
// the cursor.
func (v *Viewport) SetScrollOffset(n int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if n < 0 {
		n = 0
	}
	v.scrollOffset = n
}

// JumpTo sets the top-of-viewport position directly, bypassing the
// minimal-adjustment logic EnsureRowVisible uses. It is how a restored
// session's saved scroll position is applied, where the goal is to
// reproduce the exact prior view rather than scroll toward it.
func (v *Viewport) JumpTo(top ByteOffset, leftColumn int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.topByte = top
	v.topViewLineOffset = 0
	if leftColumn < 0 {
		leftColumn = 0
	}
	v.leftColumn = leftColumn
}

// SetLineWrap toggles soft line wrapping.
func (v *Viewport) SetLineWrap(wrap bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.lineWrap = wrap
}

// LineWrap reports whether soft line wrapping is enabled.
func (v *Viewport) LineWrap() bool { v.mu.RLock(); defer v.mu.RUnlock(); return v.lineWrap }

// EnsureRowVisible adjusts topByte the minimum amount so that
// cursorRow (the primary cursor's line relative to the top-of-buffer)
// falls within [scrollOffset, height-scrollOffset) of the viewport,
// per spec.md §4.5. buf supplies line/offset conversions.
func (v *Viewport) EnsureRowVisible(buf *buffer.Buffer, cursorLine uint32) {
	v.mu.Lock()
	defer v.mu.Unlock()

	topLine := buf.OffsetToPoint(v.topByte).Line
	margin := uint32(v.scrollOffset)
	height := uint32(v.height)
	if height == 0 {
		height = 1
	}
	if 2*margin >= height {
		margin = 0
		if height > 0 {
			margin = (height - 1) / 2
		}
	}

	switch {
	case cursorLine < topLine+margin:
		if cursorLine > margin {
			topLine = cursorLine - margin
		} else {
			topLine = 0
		}
	case cursorLine >= topLine+height-margin:
		if cursorLine+margin+1 > height {
			topLine = cursorLine + margin + 1 - height
		} else {
			topLine = 0
		}
	default:
		return
	}
	v.topByte = buf.LineStartOffset(topLine)
	v.topViewLineOffset = 0
}

// EnsureColumnVisible advances leftColumn the minimum amount to keep
// column within the visible width.
func (v *Viewport) EnsureColumnVisible(column int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if column < v.leftColumn {
		v.leftColumn = column
	} else if column >= v.leftColumn+v.width {
		v.leftColumn = column - v.width + 1
	}
}

// ScrollBy shifts the viewport's top line by deltaLines (may be
// negative), clamped to the buffer's line count.
func (v *Viewport) ScrollBy(buf *buffer.Buffer, deltaLines int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	topLine := int64(buf.OffsetToPoint(v.topByte).Line) + int64(deltaLines)
	lineCount := int64(buf.LineCount())
	if topLine < 0 {
		topLine = 0
	}
	if lineCount > 0 && topLine >= lineCount {
		topLine = lineCount - 1
	}
	v.topByte = buf.LineStartOffset(uint32(topLine))
	v.topViewLineOffset = 0
}

// SetRelative marks the line-number gutter as showing numbers
// relative to relativeBase, used once a large-file buffer's exact
// line count becomes unknown (see buffer.Buffer.LineCountExact).
func (v *Viewport) SetRelative(base uint32) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.relative, v.relativeBase = true, base
}

// ClearRelative restores absolute line numbering.
func (v *Viewport) ClearRelative() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.relative = false
}

// IsRelative reports whether line numbers are currently relative, and
// the anchor line they are relative to.
func (v *Viewport) IsRelative() (bool, uint32) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.relative, v.relativeBase
}
