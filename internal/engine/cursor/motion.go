package cursor

import (
	"github.com/rivo/uniseg"

	"github.com/glyphedit/core/internal/engine/buffer"
)

// VisualColumn returns the grapheme-cluster visual column of the byte
// offset byteOffsetInLine within lineText, expanding tabs to the next
// tabWidth-wide stop. Operating on grapheme clusters rather than
// bytes or runes keeps the column aligned through combining marks,
// wide CJK characters, and multi-rune emoji.
func VisualColumn(lineText string, byteOffsetInLine int, tabWidth int) uint32 {
	if tabWidth <= 0 {
		tabWidth = 4
	}
	var col uint32
	gr := uniseg.NewGraphemes(lineText)
	for gr.Next() {
		start, end := gr.Positions()
		if start >= byteOffsetInLine {
			break
		}
		col += graphemeWidth(gr.Str(), col, tabWidth)
		if end >= byteOffsetInLine {
			break
		}
	}
	return col
}

// ByteOffsetForVisualColumn finds the byte offset within lineText
// whose visual column is the closest to target without exceeding it,
// clamping to the line's length when target lands past its end.
func ByteOffsetForVisualColumn(lineText string, target uint32, tabWidth int) int {
	if tabWidth <= 0 {
		tabWidth = 4
	}
	var col uint32
	pos := 0
	gr := uniseg.NewGraphemes(lineText)
	for gr.Next() {
		_, end := gr.Positions()
		width := graphemeWidth(gr.Str(), col, tabWidth)
		if col+width > target {
			break
		}
		col += width
		pos = end
	}
	return pos
}

func graphemeWidth(cluster string, col uint32, tabWidth int) uint32 {
	if cluster == "\t" {
		return uint32(tabWidth) - col%uint32(tabWidth)
	}
	if w := uniseg.StringWidth(cluster); w > 0 {
		return uint32(w)
	}
	return 0
}

// MoveVertical computes the offset reached by moving one line up
// (delta<0) or down (delta>0) from offset, holding the cursor at
// stickyColumn's visual column rather than its byte column so
// vertical motion through ragged line lengths feels natural. When
// hasSticky is false the column is derived from offset's own column
// first and stickyColumn is ignored.
// Returns the new offset and the sticky column to remember for the
// next vertical move in the same run (cleared by any non-vertical
// motion or edit).
func MoveVertical(buf *buffer.Buffer, offset buffer.ByteOffset, delta int, stickyColumn uint32, hasSticky bool, tabWidth int) (buffer.ByteOffset, uint32) {
	p := buf.OffsetToPoint(offset)
	lineStart := buf.LineStartOffset(p.Line)

	col := stickyColumn
	if !hasSticky {
		lineText := buf.LineText(p.Line)
		col = VisualColumn(lineText, int(offset-lineStart), tabWidth)
	}

	target := int64(p.Line) + int64(delta)
	lineCount := int64(buf.LineCount())
	if target < 0 {
		return 0, col
	}
	if target >= lineCount {
		return buf.Len(), col
	}

	targetLine := uint32(target)
	targetText := buf.LineText(targetLine)
	targetStart := buf.LineStartOffset(targetLine)
	newCol := ByteOffsetForVisualColumn(targetText, col, tabWidth)
	return targetStart + buffer.ByteOffset(newCol), col
}
