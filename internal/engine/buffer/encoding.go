package buffer

import (
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var (
	utf8BOM    = []byte{0xEF, 0xBB, 0xBF}
	utf16LEBOM = []byte{0xFF, 0xFE}
	utf16BEBOM = []byte{0xFE, 0xFF}
)

// stripBOM removes a leading byte-order mark from data and, for
// UTF-16, transcodes the remainder to UTF-8 so the piece tree only
// ever stores UTF-8 bytes. UTF-16 decoding uses x/text rather than a
// hand-rolled surrogate-pair loop: Go's stdlib has no UTF-16 decoder,
// and x/text/encoding/unicode is exactly the library the broader
// ecosystem reaches for here.
func stripBOM(data []byte) (stripped []byte, hadBOM bool) {
	switch {
	case hasPrefix(data, utf8BOM):
		return data[len(utf8BOM):], true
	case hasPrefix(data, utf16LEBOM):
		return transcodeUTF16(data[len(utf16LEBOM):], unicode.LittleEndian), true
	case hasPrefix(data, utf16BEBOM):
		return transcodeUTF16(data[len(utf16BEBOM):], unicode.BigEndian), true
	default:
		return data, false
	}
}

func hasPrefix(data, bom []byte) bool {
	if len(data) < len(bom) {
		return false
	}
	for i, b := range bom {
		if data[i] != b {
			return false
		}
	}
	return true
}

// transcodeUTF16 decodes body (UTF-16, no BOM, in the given byte
// order) to UTF-8. On any malformed input it returns body unchanged
// rather than failing the whole file load: a buffer with a garbled
// tail is still editable, a buffer that refuses to open is not.
func transcodeUTF16(body []byte, order unicode.Endianness) []byte {
	decoder := unicode.UTF16(order, unicode.IgnoreBOM).NewDecoder()
	out, _, err := transform.Bytes(decoder, body)
	if err != nil {
		return body
	}
	return out
}
