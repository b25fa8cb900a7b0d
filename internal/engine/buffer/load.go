package buffer

import (
	"bufio"
	"io"
	"os"

	"github.com/glyphedit/core/internal/engine/piecetree"
)

// Open loads a file into a new Buffer. Files at or above
// DefaultLargeFileThreshold are opened in large-file mode: the whole
// file becomes a single Unloaded span and is never read eagerly,
// trading exact line counts and in-place search for O(1) open time.
func Open(path string, opts ...Option) (*Buffer, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	b := NewBuffer(opts...)
	b.path = path

	threshold := DefaultLargeFileThreshold
	if b.largeFileThreshold > 0 {
		threshold = b.largeFileThreshold
	}

	if info.Size() >= threshold {
		if err := b.openLargeFile(path, info.Size()); err != nil {
			return nil, err
		}
		return b, nil
	}
	return b, b.openSmallFile(path)
}

func (b *Buffer) openSmallFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	data, b.hadBOM = stripBOM(data)
	b.isBinary = detectBinary(data)
	detected := detectLineEndingBytes(data)
	b.lineEnding = detected
	b.originalLineEnding = detected

	if len(data) > 0 {
		id := b.registry.NewLoaded(data, true)
		nl := piecetree.CountNewlines(data)
		b.tree = b.tree.Insert(0, id, 0, int64(len(data)), nl)
	}
	b.savedFileSize, b.haveSavedFileSize = int64(len(data)), true
	b.markSavedSnapshotLocked()
	return nil
}

func (b *Buffer) openLargeFile(path string, size int64) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	sampleSize := size
	if sampleSize > binaryPrefixSize {
		sampleSize = binaryPrefixSize
	}
	sample := make([]byte, sampleSize)
	if sampleSize > 0 {
		if _, err := io.ReadFull(bufio.NewReader(f), sample); err != nil {
			return err
		}
	}
	sniffed, hadBOM := stripBOM(sample)
	b.hadBOM = hadBOM
	b.isBinary = detectBinary(sniffed)
	detected := detectLineEndingBytes(sniffed)
	b.lineEnding = detected
	b.originalLineEnding = detected
	b.largeFile = true

	if size > 0 {
		id := b.registry.NewUnloaded(path, 0, size)
		// No newline count: large-file mode never indexes lines eagerly.
		b.tree = b.tree.Insert(0, id, 0, size, 0)
	}
	b.savedFileSize, b.haveSavedFileSize = size, true
	b.markSavedSnapshotLocked()
	return nil
}

func (b *Buffer) markSavedSnapshotLocked() {
	b.savedRoot = b.tree.Root()
	b.modified = false
	b.recoveryPending = false
}

// detectBinary reports whether bytes looks like binary content: a NUL
// byte, DEL, or a non-printable control character other than tab/LF/
// CR/FF/VT/ESC, is a strong signal. ANSI CSI/OSC escape sequences (ESC '[' or
// ESC ']' ... terminator) are skipped rather than flagged, since they
// legitimately appear in text files (e.g. terminal session logs).
func detectBinary(data []byte) bool {
	checkLen := len(data)
	if checkLen > binaryPrefixSize {
		checkLen = binaryPrefixSize
	}
	sample := data[:checkLen]

	for i := 0; i < len(sample); i++ {
		c := sample[i]

		if c == 0x1B && i+1 < len(sample) {
			next := sample[i+1]
			if next == '[' || next == ']' {
				i += 2
				for i < len(sample) {
					t := sample[i]
					if t >= 0x40 && t <= 0x7E {
						break
					}
					i++
				}
				continue
			}
		}

		if c == 0x00 {
			return true
		}
		if c < 0x20 && c != 0x09 && c != 0x0A && c != 0x0D && c != 0x0C && c != 0x0B && c != 0x1B {
			return true
		}
		if c == 0x7F {
			return true
		}
	}
	return false
}

// detectLineEndingBytes counts CRLF, lone LF and lone CR in a raw byte
// sample, used by Open before any line-ending normalization has
// happened. Unlike DetectLineEnding, any tie goes to LF.
func detectLineEndingBytes(data []byte) LineEnding {
	checkLen := len(data)
	if checkLen > binaryPrefixSize {
		checkLen = binaryPrefixSize
	}
	sample := data[:checkLen]

	var crlf, lf, cr int
	for i := 0; i < len(sample); i++ {
		switch sample[i] {
		case '\r':
			if i+1 < len(sample) && sample[i+1] == '\n' {
				crlf++
				i++
			} else {
				cr++
			}
		case '\n':
			lf++
		}
	}
	switch {
	case crlf > lf && crlf > cr:
		return LineEndingCRLF
	case cr > lf && cr > crlf:
		return LineEndingCR
	default:
		return LineEndingLF
	}
}
