// Package buffer implements the text buffer (C3): a piece tree (C2)
// plus a span registry (C1), with binary/line-ending detection, search
// and replace, incremental save, recovery chunks, and lazy reads that
// realize chunks of an unloaded file on demand.
//
// A Buffer tracks the saved-baseline root of its piece tree (an O(1)
// snapshot), a modified flag, and a monotonically increasing version
// counter that advances on every content-mutating operation.
//
// Basic usage:
//
//	buf := buffer.NewBufferFromString("Hello, World!")
//	buf.Insert(7, "Beautiful ")  // "Hello, Beautiful World!"
//	buf.Delete(0, 7)             // "Beautiful World!"
//
// Thread Safety:
//
// All Buffer methods are thread-safe: read operations take a read
// lock, write operations an exclusive lock.
package buffer
