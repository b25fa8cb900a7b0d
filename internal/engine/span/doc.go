// Package span implements the backing-store registry (C1): the set of
// immutable or lazily loaded byte ranges that piece-tree leaves
// reference. A span is one of three variants:
//
//   - Loaded: owns an in-memory byte slice.
//   - Unloaded: refers to a byte range of a file that has never been read.
//   - Chunk: a sub-range of an Unloaded span realized into memory.
//
// Span ids are never reused. A span's length is immutable once
// created, except for the append-friendly most recently created
// Loaded span of a buffer, which may grow in place while no piece
// references bytes past its current length.
package span
