package eventlog

import "github.com/glyphedit/core/internal/engine/buffer"

// ByteOffset is an alias for buffer.ByteOffset for convenience.
type ByteOffset = buffer.ByteOffset
