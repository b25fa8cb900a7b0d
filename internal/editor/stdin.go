package editor

import (
	"os"

	"github.com/glyphedit/core/internal/engine/buffer"
	"github.com/glyphedit/core/internal/engine/state"
)

// StdinStreamingState tracks a buffer being filled by a background
// writer draining stdin into a temp file, per spec.md's stdin
// streaming description: the buffer grows as Unloaded spans are
// appended, and completion is detected by the writer finishing rather
// than by any fixed size.
type StdinStreamingState struct {
	TempPath      string
	Buffer        BufferID
	LastKnownSize int64
	Complete      bool
	// Done, if non-nil, is closed by the background writer once it
	// has finished (successfully, with an error, or by panicking and
	// recovering); PollStdinStreaming checks it non-blockingly via a
	// select with a default case.
	Done <-chan error
}

// OpenStdinBuffer creates a buffer over tempPath (where a background
// writer is streaming stdin) as an Unloaded span and begins tracking
// its growth. done, if non-nil, is a channel the writer closes (after
// optionally sending one error) when it finishes.
func (e *Editor) OpenStdinBuffer(tempPath string, done <-chan error) (BufferID, error) {
	e.mu.Lock()
	if !e.inNavigation {
		e.recordCurrentPositionLocked()
	}
	e.mu.Unlock()

	info, err := os.Stat(tempPath)
	if err != nil {
		return 0, bufferDisplayError("open stdin", tempPath, err)
	}

	buf, err := buffer.Open(tempPath, buffer.WithTabWidth(e.defaultTabWidth()))
	if err != nil {
		return 0, bufferDisplayError("open stdin", tempPath, err)
	}
	buf.ClearPath()
	buf.ClearModified()

	st := state.New(buf, e.width, e.height)
	md := &Metadata{DisplayName: "[stdin]", LSPEnabled: false, LSPDisabledReason: "unnamed buffer"}

	e.mu.Lock()
	var id BufferID
	if reuseID, ok := e.reusableEmptyBufferLocked(); ok {
		e.buffers[reuseID] = st
		e.metadata[reuseID] = md
		id = reuseID
	} else {
		id = e.insertBuffer(st, md)
	}
	e.active = id
	e.activeSplitLocked().focus(id)

	e.stdin = &StdinStreamingState{
		TempPath:      tempPath,
		Buffer:        id,
		LastKnownSize: info.Size(),
		Complete:      done == nil,
		Done:          done,
	}
	e.mu.Unlock()

	return id, nil
}

// PollStdinStreaming checks the temp file's current size and the
// writer's completion channel, extending the buffer if the file grew.
// It returns true if anything changed (the caller should re-render).
// It is meant to be called once per main-loop iteration, same as the
// async bridge's drain.
func (e *Editor) PollStdinStreaming() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	stream := e.stdin
	if stream == nil || stream.Complete {
		return false
	}

	changed := false

	if info, err := os.Stat(stream.TempPath); err == nil && info.Size() > stream.LastKnownSize {
		if st, ok := e.buffers[stream.Buffer]; ok {
			_ = st.Buffer.ExtendStreaming(stream.TempPath, info.Size())
		}
		stream.LastKnownSize = info.Size()
		changed = true
	}

	if stream.Done != nil {
		select {
		case <-stream.Done:
			stream.Complete = true
			changed = true
		default:
		}
	}

	return changed
}

// IsStdinStreaming reports whether a stdin-backed buffer is still
// growing.
func (e *Editor) IsStdinStreaming() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.stdin != nil && !e.stdin.Complete
}
