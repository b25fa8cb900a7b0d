package editor

// CloseBuffer implements spec.md's close-buffer protocol. It refuses
// to close a modified buffer unless force is true, and refuses to
// close the last remaining buffer outright (there is always at least
// one open buffer).
func (e *Editor) CloseBuffer(id BufferID, force bool) error {
	e.mu.Lock()

	st, ok := e.buffers[id]
	if !ok {
		e.mu.Unlock()
		return ErrBufferNotOpen
	}
	if len(e.order) == 1 {
		e.mu.Unlock()
		return ErrLastBuffer
	}
	if st.Buffer.IsModified() && !force {
		e.mu.Unlock()
		return ErrBufferModified
	}

	md := e.metadata[id]
	e.mu.Unlock()

	e.fireHook(HookBeforeFileClose, OpenPayload{Buffer: id, Path: pathOf(md)})

	if e.sessions != nil && md != nil && md.Path != "" {
		_ = e.sessions.Save(md.Path, captureSession(st))
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	sp := e.activeSplitLocked()
	wasActive := e.active == id
	replacement, haveReplacement := sp.mostRecentlyFocused(id)
	if !haveReplacement {
		replacement = e.allocateEmptyBufferLocked()
	}

	if wasActive {
		e.active = replacement
	}
	for _, s := range e.splits {
		if s.has(id) {
			s.removeTab(id)
			s.addTab(replacement)
			if s.focused == id {
				s.focused = replacement
			}
		}
	}

	e.removeBufferLocked(id)

	if md != nil && md.Path != "" && e.watcher != nil {
		e.watcher.Unwatch(md.Path)
	}
	if md != nil && md.Path != "" && e.lsp != nil {
		e.lsp.NotifyClose(md.Path)
	}
	if e.stdin != nil && e.stdin.Buffer == id {
		e.stdin = nil
	}

	return nil
}

func pathOf(md *Metadata) string {
	if md == nil {
		return ""
	}
	return md.Path
}

// allocateEmptyBufferLocked creates a fresh empty buffer to fall back
// to when no replacement tab exists anywhere. Caller must hold e.mu.
func (e *Editor) allocateEmptyBufferLocked() BufferID {
	id := e.insertBuffer(newScratchState(e.width, e.height), &Metadata{
		DisplayName: "untitled",
		LSPEnabled:  true,
	})
	return id
}

// removeBufferLocked deletes id's entry from every map and from tab
// order. Caller must hold e.mu.
func (e *Editor) removeBufferLocked(id BufferID) {
	delete(e.buffers, id)
	delete(e.logs, id)
	delete(e.metadata, id)
	for i, o := range e.order {
		if o == id {
			e.order = append(e.order[:i], e.order[i+1:]...)
			break
		}
	}
	e.history.DiscardBuffer(id)
}
