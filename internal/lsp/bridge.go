package lsp

import (
	"context"
)

// AsyncPoster is the editor's async.Bridge, narrowed to the one
// capability this package needs: post a message without blocking the
// caller. A separate interface here (rather than importing
// internal/async) keeps this package free of a dependency back on the
// editor-wiring layer.
type AsyncPoster interface {
	Post(msg any) bool
}

// EditorBridge adapts a *Manager to internal/editor.LanguageNotifier,
// translating the editor's synchronous open/close calls into manager
// calls and forwarding server lifecycle/diagnostics events onto an
// async.Bridge rather than blocking the editor's call site on network
// I/O with a language server.
type EditorBridge struct {
	manager *Manager
	poster  AsyncPoster
	newMsg  func(kind string, args ...any) any
}

// NewEditorBridge wires manager to poster. msgFactory builds the
// concrete async.Message values (LspInitialized, LspError, ...); it is
// injected rather than imported so this package does not depend on
// internal/async's message types, avoiding an import cycle between the
// two wiring-layer packages.
func NewEditorBridge(manager *Manager, poster AsyncPoster, msgFactory func(kind string, args ...any) any) *EditorBridge {
	return &EditorBridge{manager: manager, poster: poster, newMsg: msgFactory}
}

// NotifyOpen implements internal/editor.LanguageNotifier. It calls
// Manager.OpenDocument, which is the one path allowed to spawn a
// server (see runningServerForFile's doc comment); success or failure
// is reported asynchronously rather than by blocking the open-file
// call on the server's initialize handshake.
func (b *EditorBridge) NotifyOpen(path, language, text string) bool {
	if language == "" {
		return false
	}
	go func() {
		ctx := context.Background()
		if err := b.manager.OpenDocument(ctx, path, text); err != nil {
			if b.poster != nil && b.newMsg != nil {
				b.poster.Post(b.newMsg("error", language, err))
			}
			return
		}
		if b.poster != nil && b.newMsg != nil {
			b.poster.Post(b.newMsg("initialized", language))
		}
	}()
	return true
}

// NotifyClose implements internal/editor.LanguageNotifier.
func (b *EditorBridge) NotifyClose(path string) {
	go func() {
		_ = b.manager.CloseDocument(context.Background(), path)
	}()
}
