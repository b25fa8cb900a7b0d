// Package async is the bridge between worker goroutines (language
// servers, file watching, stdin ingestion) and the editor's
// single-threaded main loop. Workers never mutate editor state
// directly; they post an AsyncMessage and the main loop drains the
// bridge once per iteration and applies it synchronously.
package async

import "github.com/glyphedit/core/internal/lsp"

// Message is implemented by every variant a worker can post. The
// marker method keeps the set closed to this package, mirroring how a
// Rust enum's variants are only constructible from its own module.
type Message interface {
	isAsyncMessage()
}

// LspDiagnostics carries a push-model diagnostics publish for a file.
type LspDiagnostics struct {
	URI         lsp.DocumentURI
	Diagnostics []lsp.Diagnostic
}

func (LspDiagnostics) isAsyncMessage() {}

// LspPulledDiagnostics carries the result of a pull-model
// textDocument/diagnostic request. Unchanged is true when the server
// reported the previous result is still valid (ResultID matched) and
// Diagnostics should be left as-is.
type LspPulledDiagnostics struct {
	RequestID   int64
	URI         lsp.DocumentURI
	ResultID    string
	Diagnostics []lsp.Diagnostic
	Unchanged   bool
}

func (LspPulledDiagnostics) isAsyncMessage() {}

// LspInitialized reports that a language server finished its
// initialize handshake and is ready to receive document notifications.
type LspInitialized struct {
	Language string
}

func (LspInitialized) isAsyncMessage() {}

// LspError reports a language-server worker failure: a crash (from
// which the supervisor may restart), or a fatal, non-recoverable
// error from any other worker (file watch, stdin, git status).
type LspError struct {
	Language string
	Err      error
}

func (LspError) isAsyncMessage() {}

// LspProgress carries a $/progress notification for display in the
// status line.
type LspProgress struct {
	Token      string
	Title      string
	Message    string
	Percentage int
	Done       bool
}

func (LspProgress) isAsyncMessage() {}

// FileChanged reports that the file watcher observed an on-disk
// change to an open buffer's backing file.
type FileChanged struct {
	Path string
}

func (FileChanged) isAsyncMessage() {}

// GitStatusChanged carries a refreshed git status summary for the
// working tree, as produced by a background git-status poller.
type GitStatusChanged struct {
	Status string
}

func (GitStatusChanged) isAsyncMessage() {}
