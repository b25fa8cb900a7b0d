// Package lsp provides Language Server Protocol (LSP) client integration for Keystorm.
//
// The LSP layer enables intelligent code features by communicating with external
// language servers (gopls, rust-analyzer, typescript-language-server, etc.).
// It abstracts the complexity of JSON-RPC communication, server lifecycle management,
// and protocol negotiation while exposing a clean interface to the rest of Keystorm.
//
// # Architecture
//
// The package is organized around these core components:
//
//   - Client: High-level interface for LSP operations
//   - Manager: Manages multiple language server lifecycles
//   - Server: Single server connection and communication
//   - Transport: JSON-RPC 2.0 protocol implementation
//
// # Quick Start
//
// Create and initialize the LSP client:
//
//	client := lsp.NewClient()
//
//	if err := client.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Shutdown(ctx)
//
//	// Open a document
//	client.OpenDocument(ctx, "/path/to/file.go", content)
//
//	// Request completions
//	result, err := client.Complete(ctx, "/path/to/file.go", lsp.Position{Line: 10, Character: 5}, "")
//
// # Server Configuration
//
// Servers are configured per-language:
//
//	client := lsp.NewClient(lsp.WithServers(map[string]lsp.ServerConfig{
//	    "go": {
//	        Command:     "gopls",
//	        Args:        []string{"serve"},
//	        LanguageIDs: []string{"go"},
//	    },
//	    "rust": {
//	        Command:     "rust-analyzer",
//	        LanguageIDs: []string{"rust"},
//	    },
//	}))
//
// # Features
//
// The LSP client supports:
//   - Code completion with filtering and sorting
//   - Hover information
//   - Go-to-definition/type-definition
//   - Find references
//   - Document and workspace symbols
//   - Real-time diagnostics (errors, warnings)
//   - Code actions (quick fixes, refactorings)
//   - Document formatting
//   - Symbol renaming
//   - Signature help
//
// # Multi-Server Support
//
// The Manager handles multiple concurrent language servers. Servers are started
// lazily when files of that language are opened. They keep running until
// Shutdown (or RestartServer) stops them; closing a language's last file does
// not stop its server.
//
// # Crash Recovery
//
// A Manager created with WithSupervision runs each server under a Supervisor,
// which restarts a crashed server with exponential backoff and re-opens the
// documents it tracks. Client does not enable supervision, so a server started
// through Client is not restarted after a crash.
//
// # Thread Safety
//
// The Client and Manager are safe for concurrent use. Individual Server instances
// use internal locking for thread safety.
//
// # Integration
//
// The editor reaches this package through EditorBridge, which adapts a Manager
// to the editor's LanguageNotifier and forwards file open and close
// notifications to the language servers. Diagnostics are delivered through the
// callbacks registered on Client and Manager.
package lsp
