// Package main is the entry point for the Keystorm editor core. It
// wires the editing engine (internal/editor) to LSP, hooks, and
// settings; it does not render anything itself (rendering is out of
// scope, see spec's Non-goals) — this binary is the headless core a
// terminal frontend would drive.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
	lua "github.com/yuin/gopher-lua"

	"github.com/glyphedit/core/internal/async"
	"github.com/glyphedit/core/internal/config"
	"github.com/glyphedit/core/internal/editor"
	"github.com/glyphedit/core/internal/hook"
	"github.com/glyphedit/core/internal/logging"
	"github.com/glyphedit/core/internal/lsp"
	"github.com/glyphedit/core/internal/termio"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
)

// options collects the flags rootCmd parses.
type options struct {
	configPath string
	workspace  string
	debug      bool
	logFile    string
}

func main() {
	var opts options

	rootCmd := &cobra.Command{
		Use:   "keystorm [files...]",
		Short: "Keystorm editor core",
		Long:  "Keystorm is an AI-native programming editor. This binary runs its editing engine headlessly; a frontend drives it over its buffer/editor API.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), opts, args)
		},
	}

	rootCmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "path to configuration file")
	rootCmd.Flags().StringVarP(&opts.workspace, "workspace", "w", "", "workspace/project directory")
	rootCmd.Flags().BoolVarP(&opts.debug, "debug", "d", false, "enable debug logging")
	rootCmd.Flags().StringVar(&opts.logFile, "log-file", "", "write logs here instead of stderr")

	if err := fang.Execute(context.Background(), rootCmd,
		fang.WithVersion(version),
		fang.WithCommit(commit),
		fang.WithErrorHandler(func(w io.Writer, styles fang.Styles, err error) {
			fmt.Fprintln(w, err.Error())
		}),
	); err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options, files []string) error {
	logWriter, closeLog, err := openLogWriter(opts.logFile)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer closeLog()

	logger := logging.New(logging.Options{Debug: opts.debug, Writer: logWriter})

	workDir := opts.workspace
	if workDir == "" {
		if len(files) > 0 {
			workDir = workspaceFromFile(files[0])
		}
		if workDir == "" {
			if cwd, err := os.Getwd(); err == nil {
				workDir = cwd
			}
		}
	}

	settingsPath := opts.configPath
	if settingsPath == "" {
		settingsPath = config.DefaultPath()
	}
	settings, err := config.Load(settingsPath)
	if err != nil {
		logger.Warn("failed to load config, using defaults", "path", settingsPath, "error", err)
		settings = config.Default()
	}

	width, height := termio.Size()

	bridge := async.NewBridge(ctx)
	defer bridge.Close()

	hooks := hook.NewRegistry()
	loadUserScripts(hooks, workDir, logger)

	manager := lsp.NewManager(lsp.WithSupervision(lsp.DefaultSupervisorConfig()))
	for lang, cfg := range lsp.DefaultServerConfigs() {
		manager.RegisterServer(lang, cfg)
	}
	manager.SetWorkspaceFolders([]lsp.WorkspaceFolder{lsp.WorkspaceFolderFromPath(workDir)})

	lspBridge := lsp.NewEditorBridge(manager, asyncPosterAdapter{bridge}, func(kind string, args ...any) any {
		switch kind {
		case "initialized":
			return async.LspInitialized{Language: args[0].(string)}
		case "error":
			return async.LspError{Language: args[0].(string), Err: args[1].(error)}
		default:
			return nil
		}
	})

	ed := editor.New(workDir, width, height,
		editor.WithSettings(settings),
		editor.WithHooks(hookRegistryAdapter{hooks}),
		editor.WithLanguageNotifier(lspBridge),
		editor.WithSessionStore(editor.NewFileSessionStore(editor.DefaultSessionDir())),
	)

	for _, f := range files {
		if _, err := ed.OpenFile(f); err != nil {
			logger.Error("failed to open file", "path", f, "error", err)
		}
	}

	bridge.Go(func(ctx context.Context) error {
		<-ctx.Done()
		return manager.Shutdown(context.Background())
	})

	logger.Info("keystorm core initialized", "workspace", workDir, "buffers", len(ed.Buffers()))

	// The headless core has nothing further to drive without a
	// frontend attached; report readiness and exit cleanly.
	return nil
}

// workspaceFromFile derives a workspace directory from the first file
// argument, matching the teacher's original -w-from-first-file
// fallback.
func workspaceFromFile(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return ""
	}
	return filepath.Dir(abs)
}

func openLogWriter(path string) (io.Writer, func(), error) {
	if path == "" {
		return os.Stderr, func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { _ = f.Close() }, nil
}

// loadUserScripts runs <workspace>/.keystorm/init.lua, if present,
// registering whatever hooks it calls keystorm.on(name, fn) for.
func loadUserScripts(hooks *hook.Registry, workDir string, logger *slog.Logger) {
	path := filepath.Join(workDir, ".keystorm", "init.lua")
	if _, err := os.Stat(path); err != nil {
		return
	}

	L := lua.NewState()
	registerLuaHookAPI(L, hooks)
	if err := L.DoFile(path); err != nil {
		logger.Warn("failed to load init.lua", "path", path, "error", err)
	}
}

// registerLuaHookAPI exposes keystorm.on(event_name, fn) to a Lua
// script, wiring each registered function into hooks via
// hook.NewLuaHandler.
func registerLuaHookAPI(L *lua.LState, hooks *hook.Registry) {
	mod := L.NewTable()
	mod.RawSetString("on", L.NewFunction(func(L *lua.LState) int {
		name := L.CheckString(1)
		fn := L.CheckFunction(2)
		hooks.Register(name, hook.NewLuaHandler(L, fn))
		return 0
	}))
	L.SetGlobal("keystorm", mod)
}

// hookRegistryAdapter satisfies internal/editor.HookFirer.
type hookRegistryAdapter struct{ r *hook.Registry }

func (h hookRegistryAdapter) Fire(name string, payload any) bool { return h.r.Fire(name, payload) }

// asyncPosterAdapter satisfies internal/lsp.AsyncPoster by asserting
// the any value is an async.Message before posting; lsp cannot import
// async directly (async imports lsp for its diagnostic message
// shapes), so this adapter lives at the wiring layer instead.
type asyncPosterAdapter struct{ b *async.Bridge }

func (a asyncPosterAdapter) Post(msg any) bool {
	m, ok := msg.(async.Message)
	if !ok {
		return false
	}
	return a.b.Post(m)
}
