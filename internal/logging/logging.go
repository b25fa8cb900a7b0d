// Package logging sets up the editor's diagnostic slog logger. It is
// deliberately separate from anything user-facing: the editor's
// status line has its own message conventions (see internal/editor),
// this package is for the operator running keystorm with -debug.
package logging

import (
	"io"
	"log/slog"
	"os"

	"github.com/lmittmann/tint"
)

// Options configures New.
type Options struct {
	// Debug enables slog.LevelDebug; otherwise slog.LevelInfo.
	Debug bool
	// Writer receives log output; defaults to os.Stderr.
	Writer io.Writer
}

// New builds a colorized, terminal-friendly slog.Logger using tint,
// the same library vito/dang uses for its CLI's diagnostic output.
// Unlike a bare terminal application, keystorm renders to the same
// terminal it logs from, so logs default to stderr and are expected
// to be redirected to a file in normal use (see cmd/keystorm's
// -log-file flag).
func New(opts Options) *slog.Logger {
	level := slog.LevelInfo
	if opts.Debug {
		level = slog.LevelDebug
	}
	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}
	handler := tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: "15:04:05",
	})
	return slog.New(handler)
}
