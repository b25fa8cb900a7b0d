package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestNewDefaultLevelIsInfo(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{Writer: &buf})

	logger.Debug("should not appear")
	if buf.Len() != 0 {
		t.Fatalf("expected debug log to be suppressed at info level, got %q", buf.String())
	}

	logger.Info("hello", "buffer", 1)
	if !strings.Contains(buf.String(), "hello") {
		t.Fatalf("expected output to contain the message, got %q", buf.String())
	}
}

func TestNewDebugEnablesDebugLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{Writer: &buf, Debug: true})

	logger.Debug("shows up now")
	if !strings.Contains(buf.String(), "shows up now") {
		t.Fatalf("expected debug output, got %q", buf.String())
	}
}

func TestNewReturnsUsableLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{Writer: &buf})
	if logger == nil {
		t.Fatal("expected a non-nil logger")
	}
	logger.Warn("test", slog.String("k", "v"))
}
