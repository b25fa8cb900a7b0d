package lsp

import (
	"context"
	"errors"
	"testing"
)

func TestClientStateNotStartedWhenNeverOpened(t *testing.T) {
	m := NewManager()
	m.RegisterServer("go", ServerConfig{Command: "gopls"})

	status := m.ClientState("go")
	if status.State != ClientNotStarted {
		t.Fatalf("expected ClientNotStarted, got %v", status.State)
	}
}

func TestClientStateUnknownLanguageIsNotStarted(t *testing.T) {
	m := NewManager()
	status := m.ClientState("rust")
	if status.State != ClientNotStarted {
		t.Fatalf("expected ClientNotStarted for an unregistered language, got %v", status.State)
	}
}

func TestCompletionDoesNotSpawnAServer(t *testing.T) {
	m := NewManager()
	m.RegisterServer("go", ServerConfig{Command: "gopls"})

	_, err := m.Completion(context.Background(), "/tmp/file.go", Position{})
	if !errors.Is(err, ErrServerNotReady) {
		t.Fatalf("expected ErrServerNotReady (no spawn from the edit path), got %v", err)
	}

	if status := m.ClientState("go"); status.State != ClientNotStarted {
		t.Fatalf("Completion must not spawn a server; client state is %v", status.State)
	}
}

func TestClientStateStringsMatchSpecNames(t *testing.T) {
	cases := map[ClientState]string{
		ClientNotStarted: "NotStarted",
		ClientStarting:   "Starting",
		ClientReady:      "Ready",
		ClientStopped:    "Stopped",
		ClientError:      "Error",
	}
	for state, want := range cases {
		if got := state.String(); got != want {
			t.Errorf("state %d: got %q, want %q", state, got, want)
		}
	}
}
