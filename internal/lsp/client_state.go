package lsp

// ClientState is the externally observable lifecycle state of a
// language server as the rest of the editor sees it: a buffer's
// gutter/status line reports one of these, never the teacher's
// internal ServerStatus/SupervisorState values directly.
type ClientState int

const (
	// ClientNotStarted means no server has ever been requested for
	// this language in this session.
	ClientNotStarted ClientState = iota
	// ClientStarting means OpenDocument has spawned the server and it
	// has not yet completed its initialize handshake.
	ClientStarting
	// ClientReady means the server has initialized and can serve
	// completion/hover/navigation requests.
	ClientReady
	// ClientStopped means the server exited, either because the editor
	// asked it to (UserRequested) or because supervision gave up after
	// its restart budget (Crashed); Reason distinguishes the two.
	ClientStopped
	// ClientError means the server failed to start or reported an
	// unrecoverable protocol error; Reason holds detail for the status
	// line.
	ClientError
)

// StopReason qualifies a ClientStopped state.
type StopReason int

const (
	// StopUnspecified is the zero value, used outside ClientStopped.
	StopUnspecified StopReason = iota
	// StopUserRequested means the editor shut the server down itself
	// (buffer close, editor exit).
	StopUserRequested
	// StopCrashed means supervision exhausted its restart budget.
	StopCrashed
)

func (s StopReason) String() string {
	switch s {
	case StopUserRequested:
		return "user requested"
	case StopCrashed:
		return "crashed"
	default:
		return "unspecified"
	}
}

// ClientStatus is a ClientState plus the detail needed to explain a
// Stopped or Error state in a status line.
type ClientStatus struct {
	State  ClientState
	Reason StopReason
	Detail string
}

func (s ClientState) String() string {
	switch s {
	case ClientNotStarted:
		return "NotStarted"
	case ClientStarting:
		return "Starting"
	case ClientReady:
		return "Ready"
	case ClientStopped:
		return "Stopped"
	case ClientError:
		return "Error"
	default:
		return "unknown"
	}
}

// ClientState reports languageID's externally observable lifecycle
// state, translated from the teacher's ServerStatus/SupervisorState
// values. A language that was never registered or never opened
// reports ClientNotStarted rather than ClientStopped, so the status
// line can distinguish "never asked for" from "asked for and gave up".
func (m *Manager) ClientState(languageID string) ClientStatus {
	m.mu.RLock()
	supervisor, supervised := m.supervisors[languageID]
	server, exists := m.servers[languageID]
	_, configured := m.configs[languageID]
	m.mu.RUnlock()

	if supervised {
		if supervisor.State() == SupervisorStateFailed {
			return ClientStatus{State: ClientStopped, Reason: StopCrashed, Detail: "supervisor exhausted restart budget"}
		}
		if s := supervisor.Server(); s != nil {
			return clientStatusFromServerStatus(s.Status())
		}
		return ClientStatus{State: ClientStarting}
	}

	if !exists {
		if configured {
			return ClientStatus{State: ClientNotStarted}
		}
		return ClientStatus{State: ClientNotStarted}
	}
	return clientStatusFromServerStatus(server.Status())
}

func clientStatusFromServerStatus(status ServerStatus) ClientStatus {
	switch status {
	case ServerStatusStopped, ServerStatusShuttingDown:
		return ClientStatus{State: ClientStopped, Reason: StopUserRequested}
	case ServerStatusStarting, ServerStatusInitializing:
		return ClientStatus{State: ClientStarting}
	case ServerStatusReady:
		return ClientStatus{State: ClientReady}
	case ServerStatusError:
		return ClientStatus{State: ClientError}
	default:
		return ClientStatus{State: ClientNotStarted}
	}
}
