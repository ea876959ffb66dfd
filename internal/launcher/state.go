package launcher

// State represents the lifecycle state of a launch session.
type State int

const (
	// StateCreated is the initial state before the dashboard has started.
	StateCreated State = iota

	// StateStarting indicates the dashboard process is being spawned.
	StateStarting

	// StateRunning indicates the dashboard is running and owned by the session.
	StateRunning

	// StateDetached indicates the dashboard was started and released.
	StateDetached

	// StateTerminating indicates a kill has been sent and not yet reaped.
	StateTerminating

	// StateExited indicates the dashboard exited on its own.
	StateExited

	// StateStopped indicates the dashboard was killed, or never started.
	StateStopped
)

// String returns a human-readable name for the state.
func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateStarting:
		return "starting"
	case StateRunning:
		return "running"
	case StateDetached:
		return "detached"
	case StateTerminating:
		return "terminating"
	case StateExited:
		return "exited"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// IsActive returns true while the session still owns a live process.
func (s State) IsActive() bool {
	return s == StateStarting || s == StateRunning || s == StateTerminating
}

// IsTerminal returns true once no further transitions can happen.
func (s State) IsTerminal() bool {
	return s == StateDetached || s == StateExited || s == StateStopped
}
