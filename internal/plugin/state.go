package plugin

// State represents the lifecycle state of a plugin.
type State int

// Plugin states.
const (
	// StateCreated - Plugin is instantiated but not initialized.
	StateCreated State = iota

	// StateInitializing - Init is running.
	StateInitializing

	// StateInitialized - Init succeeded.
	StateInitialized

	// StateReady - AfterInit succeeded.
	StateReady

	// StateDestroyed - Destroy ran.
	StateDestroyed

	// StateError - Init or AfterInit failed.
	StateError
)

// String returns a string representation of the state.
func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateInitializing:
		return "initializing"
	case StateInitialized:
		return "initialized"
	case StateReady:
		return "ready"
	case StateDestroyed:
		return "destroyed"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// IsUsable returns true if the plugin finished initialization.
func (s State) IsUsable() bool {
	return s == StateInitialized || s == StateReady
}
