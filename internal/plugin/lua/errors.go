package lua

import "errors"

// Errors for Lua state and scripted plugin operations.
var (
	// ErrStateClosed is returned when operating on a closed state.
	ErrStateClosed = errors.New("lua state is closed")

	// ErrExecutionTimeout is returned when execution times out.
	ErrExecutionTimeout = errors.New("lua execution timeout")

	// ErrNoEntryPoint is returned when a plugin has no Lua entry point.
	ErrNoEntryPoint = errors.New("plugin has no entry point (init.lua or main)")

	// ErrInvalidManifest is returned when manifest validation fails.
	ErrInvalidManifest = errors.New("invalid plugin manifest")
)
