package ui

import "errors"

// UI errors.
var (
	// ErrComponentExists is returned when a component name is registered twice.
	ErrComponentExists = errors.New("ui component already registered")

	// ErrComponentNotFound is returned when creating an unknown component.
	ErrComponentNotFound = errors.New("ui component not registered")

	// ErrNotExecutable is returned when executing a component without an action.
	ErrNotExecutable = errors.New("ui component is not executable")
)
