package command

import "errors"

// Command errors.
var (
	// ErrCommandExists is returned when a command name is added twice.
	ErrCommandExists = errors.New("command: already registered")

	// ErrCommandNotFound is returned when executing an unknown command.
	ErrCommandNotFound = errors.New("command: not found")

	// ErrCommandDisabled is returned when executing a disabled command.
	ErrCommandDisabled = errors.New("command: disabled")

	// ErrInvalidCommand is returned for an empty name or nil command.
	ErrInvalidCommand = errors.New("command: invalid command")

	// ErrCommandPanic indicates the command panicked during execution.
	ErrCommandPanic = errors.New("command: panic")
)
