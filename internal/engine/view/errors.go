package view

import "errors"

// Errors returned by view operations.
var (
	// ErrCannotHaveChildren is returned when inserting into an empty or UI element.
	ErrCannotHaveChildren = errors.New("element cannot have children")

	// ErrOffsetOutOfRange indicates a position offset is outside its parent.
	ErrOffsetOutOfRange = errors.New("offset out of range")

	// ErrNodeAttached is returned when inserting a node that already has a parent.
	ErrNodeAttached = errors.New("node already has a parent")

	// ErrViewDestroyed is returned when using a destroyed view.
	ErrViewDestroyed = errors.New("view destroyed")
)
