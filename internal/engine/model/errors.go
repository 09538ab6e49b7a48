package model

import "errors"

// Errors returned by model operations.
var (
	// ErrSchemaItemExists is returned when a schema item name is registered twice.
	ErrSchemaItemExists = errors.New("schema item already registered")

	// ErrSchemaItemNotFound is returned when extending an unknown schema item.
	ErrSchemaItemNotFound = errors.New("schema item not registered")

	// ErrInvalidSchemaItem is returned for malformed schema definitions.
	ErrInvalidSchemaItem = errors.New("invalid schema item definition")

	// ErrNotAllowed is returned when the schema does not allow a node at a position.
	ErrNotAllowed = errors.New("node not allowed at this position")

	// ErrOffsetOutOfRange indicates a position offset is outside its parent.
	ErrOffsetOutOfRange = errors.New("offset out of range")

	// ErrNodeAttached is returned when inserting a node that already has a parent.
	ErrNodeAttached = errors.New("node already has a parent")

	// ErrNotInChange is returned when a writer is used after its change block ended.
	ErrNotInChange = errors.New("writer used outside of a change block")
)
