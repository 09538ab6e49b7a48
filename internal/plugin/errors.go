package plugin

import "errors"

// Plugin system errors.
var (
	// ErrPluginNotFound is returned when a plugin name is not registered.
	ErrPluginNotFound = errors.New("plugin not found")

	// ErrPluginNameConflict is returned when two plugins share a name.
	ErrPluginNameConflict = errors.New("plugin name conflict")

	// ErrDependencyNotFound is returned when a required dependency is missing.
	ErrDependencyNotFound = errors.New("plugin dependency not found")

	// ErrCyclicDependency is returned when plugins have circular dependencies.
	ErrCyclicDependency = errors.New("cyclic plugin dependency detected")

	// ErrAlreadyLoaded is returned when Load is called twice on a collection.
	ErrAlreadyLoaded = errors.New("plugins are already loaded")

	// ErrInvalidPlugin is returned for nil plugins or plugins without a name.
	ErrInvalidPlugin = errors.New("invalid plugin")
)
