package command

import "context"

// Command is a named editor operation.
type Command interface {
	// IsEnabled reports whether Execute may run.
	IsEnabled() bool

	// Value returns command-specific state, e.g. the current image type.
	Value() any

	// Refresh recomputes IsEnabled and Value from the editor state.
	Refresh()

	// Execute runs the command.
	Execute(args ...any) (any, error)
}

// ContextCommand is implemented by commands that use the context passed to
// Collection.ExecuteContext.
type ContextCommand interface {
	Command
	ExecuteContext(ctx context.Context, args ...any) (any, error)
}

// Destroyer is implemented by commands that hold resources.
type Destroyer interface {
	Destroy()
}

// Base holds command state. Embed it and override Refresh and Execute.
type Base struct {
	enabled bool
	value   any
	forced  map[string]bool
}

// IsEnabled implements Command. A command disabled by any ForceDisabled
// id stays disabled regardless of its own state.
func (b *Base) IsEnabled() bool {
	return b.enabled && len(b.forced) == 0
}

// Value implements Command.
func (b *Base) Value() any { return b.value }

// Refresh enables the command. Commands with conditions override it.
func (b *Base) Refresh() { b.enabled = true }

// SetEnabled sets the command's own enabled state.
func (b *Base) SetEnabled(enabled bool) { b.enabled = enabled }

// SetValue sets the command value.
func (b *Base) SetValue(v any) { b.value = v }

// ForceDisabled disables the command until ClearForceDisabled is called
// with the same id.
func (b *Base) ForceDisabled(id string) {
	if b.forced == nil {
		b.forced = make(map[string]bool)
	}
	b.forced[id] = true
}

// ClearForceDisabled removes a lock set by ForceDisabled.
func (b *Base) ClearForceDisabled(id string) {
	delete(b.forced, id)
}

// Func adapts a function into an always-enabled command.
type Func struct {
	Base
	fn func(args ...any) (any, error)
}

// NewFunc creates a command that calls fn.
func NewFunc(fn func(args ...any) (any, error)) *Func {
	return &Func{fn: fn}
}

// Execute implements Command.
func (f *Func) Execute(args ...any) (any, error) {
	return f.fn(args...)
}
