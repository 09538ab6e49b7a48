package ui

import (
	"fmt"
	"slices"
	"sync"
)

// Component is a toolbar item.
type Component interface {
	// ComponentName returns the name the component was created under.
	ComponentName() string
}

// Separator is the "|" toolbar item.
type Separator struct{}

// SeparatorName is the toolbar item name of a separator.
const SeparatorName = "|"

// ComponentName implements Component.
func (Separator) ComponentName() string { return SeparatorName }

// Button is a toolbar button, usually bound to a command.
type Button struct {
	Name  string
	Label string

	// Command is the command the button reflects and executes.
	Command string

	// Tooltip shows the label as a tooltip.
	Tooltip bool

	// WithText renders the label instead of an icon.
	WithText bool

	// Icon is an icon identifier.
	Icon string

	// IsEnabled and IsOn mirror the bound command.
	IsEnabled bool
	IsOn      bool

	// OnExecute runs when the button is executed.
	OnExecute func() error
}

// ComponentName implements Component.
func (b *Button) ComponentName() string { return b.Name }

// Execute runs the button action if the button is enabled.
func (b *Button) Execute() error {
	if b.OnExecute == nil {
		return fmt.Errorf("button %q: %w", b.Name, ErrNotExecutable)
	}
	if !b.IsEnabled {
		return nil
	}
	return b.OnExecute()
}

// ComponentFactory creates components by name. Features register factory
// functions during plugin init; the toolbar creates instances afterwards.
type ComponentFactory struct {
	mu        sync.RWMutex
	factories map[string]func() Component
}

// NewComponentFactory creates an empty factory.
func NewComponentFactory() *ComponentFactory {
	return &ComponentFactory{factories: make(map[string]func() Component)}
}

// Add registers a component factory under name.
func (f *ComponentFactory) Add(name string, create func() Component) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, exists := f.factories[name]; exists {
		return fmt.Errorf("component %q: %w", name, ErrComponentExists)
	}
	f.factories[name] = create
	return nil
}

// Has reports whether name is registered.
func (f *ComponentFactory) Has(name string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	_, ok := f.factories[name]
	return ok
}

// Create creates a new component instance.
func (f *ComponentFactory) Create(name string) (Component, error) {
	f.mu.RLock()
	create, ok := f.factories[name]
	f.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("component %q: %w", name, ErrComponentNotFound)
	}
	return create(), nil
}

// Names returns the registered component names, sorted.
func (f *ComponentFactory) Names() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()

	names := make([]string, 0, len(f.factories))
	for name := range f.factories {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
