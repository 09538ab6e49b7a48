package plugin

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
)

// EventHandler handles plugin collection events.
// Handlers must be non-blocking and should not call back into the
// Collection. Panics in handlers are recovered.
type EventHandler func(event CollectionEvent)

// CollectionEvent represents a plugin lifecycle event.
type CollectionEvent struct {
	Type   CollectionEventType
	Plugin string
	Error  error
}

// CollectionEventType is the type of collection event.
type CollectionEventType int

const (
	// EventPluginInitialized is emitted after a plugin's Init succeeded.
	EventPluginInitialized CollectionEventType = iota
	// EventPluginReady is emitted after a plugin's AfterInit succeeded.
	EventPluginReady
	// EventPluginDestroyed is emitted after a plugin was destroyed.
	EventPluginDestroyed
	// EventPluginError is emitted when a plugin fails.
	EventPluginError
)

// String returns a string representation of the event type.
func (t CollectionEventType) String() string {
	switch t {
	case EventPluginInitialized:
		return "initialized"
	case EventPluginReady:
		return "ready"
	case EventPluginDestroyed:
		return "destroyed"
	case EventPluginError:
		return "error"
	default:
		return "unknown"
	}
}

type entry struct {
	plugin Plugin
	state  State
	err    error
}

// Collection owns the plugins of one editor.
type Collection struct {
	mu sync.RWMutex

	host     Host
	registry *Registry

	// Loaded plugins by name
	plugins map[string]*entry

	// Init order, dependencies first
	loadOrder []string

	loaded    bool
	destroyed bool

	// Event handlers (protected by mu)
	eventHandlers []EventHandler
}

// NewCollection creates a plugin collection for host. Plugins requested by
// name are instantiated from registry.
func NewCollection(host Host, registry *Registry) *Collection {
	if registry == nil {
		registry = NewRegistry()
	}
	return &Collection{
		host:     host,
		registry: registry,
		plugins:  make(map[string]*entry),
	}
}

// Load resolves the plugins named in names plus the given instances,
// instantiates missing dependencies, and initializes everything in
// dependency order: Init on every plugin, then AfterInit on every plugin.
//
// If any step fails, plugins initialized so far are destroyed in reverse
// order and the error is returned.
func (c *Collection) Load(ctx context.Context, names []string, instances ...Plugin) error {
	c.mu.Lock()
	if c.loaded {
		c.mu.Unlock()
		return ErrAlreadyLoaded
	}
	c.loaded = true
	c.mu.Unlock()

	order, err := c.resolve(names, instances)
	if err != nil {
		return err
	}

	c.mu.Lock()
	for _, p := range order {
		c.plugins[p.PluginName()] = &entry{plugin: p, state: StateCreated}
		c.loadOrder = append(c.loadOrder, p.PluginName())
	}
	c.mu.Unlock()

	for i, p := range order {
		if err := ctx.Err(); err != nil {
			c.rollback(order[:i])
			return err
		}
		name := p.PluginName()
		c.setState(name, StateInitializing, nil)
		if err := p.Init(c.host); err != nil {
			err = fmt.Errorf("init plugin %q: %w", name, err)
			c.fail(name, err)
			c.rollback(order[:i])
			return err
		}
		c.setState(name, StateInitialized, nil)
		c.emitEvent(CollectionEvent{Type: EventPluginInitialized, Plugin: name})
	}

	for _, p := range order {
		name := p.PluginName()
		if ai, ok := p.(AfterIniter); ok {
			if err := ai.AfterInit(c.host); err != nil {
				err = fmt.Errorf("after init plugin %q: %w", name, err)
				c.fail(name, err)
				c.rollback(order)
				return err
			}
		}
		c.setState(name, StateReady, nil)
		c.emitEvent(CollectionEvent{Type: EventPluginReady, Plugin: name})
	}
	return nil
}

// resolve instantiates the requested plugins and their dependencies and
// returns them ordered so that every plugin follows its dependencies.
func (c *Collection) resolve(names []string, instances []Plugin) ([]Plugin, error) {
	byName := make(map[string]Plugin)
	var roots []Plugin

	add := func(p Plugin) error {
		if p == nil || p.PluginName() == "" {
			return ErrInvalidPlugin
		}
		name := p.PluginName()
		if existing, ok := byName[name]; ok {
			if existing == p {
				return nil
			}
			return fmt.Errorf("plugin %q: %w", name, ErrPluginNameConflict)
		}
		byName[name] = p
		roots = append(roots, p)
		return nil
	}

	for _, name := range names {
		if _, ok := byName[name]; ok {
			continue
		}
		create, ok := c.registry.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("plugin %q: %w", name, ErrPluginNotFound)
		}
		if err := add(create()); err != nil {
			return nil, err
		}
	}
	for _, p := range instances {
		if err := add(p); err != nil {
			return nil, err
		}
	}

	const (
		unvisited = iota
		visiting
		done
	)
	marks := make(map[string]int)
	var order []Plugin
	var path []string

	var visit func(p Plugin) error
	visit = func(p Plugin) error {
		name := p.PluginName()
		switch marks[name] {
		case done:
			return nil
		case visiting:
			cycle := append(slices.Clone(path[slices.Index(path, name):]), name)
			return fmt.Errorf("%s: %w", strings.Join(cycle, " -> "), ErrCyclicDependency)
		}
		marks[name] = visiting
		path = append(path, name)

		if r, ok := p.(Requirer); ok {
			for _, dep := range r.Requires() {
				depPlugin, ok := byName[dep]
				if !ok {
					create, found := c.registry.Lookup(dep)
					if !found {
						return fmt.Errorf("plugin %q requires %q: %w", name, dep, ErrDependencyNotFound)
					}
					depPlugin = create()
					if depPlugin == nil || depPlugin.PluginName() != dep {
						return fmt.Errorf("plugin %q: %w", dep, ErrInvalidPlugin)
					}
					byName[dep] = depPlugin
				}
				if err := visit(depPlugin); err != nil {
					return err
				}
			}
		}

		path = path[:len(path)-1]
		marks[name] = done
		order = append(order, p)
		return nil
	}

	for _, p := range roots {
		if err := visit(p); err != nil {
			return nil, err
		}
	}
	return order, nil
}

// rollback destroys the given plugins in reverse order after a failed load.
func (c *Collection) rollback(initialized []Plugin) {
	for i := len(initialized) - 1; i >= 0; i-- {
		c.destroyPlugin(initialized[i])
	}
}

func (c *Collection) destroyPlugin(p Plugin) error {
	name := p.PluginName()
	var err error
	if d, ok := p.(Destroyer); ok {
		err = d.Destroy()
	}
	if state, _ := c.State(name); state != StateError {
		c.setState(name, StateDestroyed, err)
	}
	if err != nil {
		err = fmt.Errorf("destroy plugin %q: %w", name, err)
		c.emitEvent(CollectionEvent{Type: EventPluginError, Plugin: name, Error: err})
		return err
	}
	c.emitEvent(CollectionEvent{Type: EventPluginDestroyed, Plugin: name})
	return nil
}

// Destroy destroys all plugins in reverse init order. It is safe to call
// more than once.
func (c *Collection) Destroy() error {
	c.mu.Lock()
	if c.destroyed {
		c.mu.Unlock()
		return nil
	}
	c.destroyed = true
	var plugins []Plugin
	for i := len(c.loadOrder) - 1; i >= 0; i-- {
		e := c.plugins[c.loadOrder[i]]
		if e.state.IsUsable() {
			plugins = append(plugins, e.plugin)
		}
	}
	c.mu.Unlock()

	var destroyErrors []error
	for _, p := range plugins {
		if err := c.destroyPlugin(p); err != nil {
			destroyErrors = append(destroyErrors, err)
		}
	}

	if len(destroyErrors) > 0 {
		return fmt.Errorf("failed to destroy %d plugins: %w", len(destroyErrors), errors.Join(destroyErrors...))
	}
	return nil
}

// Get returns a loaded plugin by name.
func (c *Collection) Get(name string) (Plugin, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, exists := c.plugins[name]
	if !exists {
		return nil, false
	}
	return e.plugin, true
}

// Has reports whether a plugin with the given name is loaded.
func (c *Collection) Has(name string) bool {
	_, ok := c.Get(name)
	return ok
}

// Names returns the plugin names in init order.
func (c *Collection) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.loadOrder)
}

// List returns the plugins in init order.
func (c *Collection) List() []Plugin {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make([]Plugin, 0, len(c.loadOrder))
	for _, name := range c.loadOrder {
		result = append(result, c.plugins[name].plugin)
	}
	return result
}

// State returns the state of a plugin.
func (c *Collection) State(name string) (State, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.plugins[name]
	if !ok {
		return StateCreated, false
	}
	return e.state, true
}

// Count returns the number of loaded plugins.
func (c *Collection) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.plugins)
}

// Errors returns the plugins in error state with their errors.
func (c *Collection) Errors() map[string]error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	errs := make(map[string]error)
	for name, e := range c.plugins {
		if e.state == StateError && e.err != nil {
			errs[name] = e.err
		}
	}
	return errs
}

// Subscribe adds an event handler.
// Returns an unsubscribe function to remove the handler.
func (c *Collection) Subscribe(handler EventHandler) func() {
	if handler == nil {
		return func() {}
	}

	c.mu.Lock()
	c.eventHandlers = append(c.eventHandlers, handler)
	index := len(c.eventHandlers) - 1
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		// Set to nil instead of removing to avoid index shifting issues
		if index < len(c.eventHandlers) {
			c.eventHandlers[index] = nil
		}
	}
}

func (c *Collection) setState(name string, state State, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.plugins[name]; ok {
		e.state = state
		e.err = err
	}
}

func (c *Collection) fail(name string, err error) {
	c.setState(name, StateError, err)
	c.emitEvent(CollectionEvent{Type: EventPluginError, Plugin: name, Error: err})
}

// emitEvent sends an event to all handlers.
// Handlers are called outside any locks and panics are recovered.
func (c *Collection) emitEvent(event CollectionEvent) {
	c.mu.RLock()
	handlers := make([]EventHandler, len(c.eventHandlers))
	copy(handlers, c.eventHandlers)
	c.mu.RUnlock()

	for _, handler := range handlers {
		if handler == nil {
			continue
		}
		func() {
			defer func() {
				recover() // Ignore panics from handlers
			}()
			handler(event)
		}()
	}
}
