package command

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"sync"
	"time"
)

// ExecuteObserver is notified after every execution attempt of a
// registered command.
type ExecuteObserver func(name string, duration time.Duration, err error)

// Collection holds the commands of one editor.
type Collection struct {
	mu       sync.RWMutex
	commands map[string]Command
	observer ExecuteObserver
}

// NewCollection creates an empty collection.
func NewCollection() *Collection {
	return &Collection{
		commands: make(map[string]Command),
	}
}

// SetObserver installs an execution observer.
func (c *Collection) SetObserver(obs ExecuteObserver) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observer = obs
}

// Add registers cmd under name. Adding a name twice fails with
// ErrCommandExists.
func (c *Collection) Add(name string, cmd Command) error {
	if name == "" || cmd == nil {
		return fmt.Errorf("add %q: %w", name, ErrInvalidCommand)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.commands[name]; exists {
		return fmt.Errorf("add %q: %w", name, ErrCommandExists)
	}
	c.commands[name] = cmd
	return nil
}

// Get returns the command registered under name.
func (c *Collection) Get(name string) (Command, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	cmd, ok := c.commands[name]
	return cmd, ok
}

// Has reports whether name is registered.
func (c *Collection) Has(name string) bool {
	_, ok := c.Get(name)
	return ok
}

// Names returns the registered names in sorted order.
func (c *Collection) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.commands))
	for name := range c.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Count returns the number of registered commands.
func (c *Collection) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.commands)
}

// Execute refreshes and runs the named command.
func (c *Collection) Execute(name string, args ...any) (any, error) {
	return c.ExecuteContext(context.Background(), name, args...)
}

// ExecuteContext is Execute with a context handed to commands that
// implement ContextCommand.
func (c *Collection) ExecuteContext(ctx context.Context, name string, args ...any) (any, error) {
	c.mu.RLock()
	cmd, ok := c.commands[name]
	obs := c.observer
	c.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("execute %q: %w", name, ErrCommandNotFound)
	}

	start := time.Now()
	result, err := executeWithRecovery(ctx, name, cmd, args)
	if obs != nil {
		obs(name, time.Since(start), err)
	}
	return result, err
}

// RefreshAll refreshes every command.
func (c *Collection) RefreshAll() {
	c.mu.RLock()
	cmds := make([]Command, 0, len(c.commands))
	for _, cmd := range c.commands {
		cmds = append(cmds, cmd)
	}
	c.mu.RUnlock()

	for _, cmd := range cmds {
		cmd.Refresh()
	}
}

// Destroy destroys commands that hold resources and empties the collection.
func (c *Collection) Destroy() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, cmd := range c.commands {
		if d, ok := cmd.(Destroyer); ok {
			d.Destroy()
		}
	}
	c.commands = make(map[string]Command)
}

func executeWithRecovery(ctx context.Context, name string, cmd Command, args []any) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			stack := make([]byte, 4096)
			n := runtime.Stack(stack, false)
			result = nil
			err = fmt.Errorf("execute %q: %w: %v\n%s", name, ErrCommandPanic, r, stack[:n])
		}
	}()

	cmd.Refresh()
	if !cmd.IsEnabled() {
		return nil, fmt.Errorf("execute %q: %w", name, ErrCommandDisabled)
	}
	if cc, ok := cmd.(ContextCommand); ok {
		return cc.ExecuteContext(ctx, args...)
	}
	return cmd.Execute(args...)
}
