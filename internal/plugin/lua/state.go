package lua

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"
)

// DefaultExecutionTimeout bounds every call into Lua.
const DefaultExecutionTimeout = 5 * time.Second

// State wraps gopher-lua with a sandbox and execution timeouts.
//
// gopher-lua's LState is not goroutine-safe. The mutex serializes every
// call from Go. A Go function invoked by Lua that needs to call back into
// the same state passes a context from withHeld to CallFunctionContext.
type State struct {
	L *lua.LState

	mu sync.Mutex

	executionTimeout time.Duration

	sandbox *Sandbox
	bridge  *Bridge

	closed bool
}

// StateOption configures a State.
type StateOption func(*State)

// WithExecutionTimeout sets the execution timeout for Lua calls.
// Zero disables the timeout.
func WithExecutionTimeout(d time.Duration) StateOption {
	return func(s *State) {
		s.executionTimeout = d
	}
}

// WithPrint redirects the Lua print function.
func WithPrint(fn func(msg string)) StateOption {
	return func(s *State) {
		s.sandbox.SetPrint(fn)
	}
}

// NewState creates a new sandboxed Lua state.
func NewState(opts ...StateOption) *State {
	L := lua.NewState(lua.Options{
		SkipOpenLibs: true, // We'll open selectively
	})
	openSafeLibraries(L)

	state := &State{
		L:                L,
		executionTimeout: DefaultExecutionTimeout,
		sandbox:          NewSandbox(L),
		bridge:           NewBridge(L),
	}
	state.sandbox.Install()

	for _, opt := range opts {
		opt(state)
	}
	return state
}

// openSafeLibraries opens only safe Lua standard libraries.
func openSafeLibraries(L *lua.LState) {
	// Open base library (print, type, pairs, ipairs, etc.)
	lua.OpenBase(L)

	// Open safe libraries
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	// Note: These are intentionally NOT opened:
	// - io (file system access)
	// - os (system calls, execute)
	// - debug (can bypass sandbox)
	// - package (can load arbitrary modules)
}

// DoFile executes a Lua file.
func (s *State) DoFile(path string) error {
	return s.run(func() error {
		return s.L.DoFile(path)
	})
}

// DoString executes a Lua string.
func (s *State) DoString(code string) error {
	return s.run(func() error {
		return s.L.DoString(code)
	})
}

// CallFunction calls a Lua function with Go arguments and returns its
// results as Go values.
func (s *State) CallFunction(fn *lua.LFunction, args ...any) ([]any, error) {
	var results []any
	err := s.run(func() error {
		var err error
		results, err = s.bridge.CallFunc(fn, args...)
		return err
	})
	return results, err
}

// CallFunctionContext is CallFunction for callers that may already be
// running inside this state. When ctx came from withHeld on s the call runs
// on the held state without taking the lock again.
func (s *State) CallFunctionContext(ctx context.Context, fn *lua.LFunction, args ...any) ([]any, error) {
	if !s.heldIn(ctx) {
		return s.CallFunction(fn, args...)
	}
	var results []any
	err := s.doWithRecovery(func() error {
		var err error
		results, err = s.bridge.CallFunc(fn, args...)
		return err
	})
	return results, err
}

type heldKey struct{}

// withHeld marks ctx as running inside s. Only Go functions called by Lua
// on s may create it, and it must not outlive that call.
func (s *State) withHeld(ctx context.Context) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, heldKey{}, s)
}

func (s *State) heldIn(ctx context.Context) bool {
	if ctx == nil {
		return false
	}
	held, _ := ctx.Value(heldKey{}).(*State)
	return held == s
}

// run executes fn under the state lock and the execution timeout.
func (s *State) run(fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStateClosed
	}

	if s.executionTimeout <= 0 {
		return s.doWithRecovery(fn)
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.executionTimeout)
	defer cancel()
	s.L.SetContext(ctx)
	defer s.L.RemoveContext()

	err := s.doWithRecovery(fn)
	if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w after %s: %v", ErrExecutionTimeout, s.executionTimeout, err)
	}
	return err
}

// doWithRecovery executes a function with panic recovery.
func (s *State) doWithRecovery(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()
	return fn()
}

// Provide makes a module available to require and as a global.
func (s *State) Provide(name string, mod *lua.LTable) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.sandbox.Provide(name, mod)
	s.L.SetGlobal(name, mod)
}

// GetGlobal returns a global variable value.
func (s *State) GetGlobal(name string) lua.LValue {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return lua.LNil
	}
	return s.L.GetGlobal(name)
}

// Bridge returns the value converter bound to this state.
func (s *State) Bridge() *Bridge {
	return s.bridge
}

// IsClosed returns true if the state has been closed.
func (s *State) IsClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Close releases all resources associated with the Lua state.
// After Close is called, all other methods will return ErrStateClosed.
func (s *State) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}

	s.L.Close()
	s.closed = true
	return nil
}
