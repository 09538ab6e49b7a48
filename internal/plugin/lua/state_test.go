package lua

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	lua "github.com/yuin/gopher-lua"
)

func TestStateSandbox(t *testing.T) {
	s := NewState()
	defer s.Close()

	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "module", "io", "os", "debug", "package"} {
		assert.Equal(t, lua.LNil, s.GetGlobal(name), name)
	}

	require.NoError(t, s.DoString(`local s = require("string"); assert(s.upper("a") == "A")`))

	err := s.DoString(`require("os")`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `module "os" is not available`)
}

func TestStatePrintRedirect(t *testing.T) {
	var lines []string
	s := NewState(WithPrint(func(msg string) { lines = append(lines, msg) }))
	defer s.Close()

	require.NoError(t, s.DoString(`print("hello", 1, true)`))
	assert.Equal(t, []string{"hello\t1\ttrue"}, lines)
}

func TestStateTimeout(t *testing.T) {
	s := NewState(WithExecutionTimeout(50 * time.Millisecond))
	defer s.Close()

	err := s.DoString(`while true do end`)
	assert.ErrorIs(t, err, ErrExecutionTimeout)

	// The state stays usable after a timeout.
	require.NoError(t, s.DoString(`x = 1`))
}

func TestStateProvideAndReentrantCall(t *testing.T) {
	s := NewState()
	defer s.Close()

	mod := s.L.NewTable()
	s.L.SetField(mod, "call", s.L.NewFunction(func(L *lua.LState) int {
		fn := L.CheckFunction(1)
		results, err := s.CallFunctionContext(s.withHeld(L.Context()), fn, int64(20))
		if err != nil {
			L.RaiseError("%v", err)
		}
		L.Push(s.Bridge().ToLuaValue(results[0]))
		return 1
	}))
	s.Provide("host", mod)

	require.NoError(t, s.DoString(`
		local host = require("host")
		result = host.call(function(n) return n + 1 end)
	`))
	assert.Equal(t, lua.LNumber(21), s.GetGlobal("result"))
}

func TestStateConcurrentCalls(t *testing.T) {
	s := NewState()
	defer s.Close()

	require.NoError(t, s.DoString(`counter = 0`))

	const workers, calls = 8, 50
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < calls; j++ {
				assert.NoError(t, s.DoString(`counter = counter + 1`))
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, lua.LNumber(workers*calls), s.GetGlobal("counter"))
}

func TestStateCallFunctionContext(t *testing.T) {
	s := NewState()
	defer s.Close()

	require.NoError(t, s.DoString(`function inc(n) return n + 1 end`))
	fn, ok := s.GetGlobal("inc").(*lua.LFunction)
	require.True(t, ok)

	// A context held by another state does not bypass the lock.
	other := NewState()
	defer other.Close()
	results, err := s.CallFunctionContext(other.withHeld(context.Background()), fn, int64(1))
	require.NoError(t, err)
	assert.Equal(t, []any{int64(2)}, results)

	results, err = s.CallFunctionContext(context.Background(), fn, int64(2))
	require.NoError(t, err)
	assert.Equal(t, []any{int64(3)}, results)

	assert.True(t, s.heldIn(s.withHeld(nil)))
	assert.False(t, s.heldIn(nil))
	assert.False(t, s.heldIn(other.withHeld(context.Background())))
}

func TestStateCallFunction(t *testing.T) {
	s := NewState()
	defer s.Close()

	require.NoError(t, s.DoString(`function pair(a, b) return b, a end`))
	fn, ok := s.GetGlobal("pair").(*lua.LFunction)
	require.True(t, ok)

	results, err := s.CallFunction(fn, "a", int64(2))
	require.NoError(t, err)
	assert.Equal(t, []any{int64(2), "a"}, results)
}

func TestStateClosed(t *testing.T) {
	s := NewState()
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	assert.True(t, s.IsClosed())
	assert.ErrorIs(t, s.DoString(`x = 1`), ErrStateClosed)
	assert.Equal(t, lua.LNil, s.GetGlobal("x"))
}

func TestBridgeConversions(t *testing.T) {
	s := NewState()
	defer s.Close()
	b := s.Bridge()

	require.NoError(t, s.DoString(`
		list = { "a", "b" }
		dict = { name = "img", nested = { 1, 2.5 }, flag = false }
		empty = {}
	`))

	assert.Equal(t, []any{"a", "b"}, b.ToGoValue(s.GetGlobal("list")))
	assert.Equal(t, map[string]any{
		"name":   "img",
		"nested": []any{int64(1), 2.5},
		"flag":   false,
	}, b.ToGoValue(s.GetGlobal("dict")))
	assert.Equal(t, map[string]any{}, b.ToGoValue(s.GetGlobal("empty")))

	lv := b.ToLuaValue(map[string]any{"src": "a.png", "sizes": []string{"100vw"}, "n": uint8(3)})
	back := b.ToGoValue(lv)
	assert.Equal(t, map[string]any{"src": "a.png", "sizes": []any{"100vw"}, "n": int64(3)}, back)

	assert.Equal(t, lua.LNil, b.ToLuaValue(nil))
}

func TestStringList(t *testing.T) {
	assert.Nil(t, StringList(nil))
	assert.Equal(t, []string{"a"}, StringList("a"))
	assert.Equal(t, []string{"a", "b"}, StringList([]any{"a", int64(1), "b"}))
	assert.Nil(t, StringList(map[string]any{}))
}
