package lua

import (
	"strings"

	lua "github.com/yuin/gopher-lua"
)

// safeModules are the builtin libraries require may return.
var safeModules = map[string]bool{
	lua.TabLibName:    true,
	lua.StringLibName: true,
	lua.MathLibName:   true,
}

// Sandbox restricts Lua execution to safe operations.
type Sandbox struct {
	L *lua.LState

	modules map[string]*lua.LTable
	print   func(msg string)
}

// NewSandbox creates a new sandbox for the Lua state.
func NewSandbox(L *lua.LState) *Sandbox {
	return &Sandbox{
		L:       L,
		modules: make(map[string]*lua.LTable),
	}
}

// Install sets up the sandbox restrictions.
func (s *Sandbox) Install() {
	// Remove functions that load code from files or strings
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "module"} {
		s.L.SetGlobal(name, lua.LNil)
	}

	s.installSafePrint()
	s.installSafeRequire()
}

// SetPrint redirects print output. A nil fn discards it.
func (s *Sandbox) SetPrint(fn func(msg string)) {
	s.print = fn
}

// installSafePrint replaces print with a version that goes through SetPrint.
func (s *Sandbox) installSafePrint() {
	s.L.SetGlobal("print", s.L.NewFunction(func(L *lua.LState) int {
		n := L.GetTop()
		parts := make([]string, 0, n)
		for i := 1; i <= n; i++ {
			parts = append(parts, L.ToStringMeta(L.Get(i)).String())
		}
		if s.print != nil {
			s.print(strings.Join(parts, "\t"))
		}
		return 0
	}))
}

// installSafeRequire replaces require with a version that only returns the
// safe builtin libraries and modules registered through Provide. Nothing
// is ever loaded from disk.
func (s *Sandbox) installSafeRequire() {
	s.L.SetGlobal("require", s.L.NewFunction(func(L *lua.LState) int {
		name := L.CheckString(1)

		if safeModules[name] {
			L.Push(L.GetGlobal(name))
			return 1
		}
		if mod, ok := s.modules[name]; ok {
			L.Push(mod)
			return 1
		}

		L.RaiseError("module %q is not available", name)
		return 0
	}))
}

// Provide registers a module for require.
func (s *Sandbox) Provide(name string, mod *lua.LTable) {
	s.modules[name] = mod
}

// Modules returns the names of provided modules.
func (s *Sandbox) Modules() []string {
	names := make([]string, 0, len(s.modules))
	for name := range s.modules {
		names = append(names, name)
	}
	return names
}
