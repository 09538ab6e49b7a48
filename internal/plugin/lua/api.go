package lua

import (
	"context"

	"github.com/sirupsen/logrus"
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/richedit/internal/command"
	"github.com/dshills/richedit/internal/engine/conversion"
	"github.com/dshills/richedit/internal/engine/model"
	"github.com/dshills/richedit/internal/engine/view"
	"github.com/dshills/richedit/internal/plugin"
)

// api implements the richedit module for one script.
type api struct {
	host  plugin.Host
	state *State
	log   *logrus.Entry

	// err is the first Go error raised into Lua; it keeps the sentinel
	// reachable through errors.Is after the script fails.
	err error
}

func newAPI(host plugin.Host, state *State, log *logrus.Entry) *api {
	return &api{host: host, state: state, log: log}
}

func (a *api) module() *lua.LTable {
	L := a.state.L
	mod := L.NewTable()

	L.SetField(mod, "schema", L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"register":      a.schemaRegister,
		"extend":        a.schemaExtend,
		"is_registered": a.schemaIsRegistered,
	}))
	L.SetField(mod, "conversion", L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"element_to_element":     a.elementToElement,
		"attribute_to_attribute": a.attributeToAttribute,
	}))
	L.SetField(mod, "commands", L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"add":     a.commandsAdd,
		"execute": a.commandsExecute,
		"has":     a.commandsHas,
	}))
	L.SetField(mod, "t", L.NewFunction(a.translate))
	L.SetField(mod, "log", L.NewFunction(a.logMessage))
	L.SetField(mod, "editor_id", lua.LString(a.host.ID()))
	return mod
}

// raise records err and raises it as a Lua error.
func (a *api) raise(L *lua.LState, err error) int {
	if a.err == nil {
		a.err = err
	}
	L.RaiseError("%s", err.Error())
	return 0
}

// schema.register(name, def)
func (a *api) schemaRegister(L *lua.LState) int {
	name := L.CheckString(1)
	def := a.schemaDefinition(L.OptTable(2, L.NewTable()))
	if err := a.host.Model().Schema.Register(name, def); err != nil {
		return a.raise(L, err)
	}
	return 0
}

// schema.extend(name, def)
func (a *api) schemaExtend(L *lua.LState) int {
	name := L.CheckString(1)
	def := a.schemaDefinition(L.CheckTable(2))
	if err := a.host.Model().Schema.Extend(name, def); err != nil {
		return a.raise(L, err)
	}
	return 0
}

// schema.is_registered(name) -> bool
func (a *api) schemaIsRegistered(L *lua.LState) int {
	L.Push(lua.LBool(a.host.Model().Schema.IsRegistered(L.CheckString(1))))
	return 1
}

func (a *api) schemaDefinition(t *lua.LTable) model.SchemaItemDefinition {
	m, _ := a.state.Bridge().ToGoValue(t).(map[string]any)
	flag := func(key string) bool {
		b, _ := m[key].(bool)
		return b
	}
	inheritAll, _ := m["inheritAllFrom"].(string)
	return model.SchemaItemDefinition{
		IsObject:          flag("isObject"),
		IsInline:          flag("isInline"),
		IsBlock:           flag("isBlock"),
		IsLimit:           flag("isLimit"),
		AllowIn:           StringList(m["allowIn"]),
		AllowWhere:        StringList(m["allowWhere"]),
		AllowChildren:     StringList(m["allowChildren"]),
		AllowContentOf:    StringList(m["allowContentOf"]),
		AllowAttributes:   StringList(m["allowAttributes"]),
		AllowAttributesOf: StringList(m["allowAttributesOf"]),
		InheritTypesFrom:  StringList(m["inheritTypesFrom"]),
		InheritAllFrom:    inheritAll,
	}
}

// viewSpec is the view side of an element_to_element call: either an
// element name or a table with name, classes and attributes.
type viewSpec struct {
	name    string
	classes []string
	attrs   map[string]string
}

func (a *api) viewSpec(L *lua.LState, n int) viewSpec {
	switch v := L.Get(n).(type) {
	case lua.LString:
		return viewSpec{name: string(v)}
	case *lua.LTable:
		m, _ := a.state.Bridge().ToGoValue(v).(map[string]any)
		spec := viewSpec{classes: StringList(m["classes"])}
		spec.name, _ = m["name"].(string)
		if attrs, ok := m["attributes"].(map[string]any); ok {
			spec.attrs = make(map[string]string, len(attrs))
			for k, val := range attrs {
				if s, ok := val.(string); ok {
					spec.attrs[k] = s
				}
			}
		}
		if spec.name == "" {
			L.ArgError(n, "view name is required")
		}
		return spec
	default:
		L.ArgError(n, "view must be a string or a table")
		return viewSpec{}
	}
}

// conversion.element_to_element(group, model, view [, priority])
func (a *api) elementToElement(L *lua.LState) int {
	group := L.CheckString(1)
	modelName := L.CheckString(2)
	spec := a.viewSpec(L, 3)

	cfg := conversion.ElementToElementConfig{
		Model:    modelName,
		View:     spec.name,
		Priority: L.OptString(4, ""),
	}
	if len(spec.classes) > 0 || len(spec.attrs) > 0 {
		cfg.ViewPattern = &view.Pattern{Name: spec.name, Classes: spec.classes, Attributes: spec.attrs}
		cfg.CreateView = func(_ *model.Element, d *conversion.DowncastAPI) *view.Element {
			var el *view.Element
			if view.IsVoidElement(spec.name) {
				el = d.Writer.CreateEmptyElement(spec.name, spec.attrs)
			} else {
				el = d.Writer.CreateContainerElement(spec.name, spec.attrs)
			}
			d.Writer.AddClass(el, spec.classes...)
			return el
		}
	}

	if err := a.host.Conversion().For(group).ElementToElement(cfg).Err(); err != nil {
		return a.raise(L, err)
	}
	return 0
}

// conversion.attribute_to_attribute(group, { model=, key=, view=, view_key= })
func (a *api) attributeToAttribute(L *lua.LState) int {
	group := L.CheckString(1)
	m, _ := a.state.Bridge().ToGoValue(L.CheckTable(2)).(map[string]any)
	str := func(key string) string {
		s, _ := m[key].(string)
		return s
	}
	cfg := conversion.AttributeToAttributeConfig{
		Model:    str("model"),
		Key:      str("key"),
		View:     str("view"),
		ViewKey:  str("view_key"),
		Priority: str("priority"),
	}
	if err := a.host.Conversion().For(group).AttributeToAttribute(cfg).Err(); err != nil {
		return a.raise(L, err)
	}
	return 0
}

// scriptCommand runs a Lua function when executed.
type scriptCommand struct {
	command.Base
	state *State
	fn    *lua.LFunction
}

func (c *scriptCommand) Execute(args ...any) (any, error) {
	return c.ExecuteContext(context.Background(), args...)
}

// ExecuteContext implements command.ContextCommand. Called from the
// script's own commands.execute it reuses the state already held.
func (c *scriptCommand) ExecuteContext(ctx context.Context, args ...any) (any, error) {
	results, err := c.state.CallFunctionContext(ctx, c.fn, args...)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

// commands.add(name, fn)
func (a *api) commandsAdd(L *lua.LState) int {
	name := L.CheckString(1)
	fn := L.CheckFunction(2)
	if err := a.host.Commands().Add(name, &scriptCommand{state: a.state, fn: fn}); err != nil {
		return a.raise(L, err)
	}
	return 0
}

// commands.execute(name, ...) -> result
func (a *api) commandsExecute(L *lua.LState) int {
	name := L.CheckString(1)
	args := make([]any, 0, L.GetTop()-1)
	for i := 2; i <= L.GetTop(); i++ {
		args = append(args, a.state.Bridge().ToGoValue(L.Get(i)))
	}
	ctx := a.state.withHeld(L.Context())
	result, err := a.host.Commands().ExecuteContext(ctx, name, args...)
	if err != nil {
		return a.raise(L, err)
	}
	L.Push(a.state.Bridge().ToLuaValue(result))
	return 1
}

// commands.has(name) -> bool
func (a *api) commandsHas(L *lua.LState) int {
	L.Push(lua.LBool(a.host.Commands().Has(L.CheckString(1))))
	return 1
}

// t(msg, ...) -> translated string
func (a *api) translate(L *lua.LState) int {
	msg := L.CheckString(1)
	args := make([]any, 0, L.GetTop()-1)
	for i := 2; i <= L.GetTop(); i++ {
		args = append(args, a.state.Bridge().ToGoValue(L.Get(i)))
	}
	L.Push(lua.LString(a.host.Locale().T(msg, args...)))
	return 1
}

// log(level, msg)
func (a *api) logMessage(L *lua.LState) int {
	level, err := logrus.ParseLevel(L.CheckString(1))
	if err != nil {
		L.ArgError(1, err.Error())
		return 0
	}
	a.log.Log(level, L.CheckString(2))
	return 0
}
