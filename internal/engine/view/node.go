package view

import (
	"maps"
	"slices"
	"strings"
)

// ElementKind classifies view elements.
type ElementKind int

const (
	// KindContainer is a regular element that may hold children.
	KindContainer ElementKind = iota
	// KindAttribute is a formatting wrapper (e.g. <strong>).
	KindAttribute
	// KindEmpty is a void element (e.g. <img>) that cannot hold children.
	KindEmpty
	// KindUI is an editing-only element ignored by upcasting.
	KindUI
	// KindRoot is the editable root of the editing view.
	KindRoot
	// KindFragment is a detached document fragment.
	KindFragment
)

// String returns a string representation of the kind.
func (k ElementKind) String() string {
	switch k {
	case KindContainer:
		return "container"
	case KindAttribute:
		return "attribute"
	case KindEmpty:
		return "empty"
	case KindUI:
		return "ui"
	case KindRoot:
		return "root"
	case KindFragment:
		return "fragment"
	default:
		return "unknown"
	}
}

// Node is a view element or text node.
type Node interface {
	Parent() *Element
	Index() int
	setParent(*Element)
}

// Element is a view element.
type Element struct {
	parent   *Element
	name     string
	kind     ElementKind
	attrs    map[string]string
	classes  []string
	styles   map[string]string
	children []Node
	custom   map[string]any
}

func newElement(kind ElementKind, name string, attrs map[string]string) *Element {
	e := &Element{
		name:   name,
		kind:   kind,
		attrs:  make(map[string]string),
		styles: make(map[string]string),
		custom: make(map[string]any),
	}
	for k, v := range attrs {
		e.setAttribute(k, v)
	}
	return e
}

// NewFragment creates an empty detached fragment.
func NewFragment() *Element {
	return newElement(KindFragment, "", nil)
}

// Name returns the element name.
func (e *Element) Name() string { return e.name }

// Kind returns the element kind.
func (e *Element) Kind() ElementKind { return e.kind }

// Parent implements Node.
func (e *Element) Parent() *Element { return e.parent }

// Index implements Node.
func (e *Element) Index() int { return indexOf(e) }

func (e *Element) setParent(p *Element) { e.parent = p }

// Is reports whether the element has the given name.
func (e *Element) Is(name string) bool { return e.name == name }

// CanHaveChildren reports whether children may be inserted.
func (e *Element) CanHaveChildren() bool {
	return e.kind != KindEmpty && e.kind != KindUI
}

// GetAttribute returns an attribute value. "class" and "style" are
// synthesized from the class list and style map.
func (e *Element) GetAttribute(key string) (string, bool) {
	switch key {
	case "class":
		if len(e.classes) == 0 {
			return "", false
		}
		return strings.Join(e.classes, " "), true
	case "style":
		if len(e.styles) == 0 {
			return "", false
		}
		return e.styleString(), true
	}
	v, ok := e.attrs[key]
	return v, ok
}

// HasAttribute reports whether key is set.
func (e *Element) HasAttribute(key string) bool {
	_, ok := e.GetAttribute(key)
	return ok
}

// AttributeKeys returns the attribute keys in sorted order, including
// "class" and "style" when present.
func (e *Element) AttributeKeys() []string {
	keys := slices.Collect(maps.Keys(e.attrs))
	if len(e.classes) > 0 {
		keys = append(keys, "class")
	}
	if len(e.styles) > 0 {
		keys = append(keys, "style")
	}
	slices.Sort(keys)
	return keys
}

// HasClass reports whether every given class is present.
func (e *Element) HasClass(classes ...string) bool {
	for _, c := range classes {
		if !slices.Contains(e.classes, c) {
			return false
		}
	}
	return true
}

// Classes returns the class list in insertion order.
func (e *Element) Classes() []string { return slices.Clone(e.classes) }

// GetStyle returns a style property.
func (e *Element) GetStyle(prop string) (string, bool) {
	v, ok := e.styles[prop]
	return v, ok
}

// Styles returns the style property names in sorted order.
func (e *Element) Styles() []string { return slices.Sorted(maps.Keys(e.styles)) }

// GetCustomProperty returns an editing-only property.
func (e *Element) GetCustomProperty(key string) (any, bool) {
	v, ok := e.custom[key]
	return v, ok
}

// ChildCount returns the number of children.
func (e *Element) ChildCount() int { return len(e.children) }

// Child returns the child at index, or nil.
func (e *Element) Child(index int) Node {
	if index < 0 || index >= len(e.children) {
		return nil
	}
	return e.children[index]
}

// Children returns a copy of the child list.
func (e *Element) Children() []Node { return slices.Clone(e.children) }

// FindDescendant returns the first descendant element (depth first)
// satisfying fn.
func (e *Element) FindDescendant(fn func(*Element) bool) *Element {
	for _, child := range e.children {
		el, ok := child.(*Element)
		if !ok {
			continue
		}
		if fn(el) {
			return el
		}
		if found := el.FindDescendant(fn); found != nil {
			return found
		}
	}
	return nil
}

// FindAncestor returns the closest ancestor satisfying fn.
func (e *Element) FindAncestor(fn func(*Element) bool) *Element {
	for p := e.parent; p != nil; p = p.parent {
		if fn(p) {
			return p
		}
	}
	return nil
}

func (e *Element) setAttribute(key, value string) {
	switch key {
	case "class":
		e.classes = nil
		for _, c := range strings.Fields(value) {
			e.addClass(c)
		}
	case "style":
		clear(e.styles)
		for _, decl := range strings.Split(value, ";") {
			prop, val, ok := strings.Cut(decl, ":")
			if !ok {
				continue
			}
			e.styles[strings.TrimSpace(prop)] = strings.TrimSpace(val)
		}
	default:
		e.attrs[key] = value
	}
}

func (e *Element) removeAttribute(key string) {
	switch key {
	case "class":
		e.classes = nil
	case "style":
		clear(e.styles)
	default:
		delete(e.attrs, key)
	}
}

func (e *Element) addClass(c string) {
	if c != "" && !slices.Contains(e.classes, c) {
		e.classes = append(e.classes, c)
	}
}

func (e *Element) styleString() string {
	props := slices.Sorted(maps.Keys(e.styles))
	parts := make([]string, 0, len(props))
	for _, p := range props {
		parts = append(parts, p+":"+e.styles[p])
	}
	return strings.Join(parts, ";")
}

func (e *Element) insertChild(index int, child Node) {
	e.children = slices.Insert(e.children, index, child)
	child.setParent(e)
}

func (e *Element) removeChild(index int) {
	child := e.children[index]
	e.children = slices.Delete(e.children, index, index+1)
	child.setParent(nil)
}

// Text is a view text node.
type Text struct {
	parent *Element
	data   string
}

// Data returns the text content.
func (t *Text) Data() string { return t.data }

// Parent implements Node.
func (t *Text) Parent() *Element { return t.parent }

// Index implements Node.
func (t *Text) Index() int { return indexOf(t) }

func (t *Text) setParent(p *Element) { t.parent = p }

func indexOf(n Node) int {
	p := n.Parent()
	if p == nil {
		return -1
	}
	for i, c := range p.children {
		if c == n {
			return i
		}
	}
	return -1
}

// Position points between two children of a view element.
type Position struct {
	Parent *Element
	Offset int
}

// PositionAt returns a position in parent at offset.
func PositionAt(parent *Element, offset int) Position {
	return Position{Parent: parent, Offset: offset}
}

// PositionBefore returns the position before node.
func PositionBefore(node Node) Position {
	return Position{Parent: node.Parent(), Offset: node.Index()}
}

// PositionAfter returns the position after node.
func PositionAfter(node Node) Position {
	return Position{Parent: node.Parent(), Offset: node.Index() + 1}
}
