package model

import (
	"maps"
	"slices"
	"strings"
)

// TextName is the schema name used for text nodes.
const TextName = "$text"

// Node is an element or a text node in the model tree.
type Node interface {
	// Name returns the schema name of the node.
	Name() string

	// Parent returns the parent element, or nil for detached nodes and roots.
	Parent() *Element

	// Index returns the position of the node in its parent, or -1.
	Index() int

	// GetAttribute returns the attribute value and whether it is set.
	GetAttribute(key string) (any, bool)

	// HasAttribute reports whether the attribute is set.
	HasAttribute(key string) bool

	// AttributeKeys returns the sorted attribute keys.
	AttributeKeys() []string

	// Attributes returns a copy of all attributes.
	Attributes() map[string]any

	// Root returns the top-most ancestor (or the node itself).
	Root() Node

	// IsAttached reports whether the node belongs to a document root.
	IsAttached() bool

	setParent(parent *Element)
	attributeMap() map[string]any
}

type nodeBase struct {
	parent *Element
	attrs  map[string]any
}

func newNodeBase(attrs map[string]any) nodeBase {
	b := nodeBase{attrs: make(map[string]any, len(attrs))}
	for k, v := range attrs {
		if v != nil {
			b.attrs[k] = v
		}
	}
	return b
}

func (b *nodeBase) Parent() *Element { return b.parent }

func (b *nodeBase) GetAttribute(key string) (any, bool) {
	v, ok := b.attrs[key]
	return v, ok
}

func (b *nodeBase) HasAttribute(key string) bool {
	_, ok := b.attrs[key]
	return ok
}

func (b *nodeBase) AttributeKeys() []string {
	return slices.Sorted(maps.Keys(b.attrs))
}

func (b *nodeBase) Attributes() map[string]any {
	return maps.Clone(b.attrs)
}

func (b *nodeBase) setParent(parent *Element) { b.parent = parent }

func (b *nodeBase) attributeMap() map[string]any { return b.attrs }

// Element is a named model node with children.
type Element struct {
	nodeBase
	name     string
	children []Node

	// Set on document roots only.
	doc      *Document
	rootName string
}

// NewElement creates a detached element. Prefer Writer.CreateElement inside
// change blocks; this constructor exists for building fragments and tests.
func NewElement(name string, attrs map[string]any, children ...Node) *Element {
	e := &Element{nodeBase: newNodeBase(attrs), name: name}
	for _, child := range children {
		e.appendChild(child)
	}
	return e
}

// Name implements Node.
func (e *Element) Name() string { return e.name }

// Index implements Node.
func (e *Element) Index() int { return indexOf(e) }

// Root implements Node.
func (e *Element) Root() Node { return rootOf(e) }

// IsAttached implements Node.
func (e *Element) IsAttached() bool { return isAttached(e) }

// IsRoot reports whether the element is a document root.
func (e *Element) IsRoot() bool { return e.doc != nil }

// RootName returns the document root name ("main") for roots.
func (e *Element) RootName() string { return e.rootName }

// Document returns the owning document for roots and attached nodes.
func (e *Element) Document() *Document {
	if r, ok := e.Root().(*Element); ok {
		return r.doc
	}
	return nil
}

// ChildCount returns the number of children.
func (e *Element) ChildCount() int { return len(e.children) }

// Child returns the child at index, or nil when out of range.
func (e *Element) Child(index int) Node {
	if index < 0 || index >= len(e.children) {
		return nil
	}
	return e.children[index]
}

// Children returns a copy of the child list.
func (e *Element) Children() []Node {
	return slices.Clone(e.children)
}

// IsEmpty reports whether the element has no children.
func (e *Element) IsEmpty() bool { return len(e.children) == 0 }

// Descendants returns every node below the element in document order.
func (e *Element) Descendants() []Node {
	var out []Node
	for _, child := range e.children {
		out = append(out, child)
		if el, ok := child.(*Element); ok {
			out = append(out, el.Descendants()...)
		}
	}
	return out
}

// FindAncestor returns the closest ancestor (or the element itself) named name.
func (e *Element) FindAncestor(name string) *Element {
	for el := e; el != nil; el = el.parent {
		if el.name == name {
			return el
		}
	}
	return nil
}

// Text returns the concatenated data of all descendant text nodes.
func (e *Element) Text() string {
	var sb strings.Builder
	for _, n := range e.Descendants() {
		if t, ok := n.(*Text); ok {
			sb.WriteString(t.data)
		}
	}
	return sb.String()
}

func (e *Element) appendChild(child Node) {
	e.insertChild(len(e.children), child)
}

func (e *Element) insertChild(index int, child Node) {
	e.children = slices.Insert(e.children, index, child)
	child.setParent(e)
}

func (e *Element) removeChild(index int) Node {
	child := e.children[index]
	e.children = slices.Delete(e.children, index, index+1)
	child.setParent(nil)
	return child
}

// Text is a model text node.
type Text struct {
	nodeBase
	data string
}

// NewText creates a detached text node.
func NewText(data string, attrs map[string]any) *Text {
	return &Text{nodeBase: newNodeBase(attrs), data: data}
}

// Name implements Node.
func (t *Text) Name() string { return TextName }

// Data returns the text content.
func (t *Text) Data() string { return t.data }

// Index implements Node.
func (t *Text) Index() int { return indexOf(t) }

// Root implements Node.
func (t *Text) Root() Node { return rootOf(t) }

// IsAttached implements Node.
func (t *Text) IsAttached() bool { return isAttached(t) }

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

func rootOf(n Node) Node {
	var top Node = n
	for p := n.Parent(); p != nil; p = p.parent {
		top = p
	}
	return top
}

func isAttached(n Node) bool {
	root, ok := rootOf(n).(*Element)
	return ok && root.doc != nil
}

// Ancestors returns the ancestors of n, closest first.
func Ancestors(n Node) []*Element {
	var out []*Element
	for p := n.Parent(); p != nil; p = p.parent {
		out = append(out, p)
	}
	return out
}
