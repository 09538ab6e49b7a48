package model

import (
	"slices"

	"github.com/dshills/richedit/internal/event"
)

// MainRootName is the name of the default document root.
const MainRootName = "main"

// ChangeType identifies the kind of a recorded change.
type ChangeType int

const (
	// ChangeInsert records a node inserted into the document.
	ChangeInsert ChangeType = iota
	// ChangeRemove records a node removed from the document.
	ChangeRemove
	// ChangeAttribute records an attribute set, changed or removed.
	ChangeAttribute
)

// String returns a string representation of the change type.
func (t ChangeType) String() string {
	switch t {
	case ChangeInsert:
		return "insert"
	case ChangeRemove:
		return "remove"
	case ChangeAttribute:
		return "attribute"
	default:
		return "unknown"
	}
}

// Change is a single recorded document mutation.
type Change struct {
	Type ChangeType
	Node Node

	// Parent and Index locate the node at the time of an insert or remove.
	Parent *Element
	Index  int

	// Key, OldValue and NewValue describe attribute changes. A nil value
	// means the attribute is absent.
	Key      string
	OldValue any
	NewValue any
}

// ChangeEvent is the payload of the document "change" event.
type ChangeEvent struct {
	Changes []Change
	Version int
}

// Document owns the model roots and the selection.
//
// The embedded emitter fires:
//
//	change      after every outermost change block with a ChangeEvent
//	selection   when the selection is updated
type Document struct {
	*event.Emitter

	model     *Model
	roots     map[string]*Element
	rootOrder []string
	selection Selection
	version   int
}

func newDocument(m *Model) *Document {
	d := &Document{
		model: m,
		roots: make(map[string]*Element),
	}
	d.Emitter = event.NewEmitterFor(d)
	d.CreateRoot(MainRootName)
	return d
}

// CreateRoot creates (or returns) the root with the given name.
func (d *Document) CreateRoot(name string) *Element {
	if root, ok := d.roots[name]; ok {
		return root
	}
	root := NewElement(RootName, nil)
	root.doc = d
	root.rootName = name
	d.roots[name] = root
	d.rootOrder = append(d.rootOrder, name)
	if name == MainRootName {
		d.selection.setTo(PositionAt(root, 0), PositionAt(root, 0))
	}
	return root
}

// Root returns the root with the given name, or nil.
func (d *Document) Root(name string) *Element {
	return d.roots[name]
}

// MainRoot returns the "main" root.
func (d *Document) MainRoot() *Element {
	return d.roots[MainRootName]
}

// RootNames returns the root names in creation order.
func (d *Document) RootNames() []string {
	return slices.Clone(d.rootOrder)
}

// Selection returns the document selection.
func (d *Document) Selection() *Selection {
	return &d.selection
}

// Version returns the number of change blocks that modified the document.
func (d *Document) Version() int {
	return d.version
}
