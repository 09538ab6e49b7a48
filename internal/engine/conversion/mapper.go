package conversion

import (
	"github.com/dshills/richedit/internal/engine/model"
	"github.com/dshills/richedit/internal/engine/view"
)

// Mapper binds model nodes to the view nodes produced for them.
type Mapper struct {
	modelToView map[model.Node]view.Node
	viewToModel map[view.Node]model.Node
}

// NewMapper creates an empty mapper.
func NewMapper() *Mapper {
	return &Mapper{
		modelToView: make(map[model.Node]view.Node),
		viewToModel: make(map[view.Node]model.Node),
	}
}

// Bind associates a model node with a view node, replacing previous
// bindings of either side.
func (m *Mapper) Bind(modelNode model.Node, viewNode view.Node) {
	m.UnbindModel(modelNode)
	if old, ok := m.viewToModel[viewNode]; ok {
		delete(m.modelToView, old)
	}
	m.modelToView[modelNode] = viewNode
	m.viewToModel[viewNode] = modelNode
}

// UnbindModel removes the binding of modelNode and of all its descendants.
func (m *Mapper) UnbindModel(modelNode model.Node) {
	if v, ok := m.modelToView[modelNode]; ok {
		delete(m.viewToModel, v)
		delete(m.modelToView, modelNode)
	}
	if el, ok := modelNode.(*model.Element); ok {
		for _, child := range el.Children() {
			m.UnbindModel(child)
		}
	}
}

// ToViewNode returns the view node bound to modelNode.
func (m *Mapper) ToViewNode(modelNode model.Node) view.Node {
	return m.modelToView[modelNode]
}

// ToViewElement returns the view element bound to a model element.
func (m *Mapper) ToViewElement(modelNode model.Node) *view.Element {
	el, _ := m.modelToView[modelNode].(*view.Element)
	return el
}

// ToModelElement returns the model element bound to a view element.
func (m *Mapper) ToModelElement(viewEl *view.Element) *model.Element {
	el, _ := m.viewToModel[viewEl].(*model.Element)
	return el
}

// ToViewPosition maps a model position to the view. The position lands after
// the view counterpart of the closest preceding mapped sibling, or at the
// start of the mapped parent.
func (m *Mapper) ToViewPosition(pos model.Position) (view.Position, bool) {
	parent := m.ToViewElement(pos.Parent)
	if parent == nil {
		return view.Position{}, false
	}
	for i := pos.Offset - 1; i >= 0; i-- {
		v, ok := m.modelToView[pos.Parent.Child(i)]
		if !ok {
			continue
		}
		if n := childOf(parent, v); n != nil {
			return view.PositionAfter(n), true
		}
	}
	return view.PositionAt(parent, 0), true
}

// Len returns the number of bindings.
func (m *Mapper) Len() int { return len(m.modelToView) }

// Clear removes all bindings.
func (m *Mapper) Clear() {
	clear(m.modelToView)
	clear(m.viewToModel)
}

// childOf returns the ancestor-or-self of n whose parent is parent.
func childOf(parent *view.Element, n view.Node) view.Node {
	for n != nil {
		p := n.Parent()
		if p == parent {
			return n
		}
		if p == nil {
			return nil
		}
		n = p
	}
	return nil
}
