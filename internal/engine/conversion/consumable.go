package conversion

import (
	"github.com/dshills/richedit/internal/engine/model"
	"github.com/dshills/richedit/internal/engine/view"
)

// Consumable kinds used by downcast converters.
const (
	ConsumeInsert = "insert"
	ConsumeRemove = "remove"
)

// AttributeConsumable returns the consumable kind for an attribute change.
func AttributeConsumable(key string) string {
	return "attribute:" + key
}

// ModelConsumable tracks which downcast events of which model nodes are
// still to be converted.
type ModelConsumable struct {
	items map[model.Node]map[string]bool
}

// NewModelConsumable creates an empty model consumable.
func NewModelConsumable() *ModelConsumable {
	return &ModelConsumable{items: make(map[model.Node]map[string]bool)}
}

// Add marks kind as consumable for node.
func (c *ModelConsumable) Add(node model.Node, kind string) {
	kinds, ok := c.items[node]
	if !ok {
		kinds = make(map[string]bool)
		c.items[node] = kinds
	}
	kinds[kind] = true
}

// Test reports whether kind can still be consumed for node.
func (c *ModelConsumable) Test(node model.Node, kind string) bool {
	return c.items[node][kind]
}

// Consume consumes kind for node. It reports false when it was not
// consumable.
func (c *ModelConsumable) Consume(node model.Node, kind string) bool {
	if !c.Test(node, kind) {
		return false
	}
	c.items[node][kind] = false
	return true
}

// elementConsumables holds the unconverted parts of one view element.
type elementConsumables struct {
	name       bool
	attributes map[string]bool
	classes    map[string]bool
	styles     map[string]bool
}

// ViewConsumable tracks which parts of a view tree are still to be
// upcast.
type ViewConsumable struct {
	elements map[*view.Element]*elementConsumables
	texts    map[*view.Text]bool
}

// NewViewConsumable creates a consumable holding root and every node below it.
func NewViewConsumable(root view.Node) *ViewConsumable {
	c := &ViewConsumable{
		elements: make(map[*view.Element]*elementConsumables),
		texts:    make(map[*view.Text]bool),
	}
	c.Add(root)
	return c
}

// Add registers node and its descendants as consumable.
func (c *ViewConsumable) Add(node view.Node) {
	switch n := node.(type) {
	case *view.Text:
		c.texts[n] = true
	case *view.Element:
		ec := &elementConsumables{
			name:       true,
			attributes: make(map[string]bool),
			classes:    make(map[string]bool),
			styles:     make(map[string]bool),
		}
		for _, key := range n.AttributeKeys() {
			if key != "class" && key != "style" {
				ec.attributes[key] = true
			}
		}
		for _, cls := range n.Classes() {
			ec.classes[cls] = true
		}
		for _, prop := range n.Styles() {
			ec.styles[prop] = true
		}
		c.elements[n] = ec
		for _, child := range n.Children() {
			c.Add(child)
		}
	}
}

// TestName reports whether the element name is still consumable.
func (c *ViewConsumable) TestName(el *view.Element) bool {
	ec, ok := c.elements[el]
	return ok && ec.name
}

// ConsumeName consumes the element name.
func (c *ViewConsumable) ConsumeName(el *view.Element) bool {
	if !c.TestName(el) {
		return false
	}
	c.elements[el].name = false
	return true
}

// TestAttribute reports whether an attribute is still consumable.
func (c *ViewConsumable) TestAttribute(el *view.Element, key string) bool {
	ec, ok := c.elements[el]
	return ok && ec.attributes[key]
}

// ConsumeAttribute consumes an attribute.
func (c *ViewConsumable) ConsumeAttribute(el *view.Element, key string) bool {
	if !c.TestAttribute(el, key) {
		return false
	}
	c.elements[el].attributes[key] = false
	return true
}

// TestText reports whether a text node is still consumable.
func (c *ViewConsumable) TestText(t *view.Text) bool {
	return c.texts[t]
}

// ConsumeText consumes a text node.
func (c *ViewConsumable) ConsumeText(t *view.Text) bool {
	if !c.texts[t] {
		return false
	}
	c.texts[t] = false
	return true
}

// TestMatch reports whether every matched part is still consumable.
func (c *ViewConsumable) TestMatch(m *view.Match) bool {
	ec, ok := c.elements[m.Element]
	if !ok {
		return false
	}
	if m.Name && !ec.name {
		return false
	}
	for _, key := range m.Attributes {
		if key == "class" || key == "style" {
			continue
		}
		if !ec.attributes[key] {
			return false
		}
	}
	for _, cls := range m.Classes {
		if !ec.classes[cls] {
			return false
		}
	}
	for _, prop := range m.Styles {
		if !ec.styles[prop] {
			return false
		}
	}
	return true
}

// ConsumeMatch consumes every matched part that is still consumable.
func (c *ViewConsumable) ConsumeMatch(m *view.Match) {
	ec, ok := c.elements[m.Element]
	if !ok {
		return
	}
	if m.Name {
		ec.name = false
	}
	for _, key := range m.Attributes {
		if _, ok := ec.attributes[key]; ok {
			ec.attributes[key] = false
		}
	}
	for _, cls := range m.Classes {
		ec.classes[cls] = false
	}
	for _, prop := range m.Styles {
		ec.styles[prop] = false
	}
}
