package view

import "fmt"

// Writer creates and mutates view nodes. It holds no state; a zero Writer
// is ready to use.
type Writer struct{}

// CreateContainerElement creates an element that may hold children.
func (Writer) CreateContainerElement(name string, attrs map[string]string, children ...Node) *Element {
	e := newElement(KindContainer, name, attrs)
	for _, c := range children {
		e.insertChild(len(e.children), c)
	}
	return e
}

// CreateAttributeElement creates a formatting element.
func (Writer) CreateAttributeElement(name string, attrs map[string]string) *Element {
	return newElement(KindAttribute, name, attrs)
}

// CreateEmptyElement creates a void element.
func (Writer) CreateEmptyElement(name string, attrs map[string]string) *Element {
	return newElement(KindEmpty, name, attrs)
}

// CreateUIElement creates an editing-only element.
func (Writer) CreateUIElement(name string, attrs map[string]string) *Element {
	return newElement(KindUI, name, attrs)
}

// CreateText creates a text node.
func (Writer) CreateText(data string) *Text {
	return &Text{data: data}
}

// Insert places a detached node at pos.
func (Writer) Insert(pos Position, node Node) error {
	if pos.Parent == nil || pos.Offset < 0 || pos.Offset > len(pos.Parent.children) {
		return ErrOffsetOutOfRange
	}
	if !pos.Parent.CanHaveChildren() {
		return fmt.Errorf("insert into <%s>: %w", pos.Parent.name, ErrCannotHaveChildren)
	}
	if node.Parent() != nil {
		return ErrNodeAttached
	}
	pos.Parent.insertChild(pos.Offset, node)
	return nil
}

// Append inserts a detached node as the last child of parent.
func (w Writer) Append(node Node, parent *Element) error {
	return w.Insert(PositionAt(parent, parent.ChildCount()), node)
}

// Remove detaches node from its parent.
func (Writer) Remove(node Node) {
	if p := node.Parent(); p != nil {
		p.removeChild(node.Index())
	}
}

// SetAttribute sets an attribute, overwriting any previous value.
func (Writer) SetAttribute(key, value string, el *Element) {
	el.setAttribute(key, value)
}

// RemoveAttribute removes an attribute.
func (Writer) RemoveAttribute(key string, el *Element) {
	el.removeAttribute(key)
}

// AddClass adds classes to the element.
func (Writer) AddClass(el *Element, classes ...string) {
	for _, c := range classes {
		el.addClass(c)
	}
}

// RemoveClass removes classes from the element.
func (Writer) RemoveClass(el *Element, classes ...string) {
	kept := el.classes[:0]
	for _, c := range el.classes {
		remove := false
		for _, r := range classes {
			if c == r {
				remove = true
				break
			}
		}
		if !remove {
			kept = append(kept, c)
		}
	}
	el.classes = kept
}

// SetStyle sets a style property.
func (Writer) SetStyle(prop, value string, el *Element) {
	el.styles[prop] = value
}

// RemoveStyle removes a style property.
func (Writer) RemoveStyle(prop string, el *Element) {
	delete(el.styles, prop)
}

// SetCustomProperty stores an editing-only property on the element.
func (Writer) SetCustomProperty(key string, value any, el *Element) {
	el.custom[key] = value
}

// RemoveCustomProperty removes an editing-only property.
func (Writer) RemoveCustomProperty(key string, el *Element) {
	delete(el.custom, key)
}
