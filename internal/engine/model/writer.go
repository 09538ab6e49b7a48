package model

import (
	"fmt"
	"maps"
	"reflect"
	"slices"
)

// Writer mutates the model. It is handed out by Model.Change and records every
// mutation of attached nodes.
type Writer struct {
	model  *Model
	active bool
}

// CreateElement creates a detached element. Nil attribute values are skipped.
func (w *Writer) CreateElement(name string, attrs map[string]any) *Element {
	return NewElement(name, attrs)
}

// CreateText creates a detached text node.
func (w *Writer) CreateText(data string, attrs map[string]any) *Text {
	return NewText(data, attrs)
}

// CreateDocumentFragment creates an empty detached fragment.
func (w *Writer) CreateDocumentFragment() *Element {
	return NewElement(DocumentFragmentName, nil)
}

// Insert puts a detached node at pos.
func (w *Writer) Insert(node Node, pos Position) error {
	if err := w.check(); err != nil {
		return err
	}
	if node.Parent() != nil {
		return fmt.Errorf("insert %s: %w", node.Name(), ErrNodeAttached)
	}
	if !pos.IsValid() {
		return fmt.Errorf("insert %s at %d: %w", node.Name(), pos.Offset, ErrOffsetOutOfRange)
	}

	pos.Parent.insertChild(pos.Offset, node)
	w.model.adjustSelectionOnInsert(pos)

	if node.IsAttached() {
		w.model.record(Change{Type: ChangeInsert, Node: node, Parent: pos.Parent, Index: pos.Offset})
	}
	return nil
}

// Append inserts a detached node as the last child of parent.
func (w *Writer) Append(node Node, parent *Element) error {
	return w.Insert(node, PositionAtEnd(parent))
}

// Remove detaches node from its parent.
func (w *Writer) Remove(node Node) error {
	if err := w.check(); err != nil {
		return err
	}
	parent := node.Parent()
	if parent == nil {
		return nil
	}

	attached := node.IsAttached()
	index := node.Index()
	parent.removeChild(index)
	w.model.adjustSelectionOnRemove(parent, index)

	if attached {
		w.model.record(Change{Type: ChangeRemove, Node: node, Parent: parent, Index: index})
	}
	return nil
}

// SetAttribute sets key on node. A nil value removes the attribute.
func (w *Writer) SetAttribute(key string, value any, node Node) error {
	if err := w.check(); err != nil {
		return err
	}

	attrs := node.attributeMap()
	old, had := attrs[key]
	if value == nil {
		if !had {
			return nil
		}
		delete(attrs, key)
	} else {
		if had && reflect.DeepEqual(old, value) {
			return nil
		}
		attrs[key] = value
	}

	if node.IsAttached() {
		w.model.record(Change{Type: ChangeAttribute, Node: node, Key: key, OldValue: old, NewValue: value})
	}
	return nil
}

// SetAttributes sets every attribute in attrs on node.
func (w *Writer) SetAttributes(attrs map[string]any, node Node) error {
	for _, key := range sortedKeys(attrs) {
		if err := w.SetAttribute(key, attrs[key], node); err != nil {
			return err
		}
	}
	return nil
}

// RemoveAttribute removes key from node.
func (w *Writer) RemoveAttribute(key string, node Node) error {
	return w.SetAttribute(key, nil, node)
}

// Split splits pos.Parent at pos and returns the position between the two
// halves in the grandparent. Splitting at either edge does not create an
// empty element.
func (w *Writer) Split(pos Position) (Position, error) {
	if err := w.check(); err != nil {
		return Position{}, err
	}
	parent := pos.Parent
	if parent == nil || parent.Parent() == nil {
		return Position{}, fmt.Errorf("split: %w", ErrNotAllowed)
	}
	switch pos.Offset {
	case 0:
		return PositionBefore(parent), nil
	case parent.ChildCount():
		return PositionAfter(parent), nil
	}

	clone := NewElement(parent.Name(), maps.Clone(parent.attributeMap()))
	moved := parent.Children()[pos.Offset:]
	for range moved {
		if err := w.Remove(parent.Child(pos.Offset)); err != nil {
			return Position{}, err
		}
	}
	for _, n := range moved {
		clone.appendChild(n)
	}
	after := PositionAfter(parent)
	if err := w.Insert(clone, after); err != nil {
		return Position{}, err
	}
	return after, nil
}

// SetSelection moves the selection.
func (w *Writer) SetSelection(anchor, focus Position) {
	w.model.doc.selection.setTo(anchor, focus)
	w.model.selectionChanged = true
}

// SetSelectionAt collapses the selection at pos.
func (w *Writer) SetSelectionAt(pos Position) {
	w.SetSelection(pos, pos)
}

// SetSelectionOn selects node.
func (w *Writer) SetSelectionOn(node Node) {
	w.SetSelection(PositionBefore(node), PositionAfter(node))
}

func (w *Writer) check() error {
	if !w.active {
		return ErrNotInChange
	}
	return nil
}

func sortedKeys(m map[string]any) []string {
	return slices.Sorted(maps.Keys(m))
}
