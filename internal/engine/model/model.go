package model

import "fmt"

// Model bundles the schema and the document and serializes changes.
type Model struct {
	Schema *Schema

	doc              *Document
	writer           *Writer
	depth            int
	pending          []Change
	selectionChanged bool
}

// New creates a model with a generic schema and an empty "main" root.
func New() *Model {
	m := &Model{Schema: NewSchema()}
	m.doc = newDocument(m)
	m.writer = &Writer{model: m}
	return m
}

// Document returns the model document.
func (m *Model) Document() *Document {
	return m.doc
}

// Change runs fn with the model writer. Nested calls share the outer block;
// the document "change" event fires once, when the outermost block returns.
// Mutations made before fn returns an error are kept.
func (m *Model) Change(fn func(w *Writer) error) error {
	m.depth++
	m.writer.active = true

	err := fn(m.writer)

	m.depth--
	if m.depth > 0 {
		return err
	}

	m.writer.active = false
	changes := m.pending
	m.pending = nil
	selectionChanged := m.selectionChanged
	m.selectionChanged = false

	if len(changes) > 0 {
		m.doc.version++
		m.doc.Fire("change", ChangeEvent{Changes: changes, Version: m.doc.version})
	}
	if selectionChanged {
		m.doc.Fire("selection", m.doc.Selection())
	}
	return err
}

// InsertObject inserts an object element at pos, splitting ancestors until
// the schema allows it. The selection is placed on the inserted object.
func (m *Model) InsertObject(w *Writer, obj *Element, pos Position) error {
	p := pos
	for !m.Schema.CheckChild(p.Parent.Name(), obj.Name()) {
		if p.Parent.IsRoot() || m.Schema.IsLimit(p.Parent.Name()) {
			return fmt.Errorf("insert %s in %s: %w", obj.Name(), p.Parent.Name(), ErrNotAllowed)
		}
		next, err := w.Split(p)
		if err != nil {
			return err
		}
		p = next
	}

	if err := w.Insert(obj, p); err != nil {
		return err
	}
	w.SetSelectionOn(obj)
	return nil
}

func (m *Model) record(c Change) {
	m.pending = append(m.pending, c)
}

// adjustSelectionOnInsert shifts selection offsets after an insertion in the
// same parent.
func (m *Model) adjustSelectionOnInsert(pos Position) {
	sel := &m.doc.selection
	shift := func(p Position) Position {
		if p.Parent == pos.Parent && p.Offset > pos.Offset {
			p.Offset++
		}
		return p
	}
	sel.setTo(shift(sel.anchor), shift(sel.focus))
}

// adjustSelectionOnRemove keeps the selection valid after a removal.
func (m *Model) adjustSelectionOnRemove(parent *Element, index int) {
	sel := &m.doc.selection
	fix := func(p Position) Position {
		if p.Parent == nil {
			return p
		}
		if p.Parent == parent && p.Offset > index {
			p.Offset--
		}
		if !p.Parent.IsAttached() {
			return PositionAt(m.doc.MainRoot(), 0)
		}
		return p
	}
	sel.setTo(fix(sel.anchor), fix(sel.focus))
}
