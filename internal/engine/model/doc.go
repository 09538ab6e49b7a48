// Package model provides the editor's document model.
//
// The model is a tree of elements and text nodes owned by a Document. Each
// element has a name that must be registered in the Schema, a set of
// attributes and an ordered list of children. Text nodes carry a string and
// attributes of their own.
//
// All mutations of nodes attached to the document go through a Writer, which
// is only available inside Model.Change:
//
//	err := m.Change(func(w *model.Writer) error {
//	    img := w.CreateElement("imageInline", map[string]any{"src": "a.png"})
//	    return w.Insert(img, model.PositionAt(paragraph, 0))
//	})
//
// When the outermost change block finishes, the Document fires a "change"
// event carrying the list of Change records produced by the block. The
// editing controller uses them to update the editing view incrementally.
//
// Offsets in a Position count child nodes: a text node occupies one offset
// regardless of its length.
package model
