package model

// Position points between two children of an element.
type Position struct {
	Parent *Element
	Offset int
}

// PositionAt returns a position in parent at offset.
func PositionAt(parent *Element, offset int) Position {
	return Position{Parent: parent, Offset: offset}
}

// PositionBefore returns the position directly before node.
func PositionBefore(node Node) Position {
	return Position{Parent: node.Parent(), Offset: node.Index()}
}

// PositionAfter returns the position directly after node.
func PositionAfter(node Node) Position {
	return Position{Parent: node.Parent(), Offset: node.Index() + 1}
}

// PositionAtEnd returns the position after the last child of parent.
func PositionAtEnd(parent *Element) Position {
	return Position{Parent: parent, Offset: parent.ChildCount()}
}

// IsValid reports whether the position points inside its parent.
func (p Position) IsValid() bool {
	return p.Parent != nil && p.Offset >= 0 && p.Offset <= p.Parent.ChildCount()
}

// NodeAfter returns the node directly after the position.
func (p Position) NodeAfter() Node {
	if p.Parent == nil {
		return nil
	}
	return p.Parent.Child(p.Offset)
}

// NodeBefore returns the node directly before the position.
func (p Position) NodeBefore() Node {
	if p.Parent == nil {
		return nil
	}
	return p.Parent.Child(p.Offset - 1)
}

// IsEqual compares two positions.
func (p Position) IsEqual(other Position) bool {
	return p.Parent == other.Parent && p.Offset == other.Offset
}

// Selection is the document selection: a range between anchor and focus.
type Selection struct {
	anchor Position
	focus  Position
}

// Anchor returns the anchor position.
func (s *Selection) Anchor() Position { return s.anchor }

// Focus returns the focus position.
func (s *Selection) Focus() Position { return s.focus }

// IsCollapsed reports whether anchor equals focus.
func (s *Selection) IsCollapsed() bool { return s.anchor.IsEqual(s.focus) }

// SelectedElement returns the element when the selection spans exactly one
// element within a single parent.
func (s *Selection) SelectedElement() *Element {
	if s.anchor.Parent == nil || s.anchor.Parent != s.focus.Parent {
		return nil
	}
	start, end := s.anchor.Offset, s.focus.Offset
	if start > end {
		start, end = end, start
	}
	if end-start != 1 {
		return nil
	}
	el, _ := s.anchor.Parent.Child(start).(*Element)
	return el
}

func (s *Selection) setTo(anchor, focus Position) {
	s.anchor = anchor
	s.focus = focus
}
