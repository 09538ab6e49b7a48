// Package widget turns view elements into widgets: self-contained,
// non-editable islands in the editing view such as images.
package widget

import (
	"errors"
	"fmt"

	"github.com/dshills/richedit/internal/engine/view"
)

// Class names and custom property keys set on widget elements.
const (
	ClassName                = "ck-widget"
	SelectionHandleClassName = "ck-widget_with-selection-handle"
	SelectionHandleName      = "div"
	PropertyWidget           = "widget"
	PropertyLabel            = "widgetLabel"
)

// ErrWrongElementType is returned when a non-container element is turned
// into a widget.
var ErrWrongElementType = errors.New("widget: element must be a container element")

// Options configures ToWidget.
type Options struct {
	// Label describes the widget to assistive technology.
	Label string

	// LabelFunc computes the label on demand and takes precedence over Label.
	LabelFunc func() string

	// HasSelectionHandle adds a UI handle used to select the widget.
	HasSelectionHandle bool
}

// ToWidget marks el as a widget: it becomes non-editable, gets the widget
// class and the widget custom properties.
func ToWidget(el *view.Element, w view.Writer, opts Options) (*view.Element, error) {
	if el == nil || el.Kind() != view.KindContainer {
		name := "<nil>"
		if el != nil {
			name = fmt.Sprintf("<%s> (%s)", el.Name(), el.Kind())
		}
		return nil, fmt.Errorf("%s: %w", name, ErrWrongElementType)
	}

	w.SetAttribute("contenteditable", "false", el)
	w.AddClass(el, ClassName)
	w.SetCustomProperty(PropertyWidget, true, el)

	switch {
	case opts.LabelFunc != nil:
		w.SetCustomProperty(PropertyLabel, opts.LabelFunc, el)
	case opts.Label != "":
		SetLabel(el, w, opts.Label)
	}

	if opts.HasSelectionHandle {
		w.AddClass(el, SelectionHandleClassName)
		handle := w.CreateUIElement(SelectionHandleName, map[string]string{"class": "ck-widget__selection-handle"})
		if err := w.Append(handle, el); err != nil {
			return nil, err
		}
	}
	return el, nil
}

// SetLabel sets the widget label.
func SetLabel(el *view.Element, w view.Writer, label string) {
	w.SetCustomProperty(PropertyLabel, label, el)
}

// Label returns the widget label, evaluating a label function if one was
// given.
func Label(el *view.Element) string {
	v, ok := el.GetCustomProperty(PropertyLabel)
	if !ok {
		return ""
	}
	switch l := v.(type) {
	case string:
		return l
	case func() string:
		return l()
	default:
		return ""
	}
}

// IsWidget reports whether node is a widget element.
func IsWidget(node view.Node) bool {
	el, ok := node.(*view.Element)
	if !ok {
		return false
	}
	v, _ := el.GetCustomProperty(PropertyWidget)
	is, _ := v.(bool)
	return is
}

// Find returns node itself when it is a widget, or its closest widget
// ancestor.
func Find(node view.Node) *view.Element {
	if IsWidget(node) {
		return node.(*view.Element)
	}
	parent := node.Parent()
	if parent == nil {
		return nil
	}
	if IsWidget(parent) {
		return parent
	}
	return parent.FindAncestor(func(el *view.Element) bool { return IsWidget(el) })
}
