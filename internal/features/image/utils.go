// Package image provides inline and block images, the image commands, the
// image load observer and the insertImage and toggleImageType toolbar
// components.
package image

import (
	"github.com/dshills/richedit/internal/config"
	"github.com/dshills/richedit/internal/engine/model"
	"github.com/dshills/richedit/internal/engine/view"
	"github.com/dshills/richedit/internal/features/widget"
	"github.com/dshills/richedit/internal/locale"
)

// Model element names.
const (
	InlineModelName = "imageInline"
	BlockModelName  = "imageBlock"
)

// Attributes returns the model attributes shared by both image types. The
// slice is new on every call.
func Attributes() []string {
	return []string{"alt", "src", "srcset"}
}

// PropertyImage marks view elements that are image widgets.
const PropertyImage = "image"

// IsImage reports whether el is an inline or block image.
func IsImage(el *model.Element) bool {
	return el != nil && (el.Name() == InlineModelName || el.Name() == BlockModelName)
}

// IsInline reports whether el is an inline image.
func IsInline(el *model.Element) bool {
	return el != nil && el.Name() == InlineModelName
}

// IsBlock reports whether el is a block image.
func IsBlock(el *model.Element) bool {
	return el != nil && el.Name() == BlockModelName
}

// SelectedImage returns the image selected in sel, if any.
func SelectedImage(sel *model.Selection) *model.Element {
	el := sel.SelectedElement()
	if IsImage(el) {
		return el
	}
	return nil
}

// IsImageWidget reports whether el is a view element created by
// ToImageWidget.
func IsImageWidget(el *view.Element) bool {
	if el == nil {
		return false
	}
	v, ok := el.GetCustomProperty(PropertyImage)
	return ok && v == true && widget.IsWidget(el)
}

// ViewImage returns the <img> for a view element created by an image
// converter: the element itself, or its first <img> descendant.
func ViewImage(el *view.Element) *view.Element {
	if el == nil {
		return nil
	}
	if el.Is("img") {
		return el
	}
	return el.FindDescendant(func(e *view.Element) bool { return e.Is("img") })
}

// CreateViewElement creates the empty data view structure for an image of
// the given model type: a bare <img> for inline images and
// <figure class="image"><img></figure> for block images.
func CreateViewElement(w view.Writer, modelName string) *view.Element {
	img := w.CreateEmptyElement("img", nil)
	if modelName != BlockModelName {
		return img
	}
	return w.CreateContainerElement("figure", map[string]string{"class": "image"}, img)
}

// ToImageWidget turns a container view element into an image widget with
// the given label.
func ToImageWidget(el *view.Element, w view.Writer, label string) (*view.Element, error) {
	w.SetCustomProperty(PropertyImage, true, el)
	return widget.ToWidget(el, w, widget.Options{Label: label})
}

// widgetLabel is the accessible label for an image widget.
func widgetLabel(l *locale.Locale, modelName string) string {
	if modelName == InlineModelName {
		return l.T("inline image widget")
	}
	return l.T("image widget")
}

// inImageFigure reports whether img is the image of a figure.image.
func inImageFigure(img *view.Element) bool {
	p := img.Parent()
	return p != nil && p.Is("figure") && p.HasClass("image")
}

// determineInsertType picks the model element for a new image at the
// selection. insertType is one of config.InsertAuto, InsertInline or
// InsertBlock.
func determineInsertType(schema *model.Schema, sel *model.Selection, insertType string) string {
	hasInline := schema.IsRegistered(InlineModelName)
	hasBlock := schema.IsRegistered(BlockModelName)
	switch {
	case !hasBlock:
		return InlineModelName
	case !hasInline:
		return BlockModelName
	case insertType == config.InsertInline:
		return InlineModelName
	case insertType == config.InsertBlock:
		return BlockModelName
	}

	if el := sel.SelectedElement(); el != nil && schema.IsObject(el.Name()) && schema.IsBlock(el.Name()) {
		return BlockModelName
	}
	focus := sel.Focus()
	if !focus.IsValid() || focus.Parent.IsRoot() || focus.Parent.IsEmpty() {
		return BlockModelName
	}
	if schema.CheckChild(focus.Parent.Name(), model.TextName) && schema.CheckChild(focus.Parent.Name(), InlineModelName) {
		return InlineModelName
	}
	return BlockModelName
}
