package widget

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/richedit/internal/engine/view"
)

func TestToWidget(t *testing.T) {
	var w view.Writer
	img := w.CreateEmptyElement("img", nil)
	span := w.CreateContainerElement("span", map[string]string{"class": "image-inline"}, img)

	el, err := ToWidget(span, w, Options{Label: "inline image widget"})
	require.NoError(t, err)
	assert.Same(t, span, el)

	assert.True(t, IsWidget(span))
	assert.True(t, span.HasClass("image-inline", ClassName))
	v, _ := span.GetAttribute("contenteditable")
	assert.Equal(t, "false", v)
	assert.Equal(t, "inline image widget", Label(span))

	assert.False(t, IsWidget(img))
	assert.Same(t, span, Find(img))
	assert.Same(t, span, Find(span))
	assert.Nil(t, Find(w.CreateText("x")))
}

func TestToWidgetLabelFunc(t *testing.T) {
	var w view.Writer
	alt := "cat"
	fig := w.CreateContainerElement("figure", nil)

	_, err := ToWidget(fig, w, Options{Label: "ignored", LabelFunc: func() string { return alt + " image widget" }})
	require.NoError(t, err)
	assert.Equal(t, "cat image widget", Label(fig))

	alt = "dog"
	assert.Equal(t, "dog image widget", Label(fig))
}

func TestToWidgetSelectionHandle(t *testing.T) {
	var w view.Writer
	fig := w.CreateContainerElement("figure", nil)

	_, err := ToWidget(fig, w, Options{HasSelectionHandle: true})
	require.NoError(t, err)
	assert.True(t, fig.HasClass(SelectionHandleClassName))
	require.Equal(t, 1, fig.ChildCount())
	handle := fig.Child(0).(*view.Element)
	assert.Equal(t, view.KindUI, handle.Kind())
	assert.Empty(t, Label(fig))
}

func TestToWidgetWrongElementType(t *testing.T) {
	var w view.Writer

	_, err := ToWidget(w.CreateEmptyElement("img", nil), w, Options{})
	assert.ErrorIs(t, err, ErrWrongElementType)

	_, err = ToWidget(w.CreateAttributeElement("strong", nil), w, Options{})
	assert.ErrorIs(t, err, ErrWrongElementType)

	_, err = ToWidget(nil, w, Options{})
	assert.ErrorIs(t, err, ErrWrongElementType)
}

func TestFindNestedWidget(t *testing.T) {
	var w view.Writer
	text := w.CreateText("caption")
	inner := w.CreateContainerElement("figcaption", nil, text)
	fig := w.CreateContainerElement("figure", nil, inner)
	_, err := ToWidget(fig, w, Options{})
	require.NoError(t, err)

	assert.Same(t, fig, Find(text))
	assert.Same(t, fig, Find(inner))
}
