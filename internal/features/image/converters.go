package image

import (
	"fmt"

	"github.com/dshills/richedit/internal/engine/conversion"
	"github.com/dshills/richedit/internal/engine/model"
	"github.com/dshills/richedit/internal/engine/view"
	"github.com/dshills/richedit/internal/event"
	"github.com/dshills/richedit/internal/event/topic"
	"github.com/dshills/richedit/internal/locale"
)

// Srcset is the model value of the srcset attribute.
type Srcset struct {
	Data  string
	Width string
}

// ParseSrcset reads a srcset attribute value. Besides Srcset it accepts a
// plain string and a map with "data" and "width" keys, which is what
// scripts pass.
func ParseSrcset(v any) (Srcset, bool) {
	switch s := v.(type) {
	case Srcset:
		return s, s.Data != ""
	case *Srcset:
		if s == nil {
			return Srcset{}, false
		}
		return *s, s.Data != ""
	case string:
		return Srcset{Data: s}, s != ""
	case map[string]any:
		data, _ := s["data"].(string)
		out := Srcset{Data: data}
		switch w := s["width"].(type) {
		case string:
			out.Width = w
		case int, int64, float64:
			out.Width = fmt.Sprint(w)
		}
		return out, data != ""
	}
	return Srcset{}, false
}

// createDataView returns the data downcast view factory for modelName.
func createDataView(modelName string) func(*model.Element, *conversion.DowncastAPI) *view.Element {
	return func(_ *model.Element, api *conversion.DowncastAPI) *view.Element {
		return CreateViewElement(api.Writer, modelName)
	}
}

// createEditingView returns the editing downcast view factory for
// modelName. Inline images are wrapped in a span so that they can become
// widgets.
func createEditingView(l *locale.Locale, modelName string) func(*model.Element, *conversion.DowncastAPI) *view.Element {
	return func(_ *model.Element, api *conversion.DowncastAPI) *view.Element {
		w := api.Writer
		container := CreateViewElement(w, modelName)
		if modelName == InlineModelName {
			container = w.CreateContainerElement("span", map[string]string{"class": "image-inline"}, container)
		}
		label := widgetLabel(l, modelName)
		w.SetAttribute("role", "img", container)
		w.SetAttribute("aria-label", label, container)
		el, err := ToImageWidget(container, w, label)
		if err != nil {
			api.Fail(fmt.Errorf("%s widget: %w", modelName, err))
			return nil
		}
		return el
	}
}

// registerDowncastAttributes adds the src, alt and srcset converters of
// modelName to both downcast pipelines.
func registerDowncastAttributes(conv *conversion.Conversion, modelName string) error {
	return conv.For(conversion.GroupDowncast).
		AttributeToAttribute(conversion.AttributeToAttributeConfig{Model: modelName, Key: "src", Target: ViewImage}).
		AttributeToAttribute(conversion.AttributeToAttributeConfig{Model: modelName, Key: "alt", Target: ViewImage}).
		Add(func(d conversion.Dispatcher) {
			d.On(topic.Join("attribute", "srcset", modelName), downcastSrcset)
		}).
		Err()
}

// downcastSrcset writes srcset, sizes and width on the <img>. All three are
// removed when the model value goes away.
func downcastSrcset(_ *event.Info, data any) {
	d, ok := data.(*conversion.AttributeData)
	if !ok {
		return
	}
	kind := conversion.AttributeConsumable(d.Key)
	if !d.API.Consumable.Test(d.Item, kind) {
		return
	}
	img := ViewImage(d.API.Mapper.ToViewElement(d.Item))
	if img == nil {
		return
	}
	d.API.Consumable.Consume(d.Item, kind)

	w := d.API.Writer
	s, ok := ParseSrcset(d.NewValue)
	if !ok {
		w.RemoveAttribute("srcset", img)
		w.RemoveAttribute("sizes", img)
		if old, _ := ParseSrcset(d.OldValue); old.Width != "" {
			w.RemoveAttribute("width", img)
		}
		return
	}
	w.SetAttribute("srcset", s.Data, img)
	w.SetAttribute("sizes", "100vw", img)
	if s.Width != "" {
		w.SetAttribute("width", s.Width, img)
	}
}

// registerUpcastAttributes adds the alt and srcset upcast converters shared
// by both image types. They apply to whatever image the <img> produced.
func registerUpcastAttributes(conv *conversion.Conversion) error {
	return conv.For(conversion.GroupUpcast).
		AttributeToAttribute(conversion.AttributeToAttributeConfig{View: "img", Key: "alt"}).
		AttributeToAttribute(conversion.AttributeToAttributeConfig{
			View: "img",
			Key:  "srcset",
			ToModel: func(v string, el *view.Element) any {
				if v == "" {
					return nil
				}
				s := Srcset{Data: v}
				if width, ok := el.GetAttribute("width"); ok {
					s.Width = width
				}
				return s
			},
		}).
		Err()
}

// upcastImage returns the <img> converter config producing modelName for
// images accepted by when.
func upcastImage(modelName string, when func(*view.Element) bool) conversion.ElementToElementConfig {
	return conversion.ElementToElementConfig{
		ViewPattern: &view.Pattern{
			Name:       "img",
			Attributes: map[string]string{"src": ""},
			Func:       when,
		},
		CreateModel: func(el *view.Element, api *conversion.UpcastAPI) *model.Element {
			src, _ := el.GetAttribute("src")
			return api.Writer.CreateElement(modelName, map[string]any{"src": src})
		},
	}
}

var figureMatcher = view.NewMatcher(view.Pattern{Name: "figure", Classes: []string{"image"}})

// upcastFigure converts figure.image by converting its <img>. The figure
// itself is consumed only when the image converted.
func upcastFigure(_ *event.Info, data any) {
	d, ok := data.(*conversion.UpcastData)
	if !ok || d.Converted() {
		return
	}
	fig, ok := d.ViewItem.(*view.Element)
	if !ok {
		return
	}
	m := figureMatcher.Match(fig)
	if m == nil || !d.API.CanClaim(m) {
		return
	}
	img := figureImage(fig)
	if img == nil || !d.API.Consumable.TestName(img) {
		return
	}
	result, cursor := d.API.ConvertItem(img, d.Cursor)
	if len(result) == 0 {
		return
	}
	d.API.Claim(m)
	d.Result = append(d.Result, result...)
	d.Cursor = cursor
}

func figureImage(fig *view.Element) *view.Element {
	for _, child := range fig.Children() {
		if el, ok := child.(*view.Element); ok && el.Is("img") {
			return el
		}
	}
	return nil
}
