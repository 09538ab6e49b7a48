package conversion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/richedit/internal/engine/model"
	"github.com/dshills/richedit/internal/engine/view"
	"github.com/dshills/richedit/internal/event"
)

type harness struct {
	model    *model.Model
	conv     *Conversion
	data     *DowncastDispatcher
	editing  *DowncastDispatcher
	upcast   *UpcastDispatcher
	viewRoot *view.Element
}

func newHarness(t *testing.T, policy Policy) *harness {
	t.Helper()

	m := model.New()
	require.NoError(t, m.Schema.Register("paragraph", model.SchemaItemDefinition{InheritAllFrom: model.BlockName}))
	require.NoError(t, m.Schema.Register("imageInline", model.SchemaItemDefinition{
		IsObject:        true,
		IsInline:        true,
		AllowWhere:      []string{model.TextName},
		AllowAttributes: []string{"alt", "src"},
	}))
	require.NoError(t, m.Schema.Register("imageBlock", model.SchemaItemDefinition{
		InheritAllFrom:  model.BlockObjectName,
		AllowAttributes: []string{"alt", "src"},
	}))

	h := &harness{
		model:   m,
		data:    NewDowncastDispatcher(GroupDataDowncast, m.Schema, NewMapper()),
		editing: NewDowncastDispatcher(GroupEditingDowncast, m.Schema, NewMapper()),
		upcast:  NewUpcastDispatcher(m.Schema, policy),
	}
	h.conv = New(h.data, h.editing, h.upcast)

	h.conv.For(GroupDowncast).
		ElementToElement(ElementToElementConfig{Model: "paragraph", View: "p"}).
		ElementToElement(ElementToElementConfig{Model: "imageInline", View: "img"}).
		ElementToElement(ElementToElementConfig{
			Model: "imageBlock",
			CreateView: func(_ *model.Element, api *DowncastAPI) *view.Element {
				return api.Writer.CreateContainerElement("figure", map[string]string{"class": "image"})
			},
		}).
		AttributeToAttribute(AttributeToAttributeConfig{Model: "imageInline", Key: "src"}).
		AttributeToAttribute(AttributeToAttributeConfig{Model: "imageInline", Key: "alt"})
	require.NoError(t, h.conv.For(GroupDowncast).Err())

	up := h.conv.For(GroupUpcast).
		ElementToElement(ElementToElementConfig{Model: "paragraph", View: "p"}).
		ElementToElement(ElementToElementConfig{Model: "imageBlock", ViewPattern: &view.Pattern{Name: "figure", Classes: []string{"image"}}}).
		ElementToElement(ElementToElementConfig{
			ViewPattern: &view.Pattern{Name: "img", Attributes: map[string]string{"src": ""}},
			CreateModel: func(el *view.Element, api *UpcastAPI) *model.Element {
				src, _ := el.GetAttribute("src")
				return api.Writer.CreateElement("imageInline", map[string]any{"src": src})
			},
		}).
		AttributeToAttribute(AttributeToAttributeConfig{View: "img", Key: "alt"})
	require.NoError(t, up.Err())

	v := view.NewView("main")
	h.viewRoot = v.Root()
	h.editing.Mapper().Bind(m.Document().MainRoot(), h.viewRoot)
	m.Document().On("change", func(_ *event.Info, data any) {
		require.NoError(t, h.editing.ConvertChanges(data.(model.ChangeEvent).Changes))
	})
	return h
}

// toData converts the children of parent through the data pipeline.
func (h *harness) toData(t *testing.T, parent *model.Element) string {
	t.Helper()
	frag := view.NewFragment()
	h.data.Mapper().Clear()
	h.data.Mapper().Bind(parent, frag)
	require.NoError(t, h.data.ConvertInsert(parent.Children()...))
	out, err := view.HTMLProcessor{}.ToData(frag)
	require.NoError(t, err)
	return out
}

func (h *harness) parse(t *testing.T, html string) *model.Element {
	t.Helper()
	frag, err := view.HTMLProcessor{}.ToView(html)
	require.NoError(t, err)
	return h.convertView(t, frag)
}

func (h *harness) convertView(t *testing.T, frag *view.Element) *model.Element {
	t.Helper()
	var out *model.Element
	require.NoError(t, h.model.Change(func(w *model.Writer) error {
		var err error
		out, err = h.upcast.Convert(frag, w)
		return err
	}))
	return out
}

func (h *harness) insertImage(t *testing.T, attrs map[string]any) (*model.Element, *model.Element) {
	t.Helper()
	var para, img *model.Element
	require.NoError(t, h.model.Change(func(w *model.Writer) error {
		para = w.CreateElement("paragraph", nil)
		if err := w.Append(para, h.model.Document().MainRoot()); err != nil {
			return err
		}
		if err := w.Append(w.CreateText("Hi", nil), para); err != nil {
			return err
		}
		img = w.CreateElement("imageInline", attrs)
		return w.Append(img, para)
	}))
	return para, img
}

func TestDataDowncastInlineImage(t *testing.T) {
	h := newHarness(t, PolicyFirstMatch)
	h.insertImage(t, map[string]any{"src": "a.png"})

	assert.Equal(t, `<p>Hi<img src="a.png"/></p>`, h.toData(t, h.model.Document().MainRoot()))
}

func stringify(t *testing.T, node view.Node) string {
	t.Helper()
	out, err := view.Stringify(node)
	require.NoError(t, err)
	return out
}

func TestEditingDowncastFollowsChanges(t *testing.T) {
	h := newHarness(t, PolicyFirstMatch)
	_, img := h.insertImage(t, map[string]any{"src": "a.png"})

	assert.Equal(t, `<p>Hi<img src="a.png"/></p>`, stringify(t, h.viewRoot))

	viewImg := h.editing.Mapper().ToViewElement(img)
	require.NotNil(t, viewImg)

	require.NoError(t, h.model.Change(func(w *model.Writer) error {
		return w.SetAttribute("alt", "cat", img)
	}))
	alt, ok := viewImg.GetAttribute("alt")
	require.True(t, ok)
	assert.Equal(t, "cat", alt)

	require.NoError(t, h.model.Change(func(w *model.Writer) error {
		return w.RemoveAttribute("alt", img)
	}))
	assert.False(t, viewImg.HasAttribute("alt"))

	require.NoError(t, h.model.Change(func(w *model.Writer) error {
		return w.Remove(img)
	}))
	assert.Equal(t, `<p>Hi</p>`, stringify(t, h.viewRoot))
	assert.Nil(t, h.editing.Mapper().ToViewNode(img))
}

func TestEditingDowncastSkipsRevertedAttribute(t *testing.T) {
	h := newHarness(t, PolicyFirstMatch)
	_, img := h.insertImage(t, map[string]any{"src": "a.png", "alt": "cat"})

	var fired int
	h.editing.On("attribute.alt.imageInline", func(*event.Info, any) { fired++ }, event.WithPriority(event.PriorityHighest))

	require.NoError(t, h.model.Change(func(w *model.Writer) error {
		if err := w.SetAttribute("alt", "dog", img); err != nil {
			return err
		}
		return w.SetAttribute("alt", "cat", img)
	}))
	assert.Zero(t, fired)
}

func TestUpcastRoundTrip(t *testing.T) {
	h := newHarness(t, PolicyFirstMatch)

	frag := h.parse(t, `<p>Hi<img src="a.png" alt="cat"></p>`)

	require.Equal(t, 1, frag.ChildCount())
	para := frag.Child(0).(*model.Element)
	assert.Equal(t, "paragraph", para.Name())
	img := para.Child(1).(*model.Element)
	src, _ := img.GetAttribute("src")
	alt, _ := img.GetAttribute("alt")
	assert.Equal(t, "a.png", src)
	assert.Equal(t, "cat", alt)

	assert.Equal(t, `<p>Hi<img alt="cat" src="a.png"/></p>`, h.toData(t, frag))
}

func TestUpcastAutoParagraph(t *testing.T) {
	h := newHarness(t, PolicyFirstMatch)

	frag := h.parse(t, "Hello <img src=\"a.png\">\n<div><p>x</p></div>\n")

	require.Equal(t, 2, frag.ChildCount())
	first := frag.Child(0).(*model.Element)
	assert.Equal(t, "paragraph", first.Name())
	assert.Equal(t, 2, first.ChildCount())
	assert.Equal(t, "imageInline", first.Child(1).Name())
	assert.Equal(t, "x", frag.Child(1).(*model.Element).Text())
}

func TestUpcastSplitsForBlockObject(t *testing.T) {
	h := newHarness(t, PolicyFirstMatch)

	// Built by hand: an HTML parser would close the <p> before <figure>.
	var w view.Writer
	p := w.CreateContainerElement("p", nil,
		w.CreateText("a"),
		w.CreateContainerElement("figure", map[string]string{"class": "image"}),
		w.CreateText("c"),
	)
	source := view.NewFragment()
	require.NoError(t, w.Append(p, source))

	frag := h.convertView(t, source)

	var names []string
	for _, n := range frag.Children() {
		names = append(names, n.Name())
	}
	assert.Equal(t, []string{"paragraph", "imageBlock", "paragraph"}, names)
	assert.Equal(t, "a", frag.Child(0).(*model.Element).Text())
	assert.Equal(t, "c", frag.Child(2).(*model.Element).Text())
}

func TestUpcastSplitDropsEmptyElement(t *testing.T) {
	h := newHarness(t, PolicyFirstMatch)

	var w view.Writer
	source := view.NewFragment()
	require.NoError(t, w.Append(w.CreateContainerElement("p", nil,
		w.CreateContainerElement("figure", map[string]string{"class": "image"}),
	), source))

	frag := h.convertView(t, source)

	require.Equal(t, 1, frag.ChildCount())
	assert.Equal(t, "imageBlock", frag.Child(0).Name())
}

func TestUpcastPolicy(t *testing.T) {
	tests := []struct {
		policy Policy
		images int
	}{
		{PolicyFirstMatch, 1},
		{PolicyAllMatches, 2},
	}

	for _, tt := range tests {
		t.Run(tt.policy.String(), func(t *testing.T) {
			h := newHarness(t, tt.policy)
			err := h.conv.For(GroupUpcast).ElementToElement(ElementToElementConfig{
				View:     "img",
				Priority: "low",
				CreateModel: func(_ *view.Element, api *UpcastAPI) *model.Element {
					return api.Writer.CreateElement("imageInline", map[string]any{"src": "second"})
				},
			}).Err()
			require.NoError(t, err)

			frag := h.parse(t, `<p><img src="a.png"></p>`)

			para := frag.Child(0).(*model.Element)
			assert.Equal(t, tt.images, para.ChildCount())
			src, _ := para.Child(0).GetAttribute("src")
			assert.Equal(t, "a.png", src)
		})
	}
}

func TestParsePolicy(t *testing.T) {
	p, err := ParsePolicy("")
	require.NoError(t, err)
	assert.Equal(t, PolicyFirstMatch, p)

	p, err = ParsePolicy("All-Matches")
	require.NoError(t, err)
	assert.Equal(t, PolicyAllMatches, p)

	_, err = ParsePolicy("some")
	assert.ErrorIs(t, err, ErrUnknownPolicy)
}

func TestHelpersErrors(t *testing.T) {
	h := newHarness(t, PolicyFirstMatch)

	assert.ErrorIs(t, h.conv.For("nope").Err(), ErrUnknownGroup)

	err := h.conv.For(GroupDataDowncast).ElementToElement(ElementToElementConfig{Model: "paragraph"}).Err()
	assert.ErrorIs(t, err, ErrInvalidConfig)

	err = h.conv.For(GroupUpcast).AttributeToAttribute(AttributeToAttributeConfig{View: "img"}).Err()
	assert.ErrorIs(t, err, ErrInvalidConfig)

	assert.Equal(t, []string{GroupDataDowncast, GroupDowncast, GroupEditingDowncast, GroupUpcast}, h.conv.Groups())
}

func TestHelpersAdd(t *testing.T) {
	h := newHarness(t, PolicyFirstMatch)

	var seen []Dispatcher
	h.conv.For(GroupDowncast).Add(func(d Dispatcher) { seen = append(seen, d) })

	require.Len(t, seen, 2)
	assert.Same(t, h.data, seen[0])
	assert.Same(t, h.editing, seen[1])
}

func TestMapperViewPosition(t *testing.T) {
	a := model.NewElement("paragraph", nil)
	b := model.NewElement("paragraph", nil)
	root2 := model.NewElement(model.RootName, nil, a, b)

	var w view.Writer
	vroot := view.NewFragment()
	va := w.CreateContainerElement("p", nil)
	require.NoError(t, w.Append(va, vroot))

	m := NewMapper()
	m.Bind(root2, vroot)
	m.Bind(a, va)

	pos, ok := m.ToViewPosition(model.PositionAt(root2, 2))
	require.True(t, ok)
	assert.Equal(t, vroot, pos.Parent)
	assert.Equal(t, 1, pos.Offset)

	pos, ok = m.ToViewPosition(model.PositionAt(root2, 0))
	require.True(t, ok)
	assert.Equal(t, 0, pos.Offset)

	_, ok = m.ToViewPosition(model.PositionAt(b, 0))
	assert.False(t, ok)

	assert.Equal(t, a, m.ToModelElement(va))
	m.UnbindModel(root2)
	assert.Zero(t, m.Len())
}

func TestConsumables(t *testing.T) {
	mc := NewModelConsumable()
	n := model.NewText("x", nil)
	assert.False(t, mc.Consume(n, ConsumeInsert))
	mc.Add(n, ConsumeInsert)
	assert.True(t, mc.Test(n, ConsumeInsert))
	assert.True(t, mc.Consume(n, ConsumeInsert))
	assert.False(t, mc.Consume(n, ConsumeInsert))

	var w view.Writer
	img := w.CreateEmptyElement("img", map[string]string{"src": "a", "class": "big", "style": "width:1px"})
	vc := NewViewConsumable(img)
	m := view.NewMatcher(view.Pattern{Name: "img", Classes: []string{"big"}, Styles: map[string]string{"width": ""}}).Match(img)
	require.NotNil(t, m)
	assert.True(t, vc.TestMatch(m))
	vc.ConsumeMatch(m)
	assert.False(t, vc.TestMatch(m))
	assert.False(t, vc.TestName(img))
	assert.True(t, vc.ConsumeAttribute(img, "src"))
	assert.False(t, vc.TestAttribute(img, "src"))
}
