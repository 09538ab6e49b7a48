package conversion

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dshills/richedit/internal/engine/model"
	"github.com/dshills/richedit/internal/engine/view"
	"github.com/dshills/richedit/internal/event"
	"github.com/dshills/richedit/internal/event/topic"
)

// AutoParagraphName is the model element used to wrap inline content found
// where only blocks are allowed.
const AutoParagraphName = "paragraph"

// Policy controls how overlapping element converters interact.
type Policy int

const (
	// PolicyFirstMatch lets the first converter that consumes a view element
	// win. Later converters see the element as consumed.
	PolicyFirstMatch Policy = iota

	// PolicyAllMatches lets every matching element converter fire, whether
	// or not an earlier converter consumed the element name.
	PolicyAllMatches
)

// String returns the configuration name of the policy.
func (p Policy) String() string {
	if p == PolicyAllMatches {
		return "all-matches"
	}
	return "first-match"
}

// ParsePolicy parses "first-match" or "all-matches". An empty string is
// first-match.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "first-match":
		return PolicyFirstMatch, nil
	case "all-matches":
		return PolicyAllMatches, nil
	default:
		return PolicyFirstMatch, fmt.Errorf("%q: %w", s, ErrUnknownPolicy)
	}
}

// UpcastData is the payload of upcast events. Converters append the model
// nodes they produce to Result and move Cursor past them.
type UpcastData struct {
	ViewItem view.Node
	Cursor   model.Position
	Result   []model.Node
	API      *UpcastAPI
}

// Converted reports whether a converter produced or consumed something.
func (d *UpcastData) Converted() bool { return len(d.Result) > 0 }

// UpcastAPI is handed to upcast converters.
type UpcastAPI struct {
	Writer     *model.Writer
	Schema     *model.Schema
	Consumable *ViewConsumable
	Dispatcher *UpcastDispatcher

	autoParagraphs map[*model.Element]bool
	errs           []error
}

// Fail records a converter error.
func (api *UpcastAPI) Fail(err error) {
	if err != nil {
		api.errs = append(api.errs, err)
	}
}

// Claim reports whether a converter may convert the match and consumes it.
// Under PolicyAllMatches an already consumed element name does not block
// the converter.
func (api *UpcastAPI) Claim(m *view.Match) bool {
	if api.Dispatcher.policy == PolicyFirstMatch && !api.Consumable.TestMatch(m) {
		return false
	}
	api.Consumable.ConsumeMatch(m)
	return true
}

// CanClaim reports whether Claim would succeed, without consuming.
func (api *UpcastAPI) CanClaim(m *view.Match) bool {
	if api.Dispatcher.policy == PolicyAllMatches {
		_, ok := api.Consumable.elements[m.Element]
		return ok
	}
	return api.Consumable.TestMatch(m)
}

// ConvertItem converts a single view node at cursor.
func (api *UpcastAPI) ConvertItem(node view.Node, cursor model.Position) ([]model.Node, model.Position) {
	data := &UpcastData{ViewItem: node, Cursor: cursor, API: api}
	switch n := node.(type) {
	case *view.Text:
		api.Dispatcher.Fire("text", data)
	case *view.Element:
		if n.Kind() == view.KindUI {
			return nil, cursor
		}
		api.Dispatcher.Fire(topic.Join("element", n.Name()), data)
	}
	return data.Result, data.Cursor
}

// ConvertChildren converts the children of parent, threading the cursor
// through each of them.
func (api *UpcastAPI) ConvertChildren(parent *view.Element, cursor model.Position) ([]model.Node, model.Position) {
	var result []model.Node
	for _, child := range parent.Children() {
		nodes, next := api.ConvertItem(child, cursor)
		result = append(result, nodes...)
		cursor = next
	}
	return result, cursor
}

// SafeInsert inserts node at cursor. When the schema forbids it there, the
// cursor's ancestors are split until an allowed parent is found; failing
// that, the node is wrapped in a paragraph. It returns the position after
// the inserted content.
func (api *UpcastAPI) SafeInsert(node model.Node, cursor model.Position) (model.Position, bool) {
	schema := api.Schema
	if schema.CheckChild(cursor.Parent.Name(), node.Name()) {
		if err := api.Writer.Insert(node, cursor); err != nil {
			api.Fail(err)
			return cursor, false
		}
		return model.PositionAfter(node), true
	}

	if allowed, ok := schema.FindAllowedParent(cursor, node.Name()); ok {
		pos := cursor
		for pos.Parent != allowed.Parent {
			next, err := api.Writer.Split(pos)
			if err != nil {
				api.Fail(err)
				return cursor, false
			}
			pos = next
		}
		if err := api.Writer.Insert(node, pos); err != nil {
			api.Fail(err)
			return cursor, false
		}
		return model.PositionAfter(node), true
	}

	if schema.CheckChild(cursor.Parent.Name(), AutoParagraphName) && schema.CheckChild(AutoParagraphName, node.Name()) {
		para := api.autoParagraphBefore(cursor)
		if para == nil {
			para = api.Writer.CreateElement(AutoParagraphName, nil)
			if err := api.Writer.Insert(para, cursor); err != nil {
				api.Fail(err)
				return cursor, false
			}
			api.autoParagraphs[para] = true
		}
		if err := api.Writer.Append(node, para); err != nil {
			api.Fail(err)
			return cursor, false
		}
		return model.PositionAfter(para), true
	}
	return cursor, false
}

// CursorAfter returns the cursor to continue with after an element whose
// children were converted up to inner. When conversion split the element,
// inner already points outside of it.
func (api *UpcastAPI) CursorAfter(el *model.Element, inner model.Position) model.Position {
	for p := inner.Parent; p != nil; p = p.Parent() {
		if p == el {
			return model.PositionAfter(el)
		}
	}
	if el.IsEmpty() && el.Parent() != nil {
		if inner.Parent == el.Parent() && el.Index() < inner.Offset {
			inner.Offset--
		}
		if err := api.Writer.Remove(el); err != nil {
			api.Fail(err)
		}
	}
	return inner
}

func (api *UpcastAPI) autoParagraphBefore(cursor model.Position) *model.Element {
	el, ok := cursor.NodeBefore().(*model.Element)
	if ok && api.autoParagraphs[el] {
		return el
	}
	return nil
}

// UpcastDispatcher converts a view tree into a model document fragment.
type UpcastDispatcher struct {
	*event.Emitter

	schema *model.Schema
	policy Policy
}

// NewUpcastDispatcher creates a dispatcher with the default fragment, text
// and fallback element converters.
func NewUpcastDispatcher(schema *model.Schema, policy Policy) *UpcastDispatcher {
	d := &UpcastDispatcher{schema: schema, policy: policy}
	d.Emitter = event.NewEmitterFor(d)

	lowest := event.WithPriority(event.PriorityLowest)
	d.On("documentFragment", convertFragment, lowest)
	d.On("text", convertViewText, lowest)
	d.On("element.*", convertUnknownElement, lowest)
	return d
}

// Policy returns the element converter policy.
func (d *UpcastDispatcher) Policy() Policy { return d.policy }

// SetPolicy changes the element converter policy.
func (d *UpcastDispatcher) SetPolicy(p Policy) { d.policy = p }

// Convert upcasts the children of a view fragment into a new model
// document fragment. It must be called inside a model change block.
func (d *UpcastDispatcher) Convert(fragment *view.Element, w *model.Writer) (*model.Element, error) {
	api := &UpcastAPI{
		Writer:         w,
		Schema:         d.schema,
		Consumable:     NewViewConsumable(fragment),
		Dispatcher:     d,
		autoParagraphs: make(map[*model.Element]bool),
	}
	out := w.CreateDocumentFragment()
	d.Fire("documentFragment", &UpcastData{
		ViewItem: fragment,
		Cursor:   model.PositionAt(out, 0),
		API:      api,
	})
	return out, errors.Join(api.errs...)
}

func convertFragment(_ *event.Info, data any) {
	d := data.(*UpcastData)
	frag, ok := d.ViewItem.(*view.Element)
	if !ok {
		return
	}
	d.Result, d.Cursor = d.API.ConvertChildren(frag, d.Cursor)
}

func convertViewText(_ *event.Info, data any) {
	d := data.(*UpcastData)
	text, ok := d.ViewItem.(*view.Text)
	if !ok || !d.API.Consumable.TestText(text) {
		return
	}
	schema := d.API.Schema
	parent := d.Cursor.Parent.Name()
	if !schema.CheckChild(parent, model.TextName) && strings.TrimSpace(text.Data()) == "" {
		d.API.Consumable.ConsumeText(text)
		return
	}
	node := d.API.Writer.CreateText(text.Data(), nil)
	after, ok := d.API.SafeInsert(node, d.Cursor)
	if !ok {
		return
	}
	d.API.Consumable.ConsumeText(text)
	d.Result = append(d.Result, node)
	d.Cursor = after
}

func convertUnknownElement(_ *event.Info, data any) {
	d := data.(*UpcastData)
	el, ok := d.ViewItem.(*view.Element)
	if !ok || d.Converted() || !d.API.Consumable.ConsumeName(el) {
		return
	}
	d.Result, d.Cursor = d.API.ConvertChildren(el, d.Cursor)
}
