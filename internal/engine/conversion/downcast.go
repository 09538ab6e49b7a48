package conversion

import (
	"errors"
	"reflect"

	"github.com/dshills/richedit/internal/engine/model"
	"github.com/dshills/richedit/internal/engine/view"
	"github.com/dshills/richedit/internal/event"
	"github.com/dshills/richedit/internal/event/topic"
)

// DowncastAPI is handed to downcast converters.
type DowncastAPI struct {
	Mapper     *Mapper
	Writer     view.Writer
	Schema     *model.Schema
	Consumable *ModelConsumable
	Dispatcher *DowncastDispatcher

	errs []error
}

// Fail records a converter error. Conversion continues; the dispatcher
// returns the joined errors.
func (api *DowncastAPI) Fail(err error) {
	if err != nil {
		api.errs = append(api.errs, err)
	}
}

// InsertData is the payload of insert.<name> events.
type InsertData struct {
	Item     model.Node
	Position model.Position
	API      *DowncastAPI
}

// AttributeData is the payload of attribute.<key>.<name> events. NewValue
// is nil when the attribute was removed.
type AttributeData struct {
	Item     model.Node
	Key      string
	OldValue any
	NewValue any
	API      *DowncastAPI
}

// RemoveData is the payload of remove.<name> events. Position is where the
// node was before removal.
type RemoveData struct {
	Item     model.Node
	Position model.Position
	API      *DowncastAPI
}

// DowncastDispatcher converts model nodes and model changes into view
// mutations through converters registered on its emitter.
type DowncastDispatcher struct {
	*event.Emitter

	name   string
	schema *model.Schema
	mapper *Mapper
}

// NewDowncastDispatcher creates a dispatcher with the default text and
// removal converters.
func NewDowncastDispatcher(name string, schema *model.Schema, mapper *Mapper) *DowncastDispatcher {
	d := &DowncastDispatcher{name: name, schema: schema, mapper: mapper}
	d.Emitter = event.NewEmitterFor(d)

	d.On(topic.Join("insert", model.TextName), convertText, event.WithPriority(event.PriorityLowest))
	d.On("remove.*", convertRemove, event.WithPriority(event.PriorityLowest))
	return d
}

// Name returns the pipeline name.
func (d *DowncastDispatcher) Name() string { return d.name }

// Mapper returns the mapper used by the dispatcher.
func (d *DowncastDispatcher) Mapper() *Mapper { return d.mapper }

func (d *DowncastDispatcher) newAPI() *DowncastAPI {
	return &DowncastAPI{
		Mapper:     d.mapper,
		Schema:     d.schema,
		Consumable: NewModelConsumable(),
		Dispatcher: d,
	}
}

// ConvertInsert converts nodes, their attributes and their descendants.
// Each node must already be in its model parent.
func (d *DowncastDispatcher) ConvertInsert(nodes ...model.Node) error {
	api := d.newAPI()
	var items []model.Node
	for _, n := range nodes {
		items = append(items, n)
		if el, ok := n.(*model.Element); ok {
			items = append(items, el.Descendants()...)
		}
	}
	for _, item := range items {
		api.Consumable.Add(item, ConsumeInsert)
		for _, key := range item.AttributeKeys() {
			api.Consumable.Add(item, AttributeConsumable(key))
		}
	}

	for _, item := range items {
		d.Fire(topic.Join("insert", item.Name()), &InsertData{
			Item:     item,
			Position: model.PositionBefore(item),
			API:      api,
		})
		for _, key := range item.AttributeKeys() {
			value, _ := item.GetAttribute(key)
			d.fireAttribute(api, item, key, nil, value)
		}
	}
	return errors.Join(api.errs...)
}

// ConvertAttribute converts a single attribute change.
func (d *DowncastDispatcher) ConvertAttribute(item model.Node, key string, oldValue, newValue any) error {
	api := d.newAPI()
	api.Consumable.Add(item, AttributeConsumable(key))
	d.fireAttribute(api, item, key, oldValue, newValue)
	return errors.Join(api.errs...)
}

// ConvertRemove converts the removal of item from parent at index.
func (d *DowncastDispatcher) ConvertRemove(item model.Node, parent *model.Element, index int) error {
	api := d.newAPI()
	api.Consumable.Add(item, ConsumeRemove)
	d.Fire(topic.Join("remove", item.Name()), &RemoveData{
		Item:     item,
		Position: model.PositionAt(parent, index),
		API:      api,
	})
	return errors.Join(api.errs...)
}

// ConvertChanges converts a batch of model changes. Removals are converted
// first, then insertions of nodes that are still attached, then attribute
// changes of nodes that were not inserted in the same batch.
func (d *DowncastDispatcher) ConvertChanges(changes []model.Change) error {
	var errs []error

	for _, c := range changes {
		if c.Type == model.ChangeRemove {
			errs = append(errs, d.ConvertRemove(c.Node, c.Parent, c.Index))
		}
	}

	inserted := make(map[model.Node]bool)
	for _, c := range changes {
		if c.Type == model.ChangeInsert && c.Node.IsAttached() {
			inserted[c.Node] = true
		}
	}
	covered := make(map[model.Node]bool)
	for _, c := range changes {
		if c.Type != model.ChangeInsert || !inserted[c.Node] || covered[c.Node] || hasInsertedAncestor(c.Node, inserted) {
			continue
		}
		covered[c.Node] = true
		if el, ok := c.Node.(*model.Element); ok {
			for _, n := range el.Descendants() {
				covered[n] = true
			}
		}
		errs = append(errs, d.ConvertInsert(c.Node))
	}

	type attrKey struct {
		node model.Node
		key  string
	}
	first := make(map[attrKey]any)
	var order []attrKey
	for _, c := range changes {
		if c.Type != model.ChangeAttribute || covered[c.Node] || !c.Node.IsAttached() {
			continue
		}
		k := attrKey{c.Node, c.Key}
		if _, seen := first[k]; !seen {
			first[k] = c.OldValue
			order = append(order, k)
		}
	}
	for _, k := range order {
		current, _ := k.node.GetAttribute(k.key)
		if reflect.DeepEqual(first[k], current) {
			continue
		}
		errs = append(errs, d.ConvertAttribute(k.node, k.key, first[k], current))
	}
	return errors.Join(errs...)
}

func (d *DowncastDispatcher) fireAttribute(api *DowncastAPI, item model.Node, key string, oldValue, newValue any) {
	d.Fire(topic.Join("attribute", key, item.Name()), &AttributeData{
		Item:     item,
		Key:      key,
		OldValue: oldValue,
		NewValue: newValue,
		API:      api,
	})
}

func hasInsertedAncestor(n model.Node, inserted map[model.Node]bool) bool {
	for _, a := range model.Ancestors(n) {
		if inserted[a] {
			return true
		}
	}
	return false
}

func convertText(_ *event.Info, data any) {
	d := data.(*InsertData)
	text, ok := d.Item.(*model.Text)
	if !ok || !d.API.Consumable.Test(text, ConsumeInsert) {
		return
	}
	pos, ok := d.API.Mapper.ToViewPosition(d.Position)
	if !ok {
		return
	}
	viewText := d.API.Writer.CreateText(text.Data())
	if err := d.API.Writer.Insert(pos, viewText); err != nil {
		d.API.Fail(err)
		return
	}
	d.API.Consumable.Consume(text, ConsumeInsert)
	d.API.Mapper.Bind(text, viewText)
}

func convertRemove(_ *event.Info, data any) {
	d := data.(*RemoveData)
	if !d.API.Consumable.Consume(d.Item, ConsumeRemove) {
		return
	}
	if v := d.API.Mapper.ToViewNode(d.Item); v != nil {
		d.API.Writer.Remove(v)
	}
	d.API.Mapper.UnbindModel(d.Item)
}
