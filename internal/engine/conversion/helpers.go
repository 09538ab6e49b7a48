package conversion

import (
	"fmt"

	"github.com/dshills/richedit/internal/engine/model"
	"github.com/dshills/richedit/internal/engine/view"
	"github.com/dshills/richedit/internal/event"
	"github.com/dshills/richedit/internal/event/topic"
)

// ElementToElementConfig maps a model element to a view element.
type ElementToElementConfig struct {
	// Model is the model element name.
	Model string

	// View is the view element name. Downcasting creates it (an empty
	// element for void HTML names); upcasting matches it unless
	// ViewPattern is set.
	View string

	// ViewPattern matches view elements when upcasting.
	ViewPattern *view.Pattern

	// CreateView overrides how the view element is built when downcasting.
	CreateView func(el *model.Element, api *DowncastAPI) *view.Element

	// CreateModel overrides how the model element is built when upcasting.
	CreateModel func(el *view.Element, api *UpcastAPI) *model.Element

	// Priority is "highest", "high", "normal" (default), "low" or "lowest".
	Priority string
}

// AttributeToAttributeConfig maps a model attribute to a view attribute.
type AttributeToAttributeConfig struct {
	// Model is the model element name; empty applies to every element.
	Model string

	// Key is the model attribute key.
	Key string

	// View is the view element name matched when upcasting; empty matches
	// every element.
	View string

	// ViewKey is the view attribute key. Defaults to Key.
	ViewKey string

	// ToView formats the model value. Defaults to fmt.Sprint.
	ToView func(value any) string

	// ToModel converts the view value. Defaults to the string itself.
	ToModel func(value string, el *view.Element) any

	// Target selects the element inside the mapped view element that holds
	// the attribute, e.g. the <img> of a widget.
	Target func(el *view.Element) *view.Element

	// Priority defaults to "normal" for downcast and "low" for upcast so
	// that element converters produce the model element first.
	Priority string
}

func (cfg AttributeToAttributeConfig) viewKey() string {
	if cfg.ViewKey != "" {
		return cfg.ViewKey
	}
	return cfg.Key
}

func downcastElementToElement(d *DowncastDispatcher, cfg ElementToElementConfig) error {
	if cfg.Model == "" || (cfg.View == "" && cfg.CreateView == nil) {
		return fmt.Errorf("element to element %q: %w", cfg.Model, ErrInvalidConfig)
	}
	create := cfg.CreateView
	if create == nil {
		create = func(_ *model.Element, api *DowncastAPI) *view.Element {
			if view.IsVoidElement(cfg.View) {
				return api.Writer.CreateEmptyElement(cfg.View, nil)
			}
			return api.Writer.CreateContainerElement(cfg.View, nil)
		}
	}
	d.On(topic.Join("insert", cfg.Model), InsertElement(create), event.WithPriority(event.ParsePriority(cfg.Priority)))
	return nil
}

// InsertElement returns an insert converter that creates a view element
// with create, inserts it at the mapped position and binds it.
func InsertElement(create func(el *model.Element, api *DowncastAPI) *view.Element) event.Callback {
	return func(_ *event.Info, data any) {
		d := data.(*InsertData)
		el, ok := d.Item.(*model.Element)
		if !ok || !d.API.Consumable.Test(el, ConsumeInsert) {
			return
		}
		pos, ok := d.API.Mapper.ToViewPosition(d.Position)
		if !ok {
			return
		}
		viewEl := create(el, d.API)
		if viewEl == nil {
			return
		}
		if err := d.API.Writer.Insert(pos, viewEl); err != nil {
			d.API.Fail(fmt.Errorf("insert <%s> for %s: %w", viewEl.Name(), el.Name(), err))
			return
		}
		d.API.Consumable.Consume(el, ConsumeInsert)
		d.API.Mapper.Bind(el, viewEl)
	}
}

func upcastElementToElement(d *UpcastDispatcher, cfg ElementToElementConfig) error {
	if cfg.View == "" && cfg.ViewPattern == nil {
		return fmt.Errorf("element to element %q: %w", cfg.Model, ErrInvalidConfig)
	}
	if cfg.Model == "" && cfg.CreateModel == nil {
		return fmt.Errorf("element to element %q: %w", cfg.View, ErrInvalidConfig)
	}
	pattern := view.Pattern{Name: cfg.View}
	if cfg.ViewPattern != nil {
		pattern = *cfg.ViewPattern
	}
	matcher := view.NewMatcher(pattern)
	create := cfg.CreateModel
	if create == nil {
		create = func(_ *view.Element, api *UpcastAPI) *model.Element {
			return api.Writer.CreateElement(cfg.Model, nil)
		}
	}
	d.On(elementTopic(matcher), UpcastElement(matcher, create), event.WithPriority(event.ParsePriority(cfg.Priority)))
	return nil
}

// UpcastElement returns an element converter that creates a model element
// for view elements matched by matcher and converts their children into it.
func UpcastElement(matcher *view.Matcher, create func(el *view.Element, api *UpcastAPI) *model.Element) event.Callback {
	return func(_ *event.Info, data any) {
		d := data.(*UpcastData)
		viewEl, ok := d.ViewItem.(*view.Element)
		if !ok {
			return
		}
		m := matcher.Match(viewEl)
		if m == nil || !d.API.CanClaim(m) {
			return
		}
		modelEl := create(viewEl, d.API)
		if modelEl == nil {
			return
		}
		after, ok := d.API.SafeInsert(modelEl, d.Cursor)
		if !ok {
			return
		}
		d.API.Claim(m)

		_, inner := d.API.ConvertChildren(viewEl, model.PositionAt(modelEl, 0))
		d.Result = append(d.Result, modelEl)
		cursor := d.API.CursorAfter(modelEl, inner)
		if modelEl.Parent() != nil && cursor.IsEqual(model.PositionAfter(modelEl)) {
			cursor = after
		}
		d.Cursor = cursor
	}
}

func downcastAttributeToAttribute(d *DowncastDispatcher, cfg AttributeToAttributeConfig) error {
	if cfg.Key == "" {
		return fmt.Errorf("attribute to attribute: %w", ErrInvalidConfig)
	}
	name := cfg.Model
	if name == "" {
		name = topic.WildcardSingle
	}
	d.On(topic.Join("attribute", cfg.Key, name), ChangeAttribute(cfg.viewKey(), cfg.ToView, cfg.Target),
		event.WithPriority(event.ParsePriority(cfg.Priority)))
	return nil
}

// ChangeAttribute returns an attribute converter that sets viewKey on the
// mapped view element, or removes it when the model value is removed.
func ChangeAttribute(viewKey string, format func(any) string, target func(*view.Element) *view.Element) event.Callback {
	if format == nil {
		format = func(v any) string { return fmt.Sprint(v) }
	}
	return func(_ *event.Info, data any) {
		d := data.(*AttributeData)
		kind := AttributeConsumable(d.Key)
		if !d.API.Consumable.Test(d.Item, kind) {
			return
		}
		el := d.API.Mapper.ToViewElement(d.Item)
		if el != nil && target != nil {
			el = target(el)
		}
		if el == nil {
			return
		}
		d.API.Consumable.Consume(d.Item, kind)
		if d.NewValue == nil {
			d.API.Writer.RemoveAttribute(viewKey, el)
			return
		}
		d.API.Writer.SetAttribute(viewKey, format(d.NewValue), el)
	}
}

func upcastAttributeToAttribute(d *UpcastDispatcher, cfg AttributeToAttributeConfig) error {
	if cfg.Key == "" {
		return fmt.Errorf("attribute to attribute: %w", ErrInvalidConfig)
	}
	viewKey := cfg.viewKey()
	matcher := view.NewMatcher(view.Pattern{Name: cfg.View, Attributes: map[string]string{viewKey: ""}})
	toModel := cfg.ToModel
	if toModel == nil {
		toModel = func(v string, _ *view.Element) any { return v }
	}
	priority := event.PriorityLow
	if cfg.Priority != "" {
		priority = event.ParsePriority(cfg.Priority)
	}

	d.On(elementTopic(matcher), func(_ *event.Info, data any) {
		u := data.(*UpcastData)
		viewEl, ok := u.ViewItem.(*view.Element)
		if !ok || matcher.Match(viewEl) == nil || !u.API.Consumable.TestAttribute(viewEl, viewKey) {
			return
		}
		raw, _ := viewEl.GetAttribute(viewKey)
		value := toModel(raw, viewEl)
		if value == nil {
			return
		}
		set := false
		for _, n := range u.Result {
			el, ok := n.(*model.Element)
			if !ok || (cfg.Model != "" && el.Name() != cfg.Model) || !u.API.Schema.CheckAttribute(el.Name(), cfg.Key) {
				continue
			}
			if err := u.API.Writer.SetAttribute(cfg.Key, value, el); err != nil {
				u.API.Fail(err)
				continue
			}
			set = true
		}
		if set {
			u.API.Consumable.ConsumeAttribute(viewEl, viewKey)
		}
	}, event.WithPriority(priority))
	return nil
}

func elementTopic(m *view.Matcher) topic.Topic {
	if name := m.ElementName(); name != "" {
		return topic.Join("element", name)
	}
	return topic.Join("element", topic.WildcardSingle)
}
