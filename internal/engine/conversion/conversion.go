package conversion

import (
	"fmt"
	"slices"

	"github.com/dshills/richedit/internal/event"
	"github.com/dshills/richedit/internal/event/topic"
)

// Conversion group names.
const (
	GroupDataDowncast    = "dataDowncast"
	GroupEditingDowncast = "editingDowncast"
	GroupDowncast        = "downcast"
	GroupUpcast          = "upcast"
)

// Dispatcher is the listener side of a dispatcher, used by custom
// converters registered through Helpers.Add.
type Dispatcher interface {
	On(pattern topic.Topic, callback event.Callback, opts ...event.ListenOption) event.Subscription
}

// Conversion groups dispatchers under names so that features register
// converters without knowing which pipelines exist.
type Conversion struct {
	downcast map[string][]*DowncastDispatcher
	upcast   map[string][]*UpcastDispatcher
}

// New creates a conversion with the standard groups. The "downcast" group
// targets both the data and the editing dispatcher.
func New(data, editing *DowncastDispatcher, upcast *UpcastDispatcher) *Conversion {
	c := &Conversion{
		downcast: make(map[string][]*DowncastDispatcher),
		upcast:   make(map[string][]*UpcastDispatcher),
	}
	c.AddDowncast(GroupDataDowncast, data)
	c.AddDowncast(GroupEditingDowncast, editing)
	c.AddDowncast(GroupDowncast, data, editing)
	c.AddUpcast(GroupUpcast, upcast)
	return c
}

// AddDowncast adds downcast dispatchers to a group, creating it if needed.
func (c *Conversion) AddDowncast(group string, dispatchers ...*DowncastDispatcher) {
	c.downcast[group] = append(c.downcast[group], dispatchers...)
}

// AddUpcast adds upcast dispatchers to a group, creating it if needed.
func (c *Conversion) AddUpcast(group string, dispatchers ...*UpcastDispatcher) {
	c.upcast[group] = append(c.upcast[group], dispatchers...)
}

// Groups returns the defined group names in sorted order.
func (c *Conversion) Groups() []string {
	var names []string
	for name := range c.downcast {
		names = append(names, name)
	}
	for name := range c.upcast {
		names = append(names, name)
	}
	slices.Sort(names)
	return slices.Compact(names)
}

// For returns the converter helpers of a group. Helpers of an unknown group
// register nothing and report ErrUnknownGroup from Err.
func (c *Conversion) For(group string) *Helpers {
	h := &Helpers{group: group, downcast: c.downcast[group], upcast: c.upcast[group]}
	if len(h.downcast) == 0 && len(h.upcast) == 0 {
		h.err = fmt.Errorf("%q: %w", group, ErrUnknownGroup)
	}
	return h
}

// Helpers registers converters on every dispatcher of one group. Methods
// return the receiver for chaining; the first error is kept and reported
// by Err.
type Helpers struct {
	group    string
	downcast []*DowncastDispatcher
	upcast   []*UpcastDispatcher
	err      error
}

// Err returns the first registration error.
func (h *Helpers) Err() error { return h.err }

// Add calls fn with every dispatcher of the group.
func (h *Helpers) Add(fn func(d Dispatcher)) *Helpers {
	if h.err != nil {
		return h
	}
	for _, d := range h.downcast {
		fn(d)
	}
	for _, d := range h.upcast {
		fn(d)
	}
	return h
}

// ElementToElement registers element converters for the group's direction.
func (h *Helpers) ElementToElement(cfg ElementToElementConfig) *Helpers {
	if h.err != nil {
		return h
	}
	for _, d := range h.downcast {
		if err := downcastElementToElement(d, cfg); err != nil {
			h.err = fmt.Errorf("%s: %w", h.group, err)
			return h
		}
	}
	for _, d := range h.upcast {
		if err := upcastElementToElement(d, cfg); err != nil {
			h.err = fmt.Errorf("%s: %w", h.group, err)
			return h
		}
	}
	return h
}

// AttributeToAttribute registers attribute converters for the group's
// direction.
func (h *Helpers) AttributeToAttribute(cfg AttributeToAttributeConfig) *Helpers {
	if h.err != nil {
		return h
	}
	for _, d := range h.downcast {
		if err := downcastAttributeToAttribute(d, cfg); err != nil {
			h.err = fmt.Errorf("%s: %w", h.group, err)
			return h
		}
	}
	for _, d := range h.upcast {
		if err := upcastAttributeToAttribute(d, cfg); err != nil {
			h.err = fmt.Errorf("%s: %w", h.group, err)
			return h
		}
	}
	return h
}
