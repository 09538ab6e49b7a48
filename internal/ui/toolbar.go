package ui

import (
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/dshills/richedit/internal/command"
)

// Toolbar is an ordered list of components.
type Toolbar struct {
	items []Component
}

// BuildToolbar creates the toolbar items named in names. Unknown names are
// skipped with a warning; separators at the edges or next to each other
// are dropped.
func BuildToolbar(factory *ComponentFactory, names []string, log logrus.FieldLogger) *Toolbar {
	t := &Toolbar{}
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if name == SeparatorName {
			if len(t.items) > 0 && !isSeparator(t.items[len(t.items)-1]) {
				t.items = append(t.items, Separator{})
			}
			continue
		}
		item, err := factory.Create(name)
		if err != nil {
			if errors.Is(err, ErrComponentNotFound) {
				log.WithField("item", name).Warn("toolbar item not available, skipping")
				continue
			}
			log.WithError(err).WithField("item", name).Warn("toolbar item failed")
			continue
		}
		t.items = append(t.items, item)
	}
	if n := len(t.items); n > 0 && isSeparator(t.items[n-1]) {
		t.items = t.items[:n-1]
	}
	return t
}

func isSeparator(c Component) bool {
	_, ok := c.(Separator)
	return ok
}

// Items returns the toolbar items.
func (t *Toolbar) Items() []Component {
	out := make([]Component, len(t.items))
	copy(out, t.items)
	return out
}

// Len returns the number of items, separators included.
func (t *Toolbar) Len() int { return len(t.items) }

// FindItem returns the first item matching pred, or nil.
func (t *Toolbar) FindItem(pred func(Component) bool) Component {
	for _, item := range t.items {
		if pred(item) {
			return item
		}
	}
	return nil
}

// FindButton returns the first button with the given label.
func (t *Toolbar) FindButton(label string) *Button {
	item := t.FindItem(func(c Component) bool {
		b, ok := c.(*Button)
		return ok && b.Label == label
	})
	if item == nil {
		return nil
	}
	return item.(*Button)
}

// Refresh updates the state of buttons bound to commands.
func (t *Toolbar) Refresh(commands *command.Collection) {
	for _, item := range t.items {
		b, ok := item.(*Button)
		if !ok || b.Command == "" {
			continue
		}
		cmd, ok := commands.Get(b.Command)
		if !ok {
			b.IsEnabled = false
			continue
		}
		cmd.Refresh()
		b.IsEnabled = cmd.IsEnabled()
		on, _ := cmd.Value().(bool)
		b.IsOn = on
	}
}

// Render returns a one-line rendering of the toolbar. Disabled buttons are
// rendered with a trailing "(disabled)".
func (t *Toolbar) Render() string {
	parts := make([]string, 0, len(t.items))
	for _, item := range t.items {
		switch c := item.(type) {
		case Separator:
			parts = append(parts, SeparatorName)
		case *Button:
			s := "[" + c.Label + "]"
			if !c.IsEnabled {
				s += " (disabled)"
			}
			parts = append(parts, s)
		default:
			parts = append(parts, "["+c.ComponentName()+"]")
		}
	}
	return strings.Join(parts, " ")
}
