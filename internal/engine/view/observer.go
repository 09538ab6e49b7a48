package view

import (
	"github.com/dshills/richedit/internal/event"
	"github.com/dshills/richedit/internal/event/topic"
)

// DomEventObserver is a base for observers that translate a single DOM
// event type. Embed it and call ListenTo from Observe.
type DomEventObserver struct {
	View *View

	disabled bool
	subs     []event.Subscription
}

// ListenTo subscribes fn to dom.<domType> while the observer is enabled.
func (o *DomEventObserver) ListenTo(doc *Document, domType string, fn func(DomEventData)) {
	sub := doc.On(topic.Join("dom", domType), func(_ *event.Info, data any) {
		if o.disabled {
			return
		}
		if d, ok := data.(DomEventData); ok {
			fn(d)
		}
	})
	o.subs = append(o.subs, sub)
}

// Enable resumes translating DOM events.
func (o *DomEventObserver) Enable() { o.disabled = false }

// Disable pauses translating DOM events.
func (o *DomEventObserver) Disable() { o.disabled = true }

// IsEnabled reports whether the observer translates events.
func (o *DomEventObserver) IsEnabled() bool { return !o.disabled }

// Destroy removes all subscriptions.
func (o *DomEventObserver) Destroy() {
	for _, s := range o.subs {
		s.Off()
	}
	o.subs = nil
	o.disabled = true
}
