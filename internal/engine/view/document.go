package view

import (
	"reflect"

	"github.com/dshills/richedit/internal/event"
	"github.com/dshills/richedit/internal/event/topic"
)

// DomEventData is the payload of events fired through FireDomEvent.
type DomEventData struct {
	// Type is the DOM event type, e.g. "load".
	Type string

	// Target is the view node the DOM event happened on.
	Target Node

	// Data carries host-specific details.
	Data map[string]any
}

// Document is the editing view document. Observers and features listen on
// its embedded emitter:
//
//	dom.<type>      raw DOM signals delivered by the host
//	layoutChanged   the rendered layout may have changed
//	render          the view was (re)rendered
type Document struct {
	*event.Emitter
	root *Element
}

// Root returns the editable root element.
func (d *Document) Root() *Element { return d.root }

// Observer reacts to DOM-level signals on the view document.
type Observer interface {
	// Observe starts observing the document.
	Observe(doc *Document)

	// Enable and Disable toggle whether observed signals are translated.
	Enable()
	Disable()

	// Destroy stops observing.
	Destroy()
}

// ObserverFactory creates an observer bound to a view.
type ObserverFactory func(v *View) Observer

// View is the editing view: a document, its observers and a renderer.
type View struct {
	Writer Writer

	document  *Document
	observers map[reflect.Type]Observer
	order     []Observer
	processor HTMLProcessor
	renders   int
	destroyed bool
}

// NewView creates an editing view with an empty root named rootName.
func NewView(rootName string) *View {
	root := newElement(KindRoot, rootName, nil)
	doc := &Document{root: root}
	doc.Emitter = event.NewEmitterFor(doc)
	return &View{
		document:  doc,
		observers: make(map[reflect.Type]Observer),
	}
}

// Document returns the view document.
func (v *View) Document() *Document { return v.document }

// Root returns the editable root.
func (v *View) Root() *Element { return v.document.root }

// AddObserver creates and registers an observer. Adding the same observer
// type twice returns the existing instance.
func (v *View) AddObserver(factory ObserverFactory) Observer {
	obs := factory(v)
	typ := reflect.TypeOf(obs)
	if existing, ok := v.observers[typ]; ok {
		return existing
	}
	v.observers[typ] = obs
	v.order = append(v.order, obs)
	obs.Observe(v.document)
	return obs
}

// Observers returns the registered observers in registration order.
func (v *View) Observers() []Observer {
	out := make([]Observer, len(v.order))
	copy(out, v.order)
	return out
}

// FireDomEvent delivers a DOM-level signal from the host to observers.
func (v *View) FireDomEvent(eventType string, target Node, data map[string]any) *event.Info {
	if v.destroyed {
		return &event.Info{}
	}
	return v.document.Fire(topic.Join("dom", eventType), DomEventData{Type: eventType, Target: target, Data: data})
}

// Render serializes the editing root and fires "render".
func (v *View) Render() (string, error) {
	if v.destroyed {
		return "", ErrViewDestroyed
	}
	out, err := v.processor.ToData(v.document.root)
	if err != nil {
		return "", err
	}
	v.renders++
	v.document.Fire("render", v.renders)
	return out, nil
}

// RenderCount returns how many times Render ran.
func (v *View) RenderCount() int { return v.renders }

// Destroy destroys every observer in reverse order and detaches listeners.
func (v *View) Destroy() {
	if v.destroyed {
		return
	}
	v.destroyed = true
	for i := len(v.order) - 1; i >= 0; i-- {
		v.order[i].Destroy()
	}
	v.order = nil
	clear(v.observers)
	v.document.StopListening()
}
