package image

import (
	"github.com/dshills/richedit/internal/engine/view"
)

// Events fired on the view document by LoadObserver.
const (
	EventImageLoaded   = "imageLoaded"
	EventLayoutChanged = "layoutChanged"
)

// LoadObserver turns DOM load events of <img> elements into imageLoaded
// and layoutChanged view document events.
type LoadObserver struct {
	view.DomEventObserver
}

// NewLoadObserver is a view.ObserverFactory.
func NewLoadObserver(v *view.View) view.Observer {
	return &LoadObserver{DomEventObserver: view.DomEventObserver{View: v}}
}

// Observe implements view.Observer.
func (o *LoadObserver) Observe(doc *view.Document) {
	o.ListenTo(doc, "load", func(data view.DomEventData) {
		img, ok := data.Target.(*view.Element)
		if !ok || !img.Is("img") {
			return
		}
		doc.Fire(EventLayoutChanged, nil)
		doc.Fire(EventImageLoaded, data)
	})
}
