// Package event provides the synchronous emitter that ties the editor's
// components together.
//
// Every engine component that publishes notifications (the model document,
// the view document, the conversion dispatchers and the editor itself) embeds
// an Emitter. Listeners subscribe to a topic pattern and are called in
// priority order, lowest value first; listeners with equal priority run in
// registration order.
//
//	em := event.NewEmitter()
//	sub := em.On("insert.*", func(info *event.Info, data any) {
//	    // ...
//	}, event.WithPriority(event.PriorityHigh))
//	defer sub.Off()
//
//	info := em.Fire("insert.paragraph", payload)
//	if info.Stopped() {
//	    // a listener claimed the event
//	}
//
// Delivery is always synchronous: the editor runs on a single cooperative
// loop and one change fully settles before the next starts.
package event
