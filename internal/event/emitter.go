package event

import (
	"sync"

	"github.com/dshills/richedit/internal/event/topic"
)

// Emitter dispatches fired events to listeners subscribed with topic patterns.
// The listener list is guarded so that listeners may subscribe or unsubscribe
// while an event is being delivered; delivery itself uses a snapshot.
type Emitter struct {
	mu        sync.Mutex
	source    any
	listeners []*listener
	nextID    uint64
}

type listener struct {
	id       uint64
	pattern  topic.Topic
	callback Callback
	priority Priority
	once     bool
	removed  bool
}

// ListenOption configures a listener.
type ListenOption func(*listener)

// WithPriority sets the listener priority.
func WithPriority(p Priority) ListenOption {
	return func(l *listener) {
		l.priority = p
	}
}

// WithOnce removes the listener after its first call.
func WithOnce() ListenOption {
	return func(l *listener) {
		l.once = true
	}
}

// NewEmitter creates an emitter without a source.
func NewEmitter() *Emitter {
	return &Emitter{}
}

// NewEmitterFor creates an emitter whose fired events carry source as Info.Source.
func NewEmitterFor(source any) *Emitter {
	return &Emitter{source: source}
}

// Subscription is a handle to a registered listener.
type Subscription struct {
	emitter *Emitter
	id      uint64
}

// Off removes the listener. Calling Off more than once is a no-op.
func (s Subscription) Off() {
	if s.emitter == nil {
		return
	}
	s.emitter.off(s.id)
}

// On subscribes callback to every event matching pattern.
// A nil callback yields an inert subscription.
func (e *Emitter) On(pattern topic.Topic, callback Callback, opts ...ListenOption) Subscription {
	if callback == nil || !pattern.IsValid() {
		return Subscription{}
	}

	l := &listener{
		pattern:  pattern,
		callback: callback,
		priority: PriorityNormal,
	}
	for _, opt := range opts {
		opt(l)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.nextID++
	l.id = e.nextID

	// Keep the slice ordered by priority, stable for equal priorities.
	idx := len(e.listeners)
	for i, existing := range e.listeners {
		if l.priority < existing.priority {
			idx = i
			break
		}
	}
	e.listeners = append(e.listeners, nil)
	copy(e.listeners[idx+1:], e.listeners[idx:])
	e.listeners[idx] = l

	return Subscription{emitter: e, id: l.id}
}

// Once subscribes a callback that is removed after its first call.
func (e *Emitter) Once(pattern topic.Topic, callback Callback, opts ...ListenOption) Subscription {
	return e.On(pattern, callback, append(opts, WithOnce())...)
}

// Fire delivers an event to all matching listeners and returns its Info.
func (e *Emitter) Fire(name topic.Topic, data any) *Info {
	info := &Info{Name: name, Source: e.source}

	e.mu.Lock()
	snapshot := make([]*listener, len(e.listeners))
	copy(snapshot, e.listeners)
	e.mu.Unlock()

	for _, l := range snapshot {
		if l.removed || !name.Matches(l.pattern) {
			continue
		}
		if l.once {
			e.off(l.id)
		}
		l.callback(info, data)
		if info.stopped {
			break
		}
	}

	return info
}

// HasListeners reports whether any listener matches name.
func (e *Emitter) HasListeners(name topic.Topic) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, l := range e.listeners {
		if name.Matches(l.pattern) {
			return true
		}
	}
	return false
}

// Count returns the number of registered listeners.
func (e *Emitter) Count() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.listeners)
}

// StopListening removes every listener.
func (e *Emitter) StopListening() {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, l := range e.listeners {
		l.removed = true
	}
	e.listeners = nil
}

func (e *Emitter) off(id uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i, l := range e.listeners {
		if l.id == id {
			l.removed = true
			e.listeners = append(e.listeners[:i], e.listeners[i+1:]...)
			return
		}
	}
}
