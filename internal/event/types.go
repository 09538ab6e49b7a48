package event

import "github.com/dshills/richedit/internal/event/topic"

// Priority determines listener execution order.
// Lower values execute first.
type Priority int

const (
	// PriorityHighest runs before everything else.
	PriorityHighest Priority = 0

	// PriorityHigh is for feature converters that must run before generic ones.
	PriorityHigh Priority = 100

	// PriorityNormal is the default priority.
	PriorityNormal Priority = 200

	// PriorityLow is for fallback converters and bookkeeping listeners.
	PriorityLow Priority = 300

	// PriorityLowest runs after everything else.
	PriorityLowest Priority = 400
)

// String returns a human-readable priority name.
func (p Priority) String() string {
	switch {
	case p <= PriorityHighest:
		return "highest"
	case p <= PriorityHigh:
		return "high"
	case p <= PriorityNormal:
		return "normal"
	case p <= PriorityLow:
		return "low"
	default:
		return "lowest"
	}
}

// ParsePriority converts a priority name to a Priority.
// Unknown names map to PriorityNormal.
func ParsePriority(s string) Priority {
	switch s {
	case "highest":
		return PriorityHighest
	case "high":
		return PriorityHigh
	case "low":
		return PriorityLow
	case "lowest":
		return PriorityLowest
	default:
		return PriorityNormal
	}
}

// Info describes a single fired event. Listeners can stop further
// propagation and leave a return value for the caller.
type Info struct {
	// Name is the fired topic.
	Name topic.Topic

	// Source is the emitter owner that fired the event.
	Source any

	// Return is an optional value set by listeners.
	Return any

	stopped bool
}

// Stop prevents listeners that have not run yet from being called.
func (i *Info) Stop() {
	i.stopped = true
}

// Stopped reports whether a listener called Stop.
func (i *Info) Stopped() bool {
	return i.stopped
}

// Callback is called for every event matching a listener's pattern.
type Callback func(info *Info, data any)
