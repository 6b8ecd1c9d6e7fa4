// Package event defines the notifications the interaction core emits to
// overlays and the selection store.
package event

import "fmt"

// Kind tags an Event.
type Kind int

const (
	// HoverStart fires once when the crosshair moves onto an entity.
	HoverStart Kind = iota + 1
	// HoverEnd fires once when the crosshair leaves all entities.
	HoverEnd
	// Select carries a click-to-select resolved by the picker.
	Select
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case HoverStart:
		return "hover-start"
	case HoverEnd:
		return "hover-end"
	case Select:
		return "select"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Event is a tagged union; EntityID is empty for HoverEnd.
type Event struct {
	Kind     Kind
	EntityID string
}

// NewHoverStart builds a HoverStart event.
func NewHoverStart(id string) Event {
	return Event{Kind: HoverStart, EntityID: id}
}

// NewHoverEnd builds a HoverEnd event.
func NewHoverEnd() Event {
	return Event{Kind: HoverEnd}
}

// NewSelect builds a Select event.
func NewSelect(id string) Event {
	return Event{Kind: Select, EntityID: id}
}

// String formats the event for logs.
func (e Event) String() string {
	if e.EntityID == "" {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s(%s)", e.Kind, e.EntityID)
}

// Count returns how many events of kind k are in events.
func Count(events []Event, k Kind) int {
	n := 0
	for _, e := range events {
		if e.Kind == k {
			n++
		}
	}
	return n
}
