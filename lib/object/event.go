package object

// EventKind classifies object events.
type EventKind uint8

const (
	// EventDataModified is sent after a successful decode and after SetProp.
	EventDataModified EventKind = iota
)

func (k EventKind) String() string {
	switch k {
	case EventDataModified:
		return "DataModified"
	default:
		return "Unknown"
	}
}

// Event is delivered synchronously to Context.OnEvent.
type Event struct {
	Object *Object
	Kind   EventKind
}

// Listener receives object events.
type Listener func(Event)
