package resource

// Handle is an opaque reference to a value in a table.
// Handle 0 is reserved and always invalid.
type Handle uint32

// EventType identifies a resource lifecycle notification.
type EventType uint8

const (
	EventCreated EventType = iota
	EventDropped
)

// Event describes a resource lifecycle transition.
type Event struct {
	Value  any
	Handle Handle
	Type   EventType
}

// Observer receives notifications about resource lifecycle events.
type Observer interface {
	OnResourceEvent(Event)
}

// Dropper is optionally implemented by values that need cleanup when
// removed from a table.
type Dropper interface {
	Drop()
}
