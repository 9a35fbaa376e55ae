package deathnote

// Event is a notification about a state change executed by a handler. Events
// are collected in the DeliverResult and are published only after the whole
// transaction succeeded, so an observer never sees a change that was rolled
// back.
type Event interface {
	// EventKind returns a short, stable name of the change, for example
	// "testament/death_confirmed".
	EventKind() string
}

// EventSink consumes published events. Implementations must not block for
// long, because they are called while the application processes a
// transaction.
type EventSink interface {
	Publish(Event)
}

// EventSinks fans out every event to all contained sinks.
type EventSinks []EventSink

var _ EventSink = EventSinks(nil)

// Publish passes the event to each sink in order.
func (s EventSinks) Publish(e Event) {
	for _, sink := range s {
		sink.Publish(e)
	}
}
