package store

import "github.com/tailored-agentic-units/docstate/observability"

// Store event types emitted through the configured observer.
const (
	EventSlotCreate observability.EventType = "store.slot.create"
	EventSlotSet    observability.EventType = "store.slot.set"
	EventPersist    observability.EventType = "store.persist"
	EventListen     observability.EventType = "store.listen"
	EventError      observability.EventType = "store.error"
)
