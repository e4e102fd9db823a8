package events

import "time"

// EventType represents different types of events in the system
type EventType string

const (
	// Session lifecycle events
	EventTypeSessionStarted     EventType = "session.started"
	EventTypeSessionPaused      EventType = "session.paused"
	EventTypeSessionResumed     EventType = "session.resumed"
	EventTypeSessionCancelled   EventType = "session.cancelled"
	EventTypeSessionAutoStopped EventType = "session.autostopped"

	// Frame events
	EventTypeFrameCaptured EventType = "frame.captured"
	EventTypeFrameSkipped  EventType = "frame.skipped"

	// Stitch events
	EventTypeStitchCompleted EventType = "stitch.completed"
	EventTypeStitchFailed    EventType = "stitch.failed"

	// Error events
	EventTypeError EventType = "error"
)

// Event represents a system event with metadata
type Event struct {
	Type      EventType
	Source    string // Component that emitted the event (e.g. "runner", "stitcher")
	Timestamp time.Time
	Data      map[string]interface{}
}

// EventHandler is a function that processes an event
type EventHandler func(Event)

// SubscriptionID uniquely identifies a subscription
type SubscriptionID int64

// EventBus defines the interface for event pub/sub
type EventBus interface {
	// Subscribe registers a handler for a specific event type
	Subscribe(eventType EventType, handler EventHandler) SubscriptionID

	// Unsubscribe removes a subscription by ID
	Unsubscribe(id SubscriptionID)

	// Publish sends an event to all subscribers
	Publish(event Event)

	// Stop stops the event bus and drains remaining events
	Stop()
}
