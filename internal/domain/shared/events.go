// Package shared contains common domain types, errors and events that are
// used across all domain packages.
package shared

import "time"

// EventType identifies a kind of domain event on the bus.
type EventType string

// The four events the back office emits. Each one triggers a notification
// fan-out; see internal/application/eventhandler.
const (
	EventStudentCreated       EventType = "student.created"
	EventStudentStatusChanged EventType = "student.status_changed"

	EventPaymentRecorded  EventType = "payment.recorded"
	EventPaymentConfirmed EventType = "payment.confirmed"
)

// Event is what travels on the bus. Concrete events are value types in
// their aggregate's package, built after the write commits.
type Event interface {
	EventType() EventType
	OccurredAt() time.Time

	// AggregateID is the ID of the student or payment that produced
	// the event, as a decimal string.
	AggregateID() string

	// Payload is the event data in loggable form.
	Payload() map[string]any
}

// BaseEvent carries the fields every event shares. Embed it by value.
type BaseEvent struct {
	Type        EventType `json:"type"`
	Timestamp   time.Time `json:"timestamp"`
	AggregateId string    `json:"aggregate_id"`
}

// NewBaseEvent stamps an event with the current UTC time.
func NewBaseEvent(eventType EventType, aggregateID string) BaseEvent {
	return BaseEvent{
		Type:        eventType,
		Timestamp:   time.Now().UTC(),
		AggregateId: aggregateID,
	}
}

func (e BaseEvent) EventType() EventType  { return e.Type }
func (e BaseEvent) OccurredAt() time.Time { return e.Timestamp }
func (e BaseEvent) AggregateID() string   { return e.AggregateId }

// EventHandler consumes one event. Errors are logged by the bus, never
// returned to the publisher.
type EventHandler func(event Event) error

// EventPublisher is the side commands see: publish and forget.
type EventPublisher interface {
	Publish(event Event) error
}

// EventSubscriber is the side handlers see at wiring time.
type EventSubscriber interface {
	Subscribe(eventType EventType, handler EventHandler) error

	// SubscribeAll registers a handler that receives every event.
	SubscribeAll(handler EventHandler) error
}

// EventBus combines both sides plus shutdown.
type EventBus interface {
	EventPublisher
	EventSubscriber

	// Close shuts down the bus and waits for in-flight handlers.
	Close() error
}
