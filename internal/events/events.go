// Package events provides an in-process pub/sub bus for reservation
// lifecycle events. Subscribers run synchronously on the publishing
// goroutine.
package events

import (
	"encoding/json"
	"sync"
	"time"
)

// Event types published by the reservation lifecycle.
const (
	TypeBookingCreated = "booking.created"
	TypeBookingDeleted = "booking.deleted"
	TypeReturnToggled  = "booking.return_toggled"
)

// Event is one lifecycle notification. Payload is JSON.
type Event struct {
	Type      string
	Payload   []byte
	CreatedAt time.Time
}

// Handler reacts to a published event. Errors are the handler's own
// concern; the bus does not retry.
type Handler func(event Event) error

// Bus fans events out to subscribers by type.
type Bus struct {
	subscribers map[string][]Handler
	mu          sync.RWMutex
}

// NewBus constructs an empty bus.
func NewBus() *Bus {
	return &Bus{subscribers: make(map[string][]Handler)}
}

// Subscribe registers a handler for the given event type.
func (b *Bus) Subscribe(eventType string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers[eventType] = append(b.subscribers[eventType], handler)
}

// Publish delivers the event to every subscriber of its type.
func (b *Bus) Publish(event Event) {
	b.mu.RLock()
	handlers := append([]Handler(nil), b.subscribers[event.Type]...)
	b.mu.RUnlock()

	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	for _, handler := range handlers {
		_ = handler(event)
	}
}

// PublishJSON marshals the payload and publishes it under the given
// type. Marshal failures are returned to the caller and nothing is
// published.
func (b *Bus) PublishJSON(eventType string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	b.Publish(Event{Type: eventType, Payload: data})
	return nil
}
