package events

import (
	"encoding/json"
	"sync"
	"time"
)

const (
	EventBookingCreated        = "booking_created"
	EventBookingDeleted        = "booking_deleted"
	EventBookingsPurged        = "bookings_purged"
	EventAnnouncementPublished = "announcement_published"
	EventAnnouncementDeleted   = "announcement_deleted"
)

// BookingEventPayload is the booking snapshot delivered to event consumers.
type BookingEventPayload struct {
	BookingID int64     `json:"booking_id"`
	CourseID  string    `json:"course_id"`
	Commander string    `json:"commander_name"`
	Date      time.Time `json:"date"`
	StartSlot string    `json:"start_slot"`
	EndSlot   string    `json:"end_slot"`
	Actor     string    `json:"actor"`
	Role      string    `json:"role"`
}

// PurgeEventPayload describes a bulk deletion.
type PurgeEventPayload struct {
	Date    string `json:"date,omitempty"`
	Removed int64  `json:"removed"`
	Actor   string `json:"actor"`
}

// Event represents a lightweight domain event.
type Event struct {
	Type      string
	Payload   []byte
	CreatedAt time.Time
}

// EventHandler reacts to an event.
type EventHandler func(event *Event) error

// EventBus provides in-process pub/sub for events.
type EventBus struct {
	subscribers map[string][]EventHandler
	mu          sync.RWMutex
}

// NewEventBus constructs an empty bus.
func NewEventBus() *EventBus {
	return &EventBus{subscribers: make(map[string][]EventHandler)}
}

// Subscribe registers a handler for a given event type.
func (b *EventBus) Subscribe(eventType string, handler EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers[eventType] = append(b.subscribers[eventType], handler)
}

// Publish notifies subscribers of the event type.
func (b *EventBus) Publish(event *Event) {
	b.mu.RLock()
	handlers := append([]EventHandler(nil), b.subscribers[event.Type]...)
	b.mu.RUnlock()

	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	for _, handler := range handlers {
		// Handlers run synchronously; caller decides concurrency model.
		_ = handler(event)
	}
}

// PublishJSON serializes the payload and publishes an event.
func (b *EventBus) PublishJSON(eventType string, payload interface{}) error {
	if b == nil {
		return nil
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	b.Publish(&Event{Type: eventType, Payload: raw, CreatedAt: time.Now()})
	return nil
}
