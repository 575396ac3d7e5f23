package events

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventBus_PublishJSON(t *testing.T) {
	bus := NewEventBus()

	var got PurgeEventPayload
	calls := 0
	bus.Subscribe(EventBookingsPurged, func(event *Event) error {
		calls++
		return json.Unmarshal(event.Payload, &got)
	})

	payload := PurgeEventPayload{Date: "2026-03-15", Removed: 3, Actor: "admin1"}
	require.NoError(t, bus.PublishJSON(EventBookingsPurged, payload))

	assert.Equal(t, 1, calls)
	assert.Equal(t, payload, got)
}

func TestEventBus_TypeIsolation(t *testing.T) {
	bus := NewEventBus()

	created, deleted := 0, 0
	bus.Subscribe(EventBookingCreated, func(*Event) error { created++; return nil })
	bus.Subscribe(EventBookingDeleted, func(*Event) error { deleted++; return nil })

	require.NoError(t, bus.PublishJSON(EventBookingCreated, BookingEventPayload{BookingID: 1}))

	assert.Equal(t, 1, created)
	assert.Equal(t, 0, deleted)
}

func TestEventBus_MultipleSubscribers(t *testing.T) {
	bus := NewEventBus()

	calls := 0
	for i := 0; i < 3; i++ {
		bus.Subscribe(EventAnnouncementPublished, func(*Event) error { calls++; return nil })
	}

	require.NoError(t, bus.PublishJSON(EventAnnouncementPublished, struct{}{}))
	assert.Equal(t, 3, calls)
}

func TestEventBus_NilBus(t *testing.T) {
	var bus *EventBus
	assert.NoError(t, bus.PublishJSON(EventBookingCreated, struct{}{}))
}
