package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventBus_OwnerFilter(t *testing.T) {
	bus := NewEventBus()

	ch, cancel := bus.SubscribeOwner("owner-a")
	defer cancel()

	bus.Publish(Event{Type: EventRequestCreated, OwnerID: "owner-a", RequestID: "r1"})
	bus.Publish(Event{Type: EventRequestCreated, OwnerID: "owner-b", RequestID: "r2"})

	select {
	case ev := <-ch:
		assert.Equal(t, "r1", ev.RequestID)
	case <-time.After(time.Second):
		t.Fatal("expected event for owner-a")
	}

	select {
	case ev := <-ch:
		t.Fatalf("unexpected event delivered: %+v", ev)
	default:
	}
}

func TestEventBus_OpportunityFilter(t *testing.T) {
	bus := NewEventBus()

	ch, cancel := bus.SubscribeOpportunity("o1")
	defer cancel()

	bus.Publish(Event{Type: EventMessagePosted, OpportunityID: "o2"})
	bus.Publish(Event{Type: EventMessagePosted, OpportunityID: "o1"})

	select {
	case ev := <-ch:
		assert.Equal(t, "o1", ev.OpportunityID)
	case <-time.After(time.Second):
		t.Fatal("expected event for o1")
	}
}

func TestEventBus_CancelStopsDelivery(t *testing.T) {
	bus := NewEventBus()

	ch, cancel := bus.SubscribeOwner("owner-a")
	cancel()

	bus.Publish(Event{Type: EventRequestCreated, OwnerID: "owner-a"})

	_, open := <-ch
	require.False(t, open, "channel must be closed after cancel")
}

func TestEventBus_SlowSubscriberDoesNotBlockPublish(t *testing.T) {
	bus := NewEventBus()

	_, cancel := bus.SubscribeOwner("owner-a")
	defer cancel()

	done := make(chan struct{})
	go func() {
		// Well past the channel capacity; Publish must drop, not block
		for i := 0; i < 100; i++ {
			bus.Publish(Event{Type: EventRequestCreated, OwnerID: "owner-a"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish blocked on a slow subscriber")
	}
}
