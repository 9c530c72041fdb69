package service

import (
	"sync"
	"time"
)

// EventType represents a workflow event type
type EventType string

// Events published by the membership workflow and collaboration services
const (
	EventRequestCreated  EventType = "request.created"
	EventRequestAccepted EventType = "request.accepted"
	EventRequestDeclined EventType = "request.declined"
	EventMemberRemoved   EventType = "member.removed"
	EventMessagePosted   EventType = "message.posted"
	EventFileAdded       EventType = "file.added"
)

// Event is what the notification feed and live opportunity pages consume
type Event struct {
	Type             EventType `json:"type"`
	OpportunityID    string    `json:"opportunity_id"`
	OpportunityTitle string    `json:"opportunity_title,omitempty"`
	OwnerID          string    `json:"owner_id"`
	RequestID        string    `json:"request_id,omitempty"`
	RequesterID      string    `json:"requester_id,omitempty"`
	RequesterName    string    `json:"requester_name,omitempty"`
	OccurredAt       time.Time `json:"occurred_at"`
}

type subscriber struct {
	ownerID       string // Non-empty: only events addressed to this owner
	opportunityID string // Non-empty: only events of this opportunity
	ch            chan Event
}

// EventBus is an in-process broadcast bus for workflow events. Delivery is
// non-blocking and best-effort: a slow subscriber misses events. State
// correctness never depends on delivery — consumers can always re-read the
// current state through the regular queries.
type EventBus struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]subscriber
}

// NewEventBus creates a new EventBus
func NewEventBus() *EventBus {
	return &EventBus{subs: make(map[int]subscriber)}
}

// Publish fans the event out to every matching subscriber
func (b *EventBus) Publish(ev Event) {
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = time.Now()
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	for _, sub := range b.subs {
		if sub.ownerID != "" && sub.ownerID != ev.OwnerID {
			continue
		}
		if sub.opportunityID != "" && sub.opportunityID != ev.OpportunityID {
			continue
		}
		select {
		case sub.ch <- ev:
		default:
			// Subscriber is not keeping up, drop the event for it
		}
	}
}

// SubscribeOwner subscribes to events across the owner's opportunities
// (the notification bell). Returns the channel and an unsubscribe func.
func (b *EventBus) SubscribeOwner(ownerID string) (<-chan Event, func()) {
	return b.subscribe(subscriber{ownerID: ownerID})
}

// SubscribeOpportunity subscribes to events of a single opportunity
// (the live opportunity detail page)
func (b *EventBus) SubscribeOpportunity(opportunityID string) (<-chan Event, func()) {
	return b.subscribe(subscriber{opportunityID: opportunityID})
}

func (b *EventBus) subscribe(sub subscriber) (<-chan Event, func()) {
	sub.ch = make(chan Event, 16)

	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = sub
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		if _, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(sub.ch)
		}
		b.mu.Unlock()
	}

	return sub.ch, cancel
}
