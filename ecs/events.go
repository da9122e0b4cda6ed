package ecs

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/skirmish/component"
)

// Event is a generic ECS event payload.
type Event struct {
	Type string
	Data any
}

const EventContact = "contact"

// ContactEvent describes a hitbox overlapping a hurtbox. The physics world
// pushes one when the overlap starts; Contacts reports the ongoing ones.
type ContactEvent struct {
	Attacker Entity
	Defender Entity
	Hitbox   *component.Hitbox
	Hurtbox  *component.Hurtbox

	HitPosition  cp.Vector
	HurtPosition cp.Vector
}

// Contact converts the event for Hitbox.OnOverlap.
func (c ContactEvent) Contact() component.Contact {
	return component.Contact{
		Hurtbox:      c.Hurtbox,
		HitPosition:  c.HitPosition,
		HurtPosition: c.HurtPosition,
	}
}

// EventQueue is a simple FIFO queue.
type EventQueue struct {
	items []Event
}

// Push adds an event.
func (q *EventQueue) Push(evt Event) {
	if q == nil {
		return
	}
	q.items = append(q.items, evt)
}

// Drain returns all events and clears the queue.
func (q *EventQueue) Drain() []Event {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

// Len returns the number of queued events.
func (q *EventQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}

func (q *EventQueue) flush() {
	if q == nil {
		return
	}
	q.items = nil
}
