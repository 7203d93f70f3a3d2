// Package queue defines message payloads exchanged over the message broker.
package queue

import "time"

// ActivityQueue is the durable queue event activity is published to.
const ActivityQueue = "events.activity"

// Activity actions.
const (
	ActionCreated  = "created"
	ActionReplaced = "replaced"
	ActionDeleted  = "deleted"
)

// EventActivity is published after an event is created, replaced or deleted.
// It carries enough for downstream consumers to log or notify without
// querying the primary store.
type EventActivity struct {
	Action  string    `json:"action"`
	EventID string    `json:"event_id"`
	Owner   string    `json:"owner"`
	Title   string    `json:"title"`
	Flyer   string    `json:"flyer,omitempty"`
	At      time.Time `json:"at"`
}
