package service

import "github.com/google/uuid"

// EventPublisher pushes billing events (invoice created, payment recorded,
// quote converted) to the owning user's connected dashboard clients.
// Implemented by the websocket hub; publishing is fire-and-forget and never
// fails a request.
type EventPublisher interface {
	Publish(ownerID uuid.UUID, event string, payload interface{})
}

// NopPublisher discards events. Used when no hub is wired, and in tests.
type NopPublisher struct{}

func (NopPublisher) Publish(uuid.UUID, string, interface{}) {}
