// Package pubsub fans typed events out to Bubble Tea models and other
// in-process listeners. regdesk publishes session changes, receipt updates
// and log entries through it.
package pubsub

import (
	"context"
	"time"
)

// EventType represents the kind of change an event reports.
type EventType string

const (
	// CreatedEvent carries a freshly formatted log entry.
	CreatedEvent EventType = "created"
	// UpdatedEvent carries a resolved session check or a stored receipt.
	UpdatedEvent EventType = "updated"
	// DeletedEvent reports a logout or a forgotten receipt.
	DeletedEvent EventType = "deleted"
)

// Event represents a published event with a typed payload.
type Event[T any] struct {
	Type      EventType
	Payload   T
	Timestamp time.Time
}

// Subscriber is implemented by Broker and by the services that own one,
// such as auth.Session and receipts.Store.
type Subscriber[T any] interface {
	Subscribe(ctx context.Context) <-chan Event[T]
}
