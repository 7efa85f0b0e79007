// Package models holds the subscription domain's value types and records.
// Parsing is pure: no I/O, no clock access, no side effects.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a subscriber.
type Status string

const (
	// StatusPendingConfirmation is assigned at creation, before the
	// confirmation link has been followed.
	StatusPendingConfirmation Status = "pending_confirmation"
	// StatusConfirmed is reached once and never left.
	StatusConfirmed Status = "confirmed"
)

// Valid reports whether s is one of the known states.
func (s Status) Valid() bool {
	return s == StatusPendingConfirmation || s == StatusConfirmed
}

// NewSubscriber carries validated input into the subscription workflow.
type NewSubscriber struct {
	Email EmailAddress
	Name  SubscriberName
}

// Subscriber is a stored mailing-list member. IDs are UUIDv7 so they sort
// by creation time.
type Subscriber struct {
	ID        uuid.UUID
	Email     EmailAddress
	Name      SubscriberName
	Status    Status
	CreatedAt time.Time
}

// NewSubscriberID returns a fresh time-ordered identifier.
func NewSubscriberID() uuid.UUID {
	id, err := uuid.NewV7()
	if err != nil {
		// Only fails when the entropy source is unavailable.
		panic("subscriber id generation failed: " + err.Error())
	}
	return id
}
