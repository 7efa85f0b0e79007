// Package store persists subscribers and their confirmation tokens.
//
// Writes that must be atomic (subscriber + token) go through a TxStore
// obtained from a TxRunner; reads and the idempotent confirmation update
// run on the shared pool.
package store

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"courier/internal/subscription/models"
)

// ErrTokenNotFound reports a token with no owning subscriber.
var ErrTokenNotFound = errors.New("subscription token not found")

// ErrSubscriberNotFound reports a confirmation for an id with no row.
var ErrSubscriberNotFound = errors.New("subscriber not found")

// TokenOwner is the result of resolving a token to its subscriber.
type TokenOwner struct {
	SubscriberID uuid.UUID
	Status       models.Status
}

// TxStore is the write surface available inside a transaction. A subscriber
// is never visible without its token: both inserts commit or neither does.
type TxStore interface {
	InsertSubscriber(ctx context.Context, sub models.NewSubscriber) (uuid.UUID, error)
	StoreToken(ctx context.Context, subscriberID uuid.UUID, token models.SubscriptionToken) error
}

// TxRunner executes fn inside a transaction, committing on nil and rolling
// back on error or panic. The tx handle is scoped to fn; it never escapes.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(tx TxStore) error) error
}

// Reader is the non-transactional read/confirm surface.
type Reader interface {
	LookupByToken(ctx context.Context, token models.SubscriptionToken) (TokenOwner, error)
	ConfirmSubscriber(ctx context.Context, subscriberID uuid.UUID) error
}
