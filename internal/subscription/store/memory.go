package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"courier/internal/subscription/models"
)

// InMemory keeps subscribers and tokens in maps. It backs unit tests and
// implements the same TxRunner/Reader contract as the Postgres pairing,
// including rollback of staged writes when fn fails.
type InMemory struct {
	mu          sync.RWMutex
	subscribers map[uuid.UUID]*models.Subscriber
	tokens      map[string]uuid.UUID
	clock       func() time.Time

	// FailStoreToken forces the next StoreToken call inside a transaction
	// to fail, for rollback tests.
	FailStoreToken error
}

// NewInMemory constructs an empty in-memory store.
func NewInMemory() *InMemory {
	return &InMemory{
		subscribers: make(map[uuid.UUID]*models.Subscriber),
		tokens:      make(map[string]uuid.UUID),
		clock:       time.Now,
	}
}

// SetClock overrides the timestamp source.
func (s *InMemory) SetClock(clock func() time.Time) {
	s.clock = clock
}

// RunInTx stages writes through a scratch transaction and applies them only
// when fn succeeds.
func (s *InMemory) RunInTx(ctx context.Context, fn func(tx TxStore) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	tx := &memoryTx{store: s}
	if err := fn(tx); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sub := range tx.subscribers {
		s.subscribers[sub.ID] = sub
	}
	for token, id := range tx.tokens {
		s.tokens[token] = id
	}
	return nil
}

// LookupByToken resolves a token to its subscriber.
func (s *InMemory) LookupByToken(_ context.Context, token models.SubscriptionToken) (TokenOwner, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.tokens[token.String()]
	if !ok {
		return TokenOwner{}, ErrTokenNotFound
	}
	sub, ok := s.subscribers[id]
	if !ok {
		return TokenOwner{}, ErrTokenNotFound
	}
	return TokenOwner{SubscriberID: id, Status: sub.Status}, nil
}

// ConfirmSubscriber transitions the subscriber to confirmed; confirming an
// already-confirmed subscriber is a no-op success.
func (s *InMemory) ConfirmSubscriber(_ context.Context, subscriberID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sub, ok := s.subscribers[subscriberID]
	if !ok {
		return ErrSubscriberNotFound
	}
	sub.Status = models.StatusConfirmed
	return nil
}

// Subscriber returns a stored subscriber, for test assertions.
func (s *InMemory) Subscriber(id uuid.UUID) (models.Subscriber, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sub, ok := s.subscribers[id]
	if !ok {
		return models.Subscriber{}, false
	}
	return *sub, true
}

// Count returns the number of stored subscribers and tokens.
func (s *InMemory) Count() (subscribers, tokens int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.subscribers), len(s.tokens)
}

type memoryTx struct {
	store       *InMemory
	subscribers []*models.Subscriber
	tokens      map[string]uuid.UUID
}

func (t *memoryTx) InsertSubscriber(_ context.Context, sub models.NewSubscriber) (uuid.UUID, error) {
	id := models.NewSubscriberID()
	t.subscribers = append(t.subscribers, &models.Subscriber{
		ID:        id,
		Email:     sub.Email,
		Name:      sub.Name,
		Status:    models.StatusPendingConfirmation,
		CreatedAt: t.store.clock(),
	})
	return id, nil
}

func (t *memoryTx) StoreToken(_ context.Context, subscriberID uuid.UUID, token models.SubscriptionToken) error {
	if err := t.store.FailStoreToken; err != nil {
		return err
	}
	if t.tokens == nil {
		t.tokens = make(map[string]uuid.UUID)
	}
	t.tokens[token.String()] = subscriberID
	return nil
}
