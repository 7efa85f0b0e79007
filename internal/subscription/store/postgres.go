package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"courier/internal/subscription/models"
)

const uniqueViolation = "23505"

// PostgresStore serves reads and the confirmation update on the shared pool.
type PostgresStore struct {
	db    *sql.DB
	clock func() time.Time
}

// PostgresOption configures a PostgresStore.
type PostgresOption func(*PostgresStore)

// WithClock sets the timestamp source for inserted rows. Tests inject a
// fixed clock; production uses time.Now.
func WithClock(clock func() time.Time) PostgresOption {
	return func(s *PostgresStore) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// NewPostgres constructs a PostgreSQL-backed subscription store.
func NewPostgres(db *sql.DB, opts ...PostgresOption) *PostgresStore {
	s := &PostgresStore{db: db, clock: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// DB exposes the pool for transaction adapters.
func (s *PostgresStore) DB() *sql.DB {
	return s.db
}

// LookupByToken resolves a token to its subscriber id and current status.
func (s *PostgresStore) LookupByToken(ctx context.Context, token models.SubscriptionToken) (TokenOwner, error) {
	query := `
		SELECT s.id, s.status
		FROM subscription_tokens t
		JOIN subscriptions s ON s.id = t.subscriber_id
		WHERE t.subscription_token = $1
	`
	var owner TokenOwner
	var status string
	err := s.db.QueryRowContext(ctx, query, token.String()).Scan(&owner.SubscriberID, &status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return TokenOwner{}, ErrTokenNotFound
		}
		return TokenOwner{}, fmt.Errorf("lookup token: %w", err)
	}
	owner.Status = models.Status(status)
	return owner, nil
}

// ConfirmSubscriber marks the subscriber confirmed. Calling it on an
// already-confirmed subscriber is a no-op success.
func (s *PostgresStore) ConfirmSubscriber(ctx context.Context, subscriberID uuid.UUID) error {
	query := `UPDATE subscriptions SET status = $1 WHERE id = $2`
	res, err := s.db.ExecContext(ctx, query, string(models.StatusConfirmed), subscriberID)
	if err != nil {
		return fmt.Errorf("confirm subscriber: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("confirm subscriber: %w", err)
	}
	if affected == 0 {
		return ErrSubscriberNotFound
	}
	return nil
}

// PostgresTx is the transaction-scoped write surface. Construct one per
// transaction via NewPostgresTx; the enclosing TxRunner owns commit and
// rollback.
type PostgresTx struct {
	tx    *sql.Tx
	clock func() time.Time
}

// NewPostgresTx wraps an open transaction.
func NewPostgresTx(tx *sql.Tx, clock func() time.Time) *PostgresTx {
	if clock == nil {
		clock = time.Now
	}
	return &PostgresTx{tx: tx, clock: clock}
}

// InsertSubscriber inserts a pending subscriber with a fresh time-ordered id.
func (t *PostgresTx) InsertSubscriber(ctx context.Context, sub models.NewSubscriber) (uuid.UUID, error) {
	id := models.NewSubscriberID()
	query := `
		INSERT INTO subscriptions (id, email, name, status, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := t.tx.ExecContext(ctx, query,
		id, sub.Email.String(), sub.Name.String(),
		string(models.StatusPendingConfirmation), t.clock(),
	)
	if err != nil {
		return uuid.UUID{}, fmt.Errorf("insert subscriber: %w", err)
	}
	return id, nil
}

// StoreToken binds a token to its subscriber inside the same transaction.
func (t *PostgresTx) StoreToken(ctx context.Context, subscriberID uuid.UUID, token models.SubscriptionToken) error {
	query := `
		INSERT INTO subscription_tokens (subscription_token, subscriber_id, created_at)
		VALUES ($1, $2, $3)
	`
	_, err := t.tx.ExecContext(ctx, query, token.String(), subscriberID, t.clock())
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return fmt.Errorf("store token: token collision: %w", err)
		}
		return fmt.Errorf("store token: %w", err)
	}
	return nil
}
