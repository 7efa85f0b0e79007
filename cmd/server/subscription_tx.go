package main

import (
	"context"
	"database/sql"
	"time"

	"courier/internal/subscription/store"
	dErrors "courier/pkg/domain-errors"
)

const defaultSubscriptionTxTimeout = 5 * time.Second

// subscriptionPostgresTx runs subscription writes inside a single database
// transaction. The connection is acquired per call, never held by the
// service between requests.
type subscriptionPostgresTx struct {
	db      *sql.DB
	clock   func() time.Time
	timeout time.Duration
}

func newSubscriptionPostgresTx(db *sql.DB, clock func() time.Time) *subscriptionPostgresTx {
	return &subscriptionPostgresTx{db: db, clock: clock}
}

func (t *subscriptionPostgresTx) RunInTx(ctx context.Context, fn func(tx store.TxStore) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	timeout := t.timeout
	if timeout == 0 {
		timeout = defaultSubscriptionTxTimeout
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(store.NewPostgresTx(tx, t.clock)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	return nil
}
