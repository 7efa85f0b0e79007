package service

import (
	"context"

	"github.com/google/uuid"

	"courier/internal/platform/events"
	"courier/internal/subscription/models"
	"courier/internal/subscription/store"
	dErrors "courier/pkg/domain-errors"
	"courier/pkg/requestcontext"
)

// Subscribe registers a new pending subscriber and sends the confirmation
// email carrying their token.
//
// The subscriber and token are written in one transaction: a subscriber
// with no redeemable token would be unrecoverable by the user. The email
// send happens after commit and cannot be transactional with the database;
// when it fails the error is surfaced even though the subscriber row now
// durably exists.
func (s *Service) Subscribe(ctx context.Context, rawEmail, rawName string) error {
	ctx, span := s.tracer.Start(ctx, "subscription.Subscribe")
	defer span.End()

	emailAddr, err := models.ParseEmailAddress(rawEmail)
	if err != nil {
		return err
	}
	name, err := models.ParseSubscriberName(rawName)
	if err != nil {
		return err
	}

	sub := models.NewSubscriber{Email: emailAddr, Name: name}
	token := models.GenerateToken()

	var subscriberID uuid.UUID
	err = s.txRunner.RunInTx(ctx, func(tx store.TxStore) error {
		var err error
		subscriberID, err = tx.InsertSubscriber(ctx, sub)
		if err != nil {
			return err
		}
		return tx.StoreToken(ctx, subscriberID, token)
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to persist subscription",
			"request_id", requestcontext.RequestID(ctx),
			"error", err.Error(),
		)
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to persist subscription")
	}

	s.metrics.IncSubscriptionsCreated()
	s.logger.InfoContext(ctx, "subscriber created",
		"request_id", requestcontext.RequestID(ctx),
		"subscriber_id", subscriberID.String(),
	)

	if err := s.sendConfirmation(ctx, emailAddr, token); err != nil {
		s.metrics.IncEmailsFailed()
		// The subscriber and token are already committed; the caller sees
		// the failure rather than a silent half-success.
		s.logger.ErrorContext(ctx, "failed to send confirmation email",
			"request_id", requestcontext.RequestID(ctx),
			"subscriber_id", subscriberID.String(),
			"error", err.Error(),
		)
		return dErrors.Wrap(err, dErrors.CodeNotification, "failed to send confirmation email")
	}
	s.metrics.IncEmailsSent()

	s.publishEvent(ctx, events.TypeSubscriptionCreated, subscriberID)
	return nil
}
