package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"courier/internal/platform/events"
	"courier/internal/subscription/models"
	"courier/internal/subscription/store"
	dErrors "courier/pkg/domain-errors"
	"courier/pkg/requestcontext"
)

// ConfirmationOutcome reports a successful confirmation.
type ConfirmationOutcome struct {
	SubscriberID     uuid.UUID
	AlreadyConfirmed bool
}

// Confirm redeems a subscription token. Redeeming the same token again is
// an idempotent success; a well-formed but unissued token is unauthorized.
// Storage failures are retryable by re-issuing the same request.
func (s *Service) Confirm(ctx context.Context, rawToken string) (ConfirmationOutcome, error) {
	ctx, span := s.tracer.Start(ctx, "subscription.Confirm")
	defer span.End()

	token, err := models.ParseToken(rawToken)
	if err != nil {
		return ConfirmationOutcome{}, err
	}

	// Only confirmed tokens are ever cached, so a hit means the whole
	// operation already happened and no storage access is needed.
	if s.cache != nil {
		if id, found, err := s.cache.Get(ctx, token); err != nil {
			s.logger.WarnContext(ctx, "token cache lookup failed",
				"request_id", requestcontext.RequestID(ctx),
				"error", err.Error(),
			)
		} else if found {
			return ConfirmationOutcome{SubscriberID: id, AlreadyConfirmed: true}, nil
		}
	}

	owner, err := s.reader.LookupByToken(ctx, token)
	if err != nil {
		if errors.Is(err, store.ErrTokenNotFound) {
			return ConfirmationOutcome{}, dErrors.New(dErrors.CodeUnauthorized, "unknown subscription token")
		}
		return ConfirmationOutcome{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up subscription token")
	}

	if owner.Status == models.StatusConfirmed {
		s.cacheConfirmed(ctx, token, owner.SubscriberID)
		return ConfirmationOutcome{SubscriberID: owner.SubscriberID, AlreadyConfirmed: true}, nil
	}

	if err := s.reader.ConfirmSubscriber(ctx, owner.SubscriberID); err != nil {
		return ConfirmationOutcome{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to confirm subscriber")
	}

	s.metrics.IncSubscriptionsConfirmed()
	s.logger.InfoContext(ctx, "subscriber confirmed",
		"request_id", requestcontext.RequestID(ctx),
		"subscriber_id", owner.SubscriberID.String(),
	)

	s.cacheConfirmed(ctx, token, owner.SubscriberID)
	s.publishEvent(ctx, events.TypeSubscriptionConfirmed, owner.SubscriberID)
	return ConfirmationOutcome{SubscriberID: owner.SubscriberID}, nil
}

// cacheConfirmed records a confirmed token, best-effort.
func (s *Service) cacheConfirmed(ctx context.Context, token models.SubscriptionToken, subscriberID uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, token, subscriberID); err != nil {
		s.logger.WarnContext(ctx, "failed to cache confirmed token",
			"request_id", requestcontext.RequestID(ctx),
			"error", err.Error(),
		)
	}
}
