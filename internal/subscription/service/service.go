// Package service implements the subscriber-onboarding workflows:
// subscription creation (validate, persist atomically, notify) and
// token-gated confirmation.
package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"courier/internal/platform/events"
	"courier/internal/platform/metrics"
	"courier/internal/subscription/models"
	"courier/internal/subscription/store"
)

// EmailSender delivers one confirmation message. Implementations make a
// single attempt; the workflow does not retry.
type EmailSender interface {
	Send(ctx context.Context, to models.EmailAddress, subject, htmlBody, textBody string) error
}

// TokenCache remembers tokens whose subscriber is already confirmed.
// Because confirmation is monotonic, a cached entry can never go stale.
type TokenCache interface {
	Get(ctx context.Context, token models.SubscriptionToken) (uuid.UUID, bool, error)
	Set(ctx context.Context, token models.SubscriptionToken, subscriberID uuid.UUID) error
}

// Service orchestrates the subscription workflows. All collaborators are
// injected; there is no global state.
type Service struct {
	reader   store.Reader
	txRunner store.TxRunner
	emails   EmailSender
	cache    TokenCache
	events   events.Publisher
	logger   *slog.Logger
	tracer   trace.Tracer
	metrics  *metrics.Metrics
	baseURL  string
}

// Option configures optional collaborators.
type Option func(*Service)

// WithTokenCache enables the confirmed-token cache.
func WithTokenCache(cache TokenCache) Option {
	return func(s *Service) {
		s.cache = cache
	}
}

// WithEventPublisher enables best-effort lifecycle events.
func WithEventPublisher(pub events.Publisher) Option {
	return func(s *Service) {
		s.events = pub
	}
}

// WithMetrics enables counter updates.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithTracer sets the tracer used for workflow spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(s *Service) {
		if tracer != nil {
			s.tracer = tracer
		}
	}
}

// New constructs the service. baseURL is the public root embedded in
// confirmation links.
func New(
	reader store.Reader,
	txRunner store.TxRunner,
	emails EmailSender,
	logger *slog.Logger,
	baseURL string,
	opts ...Option,
) *Service {
	s := &Service{
		reader:   reader,
		txRunner: txRunner,
		emails:   emails,
		logger:   logger,
		tracer:   noop.NewTracerProvider().Tracer("subscription"),
		baseURL:  baseURL,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// timeNow stamps outgoing events; tests may override it.
var timeNow = time.Now

// publishEvent emits a lifecycle event when a publisher is configured.
// Failures are logged and swallowed: events are observability signals, not
// part of the workflow contract.
func (s *Service) publishEvent(ctx context.Context, eventType string, subscriberID uuid.UUID) {
	if s.events == nil {
		return
	}
	event := events.Event{
		Type:         eventType,
		SubscriberID: subscriberID,
		OccurredAt:   timeNow(),
	}
	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to publish lifecycle event",
			"event_type", eventType,
			"subscriber_id", subscriberID.String(),
			"error", err.Error(),
		)
	}
}
