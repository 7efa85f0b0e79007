// Package handler exposes the subscription workflows over HTTP.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"courier/internal/platform/metrics"
	"courier/internal/platform/middleware"
	"courier/internal/subscription/service"
	"courier/internal/transport/http/shared"
	dErrors "courier/pkg/domain-errors"
	"courier/pkg/requestcontext"
)

// Service defines the subscription operations the handler needs.
type Service interface {
	Subscribe(ctx context.Context, rawEmail, rawName string) error
	Confirm(ctx context.Context, rawToken string) (service.ConfirmationOutcome, error)
}

// Handler handles subscription endpoints.
type Handler struct {
	logger        *slog.Logger
	subscriptions Service
	metrics       *metrics.Metrics
}

// New creates a subscription Handler.
func New(subscriptions Service, logger *slog.Logger, m *metrics.Metrics) *Handler {
	return &Handler{
		logger:        logger,
		subscriptions: subscriptions,
		metrics:       m,
	}
}

// Register mounts the subscription routes with their middleware chain.
func (h *Handler) Register(r chi.Router) {
	sub := chi.NewRouter()
	sub.Use(middleware.Recovery(h.logger))
	sub.Use(middleware.RequestID)
	sub.Use(middleware.Logger(h.logger))
	sub.Use(middleware.Timeout(30 * time.Second))
	sub.Use(middleware.Latency(h.metrics))
	sub.Post("/subscriptions", h.handleSubscribe)
	sub.Get("/subscriptions/confirm", h.handleConfirm)

	r.Mount("/", sub)
}

// handleSubscribe accepts form-encoded email and name fields.
func (h *Handler) handleSubscribe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	if err := r.ParseForm(); err != nil {
		h.logger.WarnContext(ctx, "malformed subscription form",
			"request_id", requestID,
			"error", err.Error(),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid form body"))
		return
	}

	email := r.PostFormValue("email")
	name := r.PostFormValue("name")

	if err := h.subscriptions.Subscribe(ctx, email, name); err != nil {
		if dErrors.Is(err, dErrors.CodeBadRequest) {
			h.logger.WarnContext(ctx, "invalid subscription request",
				"request_id", requestID,
				"error", err.Error(),
			)
			shared.WriteError(w, err)
			return
		}
		h.logger.ErrorContext(ctx, "subscription failed",
			"request_id", requestID,
			"error", err.Error(),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "failed to create subscription"))
		return
	}

	w.WriteHeader(http.StatusOK)
}

// handleConfirm redeems the token from the confirmation link.
func (h *Handler) handleConfirm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	token := r.URL.Query().Get("token")

	outcome, err := h.subscriptions.Confirm(ctx, token)
	if err != nil {
		switch {
		case dErrors.Is(err, dErrors.CodeBadRequest):
			h.logger.WarnContext(ctx, "malformed confirmation token",
				"request_id", requestID,
				"error", err.Error(),
			)
			shared.WriteError(w, err)
		case dErrors.Is(err, dErrors.CodeUnauthorized):
			h.logger.WarnContext(ctx, "unknown confirmation token",
				"request_id", requestID,
			)
			shared.WriteError(w, err)
		default:
			h.logger.ErrorContext(ctx, "confirmation failed",
				"request_id", requestID,
				"error", err.Error(),
			)
			shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "failed to confirm subscription"))
		}
		return
	}

	h.logger.InfoContext(ctx, "subscription confirmed",
		"request_id", requestID,
		"subscriber_id", outcome.SubscriberID.String(),
		"already_confirmed", outcome.AlreadyConfirmed,
	)
	w.WriteHeader(http.StatusOK)
}
