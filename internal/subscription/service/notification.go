package service

import (
	"context"

	"courier/internal/email"
	"courier/internal/subscription/models"
)

// sendConfirmation delivers the double opt-in email. Single attempt, no
// retry: failures propagate to the caller of Subscribe.
func (s *Service) sendConfirmation(ctx context.Context, to models.EmailAddress, token models.SubscriptionToken) error {
	link := email.ConfirmationLink(s.baseURL, token)
	htmlBody, textBody := email.ConfirmationBodies(link)
	return s.emails.Send(ctx, to, email.ConfirmationSubject, htmlBody, textBody)
}
