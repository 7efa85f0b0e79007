package email

import (
	"fmt"
	"net/url"

	"courier/internal/subscription/models"
)

// ConfirmationSubject is the subject line of the double opt-in email.
const ConfirmationSubject = "Welcome to our newsletter!"

// ConfirmationLink builds the link a subscriber follows to confirm,
// embedding the token as a query parameter.
func ConfirmationLink(baseURL string, token models.SubscriptionToken) string {
	return fmt.Sprintf("%s/subscriptions/confirm?token=%s", baseURL, url.QueryEscape(token.String()))
}

// ConfirmationBodies renders the HTML and plain-text bodies around the
// confirmation link.
func ConfirmationBodies(link string) (htmlBody, textBody string) {
	htmlBody = fmt.Sprintf(
		"Welcome to our newsletter!<br />Click <a href=%q>here</a> to confirm your subscription.",
		link,
	)
	textBody = fmt.Sprintf(
		"Welcome to our newsletter!\nVisit %s to confirm your subscription.",
		link,
	)
	return htmlBody, textBody
}
