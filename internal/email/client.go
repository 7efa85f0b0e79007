// Package email sends transactional mail through the provider's HTTP API.
// One request per message, no retries: by the time a send fails the caller's
// database state is already committed, and surfacing the failure is the
// caller's job.
package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"courier/internal/subscription/models"
)

const defaultTimeout = 10 * time.Second

// Client talks to the email provider.
type Client struct {
	httpClient *http.Client
	endpoint   string
	sender     models.EmailAddress
	authToken  string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithTimeout overrides the transport timeout for each send.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// NewClient builds a provider client. baseURL is the provider root; the
// send endpoint is baseURL/emails. authToken is passed as a bearer
// credential on every request.
func NewClient(baseURL string, sender models.EmailAddress, authToken string, opts ...ClientOption) (*Client, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse email provider URL: %w", err)
	}
	endpoint := parsed.JoinPath("emails").String()

	c := &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		endpoint:   endpoint,
		sender:     sender,
		authToken:  authToken,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c, nil
}

// sendRequest is the provider's wire format.
type sendRequest struct {
	From    string `json:"From"`
	To      string `json:"To"`
	Subject string `json:"Subject"`
	Html    string `json:"Html"`
	Text    string `json:"Text"`
}

// Send delivers one message. A non-2xx provider response is an error; the
// body is not read beyond the status line.
func (c *Client) Send(ctx context.Context, to models.EmailAddress, subject, htmlBody, textBody string) error {
	payload, err := json.Marshal(sendRequest{
		From:    c.sender.String(),
		To:      to.String(),
		Subject: subject,
		Html:    htmlBody,
		Text:    textBody,
	})
	if err != nil {
		return fmt.Errorf("encode email request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build email request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.authToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("send email: provider returned %s", resp.Status)
	}
	return nil
}
