package email

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"courier/internal/subscription/models"
)

func mustEmail(t *testing.T, raw string) models.EmailAddress {
	t.Helper()
	email, err := models.ParseEmailAddress(raw)
	require.NoError(t, err)
	return email
}

func TestSendBuildsTheExpectedRequest(t *testing.T) {
	var captured struct {
		method  string
		path    string
		auth    string
		content string
		body    map[string]any
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.method = r.Method
		captured.path = r.URL.Path
		captured.auth = r.Header.Get("Authorization")
		captured.content = r.Header.Get("Content-Type")
		raw, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(raw, &captured.body))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client, err := NewClient(server.URL, mustEmail(t, "newsletter@example.com"), "secret-token")
	require.NoError(t, err)

	err = client.Send(context.Background(),
		mustEmail(t, "ursula@example.com"),
		"Welcome!", "<p>hi</p>", "hi")
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, captured.method)
	assert.Equal(t, "/emails", captured.path)
	assert.Equal(t, "Bearer secret-token", captured.auth)
	assert.Equal(t, "application/json", captured.content)
	assert.Equal(t, "newsletter@example.com", captured.body["From"])
	assert.Equal(t, "ursula@example.com", captured.body["To"])
	assert.Equal(t, "Welcome!", captured.body["Subject"])
	assert.Equal(t, "<p>hi</p>", captured.body["Html"])
	assert.Equal(t, "hi", captured.body["Text"])
}

func TestSendSurfacesProviderErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client, err := NewClient(server.URL, mustEmail(t, "newsletter@example.com"), "secret-token")
	require.NoError(t, err)

	err = client.Send(context.Background(), mustEmail(t, "ursula@example.com"), "s", "h", "t")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestSendTimesOut(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		<-release
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()
	defer close(release)

	client, err := NewClient(server.URL, mustEmail(t, "newsletter@example.com"), "secret-token",
		WithTimeout(50*time.Millisecond))
	require.NoError(t, err)

	start := time.Now()
	err = client.Send(context.Background(), mustEmail(t, "ursula@example.com"), "s", "h", "t")
	require.Error(t, err)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestConfirmationLinkEmbedsToken(t *testing.T) {
	token := models.GenerateToken()
	link := ConfirmationLink("https://newsletter.example.com", token)
	assert.Equal(t, "https://newsletter.example.com/subscriptions/confirm?token="+token.String(), link)

	htmlBody, textBody := ConfirmationBodies(link)
	assert.Contains(t, htmlBody, link)
	assert.Contains(t, textBody, link)
	assert.True(t, strings.HasPrefix(textBody, "Welcome"))
}
