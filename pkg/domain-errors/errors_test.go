package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorChainPrinting(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(cause, CodeInternal, "begin transaction")

	assert.Equal(t, "begin transaction: connection refused", err.Error())
	assert.ErrorIs(t, err, cause)
}

func TestWrapNilCause(t *testing.T) {
	assert.Nil(t, Wrap(nil, CodeInternal, "ignored"))
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, CodeBadRequest, CodeOf(New(CodeBadRequest, "bad email")))
	assert.Equal(t, CodeUnauthorized, CodeOf(Wrap(New(CodeUnauthorized, "unknown token"), CodeUnauthorized, "confirm")))

	// Wrapped through fmt still resolves via errors.As.
	wrapped := fmt.Errorf("outer: %w", New(CodeNotification, "send email"))
	assert.Equal(t, CodeNotification, CodeOf(wrapped))

	// Non-domain errors collapse to internal.
	assert.Equal(t, CodeInternal, CodeOf(errors.New("oops")))
}

func TestIs(t *testing.T) {
	err := New(CodeUnauthorized, "unknown token")
	assert.True(t, Is(err, CodeUnauthorized))
	assert.False(t, Is(err, CodeBadRequest))
}

func TestToHTTPStatus(t *testing.T) {
	cases := map[Code]int{
		CodeBadRequest:   http.StatusBadRequest,
		CodeUnauthorized: http.StatusUnauthorized,
		CodeNotFound:     http.StatusNotFound,
		CodeTimeout:      http.StatusGatewayTimeout,
		CodeInternal:     http.StatusInternalServerError,
		CodeNotification: http.StatusInternalServerError,
	}
	for code, want := range cases {
		assert.Equal(t, want, ToHTTPStatus(code), "code %s", code)
	}
}
