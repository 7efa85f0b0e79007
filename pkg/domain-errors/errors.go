// Package domainerrors defines the closed set of error codes the service
// returns. Every workflow failure is one of these variants, optionally
// wrapping the underlying cause; the HTTP layer maps codes to statuses
// without inspecting causes.
package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code identifies an error variant.
type Code string

const (
	// CodeBadRequest marks client-caused validation failures: malformed
	// email, name, or token. Never retried automatically.
	CodeBadRequest Code = "bad_request"
	// CodeUnauthorized marks a syntactically valid but unrecognized token.
	// Distinct from CodeBadRequest so clients can tell "fix your input"
	// from "this link is invalid".
	CodeUnauthorized Code = "unauthorized"
	// CodeNotFound marks a missing record.
	CodeNotFound Code = "not_found"
	// CodeInternal marks storage or other unexpected server-side failures.
	CodeInternal Code = "internal"
	// CodeNotification marks a failed outbound notification. The subscriber
	// record may already be durably committed when this is returned.
	CodeNotification Code = "notification_failed"
	// CodeTimeout marks an aborted operation (deadline or cancellation).
	CodeTimeout Code = "timeout"
)

// Error is the single error type crossing workflow boundaries.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// New builds an error with a code and message and no cause.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf builds an error with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an underlying cause. A nil cause
// yields nil so call sites can wrap unconditionally.
func Wrap(cause error, code Code, message string) *Error {
	if cause == nil {
		return nil
	}
	return &Error{Code: code, Message: message, Cause: cause}
}

// Is reports whether err carries the given code anywhere in its chain.
func Is(err error, code Code) bool {
	return CodeOf(err) == code
}

// CodeOf extracts the code from an error chain, defaulting to CodeInternal
// for errors that did not originate in a workflow.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// ToHTTPStatus maps a code to the response status the API contract promises.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeBadRequest:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeNotFound:
		return http.StatusNotFound
	case CodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
