package models

import (
	"crypto/rand"
	"errors"
	"fmt"

	dErrors "courier/pkg/domain-errors"
)

// TokenLength is the exact length of a subscription token.
const TokenLength = 25

const tokenAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// TokenLengthError reports a token of the wrong length.
type TokenLengthError struct {
	Expected int
	Actual   int
}

func (e *TokenLengthError) Error() string {
	return fmt.Sprintf("expected %d characters, got %d", e.Expected, e.Actual)
}

// ErrTokenFormat reports a token containing non-alphanumeric characters.
var ErrTokenFormat = errors.New("token must be ASCII alphanumeric")

// SubscriptionToken is a fixed-length alphanumeric opaque string delivered
// in the confirmation email. Tokens have no built-in expiry.
type SubscriptionToken struct {
	value string
}

// GenerateToken produces a cryptographically random token. The result is
// always accepted by ParseToken.
func GenerateToken() SubscriptionToken {
	buf := make([]byte, TokenLength)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand never fails on supported platforms.
		panic("subscription token entropy unavailable: " + err.Error())
	}
	for i, b := range buf {
		buf[i] = tokenAlphabet[int(b)%len(tokenAlphabet)]
	}
	return SubscriptionToken{value: string(buf)}
}

// ParseToken validates the length and character set of raw. Failures carry
// CodeBadRequest and wrap either a TokenLengthError or ErrTokenFormat so
// callers can distinguish the two.
func ParseToken(raw string) (SubscriptionToken, error) {
	if len(raw) != TokenLength {
		cause := &TokenLengthError{Expected: TokenLength, Actual: len(raw)}
		return SubscriptionToken{}, dErrors.Wrap(cause, dErrors.CodeBadRequest, "invalid token length")
	}
	for _, c := range []byte(raw) {
		if !isASCIIAlphanumeric(c) {
			return SubscriptionToken{}, dErrors.Wrap(ErrTokenFormat, dErrors.CodeBadRequest, "invalid token format")
		}
	}
	return SubscriptionToken{value: raw}, nil
}

func (t SubscriptionToken) String() string {
	return t.value
}

// IsZero reports whether t was never generated or parsed.
func (t SubscriptionToken) IsZero() bool {
	return t.value == ""
}

func isASCIIAlphanumeric(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
