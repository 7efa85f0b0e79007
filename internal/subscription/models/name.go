package models

import (
	"strings"
	"unicode/utf8"

	dErrors "courier/pkg/domain-errors"
)

// maxNameLength bounds the display name in runes, not bytes.
const maxNameLength = 256

// forbiddenNameCharacters would let a subscriber inject markup or SQL-ish
// structure into downstream templates and queries.
var forbiddenNameCharacters = []rune{'/', '(', ')', '"', '<', '>', '\\', '{', '}'}

// SubscriberName wraps a validated display name. Construct only through
// ParseSubscriberName.
type SubscriberName struct {
	value string
}

// ParseSubscriberName validates raw as a display name: non-empty after
// trimming, at most 256 characters, and free of structural characters.
func ParseSubscriberName(raw string) (SubscriberName, error) {
	if strings.TrimSpace(raw) == "" {
		return SubscriberName{}, dErrors.New(dErrors.CodeBadRequest, "subscriber name must not be empty")
	}
	if utf8.RuneCountInString(raw) > maxNameLength {
		return SubscriberName{}, dErrors.Newf(dErrors.CodeBadRequest, "subscriber name exceeds %d characters", maxNameLength)
	}
	if strings.ContainsAny(raw, string(forbiddenNameCharacters)) {
		return SubscriberName{}, dErrors.Newf(dErrors.CodeBadRequest, "subscriber name %q contains forbidden characters", raw)
	}
	return SubscriberName{value: raw}, nil
}

func (n SubscriberName) String() string {
	return n.value
}

// IsZero reports whether n was never parsed from input.
func (n SubscriberName) IsZero() bool {
	return n.value == ""
}
