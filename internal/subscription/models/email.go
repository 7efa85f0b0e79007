package models

import (
	"github.com/asaskevich/govalidator"

	dErrors "courier/pkg/domain-errors"
)

// EmailAddress wraps a syntactically valid email address. Construct only
// through ParseEmailAddress; the zero value is not a valid address.
type EmailAddress struct {
	value string
}

// ParseEmailAddress validates raw against RFC 5322 syntax and returns the
// wrapped address. Validation failures carry CodeBadRequest.
func ParseEmailAddress(raw string) (EmailAddress, error) {
	if !govalidator.IsEmail(raw) {
		return EmailAddress{}, dErrors.Newf(dErrors.CodeBadRequest, "%q is not a valid email address", raw)
	}
	return EmailAddress{value: raw}, nil
}

func (e EmailAddress) String() string {
	return e.value
}

// IsZero reports whether e was never parsed from input.
func (e EmailAddress) IsZero() bool {
	return e.value == ""
}
