package models

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "courier/pkg/domain-errors"
)

func TestParseEmailAddressValid(t *testing.T) {
	valid := []string{
		"ursula@example.com",
		"ursula.le-guin@sub.example.org",
		"u+newsletter@example.io",
		"UPPER.case@example.com",
	}
	for _, raw := range valid {
		email, err := ParseEmailAddress(raw)
		require.NoError(t, err, "expected %q to parse", raw)
		assert.Equal(t, raw, email.String())
		assert.False(t, email.IsZero())
	}
}

func TestParseEmailAddressInvalid(t *testing.T) {
	invalid := []string{
		"",
		"namemail.com",
		"@mail.com",
		"ursula@",
		"ursula example@mail.com",
	}
	for _, raw := range invalid {
		_, err := ParseEmailAddress(raw)
		require.Error(t, err, "expected %q to be rejected", raw)
		assert.True(t, dErrors.Is(err, dErrors.CodeBadRequest))
	}
}

func TestParseEmailAddressGeneratedLocalParts(t *testing.T) {
	// Cheap stand-in for property-based coverage: many distinct well-formed
	// addresses must all parse.
	for i := 0; i < 100; i++ {
		raw := fmt.Sprintf("user%d@example%d.com", i, i%7)
		_, err := ParseEmailAddress(raw)
		require.NoError(t, err, "expected %q to parse", raw)
	}
}
