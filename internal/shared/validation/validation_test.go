package validation

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_IsValidation(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("wrapped: %w", New("email", "email %s is invalid", "x"))

	assert.ErrorIs(t, err, ErrValidation)

	var vErr *Error
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "email", vErr.Field)
	assert.Equal(t, "email x is invalid", vErr.Error())
}

func TestEmail(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want bool
	}{
		{"a@x.com", true},
		{"user+tag@example.co.jp", true},
		{"", false},
		{"plainaddress", false},
		{"@missing-local.org", false},
		{"a@", false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, Email(tt.in))
		})
	}
}

func TestRequired(t *testing.T) {
	t.Parallel()

	assert.NoError(t, Required("name", "Ann"))

	err := Required("name", "   ")
	assert.ErrorIs(t, err, ErrValidation)
	assert.EqualError(t, err, "name is required")
}
