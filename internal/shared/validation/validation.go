// Package validation holds the input validation error shared by every feature.
package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrValidation is matched by every *Error through errors.Is.
var ErrValidation = errors.New("validation failed")

// Error reports the first invalid field of an input.
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Is makes errors.Is(err, ErrValidation) true for any *Error.
func (e *Error) Is(target error) bool {
	return target == ErrValidation
}

// New builds an *Error for field with a formatted message.
func New(field, format string, args ...any) *Error {
	return &Error{Field: field, Message: fmt.Sprintf(format, args...)}
}

var validate = validator.New()

// Email reports whether s is a syntactically valid email address.
func Email(s string) bool {
	return validate.Var(s, "required,email") == nil
}

// Required returns an *Error when the trimmed value is empty.
func Required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return New(field, "%s is required", field)
	}
	return nil
}
