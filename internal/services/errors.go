package services

import (
	"errors"
	"fmt"
	"strings"
)

// ErrDuplicateName is returned when the unique-name policy is on and the name is taken.
var ErrDuplicateName = errors.New("product with this name already exists")

// ValidationError rejects input before anything is written.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Violations, "; ")
}

// NotFoundError reports an operation on a product ID that does not exist.
type NotFoundError struct {
	ID uint
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("product with ID %d not found", e.ID)
}

// IsValidationError reports whether err is or wraps a *ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsNotFound reports whether err is or wraps a *NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
