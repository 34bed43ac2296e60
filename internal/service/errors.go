package service

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidState is returned when an operation is legal for the
	// entity type but not in its current state: settling out of order,
	// removing a member from a group that has already started.
	ErrInvalidState = errors.New("operation not allowed in current state")

	// ErrCapacityExceeded is returned when adding a member would push a
	// group past its fixed member count.
	ErrCapacityExceeded = errors.New("group already has its full number of members")
)

// ValidationError reports malformed form input: bad dates, non-positive
// amounts, empty names. The message is safe to show to the caller.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// IsValidation reports whether err is a validation failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func validationf(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}
