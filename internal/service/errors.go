package service

import (
	"errors"
	"fmt"
)

// ErrTaskNotFound is returned when a referenced task id does not exist
// for the requesting user. Repositories map their storage-level
// not-found conditions to this sentinel.
var ErrTaskNotFound = errors.New("task not found")

// ValidationError reports malformed input. Always recoverable by the
// caller correcting the input; never retried.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func validationf(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
