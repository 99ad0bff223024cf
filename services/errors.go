package services

import "errors"

// ErrRoomNotFound signals that the referenced room does not exist.
var ErrRoomNotFound = errors.New("room not found")

// ValidationError reports the first rule a request payload violates.
// It is raised before any store mutation.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func newValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}

// IsValidationError reports whether err is a payload validation failure.
func IsValidationError(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
