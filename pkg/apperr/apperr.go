// Package apperr defines the error taxonomy shared by all features.
// Services return these so handlers can map them to HTTP status codes
// without inspecting error strings.
package apperr

import "errors"

// ValidationError signals a malformed or non-reconciling request.
// The operation is rejected before any state change.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// NotFoundError signals that a referenced entity does not exist.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

// AuthorizationError signals that the acting user is not allowed to
// perform the operation, distinct from validation failures so callers
// can render a permission message.
type AuthorizationError struct {
	Message string
}

func (e *AuthorizationError) Error() string { return e.Message }

// Validation builds a ValidationError with the given reason.
func Validation(message string) error { return &ValidationError{Message: message} }

// NotFound builds a NotFoundError with the given reason.
func NotFound(message string) error { return &NotFoundError{Message: message} }

// Forbidden builds an AuthorizationError with the given reason.
func Forbidden(message string) error { return &AuthorizationError{Message: message} }

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsForbidden reports whether err is an AuthorizationError.
func IsForbidden(err error) bool {
	var ae *AuthorizationError
	return errors.As(err, &ae)
}
