package domain

import (
	"errors"
	"net/http"
)

// Sentinel errors for the domain layer. These provide consistent, checkable
// errors for common business logic failures.
var (
	ErrValidation         = errors.New("validation failed")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidResetToken  = errors.New("invalid or expired password reset token")
	ErrUserAlreadyExists  = errors.New("user with this email already exists")
	ErrNotFound           = errors.New("requested resource not found")
	ErrForbidden          = errors.New("access to the resource is forbidden")
	ErrUpstream           = errors.New("upstream service failed")
	ErrEmptyCart          = errors.New("cart is empty")
)

// Kind classifies an error for presentation.
type Kind int

const (
	KindUnexpected Kind = iota
	KindValidation
	KindAuth
	KindNotFound
	KindForbidden
	KindUpstream
)

// KindOf maps err onto the error taxonomy. Anything unrecognised is unexpected.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindUnexpected
	case errors.Is(err, ErrValidation), errors.Is(err, ErrUserAlreadyExists), errors.Is(err, ErrEmptyCart):
		return KindValidation
	case errors.Is(err, ErrInvalidCredentials), errors.Is(err, ErrInvalidResetToken):
		return KindAuth
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrForbidden):
		return KindForbidden
	case errors.Is(err, ErrUpstream):
		return KindUpstream
	default:
		return KindUnexpected
	}
}

// HTTPStatus is the response status used for errors of this kind.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindValidation:
		return http.StatusUnprocessableEntity
	case KindAuth:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	case KindForbidden:
		return http.StatusForbidden
	case KindUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage is what the client sees for errors of this kind. It never
// includes the underlying error text.
func (k Kind) PublicMessage() string {
	switch k {
	case KindValidation:
		return "The submitted data is invalid."
	case KindAuth:
		return "Invalid email or password."
	case KindNotFound:
		return "Page not found."
	case KindForbidden:
		return "You are not allowed to do that."
	case KindUpstream:
		return "A service we depend on is unavailable. Please try again later."
	default:
		return "Something went wrong. We are working on fixing it."
	}
}

// FieldErrors carries per-field validation messages back to the originating form.
type FieldErrors map[string]string

// ValidationError wraps ErrValidation with field-level detail.
type ValidationError struct {
	Fields FieldErrors
}

func (e *ValidationError) Error() string {
	return ErrValidation.Error()
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// NewValidationError builds a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: FieldErrors{field: message}}
}
