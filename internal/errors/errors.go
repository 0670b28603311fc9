// Package errors provides structured error handling with HTTP status code
// mapping and the uniform API failure envelope.
package errors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/tomaskrat/videotube/internal/domain"
)

// ErrorType represents the category of error for metrics and response formatting.
type ErrorType string

const (
	// TypeValidation indicates invalid input (HTTP 400)
	TypeValidation ErrorType = "validation"
	// TypeUnauthenticated indicates a missing or unrecognized credential (HTTP 401)
	TypeUnauthenticated ErrorType = "unauthenticated"
	// TypeTokenExpired indicates an expired access token (HTTP 401)
	TypeTokenExpired ErrorType = "token_expired"
	// TypeTokenInvalid indicates a malformed, forged, or superseded token (HTTP 401)
	TypeTokenInvalid ErrorType = "token_invalid"
	// TypeNotFound indicates resource not found (HTTP 404)
	TypeNotFound ErrorType = "not_found"
	// TypeConflict indicates resource conflict (HTTP 409)
	TypeConflict ErrorType = "conflict"
	// TypeTooManyRequests indicates a throttled caller (HTTP 429)
	TypeTooManyRequests ErrorType = "too_many_requests"
	// TypeInternal indicates server-side error (HTTP 500)
	TypeInternal ErrorType = "internal"
)

// Error represents a structured error with type, message, and context.
type Error struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]any
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// HTTPStatus returns the appropriate HTTP status code for this error type.
func (e *Error) HTTPStatus() int {
	switch e.Type {
	case TypeValidation:
		return http.StatusBadRequest
	case TypeUnauthenticated, TypeTokenExpired, TypeTokenInvalid:
		return http.StatusUnauthorized
	case TypeNotFound:
		return http.StatusNotFound
	case TypeConflict:
		return http.StatusConflict
	case TypeTooManyRequests:
		return http.StatusTooManyRequests
	case TypeInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// ValidationError creates a new validation error (HTTP 400).
func ValidationError(message string) *Error {
	return &Error{Type: TypeValidation, Message: message, Context: make(map[string]any)}
}

// UnauthenticatedError creates a new unauthenticated error (HTTP 401).
func UnauthenticatedError(message string) *Error {
	return &Error{Type: TypeUnauthenticated, Message: message, Context: make(map[string]any)}
}

// TokenExpiredError creates a new token-expired error (HTTP 401).
func TokenExpiredError(message string) *Error {
	return &Error{Type: TypeTokenExpired, Message: message, Context: make(map[string]any)}
}

// TokenInvalidError creates a new token-invalid error (HTTP 401).
func TokenInvalidError(message string) *Error {
	return &Error{Type: TypeTokenInvalid, Message: message, Context: make(map[string]any)}
}

// NotFoundError creates a new not-found error (HTTP 404).
func NotFoundError(message string) *Error {
	return &Error{Type: TypeNotFound, Message: message, Context: make(map[string]any)}
}

// ConflictError creates a new conflict error (HTTP 409).
func ConflictError(message string) *Error {
	return &Error{Type: TypeConflict, Message: message, Context: make(map[string]any)}
}

// TooManyRequestsError creates a new throttling error (HTTP 429).
func TooManyRequestsError(message string) *Error {
	return &Error{Type: TypeTooManyRequests, Message: message, Context: make(map[string]any)}
}

// InternalError creates a new internal error (HTTP 500).
func InternalError(message string, cause error) *Error {
	return &Error{Type: TypeInternal, Message: message, Cause: cause, Context: make(map[string]any)}
}

// WithContext adds context fields to the error (chainable). Context is for
// server-side logging only; it is never serialized to clients.
func (e *Error) WithContext(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// ErrorResponse is the uniform failure envelope sent to clients.
type ErrorResponse struct {
	Success    bool     `json:"success"`
	StatusCode int      `json:"statusCode"`
	Message    string   `json:"message"`
	Errors     []string `json:"errors"`
}

// ToResponse converts an Error to an ErrorResponse for JSON serialization.
// Internal causes are deliberately left out of the payload.
func (e *Error) ToResponse() ErrorResponse {
	return ErrorResponse{
		Success:    false,
		StatusCode: e.HTTPStatus(),
		Message:    e.Message,
		Errors:     []string{e.Message},
	}
}

// AsStructuredError converts any error into a structured Error. Domain
// sentinels map to their taxonomy entry; an *Error passes through unchanged;
// everything else wraps as an internal error.
func AsStructuredError(err error) *Error {
	if err == nil {
		return nil
	}

	var structuredErr *Error
	if errors.As(err, &structuredErr) {
		return structuredErr
	}

	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		return NotFoundError("user does not exist")
	case errors.Is(err, domain.ErrVideoNotFound):
		return NotFoundError("video does not exist")
	case errors.Is(err, domain.ErrSubscriptionNotFound):
		return NotFoundError("subscription does not exist")
	case errors.Is(err, domain.ErrSelfSubscription):
		return ValidationError("cannot subscribe to your own channel")
	case errors.Is(err, domain.ErrDuplicateUser):
		return ConflictError("user with this username or email already exists")
	case errors.Is(err, domain.ErrInvalidCredentials):
		return UnauthenticatedError("invalid user credentials")
	case errors.Is(err, domain.ErrUnauthenticated):
		return UnauthenticatedError("unauthorized request")
	case errors.Is(err, domain.ErrTokenExpired):
		return TokenExpiredError("token expired, please login again")
	case errors.Is(err, domain.ErrTokenInvalid):
		return TokenInvalidError("invalid token")
	case errors.Is(err, domain.ErrTooManyAttempts):
		return TooManyRequestsError("too many failed attempts, try again later")
	}

	return InternalError("internal server error", err)
}
