package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error for the HTTP layer
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindAuthentication
	KindAuthorization
	KindNotFound
	KindConflict
	KindRateLimit
)

// Error codes returned in the response envelope
const (
	CodeValidation     = "VALIDATION_ERROR"
	CodeAuthentication = "AUTHENTICATION_ERROR"
	CodeAuthorization  = "AUTHORIZATION_ERROR"
	CodeNotFound       = "RESOURCE_NOT_FOUND"
	CodeConflict       = "RESOURCE_CONFLICT"
	CodeInternal       = "INTERNAL_ERROR"
	CodeDatabase       = "DATABASE_ERROR"
	CodeRateLimit      = "RATE_LIMIT_ERROR"
	CodeSelfRoleChange = "SELF_ROLE_CHANGE"
)

// Error is an application error carrying everything needed to build an error envelope
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Details interface{}
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// HTTPStatus returns the HTTP status code for the error kind
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuthentication:
		return http.StatusUnauthorized
	case KindAuthorization:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindRateLimit:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// WithDetails returns a copy of the error carrying details
func (e *Error) WithDetails(details interface{}) *Error {
	cp := *e
	cp.Details = details
	return &cp
}

func Validation(message string, details interface{}) *Error {
	return &Error{Kind: KindValidation, Code: CodeValidation, Message: message, Details: details}
}

func Unauthenticated(message string, err error) *Error {
	return &Error{Kind: KindAuthentication, Code: CodeAuthentication, Message: message, Err: err}
}

func Forbidden(message string) *Error {
	return &Error{Kind: KindAuthorization, Code: CodeAuthorization, Message: message}
}

func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Code: CodeNotFound, Message: message}
}

func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Code: CodeConflict, Message: message}
}

func RateLimited(message string) *Error {
	return &Error{Kind: KindRateLimit, Code: CodeRateLimit, Message: message}
}

func Internal(message string, err error) *Error {
	return &Error{Kind: KindInternal, Code: CodeInternal, Message: message, Err: err}
}

// Database wraps a persistence failure; the cause is never shown to clients
func Database(message string, err error) *Error {
	return &Error{Kind: KindInternal, Code: CodeDatabase, Message: message, Err: err}
}

// From converts any error into an *Error, defaulting to an internal error
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal("Internal server error", err)
}

// IsKind reports whether err is an application error of the given kind
func IsKind(err error, kind Kind) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Kind == kind
}
