package utils

import "net/http"

// Error codes used across the API. Codes are stable identifiers for
// clients that need to branch; messages are for humans.
const (
	CodeValidation          = "VALIDATION_ERROR"
	CodeAuthMissing         = "AUTH_TOKEN_MISSING"
	CodeAuthInvalid         = "AUTH_TOKEN_INVALID"
	CodeAuthExpired         = "AUTH_TOKEN_EXPIRED"
	CodeAuthUserNotFound    = "AUTH_USER_NOT_FOUND"
	CodeConflict            = "CONFLICT"
	CodeNotFound            = "NOT_FOUND"
	CodeRateLimited         = "RATE_LIMIT_EXCEEDED"
	CodeUpstreamUnavailable = "UPSTREAM_UNAVAILABLE"
	CodeUpstreamTimeout     = "UPSTREAM_TIMEOUT"
	CodeUpstreamRejected    = "UPSTREAM_REJECTED"
	CodeUpstreamFailure     = "UPSTREAM_FAILURE"
	CodeInternal            = "INTERNAL_ERROR"
)

// CustomError carries an HTTP status code and a stable error code
// alongside the message so handlers can render it without inspecting
// the error chain.
type CustomError struct {
	StatusCode int    `json:"-"`
	Code       string `json:"code"`
	Message    string `json:"message"`
}

func (e *CustomError) Error() string {
	return e.Message
}

// NewCustomError builds a CustomError with the generic internal code.
func NewCustomError(statusCode int, message string) *CustomError {
	return &CustomError{StatusCode: statusCode, Code: CodeInternal, Message: message}
}

// NewTypedError builds a CustomError with an explicit code.
func NewTypedError(statusCode int, code, message string) *CustomError {
	return &CustomError{StatusCode: statusCode, Code: code, Message: message}
}

func NewValidationError(message string) *CustomError {
	return NewTypedError(http.StatusBadRequest, CodeValidation, message)
}

func NewConflictError(message string) *CustomError {
	return NewTypedError(http.StatusConflict, CodeConflict, message)
}

func NewNotFoundError(message string) *CustomError {
	return NewTypedError(http.StatusNotFound, CodeNotFound, message)
}
