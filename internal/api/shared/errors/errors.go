package errors

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/solspace/solspace-backend/internal/domain"
)

// ErrorCode represents a standardized error code
type ErrorCode string

const (
	// Client errors (4xx)
	ErrCodeBadRequest        ErrorCode = "bad_request"
	ErrCodeNotFound          ErrorCode = "not_found"
	ErrCodeValidationFailed  ErrorCode = "validation_failed"
	ErrCodeUnauthorized      ErrorCode = "unauthorized"
	ErrCodeForbidden         ErrorCode = "forbidden"
	ErrCodeTooManyRequests   ErrorCode = "too_many_requests"
	ErrCodeMalformedInput    ErrorCode = "malformed_input"
	ErrCodeInvalidValue      ErrorCode = "invalid_value"
	ErrCodeInvalidRound      ErrorCode = "invalid_round"
	ErrCodeImplausibleResult ErrorCode = "implausible_result"
	ErrCodeInvalidSeason     ErrorCode = "invalid_season"
	ErrCodeIdentityBlocked   ErrorCode = "identity_blocked"
	ErrCodeInvalidSignature  ErrorCode = "invalid_signature"
	ErrCodeTooFast           ErrorCode = "too_fast"
	ErrCodeRateLimited       ErrorCode = "rate_limited"

	// Server errors (5xx)
	ErrCodeInternalError     ErrorCode = "internal_error"
	ErrCodeDatabaseError     ErrorCode = "database_error"
	ErrCodeSourceUnavailable ErrorCode = "source_unavailable"
)

// APIError represents a structured API error that carries error code and details
// This is the shared error type used by both the REST API and pointsctl
type APIError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details string    `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	jsonErr, _ := json.Marshal(e)
	return string(jsonErr)
}

// StatusCode returns the HTTP status for the error code
func (e *APIError) StatusCode() int {
	switch e.Code {
	case ErrCodeBadRequest, ErrCodeValidationFailed, ErrCodeMalformedInput, ErrCodeInvalidValue,
		ErrCodeInvalidRound, ErrCodeImplausibleResult, ErrCodeInvalidSeason:
		return http.StatusBadRequest
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case ErrCodeForbidden, ErrCodeIdentityBlocked, ErrCodeInvalidSignature:
		return http.StatusForbidden
	case ErrCodeTooManyRequests, ErrCodeTooFast, ErrCodeRateLimited:
		return http.StatusTooManyRequests
	case ErrCodeSourceUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// domainCodes maps domain sentinels to their public codes, in match order
var domainCodes = []struct {
	err  error
	code ErrorCode
}{
	{domain.ErrMalformedInput, ErrCodeMalformedInput},
	{domain.ErrInvalidValue, ErrCodeInvalidValue},
	{domain.ErrInvalidRound, ErrCodeInvalidRound},
	{domain.ErrImplausibleResult, ErrCodeImplausibleResult},
	{domain.ErrInvalidSeason, ErrCodeInvalidSeason},
	{domain.ErrIdentityBlocked, ErrCodeIdentityBlocked},
	{domain.ErrInvalidSignature, ErrCodeInvalidSignature},
	{domain.ErrTooFast, ErrCodeTooFast},
	{domain.ErrRateLimited, ErrCodeRateLimited},
	{domain.ErrSourceUnavailable, ErrCodeSourceUnavailable},
}

// FromDomainError converts a domain error to an APIError.
// Errors that are not domain rejections become internal errors without leaking their text.
func FromDomainError(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	for _, dc := range domainCodes {
		if errors.Is(err, dc.err) {
			return &APIError{Code: dc.code, Message: err.Error()}
		}
	}

	return NewInternalError("Internal server error")
}

// Error constructors for common error types
func NewBadRequestError(message string, details ...string) *APIError {
	return &APIError{
		Code:    ErrCodeBadRequest,
		Message: message,
		Details: strings.Join(details, ", "),
	}
}

func NewNotFoundError(message string, details ...string) *APIError {
	return &APIError{
		Code:    ErrCodeNotFound,
		Message: message,
		Details: strings.Join(details, ", "),
	}
}

func NewValidationError(details ...string) *APIError {
	return &APIError{
		Code:    ErrCodeValidationFailed,
		Message: "Validation failed",
		Details: strings.Join(details, ", "),
	}
}

func NewUnauthorizedError(message string, details ...string) *APIError {
	return &APIError{
		Code:    ErrCodeUnauthorized,
		Message: message,
		Details: strings.Join(details, ", "),
	}
}

func NewTooManyRequestsError(message string, details ...string) *APIError {
	return &APIError{
		Code:    ErrCodeTooManyRequests,
		Message: message,
		Details: strings.Join(details, ", "),
	}
}

func NewInternalError(message string, details ...string) *APIError {
	return &APIError{
		Code:    ErrCodeInternalError,
		Message: message,
		Details: strings.Join(details, ", "),
	}
}

func NewDatabaseError(message string, details ...string) *APIError {
	return &APIError{
		Code:    ErrCodeDatabaseError,
		Message: message,
		Details: strings.Join(details, ", "),
	}
}
