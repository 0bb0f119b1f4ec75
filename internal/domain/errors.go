package domain

import (
	"errors"
	"fmt"
)

// ErrorCode is the machine-readable outcome code returned to callers.
// Callers branch on these strings, so existing values must not change.
type ErrorCode string

const (
	ErrCodeMissingToken        ErrorCode = "missing_token"
	ErrCodeInvalidJSON         ErrorCode = "invalid_json"
	ErrCodeMissingConversionID ErrorCode = "missing_conversion_id"
	ErrCodeMissingEventName    ErrorCode = "missing_event_name"
	ErrCodeMethodNotAllowed    ErrorCode = "method_not_allowed"
	ErrCodeUnauthorized        ErrorCode = "unauthorized"
	ErrCodeNotFound            ErrorCode = "not_found"
	ErrCodeRateLimited         ErrorCode = "rate_limited"
	ErrCodeRemoteError         ErrorCode = "remote_error"
	ErrCodeBadRequest          ErrorCode = "bad_request"
	ErrCodeNetworkError        ErrorCode = "network_error"
	ErrCodeInternal            ErrorCode = "internal_error"
	ErrCodeTimeout             ErrorCode = "timeout"
	ErrCodeUnknown             ErrorCode = "unknown_error"
)

// DomainError represents a rejected conversion event
type DomainError struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *DomainError) Unwrap() error {
	return e.Err
}

func NewInvalidJSONError(err error) *DomainError {
	return &DomainError{
		Code:    ErrCodeInvalidJSON,
		Message: "request body must be a JSON object",
		Err:     err,
	}
}

func NewMissingFieldError(code ErrorCode, field string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: fmt.Sprintf("%s is required", field),
	}
}

func NewMissingConversionIDError(field string) *DomainError {
	return NewMissingFieldError(ErrCodeMissingConversionID, field)
}

func NewMissingEventNameError(field string) *DomainError {
	return NewMissingFieldError(ErrCodeMissingEventName, field)
}

// IsErrorCode checks if an error is a DomainError with a specific code
func IsErrorCode(err error, code ErrorCode) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code == code
	}
	return false
}
