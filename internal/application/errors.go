package application

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/DanielPopoola/capi-relay/internal/domain"
)

// APPLICATION-LEVEL ERRORS (Orchestration)

type ServiceError struct {
	Code       domain.ErrorCode
	Message    string
	HTTPStatus int
	Err        error
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

func NewMissingTokenError(provider string) *ServiceError {
	return &ServiceError{
		Code:       domain.ErrCodeMissingToken,
		Message:    fmt.Sprintf("no %s token configured", provider),
		HTTPStatus: http.StatusInternalServerError,
	}
}

func NewInternalError(err error) *ServiceError {
	return &ServiceError{
		Code:       domain.ErrCodeInternal,
		Message:    "An internal error occurred",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

func IsServiceError(err error) (*ServiceError, bool) {
	var svcErr *ServiceError
	ok := errors.As(err, &svcErr)
	return svcErr, ok
}

// PROVIDER ERRORS (External API)

var ErrMaxRetriesExceeded = errors.New("maximum retries exceeded")

// ProviderError is a non-2xx response from a provider.
type ProviderError struct {
	StatusCode int
	Message    string
	Header     http.Header
	Body       []byte
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider error: %s (status: %d)", e.Message, e.StatusCode)
}

func (e *ProviderError) IsRetryable() bool {
	return ShouldRetry(e.StatusCode)
}

func IsProviderError(err error) (*ProviderError, bool) {
	var providerErr *ProviderError
	ok := errors.As(err, &providerErr)
	return providerErr, ok
}

// ShouldRetry reports whether a provider status is worth another attempt:
// 429 and every 5xx.
func ShouldRetry(status int) bool {
	if status == http.StatusTooManyRequests {
		return true
	}
	return status >= 500 && status < 600
}

// AttemptError records how many attempts were made before err ended the loop.
type AttemptError struct {
	Attempts int
	Err      error
}

func (e *AttemptError) Error() string {
	return fmt.Sprintf("after %d attempt(s): %v", e.Attempts, e.Err)
}

func (e *AttemptError) Unwrap() error {
	return e.Err
}

func AttemptsOf(err error) int {
	var attemptErr *AttemptError
	if errors.As(err, &attemptErr) {
		return attemptErr.Attempts
	}
	return 0
}
