package application

import (
	"errors"
	"net/http"

	"github.com/DanielPopoola/capi-relay/internal/domain"
)

// ClassifyError maps any error produced while handling a conversion event to
// its stable caller-facing code.
func ClassifyError(err error) domain.ErrorCode {
	if err == nil {
		return ""
	}

	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}

	if svcErr, ok := IsServiceError(err); ok {
		return svcErr.Code
	}

	// A provider response wins over a later cancellation: it says more about
	// why delivery failed.
	if providerErr, ok := IsProviderError(err); ok {
		return classifyStatus(providerErr.StatusCode)
	}

	// Anything left came from the transport or a cancelled context.
	return domain.ErrCodeNetworkError
}

func classifyStatus(status int) domain.ErrorCode {
	switch {
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		return domain.ErrCodeUnauthorized
	case status == http.StatusNotFound:
		return domain.ErrCodeNotFound
	case status == http.StatusTooManyRequests:
		return domain.ErrCodeRateLimited
	case status >= 500:
		return domain.ErrCodeRemoteError
	case status >= 400:
		return domain.ErrCodeBadRequest
	default:
		return domain.ErrCodeUnknown
	}
}

// ToHTTPStatus maps an outcome code to the status returned by the relay.
func ToHTTPStatus(code domain.ErrorCode) int {
	switch code {
	case "":
		return http.StatusOK
	case domain.ErrCodeInvalidJSON,
		domain.ErrCodeMissingConversionID,
		domain.ErrCodeMissingEventName,
		domain.ErrCodeBadRequest,
		domain.ErrCodeNotFound,
		domain.ErrCodeUnauthorized:
		return http.StatusBadRequest
	case domain.ErrCodeMethodNotAllowed:
		return http.StatusMethodNotAllowed
	case domain.ErrCodeRateLimited,
		domain.ErrCodeRemoteError,
		domain.ErrCodeNetworkError:
		return http.StatusBadGateway
	case domain.ErrCodeTimeout:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
