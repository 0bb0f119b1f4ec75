package rest

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/DanielPopoola/capi-relay/internal/application"
	"github.com/DanielPopoola/capi-relay/internal/domain"
)

// SkippedHeader tells callers why a 204 carried no delivery.
const SkippedHeader = "X-Capi-Skipped"

type ErrorResponse struct {
	OK        bool   `json:"ok"`
	Code      string `json:"code"`
	Status    int    `json:"status,omitempty"`
	Error     string `json:"error,omitempty"`
	RequestID string `json:"requestId,omitempty"`
	Warnings  any    `json:"warnings,omitempty"`
}

// WriteJSON writes v with the given status. Encoding errors are ignored: the
// status line is already on the wire.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError maps an error raised before dispatch (bad input, panics) to the
// relay's error body.
func WriteError(w http.ResponseWriter, err error, logger *slog.Logger) {
	code := application.ClassifyError(err)
	status := application.ToHTTPStatus(code)

	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "code", code, "error", err)
	}

	WriteJSON(w, status, ErrorResponse{
		OK:    false,
		Code:  string(code),
		Error: publicMessage(err),
	})
}

// WriteErrorCode writes a bare error body for a code with no underlying error.
func WriteErrorCode(w http.ResponseWriter, code domain.ErrorCode) {
	WriteJSON(w, application.ToHTTPStatus(code), ErrorResponse{
		OK:   false,
		Code: string(code),
	})
}

func publicMessage(err error) string {
	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Message
	}
	if svcErr, ok := application.IsServiceError(err); ok {
		return svcErr.Message
	}
	return ""
}
