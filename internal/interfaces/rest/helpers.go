package rest

import (
	"encoding/json"
	"net/http"

	"github.com/DanielPopoola/capi-relay/internal/application"
	"github.com/DanielPopoola/capi-relay/internal/domain"
)

const statusDryRun = "dry_run"

type DeliveredResponse struct {
	OK        bool   `json:"ok"`
	EventID   string `json:"eventId"`
	Status    int    `json:"status"`
	RequestID string `json:"requestId,omitempty"`
	Warnings  any    `json:"warnings,omitempty"`
	Attempts  int    `json:"attempts"`
}

type DryRunResponse struct {
	OK      bool            `json:"ok"`
	EventID string          `json:"eventId"`
	Status  string          `json:"status"`
	Payload json.RawMessage `json:"payload"`
}

type StatusResponse struct {
	OK       bool   `json:"ok"`
	HasToken bool   `json:"hasToken"`
	Now      int64  `json:"now"`
	Env      string `json:"env"`
	PixelID  string `json:"pixelId,omitempty"`
}

// WriteOutcome renders a dispatch outcome: 204 for a skip, 200 for a dry run
// or delivery, and the code's mapped status otherwise.
func WriteOutcome(w http.ResponseWriter, outcome *domain.DispatchOutcome) {
	switch {
	case outcome.Skipped != "":
		w.Header().Set(SkippedHeader, outcome.Skipped)
		w.WriteHeader(http.StatusNoContent)

	case outcome.DryRun:
		WriteJSON(w, http.StatusOK, DryRunResponse{
			OK:      true,
			EventID: outcome.EventID,
			Status:  statusDryRun,
			Payload: outcome.Payload,
		})

	case outcome.OK:
		WriteJSON(w, http.StatusOK, DeliveredResponse{
			OK:        true,
			EventID:   outcome.EventID,
			Status:    outcome.Status,
			RequestID: outcome.ProviderRequestID,
			Warnings:  outcome.Warnings,
			Attempts:  outcome.Attempts,
		})

	default:
		code := outcome.Code
		if code == "" {
			code = domain.ErrCodeUnknown
		}
		WriteJSON(w, application.ToHTTPStatus(code), ErrorResponse{
			OK:        false,
			Code:      string(code),
			Status:    outcome.Status,
			Error:     outcome.Message,
			RequestID: outcome.ProviderRequestID,
			Warnings:  outcome.Warnings,
		})
	}
}
