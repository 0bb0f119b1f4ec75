package rest_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DanielPopoola/capi-relay/internal/domain"
	"github.com/DanielPopoola/capi-relay/internal/interfaces/rest"
	"github.com/stretchr/testify/assert"
)

func TestWriteOutcome(t *testing.T) {
	tests := []struct {
		name       string
		outcome    domain.DispatchOutcome
		wantStatus int
		wantBody   string
	}{
		{
			name:       "skipped",
			outcome:    domain.DispatchOutcome{OK: true, Skipped: domain.SkippedNoConsent, EventID: "e"},
			wantStatus: http.StatusNoContent,
		},
		{
			name:       "dry run",
			outcome:    domain.DispatchOutcome{OK: true, DryRun: true, EventID: "e", Payload: json.RawMessage(`{"a":1}`)},
			wantStatus: http.StatusOK,
			wantBody:   `{"ok":true,"eventId":"e","status":"dry_run","payload":{"a":1}}`,
		},
		{
			name:       "delivered",
			outcome:    domain.DispatchOutcome{OK: true, EventID: "e", Status: 201, ProviderRequestID: "r", Attempts: 1},
			wantStatus: http.StatusOK,
			wantBody:   `{"ok":true,"eventId":"e","status":201,"requestId":"r","attempts":1}`,
		},
		{
			name:       "missing token",
			outcome:    domain.DispatchOutcome{Code: domain.ErrCodeMissingToken, Message: "no linkedin token configured"},
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"ok":false,"code":"missing_token","error":"no linkedin token configured"}`,
		},
		{
			name:       "not found",
			outcome:    domain.DispatchOutcome{Code: domain.ErrCodeNotFound, Status: 404, Message: "gone", ProviderRequestID: "r"},
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"ok":false,"code":"not_found","status":404,"error":"gone","requestId":"r"}`,
		},
		{
			name:       "remote error",
			outcome:    domain.DispatchOutcome{Code: domain.ErrCodeRemoteError, Status: 500, Message: "oops"},
			wantStatus: http.StatusBadGateway,
			wantBody:   `{"ok":false,"code":"remote_error","status":500,"error":"oops"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()

			rest.WriteOutcome(rec, &tt.outcome)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantBody == "" {
				assert.Empty(t, rec.Body.String())
				assert.Equal(t, domain.SkippedNoConsent, rec.Header().Get(rest.SkippedHeader))
				return
			}
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
		})
	}
}

func TestWriteErrorCode(t *testing.T) {
	rec := httptest.NewRecorder()

	rest.WriteErrorCode(rec, domain.ErrCodeMethodNotAllowed)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.JSONEq(t, `{"ok":false,"code":"method_not_allowed"}`, rec.Body.String())
}
