package handlers_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DanielPopoola/capi-relay/internal/application"
	"github.com/DanielPopoola/capi-relay/internal/application/services"
	"github.com/DanielPopoola/capi-relay/internal/config"
	"github.com/DanielPopoola/capi-relay/internal/infrastructure/capi"
	"github.com/DanielPopoola/capi-relay/internal/infrastructure/persistence"
	"github.com/DanielPopoola/capi-relay/internal/interfaces/rest"
	"github.com/DanielPopoola/capi-relay/internal/interfaces/rest/handlers"
	"github.com/DanielPopoola/capi-relay/internal/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	emailDigest = "973dfe463ec85785f5f95af5ba3906eedb2d931c24e69824a89ea65dba4e813b"
	testPixelID = "pixel-1"
)

var fixedNow = time.Unix(1700000500, 0)

type testServer struct {
	mux          *http.ServeMux
	linkedInMock *mocks.MockProviderClient
	quoraMock    *mocks.MockProviderClient
}

func newTestServer(t *testing.T, linkedInToken, quoraToken string) *testServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	linkedInMock := mocks.NewMockProviderClient(t)
	quoraMock := mocks.NewMockProviderClient(t)

	opts := []services.Option{
		services.WithClock(func() time.Time { return fixedNow }),
		services.WithEventIDGenerator(func() string { return "generated-id" }),
	}

	linkedIn := services.NewDispatchService(
		capi.NewLinkedInAdapter(config.LinkedInConfig{Endpoint: "https://api.linkedin.com/rest/conversionEvents", Version: "202405"}),
		linkedInMock,
		linkedInToken,
		persistence.NopDeliveryLog{},
		nil,
		logger,
		opts...,
	)
	quora := services.NewDispatchService(
		capi.NewQuoraAdapter(config.QuoraConfig{Endpoint: "https://q.quora.com/conversion_api/event", PixelID: testPixelID}),
		quoraMock,
		quoraToken,
		persistence.NopDeliveryLog{},
		nil,
		logger,
		opts...,
	)

	mux := http.NewServeMux()
	handlers.NewHandlers(linkedIn, quora, testPixelID, "dev", 1<<16, logger).Register(mux)

	return &testServer{mux: mux, linkedInMock: linkedInMock, quoraMock: quoraMock}
}

func (s *testServer) do(method, target, body string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	for k, v := range header {
		req.Header[k] = v
	}
	rec := httptest.NewRecorder()
	s.mux.ServeHTTP(rec, req)
	return rec
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func created() *application.ProviderResponse {
	header := http.Header{}
	header.Set("X-Restli-Request-Id", "li-req-1")
	return &application.ProviderResponse{StatusCode: http.StatusCreated, Header: header, Attempts: 1}
}

// ============================================================================
// LINKEDIN
// ============================================================================

func TestLinkedIn_Post_Delivered(t *testing.T) {
	s := newTestServer(t, "li-token", "q-token")

	var sent application.DispatchRequest
	s.linkedInMock.EXPECT().
		Send(mock.Anything, mock.Anything).
		Run(func(_ context.Context, req application.DispatchRequest) { sent = req }).
		Return(created(), nil).
		Once()

	rec := s.do(http.MethodPost, "/linkedin/", `{
		"conversionId": "123",
		"eventId": "evt-1",
		"eventTime": "1700000000.9",
		"email": "Test@Example.com ",
		"value": "10.1234",
		"currency": "usd"
	}`, http.Header{"X-Forwarded-For": {"203.0.113.7, 10.0.0.1"}, "User-Agent": {"Mozilla/5.0"}})

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeJSON(t, rec)
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, "evt-1", body["eventId"])
	assert.Equal(t, float64(http.StatusCreated), body["status"])
	assert.Equal(t, "li-req-1", body["requestId"])
	assert.Equal(t, float64(1), body["attempts"])

	assert.JSONEq(t, `{
		"conversion": {"id": "123"},
		"eventId": "evt-1",
		"eventTime": 1700000000,
		"value": {"amount": 10.12, "currencyCode": "USD"},
		"user": {
			"userIdentifiers": [{"hashedEmail": "`+emailDigest+`"}],
			"sourceIpAddress": "203.0.113.7",
			"userAgent": "Mozilla/5.0"
		}
	}`, string(sent.Body))
}

func TestLinkedIn_Post_ConsentHeaderWinsOverBody(t *testing.T) {
	s := newTestServer(t, "li-token", "q-token")

	rec := s.do(http.MethodPost, "/linkedin/", `{"conversionId":"123","consentAnalytics":true}`,
		http.Header{"X-Consent-Analytics": {"false"}})

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "no_consent", rec.Header().Get(rest.SkippedHeader))
	assert.Empty(t, rec.Body.String())
	s.linkedInMock.AssertNumberOfCalls(t, "Send", 0)
}

func TestLinkedIn_Post_BodyConsentFalse(t *testing.T) {
	s := newTestServer(t, "li-token", "q-token")

	rec := s.do(http.MethodPost, "/linkedin", `{"conversionId":"123","consentAnalytics":"FALSE"}`, nil)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	s.linkedInMock.AssertNumberOfCalls(t, "Send", 0)
}

func TestLinkedIn_Post_DryRun(t *testing.T) {
	s := newTestServer(t, "li-token", "q-token")

	rec := s.do(http.MethodPost, "/linkedin/", `{"conversionId":"123","email":"test@example.com","dryRun":true}`, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeJSON(t, rec)
	assert.Equal(t, "dry_run", body["status"])
	assert.Equal(t, "generated-id", body["eventId"])

	payload, ok := body["payload"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(fixedNow.Unix()), payload["eventTime"])
	assert.Contains(t, rec.Body.String(), emailDigest)
	assert.NotContains(t, rec.Body.String(), "test@example.com")
	s.linkedInMock.AssertNumberOfCalls(t, "Send", 0)
}

func TestLinkedIn_Post_DryRunRequiresLiteralTrue(t *testing.T) {
	s := newTestServer(t, "li-token", "q-token")
	s.linkedInMock.EXPECT().Send(mock.Anything, mock.Anything).Return(created(), nil).Once()

	rec := s.do(http.MethodPost, "/linkedin/", `{"conversionId":"123","dryRun":"true"}`, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(http.StatusCreated), decodeJSON(t, rec)["status"])
}

func TestLinkedIn_Post_InputErrors(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantCode string
	}{
		{"not json", `conversionId=123`, "invalid_json"},
		{"array", `[{"conversionId":"123"}]`, "invalid_json"},
		{"empty", ``, "invalid_json"},
		{"truncated", `{"conversionId":`, "invalid_json"},
		{"missing conversion id", `{"eventId":"evt-1"}`, "missing_conversion_id"},
		{"blank conversion id", `{"conversionId":"   "}`, "missing_conversion_id"},
		{"numeric conversion id", `{"conversionId":123}`, "missing_conversion_id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, "li-token", "q-token")

			rec := s.do(http.MethodPost, "/linkedin/", tt.body, nil)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			body := decodeJSON(t, rec)
			assert.Equal(t, false, body["ok"])
			assert.Equal(t, tt.wantCode, body["code"])
			s.linkedInMock.AssertNumberOfCalls(t, "Send", 0)
		})
	}
}

func TestLinkedIn_Post_MissingToken(t *testing.T) {
	s := newTestServer(t, "", "q-token")

	rec := s.do(http.MethodPost, "/linkedin/", `{"conversionId":"123"}`, nil)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "missing_token", decodeJSON(t, rec)["code"])
}

func TestLinkedIn_Post_ProviderFailures(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "unauthorized",
			err:        &application.AttemptError{Attempts: 1, Err: &application.ProviderError{StatusCode: 401, Message: "token expired"}},
			wantStatus: http.StatusBadRequest,
			wantCode:   "unauthorized",
		},
		{
			name:       "bad request",
			err:        &application.AttemptError{Attempts: 1, Err: &application.ProviderError{StatusCode: 422, Message: "bad field"}},
			wantStatus: http.StatusBadRequest,
			wantCode:   "bad_request",
		},
		{
			name:       "rate limited",
			err:        &application.AttemptError{Attempts: 3, Err: &application.ProviderError{StatusCode: 429, Message: "slow down"}},
			wantStatus: http.StatusBadGateway,
			wantCode:   "rate_limited",
		},
		{
			name:       "remote error",
			err:        &application.AttemptError{Attempts: 3, Err: &application.ProviderError{StatusCode: 503, Message: "down"}},
			wantStatus: http.StatusBadGateway,
			wantCode:   "remote_error",
		},
		{
			name:       "network error",
			err:        &application.AttemptError{Attempts: 3, Err: io.ErrUnexpectedEOF},
			wantStatus: http.StatusBadGateway,
			wantCode:   "network_error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, "li-token", "q-token")
			s.linkedInMock.EXPECT().Send(mock.Anything, mock.Anything).Return(nil, tt.err).Once()

			rec := s.do(http.MethodPost, "/linkedin/", `{"conversionId":"123"}`, nil)

			assert.Equal(t, tt.wantStatus, rec.Code)
			body := decodeJSON(t, rec)
			assert.Equal(t, false, body["ok"])
			assert.Equal(t, tt.wantCode, body["code"])
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestLinkedIn_Status(t *testing.T) {
	s := newTestServer(t, "", "q-token")

	rec := s.do(http.MethodGet, "/linkedin/?status=1", "", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true,"hasToken":false,"now":1700000500,"env":"dev"}`, rec.Body.String())
}

func TestLinkedIn_MethodNotAllowed(t *testing.T) {
	s := newTestServer(t, "li-token", "q-token")

	for _, tc := range []struct{ method, target string }{
		{http.MethodGet, "/linkedin/"},
		{http.MethodGet, "/linkedin/?status=0"},
		{http.MethodPut, "/linkedin/"},
		{http.MethodDelete, "/linkedin"},
	} {
		rec := s.do(tc.method, tc.target, "", nil)

		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code, tc.method+" "+tc.target)
		assert.Equal(t, "method_not_allowed", decodeJSON(t, rec)["code"])
	}
}

func TestOptions_NoBody(t *testing.T) {
	s := newTestServer(t, "li-token", "q-token")

	rec := s.do(http.MethodOptions, "/quora/", "", nil)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}

// ============================================================================
// QUORA
// ============================================================================

func TestQuora_Post_Delivered(t *testing.T) {
	s := newTestServer(t, "li-token", "q-token")

	var sent application.DispatchRequest
	s.quoraMock.EXPECT().
		Send(mock.Anything, mock.Anything).
		Run(func(_ context.Context, req application.DispatchRequest) { sent = req }).
		Return(&application.ProviderResponse{StatusCode: http.StatusOK, Attempts: 2}, nil).
		Once()

	rec := s.do(http.MethodPost, "/quora/", `{
		"event_name": "Purchase",
		"conversion_id": "order-9",
		"event_time": 1700000000,
		"value": 42,
		"currency": "eur",
		"email": "`+emailDigest+`",
		"contents": [{"id": "sku-1"}, "junk", 3],
		"content_ids": ["sku-1", "  ", 7],
		"user_agent": "curl/8"
	}`, http.Header{"X-Real-Ip": {"198.51.100.2"}})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(2), decodeJSON(t, rec)["attempts"])

	assert.Equal(t, "Bearer q-token", sent.Headers.Get("Authorization"))
	assert.JSONEq(t, `{
		"pixel_id": "pixel-1",
		"data": [{
			"event_name": "Purchase",
			"event_time": 1700000000,
			"action_source": "website",
			"conversion_id": "order-9",
			"user_data": {
				"email": "`+emailDigest+`",
				"client_ip_address": "198.51.100.2",
				"client_user_agent": "curl/8"
			},
			"custom_data": {
				"value": 42,
				"currency": "EUR",
				"contents": [{"id": "sku-1"}],
				"content_ids": ["sku-1"]
			},
			"content_ids": ["sku-1"]
		}]
	}`, string(sent.Body))
}

func TestQuora_Post_BodyConsentWinsOverHeader(t *testing.T) {
	s := newTestServer(t, "li-token", "q-token")

	rec := s.do(http.MethodPost, "/quora/", `{"event_name":"Purchase","conversion_id":"1","consentAnalytics":false}`,
		http.Header{"X-Consent-Analytics": {"true"}})

	assert.Equal(t, http.StatusNoContent, rec.Code)
	s.quoraMock.AssertNumberOfCalls(t, "Send", 0)
}

func TestQuora_Post_HeaderConsentUsedWhenBodySilent(t *testing.T) {
	s := newTestServer(t, "li-token", "q-token")

	rec := s.do(http.MethodPost, "/quora/", `{"event_name":"Purchase","conversion_id":"1","consentAnalytics":"maybe"}`,
		http.Header{"X-Consent-Analytics": {"false"}})

	assert.Equal(t, http.StatusNoContent, rec.Code)
	s.quoraMock.AssertNumberOfCalls(t, "Send", 0)
}

func TestQuora_Post_MissingFields(t *testing.T) {
	s := newTestServer(t, "li-token", "q-token")

	rec := s.do(http.MethodPost, "/quora/", `{"conversion_id":"1"}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "missing_event_name", decodeJSON(t, rec)["code"])

	rec = s.do(http.MethodPost, "/quora/", `{"event_name":"Purchase"}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "missing_conversion_id", decodeJSON(t, rec)["code"])
}

func TestQuora_Status(t *testing.T) {
	s := newTestServer(t, "li-token", "q-token")

	rec := s.do(http.MethodGet, "/quora?status=1", "", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true,"hasToken":true,"now":1700000500,"env":"dev","pixelId":"pixel-1"}`, rec.Body.String())
}

func TestPost_BodyTooLarge(t *testing.T) {
	s := newTestServer(t, "li-token", "q-token")

	big := `{"conversionId":"123","pad":"` + strings.Repeat("x", 1<<17) + `"}`
	rec := s.do(http.MethodPost, "/linkedin/", big, nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_json", decodeJSON(t, rec)["code"])
}
