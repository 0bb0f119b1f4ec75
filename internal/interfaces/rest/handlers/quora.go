package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/DanielPopoola/capi-relay/internal/application"
	"github.com/DanielPopoola/capi-relay/internal/application/services"
	"github.com/DanielPopoola/capi-relay/internal/domain"
)

type quoraRequest struct {
	EventName        optString  `json:"event_name"`
	ConversionID     optString  `json:"conversion_id"`
	EventTime        optNumber  `json:"event_time"`
	Value            optNumber  `json:"value"`
	Currency         optString  `json:"currency"`
	Email            optString  `json:"email"`
	Contents         objectList `json:"contents"`
	ContentIDs       stringList `json:"content_ids"`
	ClientIP         optString  `json:"client_ip"`
	UserAgent        optString  `json:"user_agent"`
	EventID          optString  `json:"event_id"`
	DryRun           strictTrue `json:"dryRun"`
	ConsentAnalytics optBool    `json:"consentAnalytics"`
}

func NewQuoraHandler(service *services.DispatchService, pixelID, env string, maxBodyBytes int64, logger *slog.Logger) *ProviderHandler {
	return &ProviderHandler{
		service:      service,
		decode:       decodeQuoraEvent,
		env:          env,
		pixelID:      pixelID,
		maxBodyBytes: maxBodyBytes,
		logger:       logger.With("component", "quora_handler"),
	}
}

// decodeQuoraEvent gives the body consentAnalytics flag precedence over the
// X-Consent-Analytics header.
func decodeQuoraEvent(r *http.Request, body []byte) (*domain.ConversionEvent, error) {
	var req quoraRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, domain.NewInvalidJSONError(err)
	}

	if req.EventName == "" {
		return nil, domain.NewMissingEventNameError("event_name")
	}
	if req.ConversionID == "" {
		return nil, domain.NewMissingConversionIDError("conversion_id")
	}

	return &domain.ConversionEvent{
		EventName:    req.EventName.String(),
		ConversionID: req.ConversionID.String(),
		EventID:      req.EventID.String(),
		EventTime:    req.EventTime.Seconds(),
		Value:        req.Value.Ptr(),
		Currency:     req.Currency.String(),
		RawEmail:     req.Email.String(),
		ClientIP:     ResolveClientIP(r.Header, req.ClientIP.String()),
		UserAgent:    ResolveUserAgent(r.Header, req.UserAgent.String()),
		Consent: application.ResolveConsent(
			req.ConsentAnalytics.Ptr(),
			application.ParseConsent(r.Header.Get(consentHeader)),
		),
		DryRun:     bool(req.DryRun),
		Contents:   req.Contents,
		ContentIDs: req.ContentIDs,
	}, nil
}
