package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/DanielPopoola/capi-relay/internal/application"
	"github.com/DanielPopoola/capi-relay/internal/application/services"
	"github.com/DanielPopoola/capi-relay/internal/domain"
)

type linkedInRequest struct {
	ConversionID     optString  `json:"conversionId"`
	EventID          optString  `json:"eventId"`
	EventTime        optNumber  `json:"eventTime"`
	Value            optNumber  `json:"value"`
	Currency         optString  `json:"currency"`
	Email            optString  `json:"email"`
	Phone            optString  `json:"phone"`
	Hashed           strictTrue `json:"hashed"`
	IP               optString  `json:"ip"`
	UserAgent        optString  `json:"userAgent"`
	DryRun           strictTrue `json:"dryRun"`
	ConsentAnalytics optBool    `json:"consentAnalytics"`
}

func NewLinkedInHandler(service *services.DispatchService, env string, maxBodyBytes int64, logger *slog.Logger) *ProviderHandler {
	return &ProviderHandler{
		service:      service,
		decode:       decodeLinkedInEvent,
		env:          env,
		maxBodyBytes: maxBodyBytes,
		logger:       logger.With("component", "linkedin_handler"),
	}
}

// decodeLinkedInEvent gives the X-Consent-Analytics header precedence over
// the body flag.
func decodeLinkedInEvent(r *http.Request, body []byte) (*domain.ConversionEvent, error) {
	var req linkedInRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, domain.NewInvalidJSONError(err)
	}

	if req.ConversionID == "" {
		return nil, domain.NewMissingConversionIDError("conversionId")
	}

	return &domain.ConversionEvent{
		ConversionID: req.ConversionID.String(),
		EventID:      req.EventID.String(),
		EventTime:    req.EventTime.Seconds(),
		Value:        req.Value.Ptr(),
		Currency:     req.Currency.String(),
		RawEmail:     req.Email.String(),
		RawPhone:     req.Phone.String(),
		Hashed:       bool(req.Hashed),
		ClientIP:     ResolveClientIP(r.Header, req.IP.String()),
		UserAgent:    ResolveUserAgent(r.Header, req.UserAgent.String()),
		Consent: application.ResolveConsent(
			application.ParseConsent(r.Header.Get(consentHeader)),
			req.ConsentAnalytics.Ptr(),
		),
		DryRun: bool(req.DryRun),
	}, nil
}
