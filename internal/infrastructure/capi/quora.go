package capi

import (
	"net/http"

	"github.com/DanielPopoola/capi-relay/internal/config"
	"github.com/DanielPopoola/capi-relay/internal/domain"
)

const (
	ProviderQuora = "quora"

	quoraActionSource = "website"
)

type QuoraRequestBody struct {
	PixelID string       `json:"pixel_id"`
	Data    []QuoraEvent `json:"data"`
}

type QuoraEvent struct {
	EventName    string           `json:"event_name"`
	EventTime    int64            `json:"event_time"`
	ActionSource string           `json:"action_source"`
	ConversionID string           `json:"conversion_id,omitempty"`
	UserData     *QuoraUserData   `json:"user_data,omitempty"`
	CustomData   *QuoraCustomData `json:"custom_data,omitempty"`
	ContentIDs   []string         `json:"content_ids,omitempty"`
}

type QuoraUserData struct {
	Email           string `json:"email,omitempty"`
	ClientIPAddress string `json:"client_ip_address,omitempty"`
	ClientUserAgent string `json:"client_user_agent,omitempty"`
}

type QuoraCustomData struct {
	Value      *float64         `json:"value,omitempty"`
	Currency   string           `json:"currency,omitempty"`
	Contents   []map[string]any `json:"contents,omitempty"`
	ContentIDs []string         `json:"content_ids,omitempty"`
}

type QuoraAdapter struct {
	endpoint string
	pixelID  string
}

func NewQuoraAdapter(cfg config.QuoraConfig) *QuoraAdapter {
	return &QuoraAdapter{
		endpoint: cfg.Endpoint,
		pixelID:  cfg.PixelID,
	}
}

func (a *QuoraAdapter) Name() string {
	return ProviderQuora
}

func (a *QuoraAdapter) Endpoint() string {
	return a.endpoint
}

func (a *QuoraAdapter) PixelID() string {
	return a.pixelID
}

func (a *QuoraAdapter) AuthHeaders(token string) http.Header {
	h := http.Header{}
	h.Set("Authorization", "Bearer "+token)
	return h
}

// HashIdentifiers ignores the "hashed" flag: input is trusted only if it
// already has the shape of a SHA-256 hex digest. Quora takes no phone number.
func (a *QuoraAdapter) HashIdentifiers(ev *domain.ConversionEvent) domain.HashedIdentifiers {
	email, _ := domain.EnsureHashed(ev.RawEmail)
	return domain.HashedIdentifiers{Email: email}
}

func (a *QuoraAdapter) Build(ev *domain.ConversionEvent, ids domain.HashedIdentifiers, meta domain.NetworkMeta) (any, error) {
	if ev.EventName == "" {
		return nil, domain.NewMissingEventNameError("event_name")
	}
	return BuildQuoraRequestBody(a.pixelID, ev, ids, meta), nil
}

func BuildQuoraRequestBody(pixelID string, ev *domain.ConversionEvent, ids domain.HashedIdentifiers, meta domain.NetworkMeta) *QuoraRequestBody {
	event := QuoraEvent{
		EventName:    ev.EventName,
		EventTime:    ev.EventTime,
		ActionSource: quoraActionSource,
		ConversionID: ev.ConversionID,
		ContentIDs:   ev.ContentIDs,
	}

	if ids.Email != "" || !meta.Empty() {
		event.UserData = &QuoraUserData{
			Email:           ids.Email,
			ClientIPAddress: meta.ClientIP,
			ClientUserAgent: meta.UserAgent,
		}
	}

	custom := &QuoraCustomData{
		Contents:   ev.Contents,
		ContentIDs: ev.ContentIDs,
	}
	if amount, currency, ok := domain.MonetaryValue(ev.Value, ev.Currency); ok {
		custom.Value = &amount
		custom.Currency = currency
	}
	if custom.Value != nil || len(custom.Contents) > 0 || len(custom.ContentIDs) > 0 {
		event.CustomData = custom
	}

	return &QuoraRequestBody{
		PixelID: pixelID,
		Data:    []QuoraEvent{event},
	}
}

func (a *QuoraAdapter) RequestID(h http.Header) string {
	return firstHeader(h, "X-Request-Id")
}

func (a *QuoraAdapter) Warnings(body []byte) any {
	return extractWarnings(body)
}
