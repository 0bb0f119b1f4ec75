package capi

import (
	"net/http"

	"github.com/DanielPopoola/capi-relay/internal/config"
	"github.com/DanielPopoola/capi-relay/internal/domain"
)

const (
	ProviderLinkedIn = "linkedin"

	restliProtocolVersion = "2.0.0"
)

type LinkedInRequestBody struct {
	Conversion LinkedInConversion `json:"conversion"`
	EventID    string             `json:"eventId"`
	EventTime  int64              `json:"eventTime"`
	Value      *LinkedInValue     `json:"value,omitempty"`
	User       *LinkedInUser      `json:"user,omitempty"`
}

type LinkedInConversion struct {
	ID string `json:"id"`
}

type LinkedInValue struct {
	Amount       float64 `json:"amount"`
	CurrencyCode string  `json:"currencyCode"`
}

type LinkedInUser struct {
	UserIdentifiers []LinkedInUserIdentifier `json:"userIdentifiers,omitempty"`
	SourceIPAddress string                   `json:"sourceIpAddress,omitempty"`
	UserAgent       string                   `json:"userAgent,omitempty"`
}

// LinkedInUserIdentifier carries exactly one of its fields.
type LinkedInUserIdentifier struct {
	HashedEmail       string `json:"hashedEmail,omitempty"`
	HashedPhoneNumber string `json:"hashedPhoneNumber,omitempty"`
}

type LinkedInAdapter struct {
	endpoint string
	version  string
}

func NewLinkedInAdapter(cfg config.LinkedInConfig) *LinkedInAdapter {
	return &LinkedInAdapter{
		endpoint: cfg.Endpoint,
		version:  cfg.Version,
	}
}

func (a *LinkedInAdapter) Name() string {
	return ProviderLinkedIn
}

func (a *LinkedInAdapter) Endpoint() string {
	return a.endpoint
}

func (a *LinkedInAdapter) AuthHeaders(token string) http.Header {
	h := http.Header{}
	h.Set("Authorization", "Bearer "+token)
	h.Set("LinkedIn-Version", a.version)
	h.Set("X-Restli-Protocol-Version", restliProtocolVersion)
	return h
}

// HashIdentifiers trusts the caller's "hashed" flag without checking digest
// shape.
func (a *LinkedInAdapter) HashIdentifiers(ev *domain.ConversionEvent) domain.HashedIdentifiers {
	email, _ := domain.HashIdentifier(ev.RawEmail, ev.Hashed)
	phone, _ := domain.HashIdentifier(ev.RawPhone, ev.Hashed)
	return domain.HashedIdentifiers{Email: email, Phone: phone}
}

func (a *LinkedInAdapter) Build(ev *domain.ConversionEvent, ids domain.HashedIdentifiers, meta domain.NetworkMeta) (any, error) {
	if ev.ConversionID == "" {
		return nil, domain.NewMissingConversionIDError("conversionId")
	}
	return BuildLinkedInRequestBody(ev, ids, meta), nil
}

func BuildLinkedInRequestBody(ev *domain.ConversionEvent, ids domain.HashedIdentifiers, meta domain.NetworkMeta) *LinkedInRequestBody {
	body := &LinkedInRequestBody{
		Conversion: LinkedInConversion{ID: ev.ConversionID},
		EventID:    ev.EventID,
		EventTime:  ev.EventTime,
	}

	if amount, currency, ok := domain.MonetaryValue(ev.Value, ev.Currency); ok {
		body.Value = &LinkedInValue{
			Amount:       amount,
			CurrencyCode: currency,
		}
	}

	var identifiers []LinkedInUserIdentifier
	if ids.Email != "" {
		identifiers = append(identifiers, LinkedInUserIdentifier{HashedEmail: ids.Email})
	}
	if ids.Phone != "" {
		identifiers = append(identifiers, LinkedInUserIdentifier{HashedPhoneNumber: ids.Phone})
	}

	if len(identifiers) > 0 || !meta.Empty() {
		body.User = &LinkedInUser{
			UserIdentifiers: identifiers,
			SourceIPAddress: meta.ClientIP,
			UserAgent:       meta.UserAgent,
		}
	}

	return body
}

func (a *LinkedInAdapter) RequestID(h http.Header) string {
	return firstHeader(h, "X-Restli-Request-Id", "X-Li-Traceid", "X-Request-Id")
}

func (a *LinkedInAdapter) Warnings(body []byte) any {
	return extractWarnings(body)
}
