package application

import (
	"context"
	"net/http"
	"time"

	"github.com/DanielPopoola/capi-relay/internal/domain"
)

// ProviderAdapter describes one ad platform's Conversions API. Adding a
// provider means adding an adapter; the dispatcher does not change.
type ProviderAdapter interface {
	Name() string
	Endpoint() string
	AuthHeaders(token string) http.Header
	// HashIdentifiers applies the provider's trust rules for pre-hashed input.
	HashIdentifiers(ev *domain.ConversionEvent) domain.HashedIdentifiers
	// Build must be pure: identical inputs yield identical payloads.
	Build(ev *domain.ConversionEvent, ids domain.HashedIdentifiers, meta domain.NetworkMeta) (any, error)
	RequestID(h http.Header) string
	Warnings(body []byte) any
}

// DispatchRequest is serialized once and resent verbatim on every attempt.
type DispatchRequest struct {
	Provider string
	Endpoint string
	Headers  http.Header
	Body     []byte
}

type ProviderResponse struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	Attempts   int
}

// ProviderClient is the port for the outbound HTTP call.
type ProviderClient interface {
	Send(ctx context.Context, req DispatchRequest) (*ProviderResponse, error)
}

// DeliveryLog records dispatch outcomes. Implementations must not receive or
// store raw identifiers; DispatchOutcome carries only a summary.
type DeliveryLog interface {
	Record(ctx context.Context, outcome *domain.DispatchOutcome) error
}

type DispatchObserver interface {
	ObserveAttempt(provider, result string)
	ObserveOutcome(provider string, outcome *domain.DispatchOutcome, elapsed time.Duration)
}

type NopObserver struct{}

func (NopObserver) ObserveAttempt(string, string) {}

func (NopObserver) ObserveOutcome(string, *domain.DispatchOutcome, time.Duration) {}
