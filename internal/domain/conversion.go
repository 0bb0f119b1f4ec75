package domain

import "encoding/json"

// ConversionEvent is the provider-neutral description of one completed user
// action. It is built per request and never persisted.
type ConversionEvent struct {
	ConversionID string
	EventName    string
	EventID      string
	EventTime    int64

	Value    *float64
	Currency string

	// Raw identifiers. They are hashed before any payload is built and must
	// never be logged.
	RawEmail string
	RawPhone string
	Hashed   bool

	ClientIP  string
	UserAgent string

	Consent *bool
	DryRun  bool

	Contents   []map[string]any
	ContentIDs []string
}

// HashedIdentifiers holds lowercase SHA-256 hex digests. An empty field means
// the identifier was absent.
type HashedIdentifiers struct {
	Email string
	Phone string
}

func (h HashedIdentifiers) Summary() IdentifierSummary {
	return IdentifierSummary{
		HasEmail: h.Email != "",
		HasPhone: h.Phone != "",
	}
}

// IdentifierSummary is the only view of identifiers that is safe to log.
type IdentifierSummary struct {
	HasEmail bool `json:"hasEmail"`
	HasPhone bool `json:"hasPhone"`
}

type NetworkMeta struct {
	ClientIP  string
	UserAgent string
}

func (m NetworkMeta) Empty() bool {
	return m.ClientIP == "" && m.UserAgent == ""
}

const SkippedNoConsent = "no_consent"

// DispatchOutcome is produced exactly once per inbound request, after the
// retry loop has terminated or dispatch was skipped.
type DispatchOutcome struct {
	OK                bool
	Skipped           string
	DryRun            bool
	Provider          string
	ConversionID      string
	EventID           string
	Status            int
	ProviderRequestID string
	Warnings          any
	Code              ErrorCode
	Message           string
	Attempts          int
	Identifiers       IdentifierSummary
	Payload           json.RawMessage
}

// Label names the outcome for metrics and the delivery log: the skip reason,
// "dry_run", "delivered" or the error code.
func (o *DispatchOutcome) Label() string {
	switch {
	case o.Skipped != "":
		return o.Skipped
	case o.DryRun:
		return "dry_run"
	case o.OK:
		return "delivered"
	case o.Code != "":
		return string(o.Code)
	default:
		return string(ErrCodeUnknown)
	}
}
