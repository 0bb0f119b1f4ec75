package persistence

import (
	"time"

	"github.com/DanielPopoola/capi-relay/internal/domain"
)

// DeliveryRecord is the stored form of a dispatch outcome. It carries no
// identifiers and no payload, only whether an email or phone was present.
type DeliveryRecord struct {
	Provider          string    `json:"provider"`
	EventID           string    `json:"event_id"`
	ConversionID      *string   `json:"conversion_id,omitempty"`
	Outcome           string    `json:"outcome"`
	OK                bool      `json:"ok"`
	DryRun            bool      `json:"dry_run"`
	ErrorCode         *string   `json:"error_code,omitempty"`
	ProviderStatus    *int      `json:"provider_status,omitempty"`
	ProviderRequestID *string   `json:"provider_request_id,omitempty"`
	Attempts          int       `json:"attempts"`
	HasEmail          bool      `json:"has_email"`
	HasPhone          bool      `json:"has_phone"`
	RecordedAt        time.Time `json:"recorded_at"`
}

// ToDeliveryRecord maps a dispatch outcome to its stored form.
func ToDeliveryRecord(o *domain.DispatchOutcome, recordedAt time.Time) DeliveryRecord {
	return DeliveryRecord{
		Provider:          o.Provider,
		EventID:           o.EventID,
		ConversionID:      optionalString(o.ConversionID),
		Outcome:           o.Label(),
		OK:                o.OK,
		DryRun:            o.DryRun,
		ErrorCode:         optionalString(string(o.Code)),
		ProviderStatus:    optionalInt(o.Status),
		ProviderRequestID: optionalString(o.ProviderRequestID),
		Attempts:          o.Attempts,
		HasEmail:          o.Identifiers.HasEmail,
		HasPhone:          o.Identifiers.HasPhone,
		RecordedAt:        recordedAt.UTC(),
	}
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func optionalInt(i int) *int {
	if i == 0 {
		return nil
	}
	return &i
}
