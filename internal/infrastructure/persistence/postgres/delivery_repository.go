package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/DanielPopoola/capi-relay/internal/application"
	"github.com/DanielPopoola/capi-relay/internal/domain"
	"github.com/DanielPopoola/capi-relay/internal/infrastructure/persistence"
	"github.com/jackc/pgx/v5/pgxpool"
)

var _ application.DeliveryLog = (*DeliveryRepository)(nil)

type DeliveryRepository struct {
	db  *pgxpool.Pool
	now func() time.Time
}

func NewDeliveryRepository(db *pgxpool.Pool) *DeliveryRepository {
	return &DeliveryRepository{db: db, now: time.Now}
}

func (r *DeliveryRepository) Record(ctx context.Context, outcome *domain.DispatchOutcome) error {
	query := `
		INSERT INTO capi_deliveries (
			provider, event_id, conversion_id, outcome, ok, dry_run,
			error_code, provider_status, provider_request_id, attempts,
			has_email, has_phone, recorded_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	rec := persistence.ToDeliveryRecord(outcome, r.now())
	_, err := r.db.Exec(ctx, query,
		rec.Provider,
		rec.EventID,
		rec.ConversionID,
		rec.Outcome,
		rec.OK,
		rec.DryRun,
		rec.ErrorCode,
		rec.ProviderStatus,
		rec.ProviderRequestID,
		rec.Attempts,
		rec.HasEmail,
		rec.HasPhone,
		rec.RecordedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record delivery: %w", err)
	}

	return nil
}

// FindByEventID returns every record for one event, oldest first.
func (r *DeliveryRepository) FindByEventID(ctx context.Context, provider, eventID string) ([]persistence.DeliveryRecord, error) {
	query := `
		SELECT provider, event_id, conversion_id, outcome, ok, dry_run,
		       error_code, provider_status, provider_request_id, attempts,
		       has_email, has_phone, recorded_at
		FROM capi_deliveries
		WHERE provider = $1 AND event_id = $2
		ORDER BY recorded_at, id
	`

	rows, err := r.db.Query(ctx, query, provider, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to query deliveries: %w", err)
	}
	defer rows.Close()

	var records []persistence.DeliveryRecord
	for rows.Next() {
		var rec persistence.DeliveryRecord
		if err := rows.Scan(
			&rec.Provider,
			&rec.EventID,
			&rec.ConversionID,
			&rec.Outcome,
			&rec.OK,
			&rec.DryRun,
			&rec.ErrorCode,
			&rec.ProviderStatus,
			&rec.ProviderRequestID,
			&rec.Attempts,
			&rec.HasEmail,
			&rec.HasPhone,
			&rec.RecordedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan delivery: %w", err)
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}
