package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/DanielPopoola/capi-relay/internal/application"
	"github.com/DanielPopoola/capi-relay/internal/domain"
	"github.com/DanielPopoola/capi-relay/internal/infrastructure/persistence"
	"github.com/redis/go-redis/v9"
)

var _ application.DeliveryLog = (*DeliveryStream)(nil)

// DeliveryStream appends delivery records to a Redis stream trimmed to an
// approximate maximum length.
type DeliveryStream struct {
	client *redis.Client
	stream string
	maxLen int64
	now    func() time.Time
}

func NewDeliveryStream(client *redis.Client, stream string, maxLen int64) *DeliveryStream {
	return &DeliveryStream{
		client: client,
		stream: stream,
		maxLen: maxLen,
		now:    time.Now,
	}
}

func (s *DeliveryStream) Record(ctx context.Context, outcome *domain.DispatchOutcome) error {
	rec := persistence.ToDeliveryRecord(outcome, s.now())

	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal delivery record: %w", err)
	}

	args := &redis.XAddArgs{
		Stream: s.stream,
		MaxLen: s.maxLen,
		Approx: true,
		Values: map[string]interface{}{
			"provider": rec.Provider,
			"event_id": rec.EventID,
			"outcome":  rec.Outcome,
			"payload":  payload,
		},
	}

	if err := s.client.XAdd(ctx, args).Err(); err != nil {
		return fmt.Errorf("failed to XADD to redis stream: %w", err)
	}
	return nil
}

// Recent returns up to count records, newest first.
func (s *DeliveryStream) Recent(ctx context.Context, count int64) ([]persistence.DeliveryRecord, error) {
	msgs, err := s.client.XRevRangeN(ctx, s.stream, "+", "-", count).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read redis stream: %w", err)
	}

	records := make([]persistence.DeliveryRecord, 0, len(msgs))
	for _, msg := range msgs {
		raw, ok := msg.Values["payload"].(string)
		if !ok {
			continue
		}
		var rec persistence.DeliveryRecord
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			return nil, fmt.Errorf("failed to decode delivery record %s: %w", msg.ID, err)
		}
		records = append(records, rec)
	}
	return records, nil
}
