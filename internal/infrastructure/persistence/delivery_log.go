package persistence

import (
	"context"

	"github.com/DanielPopoola/capi-relay/internal/application"
	"github.com/DanielPopoola/capi-relay/internal/domain"
)

const (
	DriverNone     = "none"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
)

var _ application.DeliveryLog = NopDeliveryLog{}

// NopDeliveryLog is used when no delivery log driver is configured.
type NopDeliveryLog struct{}

func (NopDeliveryLog) Record(context.Context, *domain.DispatchOutcome) error {
	return nil
}
