package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/DanielPopoola/capi-relay/internal/application"
	"github.com/DanielPopoola/capi-relay/internal/config"
	"github.com/DanielPopoola/capi-relay/internal/infrastructure/persistence"
	"github.com/DanielPopoola/capi-relay/internal/infrastructure/persistence/postgres"
	"github.com/DanielPopoola/capi-relay/internal/infrastructure/persistence/redis"
)

// openDeliveryLog builds the configured delivery log and returns a function
// that releases its connections.
func openDeliveryLog(ctx context.Context, cfg *config.Config, logger *slog.Logger) (application.DeliveryLog, func(), error) {
	switch cfg.DeliveryLog.Driver {
	case persistence.DriverPostgres:
		db, err := postgres.Connect(ctx, &cfg.Database, logger)
		if err != nil {
			return nil, nil, err
		}
		return postgres.NewDeliveryRepository(db.Pool), db.Close, nil

	case persistence.DriverRedis:
		client, err := redis.Connect(ctx, cfg.Redis, logger)
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() {
			if err := client.Close(); err != nil {
				logger.Error("failed to close redis client", "error", err)
			}
		}
		return redis.NewDeliveryStream(client, cfg.Redis.Stream, cfg.Redis.MaxLen), closeFn, nil

	case persistence.DriverNone, "":
		return persistence.NopDeliveryLog{}, func() {}, nil

	default:
		return nil, nil, fmt.Errorf("unknown delivery log driver %q", cfg.DeliveryLog.Driver)
	}
}
