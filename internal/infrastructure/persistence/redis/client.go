package redis

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/DanielPopoola/capi-relay/internal/config"
	"github.com/redis/go-redis/v9"
)

// Connect parses cfg.URL, creates a client and pings it.
func Connect(ctx context.Context, cfg config.RedisConfig, logger *slog.Logger) (*redis.Client, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	logger.Info("successfully connected to redis", "addr", opts.Addr, "stream", cfg.Stream)
	return client, nil
}
