package capi

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/DanielPopoola/capi-relay/internal/application"
	"github.com/DanielPopoola/capi-relay/internal/config"
)

const (
	AttemptSuccess   = "success"
	AttemptRetryable = "retryable"
	AttemptPermanent = "permanent"
)

// RetryClient drives attempts against the inner client. Attempts are strictly
// sequential and reuse the same request bytes.
type RetryClient struct {
	inner       application.ProviderClient
	baseDelay   time.Duration
	maxAttempts int
	observer    application.DispatchObserver
	logger      *slog.Logger
}

func NewRetryClient(
	inner application.ProviderClient,
	cfg config.RetryConfig,
	observer application.DispatchObserver,
	logger *slog.Logger,
) *RetryClient {
	if observer == nil {
		observer = application.NopObserver{}
	}
	maxAttempts := cfg.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &RetryClient{
		inner:       inner,
		baseDelay:   cfg.BaseDelay,
		maxAttempts: maxAttempts,
		observer:    observer,
		logger:      logger.With("component", "retry_client"),
	}
}

func (r *RetryClient) Send(ctx context.Context, req application.DispatchRequest) (*application.ProviderResponse, error) {
	var lastErr error

	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, &application.AttemptError{Attempts: attempt - 1, Err: joinLast(err, lastErr)}
		}

		resp, err := r.inner.Send(ctx, req)
		if err == nil {
			r.observer.ObserveAttempt(req.Provider, AttemptSuccess)
			resp.Attempts = attempt
			return resp, nil
		}

		lastErr = err

		if !isRetryable(ctx, err) {
			r.observer.ObserveAttempt(req.Provider, AttemptPermanent)
			return nil, &application.AttemptError{Attempts: attempt, Err: err}
		}
		r.observer.ObserveAttempt(req.Provider, AttemptRetryable)

		if attempt < r.maxAttempts {
			delay := r.backoff(attempt)
			r.logger.Warn("provider attempt failed, retrying",
				"provider", req.Provider,
				"attempt", attempt,
				"delay_ms", delay.Milliseconds(),
				"error", err,
			)
			if err := sleep(ctx, delay); err != nil {
				return nil, &application.AttemptError{Attempts: attempt, Err: joinLast(err, lastErr)}
			}
		}
	}

	return nil, &application.AttemptError{
		Attempts: r.maxAttempts,
		Err:      fmt.Errorf("%w: %w", application.ErrMaxRetriesExceeded, lastErr),
	}
}

// isRetryable treats every transport failure as transient unless the caller's
// context is done; provider responses retry only on 429 and 5xx.
func isRetryable(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}

	if providerErr, ok := application.IsProviderError(err); ok {
		return providerErr.IsRetryable()
	}

	return true
}

// backoff returns base * 2^(attempt-1).
func (r *RetryClient) backoff(attempt int) time.Duration {
	return r.baseDelay * time.Duration(1<<(attempt-1))
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func joinLast(ctxErr, lastErr error) error {
	if lastErr == nil {
		return ctxErr
	}
	return fmt.Errorf("%w: %w", ctxErr, lastErr)
}
