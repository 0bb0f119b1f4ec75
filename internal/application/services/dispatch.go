package services

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/DanielPopoola/capi-relay/internal/application"
	"github.com/DanielPopoola/capi-relay/internal/domain"
	"github.com/google/uuid"
)

// deliveryLogTimeout bounds the best-effort write after the outcome is known.
const deliveryLogTimeout = 2 * time.Second

// DispatchService relays conversion events to one provider. It is safe for
// concurrent use; all per-request state lives on the stack.
type DispatchService struct {
	adapter    application.ProviderAdapter
	client     application.ProviderClient
	token      string
	deliveries application.DeliveryLog
	observer   application.DispatchObserver
	logger     *slog.Logger
	now        func() time.Time
	newEventID func() string
}

type Option func(*DispatchService)

func WithClock(now func() time.Time) Option {
	return func(s *DispatchService) {
		s.now = now
	}
}

func WithEventIDGenerator(gen func() string) Option {
	return func(s *DispatchService) {
		s.newEventID = gen
	}
}

func NewDispatchService(
	adapter application.ProviderAdapter,
	client application.ProviderClient,
	token string,
	deliveries application.DeliveryLog,
	observer application.DispatchObserver,
	logger *slog.Logger,
	opts ...Option,
) *DispatchService {
	if observer == nil {
		observer = application.NopObserver{}
	}
	s := &DispatchService{
		adapter:    adapter,
		client:     client,
		token:      strings.TrimSpace(token),
		deliveries: deliveries,
		observer:   observer,
		logger:     logger.With("component", "dispatch", "provider", adapter.Name()),
		now:        time.Now,
		newEventID: func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type ProviderStatus struct {
	Provider string
	HasToken bool
	Now      time.Time
}

func (s *DispatchService) Provider() string {
	return s.adapter.Name()
}

func (s *DispatchService) HasToken() bool {
	return s.token != ""
}

// Status never contacts the provider.
func (s *DispatchService) Status() ProviderStatus {
	return ProviderStatus{
		Provider: s.adapter.Name(),
		HasToken: s.HasToken(),
		Now:      s.now(),
	}
}

// Dispatch runs one event through consent, hashing, payload building and
// delivery. The returned outcome is always populated; a non-nil error means
// the outcome is a failure and carries its classified code.
func (s *DispatchService) Dispatch(ctx context.Context, in *domain.ConversionEvent) (*domain.DispatchOutcome, error) {
	start := s.now()
	ev := *in

	ev.EventID = strings.TrimSpace(ev.EventID)
	if ev.EventID == "" {
		ev.EventID = s.newEventID()
	}
	if ev.EventTime <= 0 {
		ev.EventTime = start.Unix()
	}

	outcome := &domain.DispatchOutcome{
		Provider:     s.adapter.Name(),
		ConversionID: ev.ConversionID,
		EventID:      ev.EventID,
	}

	if application.ConsentDenied(ev.Consent) {
		outcome.OK = true
		outcome.Skipped = domain.SkippedNoConsent
		s.logger.Info("dispatch skipped", "event_id", ev.EventID, "reason", domain.SkippedNoConsent)
		s.finish(ctx, outcome, start)
		return outcome, nil
	}

	if !s.HasToken() {
		return s.fail(ctx, outcome, start, application.NewMissingTokenError(s.adapter.Name()))
	}

	ids := s.adapter.HashIdentifiers(&ev)
	outcome.Identifiers = ids.Summary()

	meta := domain.NetworkMeta{ClientIP: ev.ClientIP, UserAgent: ev.UserAgent}
	payload, err := s.adapter.Build(&ev, ids, meta)
	if err != nil {
		return s.fail(ctx, outcome, start, err)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return s.fail(ctx, outcome, start, application.NewInternalError(err))
	}

	if ev.DryRun {
		outcome.OK = true
		outcome.DryRun = true
		outcome.Payload = body
		s.logger.Info("dry run",
			"event_id", ev.EventID,
			"has_email", outcome.Identifiers.HasEmail,
			"has_phone", outcome.Identifiers.HasPhone,
		)
		s.finish(ctx, outcome, start)
		return outcome, nil
	}

	headers := s.adapter.AuthHeaders(s.token)
	resp, err := s.client.Send(ctx, application.DispatchRequest{
		Provider: s.adapter.Name(),
		Endpoint: s.adapter.Endpoint(),
		Headers:  headers,
		Body:     body,
	})
	if err != nil {
		outcome.Attempts = application.AttemptsOf(err)
		if providerErr, ok := application.IsProviderError(err); ok {
			outcome.Status = providerErr.StatusCode
			outcome.ProviderRequestID = s.adapter.RequestID(providerErr.Header)
			outcome.Warnings = s.adapter.Warnings(providerErr.Body)
		}
		return s.fail(ctx, outcome, start, err)
	}

	outcome.OK = true
	outcome.Status = resp.StatusCode
	outcome.Attempts = resp.Attempts
	outcome.ProviderRequestID = s.adapter.RequestID(resp.Header)
	outcome.Warnings = s.adapter.Warnings(resp.Body)

	s.logger.Info("conversion delivered",
		"event_id", ev.EventID,
		"status", outcome.Status,
		"attempts", outcome.Attempts,
		"request_id", outcome.ProviderRequestID,
		"has_email", outcome.Identifiers.HasEmail,
		"has_phone", outcome.Identifiers.HasPhone,
	)
	s.finish(ctx, outcome, start)
	return outcome, nil
}

func (s *DispatchService) fail(ctx context.Context, outcome *domain.DispatchOutcome, start time.Time, err error) (*domain.DispatchOutcome, error) {
	outcome.OK = false
	outcome.Code = application.ClassifyError(err)
	outcome.Message = describeError(err)

	level := slog.LevelWarn
	if application.ToHTTPStatus(outcome.Code) >= 500 {
		level = slog.LevelError
	}
	s.logger.Log(ctx, level, "dispatch failed",
		"event_id", outcome.EventID,
		"code", outcome.Code,
		"status", outcome.Status,
		"attempts", outcome.Attempts,
		"error", err,
	)

	s.finish(ctx, outcome, start)
	return outcome, err
}

func (s *DispatchService) finish(ctx context.Context, outcome *domain.DispatchOutcome, start time.Time) {
	s.observer.ObserveOutcome(s.adapter.Name(), outcome, s.now().Sub(start))

	if s.deliveries == nil {
		return
	}

	// Recording outlives request cancellation.
	recordCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), deliveryLogTimeout)
	defer cancel()

	if err := s.deliveries.Record(recordCtx, outcome); err != nil {
		s.logger.Warn("failed to record delivery", "event_id", outcome.EventID, "error", err)
	}
}

// describeError returns a caller-safe message. Internal errors keep their
// cause out of the response.
func describeError(err error) string {
	if providerErr, ok := application.IsProviderError(err); ok {
		return providerErr.Message
	}

	if svcErr, ok := application.IsServiceError(err); ok {
		return svcErr.Message
	}

	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Message
	}

	return err.Error()
}
