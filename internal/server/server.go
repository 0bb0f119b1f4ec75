package server

import (
	"log/slog"
	"net/http"

	"github.com/DanielPopoola/capi-relay/internal/api"
	"github.com/DanielPopoola/capi-relay/internal/application"
	"github.com/DanielPopoola/capi-relay/internal/application/services"
	"github.com/DanielPopoola/capi-relay/internal/config"
	"github.com/DanielPopoola/capi-relay/internal/infrastructure/capi"
	"github.com/DanielPopoola/capi-relay/internal/infrastructure/metrics"
	"github.com/DanielPopoola/capi-relay/internal/interfaces/rest/handlers"
	"github.com/DanielPopoola/capi-relay/internal/interfaces/rest/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Server is the assembled relay: both dispatch services behind the full
// middleware chain.
type Server struct {
	Handler  http.Handler
	LinkedIn *services.DispatchService
	Quora    *services.DispatchService
	Metrics  *metrics.RelayMetrics
}

// New wires providers, metrics and routes from cfg. Metrics is nil when
// disabled. opts are applied to both dispatch services.
func New(cfg *config.Config, deliveries application.DeliveryLog, logger *slog.Logger, opts ...services.Option) *Server {
	s := &Server{}

	var observer application.DispatchObserver = application.NopObserver{}
	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		s.Metrics = metrics.NewRelayMetrics(reg)
		observer = s.Metrics
	}

	client := capi.NewRetryClient(capi.NewHTTPClient(cfg.Provider), cfg.Retry, observer, logger)

	s.LinkedIn = services.NewDispatchService(
		capi.NewLinkedInAdapter(cfg.LinkedIn),
		client,
		cfg.LinkedIn.Token,
		deliveries,
		observer,
		logger,
		opts...,
	)
	s.Quora = services.NewDispatchService(
		capi.NewQuoraAdapter(cfg.Quora),
		client,
		cfg.Quora.Token,
		deliveries,
		observer,
		logger,
		opts...,
	)

	mux := http.NewServeMux()
	api.RegisterDocsRoutes(mux)
	handlers.NewHandlers(
		s.LinkedIn,
		s.Quora,
		cfg.Quora.PixelID,
		cfg.Primary.Environment(),
		cfg.Server.MaxBodyBytes,
		logger,
	).Register(mux)
	if s.Metrics != nil {
		mux.Handle("GET /metrics", s.Metrics.Handler())
	}

	handler := middleware.Timeout(cfg.Server.RequestTimeout)(mux)
	handler = middleware.CORS(handler)
	if s.Metrics != nil {
		handler = s.Metrics.Instrument(handler)
	}
	handler = middleware.Logging(logger)(handler)
	s.Handler = middleware.Recovery(logger)(handler)

	return s
}
