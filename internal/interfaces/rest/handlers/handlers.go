package handlers

import (
	"log/slog"
	"net/http"

	"github.com/DanielPopoola/capi-relay/internal/application/services"
	"github.com/DanielPopoola/capi-relay/internal/domain"
	"github.com/DanielPopoola/capi-relay/internal/interfaces/rest"
)

const consentHeader = "X-Consent-Analytics"

// eventDecoder turns a request body into a provider-neutral event, applying
// the provider's field names, required fields and consent precedence.
type eventDecoder func(r *http.Request, body []byte) (*domain.ConversionEvent, error)

// ProviderHandler is the entry point for one provider: POST dispatches an
// event, GET ?status=1 reports readiness, OPTIONS is a CORS preflight.
type ProviderHandler struct {
	service      *services.DispatchService
	decode       eventDecoder
	env          string
	pixelID      string
	maxBodyBytes int64
	logger       *slog.Logger
}

func (h *ProviderHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodOptions:
		w.WriteHeader(http.StatusNoContent)
	case http.MethodGet:
		if !statusRequested(r) {
			rest.WriteErrorCode(w, domain.ErrCodeMethodNotAllowed)
			return
		}
		h.serveStatus(w)
	case http.MethodPost:
		h.serveEvent(w, r)
	default:
		rest.WriteErrorCode(w, domain.ErrCodeMethodNotAllowed)
	}
}

func (h *ProviderHandler) serveEvent(w http.ResponseWriter, r *http.Request) {
	body, err := readObject(w, r, h.maxBodyBytes)
	if err != nil {
		rest.WriteError(w, domain.NewInvalidJSONError(err), h.logger)
		return
	}

	ev, err := h.decode(r, body)
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}

	// Failures are logged by the service with their classified code.
	outcome, _ := h.service.Dispatch(r.Context(), ev)
	rest.WriteOutcome(w, outcome)
}

// Handlers holds one entry handler per provider.
type Handlers struct {
	LinkedIn *ProviderHandler
	Quora    *ProviderHandler
}

func NewHandlers(
	linkedIn *services.DispatchService,
	quora *services.DispatchService,
	quoraPixelID string,
	env string,
	maxBodyBytes int64,
	logger *slog.Logger,
) *Handlers {
	return &Handlers{
		LinkedIn: NewLinkedInHandler(linkedIn, env, maxBodyBytes, logger),
		Quora:    NewQuoraHandler(quora, quoraPixelID, env, maxBodyBytes, logger),
	}
}

// Register mounts each provider under its own prefix. Both the bare and the
// slash-terminated path are served so POSTs are never redirected.
func (h *Handlers) Register(mux *http.ServeMux) {
	mount(mux, "/linkedin", h.LinkedIn)
	mount(mux, "/quora", h.Quora)
}

func mount(mux *http.ServeMux, prefix string, handler http.Handler) {
	stripped := http.StripPrefix(prefix, handler)
	mux.Handle(prefix, stripped)
	mux.Handle(prefix+"/", stripped)
}
