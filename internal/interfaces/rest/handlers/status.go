package handlers

import (
	"net/http"

	"github.com/DanielPopoola/capi-relay/internal/interfaces/rest"
	"github.com/oapi-codegen/runtime"
)

// statusRequested reports whether a GET is the readiness probe (?status=1).
func statusRequested(r *http.Request) bool {
	var status string
	if err := runtime.BindQueryParameter("form", true, false, "status", r.URL.Query(), &status); err != nil {
		return false
	}
	return status == "1"
}

// serveStatus never contacts the provider and never requires a token.
func (h *ProviderHandler) serveStatus(w http.ResponseWriter) {
	status := h.service.Status()

	rest.WriteJSON(w, http.StatusOK, rest.StatusResponse{
		OK:       true,
		HasToken: status.HasToken,
		Now:      status.Now.Unix(),
		Env:      h.env,
		PixelID:  h.pixelID,
	})
}
