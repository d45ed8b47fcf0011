package api

import (
	"net/http"
)

// OptionsHandler serves the selectable values and the observatory series.
type OptionsHandler struct {
	deps Dependencies
}

// NewOptionsHandler creates a new options handler.
func NewOptionsHandler(deps Dependencies) *OptionsHandler {
	return &OptionsHandler{deps: deps}
}

// HandleOptions handles GET /options requests.
func (h *OptionsHandler) HandleOptions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	opts, err := h.deps.Options(r.Context())
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, opts)
}

// HandleObservatory handles GET /observatory requests.
func (h *OptionsHandler) HandleObservatory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	obs, err := h.deps.Observatory(r.Context())
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, obs)
}
