package api

import (
	"net/http"
	"time"

	"github.com/okian/carbonview/internal/domain/types"
)

// ViewsHandler serves derived view sets.
type ViewsHandler struct {
	deps Dependencies
}

// NewViewsHandler creates a new views handler.
func NewViewsHandler(deps Dependencies) *ViewsHandler {
	return &ViewsHandler{deps: deps}
}

// HandleGetViews handles GET /views by recomputing for the query parameters.
func (h *ViewsHandler) HandleGetViews(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	p, err := paramsFromQuery(r.URL.Query(), h.deps.DefaultParams())
	if err != nil {
		writeFailure(w, err)
		return
	}
	set, err := h.deps.Recompute(r.Context(), p)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.FromViewSet(set, 0))
}

type latestResponse struct {
	types.ViewSet
	PublishedAt time.Time `json:"published_at"`
}

// HandleLatest handles GET /views/latest.
func (h *ViewsHandler) HandleLatest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	p, err := h.deps.Latest(r.Context())
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, latestResponse{
		ViewSet:     types.FromViewSet(p.Set, p.Seq),
		PublishedAt: p.PublishedAt,
	})
}
