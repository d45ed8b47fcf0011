package api

import (
	"bytes"
	"fmt"
	"net/http"
	"path"
	"strings"

	"github.com/okian/carbonview/internal/adapters/render"
	"github.com/okian/carbonview/pkg/logger"
)

// ChartsHandler renders one view of a recomputed set as an image.
type ChartsHandler struct {
	deps     Dependencies
	renderer *render.Renderer
	logger   logger.Logger
}

// NewChartsHandler creates a new charts handler.
func NewChartsHandler(deps Dependencies, r *render.Renderer, l logger.Logger) *ChartsHandler {
	return &ChartsHandler{deps: deps, renderer: r, logger: l}
}

// HandleChart handles GET /charts/{view}.{format} requests.
func (h *ChartsHandler) HandleChart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	file := strings.TrimPrefix(r.URL.Path, "/charts/")
	if file == "" || strings.Contains(file, "/") {
		writeError(w, http.StatusBadRequest, codeBadRequest, ErrBadRequest)
		return
	}
	ext := path.Ext(file)
	if ext != "."+h.renderer.Format() {
		writeFailure(w, fmt.Errorf("%q: %w", ext, render.ErrUnsupportedFormat))
		return
	}
	name := strings.TrimSuffix(file, ext)

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
	v, ok := set.Get(name)
	if !ok {
		writeFailure(w, fmt.Errorf("%q: %w", name, render.ErrUnknownView))
		return
	}

	var buf bytes.Buffer
	if err := h.renderer.Render(&buf, v); err != nil {
		h.logger.Error(r.Context(), "chart render failed", logger.String("view", name), logger.Error(err))
		writeFailure(w, err)
		return
	}
	w.Header().Set("Content-Type", h.renderer.ContentType())
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
