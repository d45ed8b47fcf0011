package api

import (
	"bytes"
	"net/http"

	"github.com/okian/carbonview/internal/adapters/export"
	"github.com/okian/carbonview/pkg/logger"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportHandler serves a recomputed view set as a spreadsheet.
type ExportHandler struct {
	deps   Dependencies
	logger logger.Logger
}

// NewExportHandler creates a new export handler.
func NewExportHandler(deps Dependencies, l logger.Logger) *ExportHandler {
	return &ExportHandler{deps: deps, logger: l}
}

// HandleExport handles GET /export.xlsx requests.
func (h *ExportHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
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

	var opts []export.Option
	if obs, err := h.deps.Observatory(r.Context()); err == nil && len(obs) > 0 {
		opts = append(opts, export.WithObservations(obs))
	}
	var buf bytes.Buffer
	if err := export.Write(&buf, set, opts...); err != nil {
		h.logger.Error(r.Context(), "export failed", logger.Error(err))
		writeFailure(w, err)
		return
	}
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="carbonview.xlsx"`)
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
