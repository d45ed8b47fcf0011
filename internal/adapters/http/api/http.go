// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/okian/carbonview/internal/adapters/mq/queue"
	"github.com/okian/carbonview/internal/adapters/render"
	"github.com/okian/carbonview/internal/adapters/repository"
	"github.com/okian/carbonview/internal/domain/model"
	"github.com/okian/carbonview/internal/domain/types"
	"github.com/okian/carbonview/internal/domain/views"
	"github.com/okian/carbonview/pkg/logger"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// DefaultParams fills in parameters a request leaves out.
	DefaultParams() model.Params

	// Recompute derives a view set synchronously.
	Recompute(ctx context.Context, p model.Params) (*views.ViewSet, error)

	// Submit queues a parameter change. Returns queue.ErrQueueFull on backpressure.
	Submit(ctx context.Context, p model.Params) (queue.Change, error)

	// Latest returns the last published view set.
	Latest(ctx context.Context) (repository.Published, error)

	// Read operations expose selectable values and the observatory series.
	Options(ctx context.Context) (types.Options, error)
	Observatory(ctx context.Context) ([]model.Observation, error)
}

// Option configures a Server.
type Option func(*Server)

// WithRenderer sets the chart renderer.
func WithRenderer(r *render.Renderer) Option {
	return func(s *Server) {
		if r != nil {
			s.renderer = r
		}
	}
}

// WithLogger sets a custom logger for the handlers.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// Server wires HTTP routes for the business API.
type Server struct {
	renderer *render.Renderer
	logger   logger.Logger

	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
	viewsHandler   *ViewsHandler
	paramsHandler  *ParamsHandler
	optionsHandler *OptionsHandler
	chartsHandler  *ChartsHandler
	exportHandler  *ExportHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...Option) *Server {
	s := &Server{
		renderer: render.New(),
		logger:   logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.healthHandler = NewHealthHandler()
	s.statsHandler = NewStatsHandler(statsProvider)
	s.viewsHandler = NewViewsHandler(deps)
	s.paramsHandler = NewParamsHandler(deps, s.logger)
	s.optionsHandler = NewOptionsHandler(deps)
	s.chartsHandler = NewChartsHandler(deps, s.renderer, s.logger)
	s.exportHandler = NewExportHandler(deps, s.logger)
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/views/latest", MetricsMiddleware(s.viewsHandler.HandleLatest, "views_latest"))
	mux.HandleFunc("/views", MetricsMiddleware(s.viewsHandler.HandleGetViews, "views"))
	mux.HandleFunc("/params", MetricsMiddleware(s.paramsHandler.HandlePostParams, "params"))
	mux.HandleFunc("/options", MetricsMiddleware(s.optionsHandler.HandleOptions, "options"))
	mux.HandleFunc("/observatory", MetricsMiddleware(s.optionsHandler.HandleObservatory, "observatory"))
	mux.HandleFunc("/charts/", MetricsMiddleware(s.chartsHandler.HandleChart, "charts"))
	mux.HandleFunc("/export.xlsx", MetricsMiddleware(s.exportHandler.HandleExport, "export"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeFailure maps err through statusOf.
func writeFailure(w http.ResponseWriter, err error) {
	status, code := statusOf(err)
	writeError(w, status, code, err)
}

// paramsFromQuery overlays the query string on defaults. Absent keys keep
// their default; malformed integers are a bad request.
func paramsFromQuery(q url.Values, defaults model.Params) (model.Params, error) {
	p := defaults
	if v := strings.TrimSpace(q.Get("metric")); v != "" {
		p.Metric = v
	}
	if v := strings.TrimSpace(q.Get("country")); v != "" {
		p.Country = v
	}
	ints := []struct {
		key string
		dst *int
	}{
		{"year_min", &p.Years.Min},
		{"year_max", &p.Years.Max},
		{"focus_year", &p.FocusYear},
	}
	for _, f := range ints {
		raw := strings.TrimSpace(q.Get(f.key))
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return model.Params{}, fmt.Errorf("%w: %s must be an integer", ErrBadRequest, f.key)
		}
		*f.dst = n
	}
	return p, nil
}
