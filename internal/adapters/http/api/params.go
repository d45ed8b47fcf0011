package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/okian/carbonview/internal/domain/model"
	"github.com/okian/carbonview/pkg/logger"
)

// paramsRequest mirrors the OpenAPI schema for POST /params. Omitted fields
// keep their default.
type paramsRequest struct {
	Metric    *string `json:"metric"`
	YearMin   *int    `json:"year_min"`
	YearMax   *int    `json:"year_max"`
	Country   *string `json:"country"`
	FocusYear *int    `json:"focus_year"`
}

func (req paramsRequest) apply(p model.Params) model.Params {
	if req.Metric != nil {
		p.Metric = *req.Metric
	}
	if req.YearMin != nil {
		p.Years.Min = *req.YearMin
	}
	if req.YearMax != nil {
		p.Years.Max = *req.YearMax
	}
	if req.Country != nil {
		p.Country = *req.Country
	}
	if req.FocusYear != nil {
		p.FocusYear = *req.FocusYear
	}
	return p
}

type ackResponse struct {
	Status string `json:"status"`
	ID     string `json:"id"`
	Seq    uint64 `json:"seq"`
}

// ParamsHandler accepts parameter changes for asynchronous recomputation.
type ParamsHandler struct {
	deps   Dependencies
	logger logger.Logger
}

// NewParamsHandler creates a new params handler.
func NewParamsHandler(deps Dependencies, l logger.Logger) *ParamsHandler {
	return &ParamsHandler{deps: deps, logger: l}
}

// HandlePostParams handles POST /params requests.
func (h *ParamsHandler) HandlePostParams(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req paramsRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeFailure(w, fmt.Errorf("%w: %w", ErrBadRequest, err))
		return
	}

	c, err := h.deps.Submit(r.Context(), req.apply(h.deps.DefaultParams()))
	if err != nil {
		h.logger.Debug(r.Context(), "parameter change rejected", logger.Error(err))
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted", ID: c.ID, Seq: c.Seq})
}
