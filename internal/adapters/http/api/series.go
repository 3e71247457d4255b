package api

import (
	"context"
	"net/http"

	"github.com/okian/morsel/internal/domain/model"
	"github.com/okian/morsel/internal/domain/types"
)

// SeriesDependencies defines the interface for series queries.
type SeriesDependencies interface {
	Series(ctx context.Context, filter model.RegionFilter) (model.DailySeries, error)
}

// SeriesHandler handles series requests.
type SeriesHandler struct {
	deps SeriesDependencies
}

// NewSeriesHandler creates a new series handler.
func NewSeriesHandler(deps SeriesDependencies) *SeriesHandler {
	return &SeriesHandler{deps: deps}
}

// HandleGetSeries handles GET /api/series?region=R requests.
func (h *SeriesHandler) HandleGetSeries(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_series"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	filter, err := regionFilter(op, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_filter", err)
		return
	}
	series, err := h.deps.Series(r.Context(), filter)
	if err != nil {
		writeQueryError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, types.NewSeriesResponse(filter, series))
}
