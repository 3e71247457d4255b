package api

import (
	"context"
	"net/http"

	"github.com/okian/morsel/internal/domain/model"
)

// FigureDependencies defines the interface for chart rendering.
type FigureDependencies interface {
	Figure(ctx context.Context, filter model.RegionFilter) (Figure, error)
}

// FigureHandler handles figure requests.
type FigureHandler struct {
	deps FigureDependencies
}

// NewFigureHandler creates a new figure handler.
func NewFigureHandler(deps FigureDependencies) *FigureHandler {
	return &FigureHandler{deps: deps}
}

// HandleGetFigure handles GET /api/figure?region=R requests. Every call
// returns a complete figure for the page to swap in.
func (h *FigureHandler) HandleGetFigure(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_figure"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	filter, err := regionFilter(op, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_filter", err)
		return
	}
	fig, err := h.deps.Figure(r.Context(), filter)
	if err != nil {
		writeQueryError(w, op, err)
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, http.StatusOK, fig)
}
