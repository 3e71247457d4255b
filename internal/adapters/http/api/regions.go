package api

import (
	"context"
	"net/http"
)

// RegionsDependencies lists the accepted region filter values.
type RegionsDependencies interface {
	Regions(ctx context.Context) []string
}

// RegionsHandler handles GET /api/regions.
type RegionsHandler struct {
	deps RegionsDependencies
}

// NewRegionsHandler creates a new regions handler.
func NewRegionsHandler(deps RegionsDependencies) *RegionsHandler {
	return &RegionsHandler{deps: deps}
}

// HandleGetRegions returns the filter values, "all" first.
func (h *RegionsHandler) HandleGetRegions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Regions(r.Context()))
}
