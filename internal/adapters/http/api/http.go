// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okian/morsel/internal/domain/model"
	"github.com/okian/morsel/internal/view"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	SeriesDependencies
	FigureDependencies
	RegionsDependencies
}

// Figure mirrors the chart shape returned by figure queries.
type Figure = view.Figure

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
	regionsHandler *RegionsHandler
	seriesHandler  *SeriesHandler
	figureHandler  *FigureHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:  NewHealthHandler(),
		statsHandler:   NewStatsHandler(statsProvider),
		regionsHandler: NewRegionsHandler(deps),
		seriesHandler:  NewSeriesHandler(deps),
		figureHandler:  NewFigureHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/api/regions", MetricsMiddleware(s.regionsHandler.HandleGetRegions, "regions"))
	mux.HandleFunc("/api/series", MetricsMiddleware(s.seriesHandler.HandleGetSeries, "series"))
	mux.HandleFunc("/api/figure", MetricsMiddleware(s.figureHandler.HandleGetFigure, "figure"))
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

// regionFilter reads ?region=; a missing value selects every region.
func regionFilter(op string, r *http.Request) (model.RegionFilter, error) {
	f, err := model.ParseRegionFilter(r.URL.Query().Get("region"))
	if err != nil {
		return "", WrapKind(op, ErrInvalidFilter, err)
	}
	return f, nil
}

// writeQueryError maps a failed query onto a status code.
func writeQueryError(w http.ResponseWriter, op string, err error) {
	if errors.Is(err, model.ErrInvalidFilter) {
		writeError(w, http.StatusBadRequest, "invalid_filter", WrapKind(op, ErrInvalidFilter, err))
		return
	}
	writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
}
