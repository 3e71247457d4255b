// Package types contains the JSON shapes served by the HTTP API.
package types

import (
	"github.com/shopspring/decimal"

	"github.com/okian/morsel/internal/domain/model"
)

// SeriesPoint is one day of aggregated sales. Sales is encoded as a JSON
// string so no precision is lost.
type SeriesPoint struct {
	Date  model.Date      `json:"date"`
	Sales decimal.Decimal `json:"sales"`
}

// SeriesResponse is the body of GET /api/series.
type SeriesResponse struct {
	Region string        `json:"region"`
	Points []SeriesPoint `json:"points"`
}

// NewSeriesResponse converts a daily series into its API form.
func NewSeriesResponse(filter model.RegionFilter, series model.DailySeries) SeriesResponse {
	points := make([]SeriesPoint, len(series))
	for i, p := range series {
		points[i] = SeriesPoint{Date: p.Date, Sales: p.Total}
	}
	return SeriesResponse{Region: filter.String(), Points: points}
}

// Series converts the response back into a daily series.
func (r SeriesResponse) Series() model.DailySeries {
	out := make(model.DailySeries, len(r.Points))
	for i, p := range r.Points {
		out[i] = model.DailyPoint{Date: p.Date, Total: p.Sales}
	}
	return out
}

// RegionTotal is the overall sales of one region, used in stats.
type RegionTotal struct {
	Region string          `json:"region"`
	Sales  decimal.Decimal `json:"sales"`
}
