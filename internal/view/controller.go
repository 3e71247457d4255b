// Package view turns daily sales series into chart figures.
package view

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/okian/morsel/internal/domain/model"
	"github.com/okian/morsel/pkg/logger"
	"github.com/okian/morsel/pkg/metrics"
)

// Defaults for the rendered chart.
const (
	DefaultTitle          = "Pink Morsel Sales Visualization"
	DefaultReferenceLabel = "Price Increase"
	TraceName             = "Daily Sales"
	XAxisTitle            = "Date"
	YAxisTitle            = "Sales ($)"

	traceColor     = "#1f77b4"
	traceWidth     = 2
	referenceColor = "red"
	annotationY    = 0.95
)

// DefaultReferenceDate marks the price increase.
var DefaultReferenceDate = model.NewDate(2021, 1, 15) //nolint:gochecknoglobals // fixed calendar constant

// ErrNoQuerier is returned by Render when the controller has no data source.
var ErrNoQuerier = errors.New("view: no series querier")

// Querier computes the daily series for a filter.
type Querier interface {
	Query(ctx context.Context, filter model.RegionFilter) model.DailySeries
}

// Controller recomputes the series and rebuilds the whole figure for every
// filter change.
type Controller struct {
	querier        Querier
	title          string
	referenceDate  model.Date
	referenceLabel string
	logger         logger.Logger
}

// Option configures a Controller.
type Option func(*Controller)

// WithTitle sets the chart title.
func WithTitle(title string) Option {
	return func(c *Controller) {
		if title != "" {
			c.title = title
		}
	}
}

// WithReference sets where the reference marker is drawn and its label.
func WithReference(date model.Date, label string) Option {
	return func(c *Controller) {
		if !date.IsZero() {
			c.referenceDate = date
		}
		if label != "" {
			c.referenceLabel = label
		}
	}
}

// WithLogger sets the controller logger.
func WithLogger(l logger.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewController builds a Controller reading series from q.
func NewController(q Querier, opts ...Option) *Controller {
	c := &Controller{
		querier:        q,
		title:          DefaultTitle,
		referenceDate:  DefaultReferenceDate,
		referenceLabel: DefaultReferenceLabel,
		logger:         logger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Render queries the series for filter and returns a new Figure.
func (c *Controller) Render(ctx context.Context, filter model.RegionFilter) (Figure, error) {
	if c.querier == nil {
		return Figure{}, ErrNoQuerier
	}
	series := c.querier.Query(ctx, filter)
	metrics.RecordFigureRender(filter.String())
	c.logger.Debug(ctx, "rendered figure",
		logger.String("region", filter.String()),
		logger.Int("points", len(series)),
	)
	return c.Build(filter, series), nil
}

// Build maps series to a Figure without querying anything.
func (c *Controller) Build(filter model.RegionFilter, series model.DailySeries) Figure {
	x := make([]string, len(series))
	y := make([]decimal.Decimal, len(series))
	for i, p := range series {
		x[i] = p.Date.String()
		y[i] = p.Total
	}

	ref := c.referenceDate.String()
	return Figure{
		Region: filter.String(),
		Data: []Trace{{
			Type: "scatter",
			Mode: "lines+markers",
			Name: TraceName,
			X:    x,
			Y:    y,
			Line: LineStyle{Color: traceColor, Width: traceWidth},
		}},
		Layout: Layout{
			Title:     c.title,
			XAxis:     Axis{Title: XAxisTitle, Type: "date"},
			YAxis:     Axis{Title: YAxisTitle},
			HoverMode: "x unified",
			Shapes: []Shape{{
				Type: "line",
				XRef: "x",
				YRef: "paper",
				X0:   ref,
				X1:   ref,
				Y0:   0,
				Y1:   1,
				Line: LineStyle{Color: referenceColor, Width: 2, Dash: "dash"},
			}},
			Annotations: []Annotation{{
				X:         ref,
				Y:         annotationY,
				XRef:      "x",
				YRef:      "paper",
				Text:      c.referenceLabel,
				ShowArrow: true,
				ArrowHead: 2,
			}},
		},
	}
}

// ReferenceDate returns the configured marker date.
func (c *Controller) ReferenceDate() model.Date { return c.referenceDate }
