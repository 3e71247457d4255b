package view

import "github.com/shopspring/decimal"

// Figure is a complete chart description. The page replaces its chart with
// a new Figure on every filter change, never patching a previous one.
type Figure struct {
	Region string  `json:"region"`
	Data   []Trace `json:"data"`
	Layout Layout  `json:"layout"`
}

// Trace is a single x/y line.
type Trace struct {
	Type string            `json:"type"`
	Mode string            `json:"mode"`
	Name string            `json:"name"`
	X    []string          `json:"x"`
	Y    []decimal.Decimal `json:"y"`
	Line LineStyle         `json:"line"`
}

// Layout holds everything drawn around the traces.
type Layout struct {
	Title       string       `json:"title"`
	XAxis       Axis         `json:"xaxis"`
	YAxis       Axis         `json:"yaxis"`
	HoverMode   string       `json:"hovermode"`
	Shapes      []Shape      `json:"shapes"`
	Annotations []Annotation `json:"annotations"`
}

// Axis titles an axis and sets its scale type.
type Axis struct {
	Title string `json:"title"`
	Type  string `json:"type,omitempty"`
}

// LineStyle describes a stroke.
type LineStyle struct {
	Color string  `json:"color,omitempty"`
	Width float64 `json:"width,omitempty"`
	Dash  string  `json:"dash,omitempty"`
}

// Shape is a line positioned in data coordinates on x and paper
// coordinates (0 bottom, 1 top) on y.
type Shape struct {
	Type string    `json:"type"`
	XRef string    `json:"xref"`
	YRef string    `json:"yref"`
	X0   string    `json:"x0"`
	X1   string    `json:"x1"`
	Y0   float64   `json:"y0"`
	Y1   float64   `json:"y1"`
	Line LineStyle `json:"line"`
}

// Annotation is a text label pinned to a point.
type Annotation struct {
	X         string  `json:"x"`
	Y         float64 `json:"y"`
	XRef      string  `json:"xref"`
	YRef      string  `json:"yref"`
	Text      string  `json:"text"`
	ShowArrow bool    `json:"showarrow"`
	ArrowHead int     `json:"arrowhead,omitempty"`
}
