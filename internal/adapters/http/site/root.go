// Package site serves the embedded chart page and its assets.
package site

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"github.com/okian/morsel/internal/domain/model"
	"github.com/okian/morsel/pkg/metrics"
)

// ErrTemplate is returned when the embedded page cannot be rendered.
var ErrTemplate = errors.New("chart page template failed")

const defaultTitle = "Pink Morsel Sales Visualization"

// Option configures the chart page.
type Option func(*RootHandler)

// WithTitle sets the page header.
func WithTitle(title string) Option {
	return func(h *RootHandler) {
		if title != "" {
			h.title = title
		}
	}
}

// Register attaches the chart page and its static assets to mux.
func Register(_ context.Context, mux *http.ServeMux, opts ...Option) {
	if mux == nil {
		panic("mux is nil")
	}
	h, err := NewRootHandler(opts...)
	if err != nil {
		panic(err)
	}
	mux.Handle("/", h)
}

type regionOption struct {
	Value   string
	Label   string
	Checked bool
}

type pageData struct {
	Title   string
	Regions []regionOption
}

// RootHandler renders the chart page at / and serves every other path from
// the embedded static files.
type RootHandler struct {
	title string
	page  []byte
	files http.Handler
}

// NewRootHandler renders the page once; its content depends only on options.
func NewRootHandler(opts ...Option) (*RootHandler, error) {
	h := &RootHandler{title: defaultTitle, files: http.FileServer(FS())}
	for _, opt := range opts {
		opt(h)
	}

	tmpl, err := template.ParseFS(staticFS, "static/index.html")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTemplate, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, pageData{Title: h.title, Regions: regionOptions()}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTemplate, err)
	}
	h.page = buf.Bytes()
	return h, nil
}

func regionOptions() []regionOption {
	values := model.FilterValues()
	out := make([]regionOption, len(values))
	for i, v := range values {
		s := v.String()
		out[i] = regionOption{Value: s, Label: strings.ToUpper(s[:1]) + s[1:], Checked: v.IsAll()}
	}
	return out
}

// ServeHTTP implements http.Handler.
func (h *RootHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" && r.URL.Path != "/index.html" {
		h.files.ServeHTTP(w, r)
		return
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	if _, err := w.Write(h.page); err != nil {
		metrics.RecordErrorByComponent("site", "write")
	}
}
