// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load layers a YAML file and MORSEL_* environment variables over them.
// - Validation failures wrap ErrInvalidConfig.
package config

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/okian/morsel/internal/domain/model"
)

// Default values shared by both binaries.
const (
	DefaultAddr           = ":9080"
	DefaultArtifactPath   = "output.csv"
	DefaultReferenceDate  = "2021-01-15"
	DefaultReferenceLabel = "Price Increase"
	DefaultChartTitle     = "Pink Morsel Sales Visualization"
	DefaultProduct        = "pink morsel"
	DefaultMetricsNS      = "morsel"
)

// DefaultSources lists the raw sales files read when none are configured.
func DefaultSources() []string {
	return []string{
		"data/daily_sales_data_0.csv",
		"data/daily_sales_data_1.csv",
		"data/daily_sales_data_2.csv",
	}
}

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// ArtifactPath is where ingestion writes and the server reads the
	// processed dataset.
	ArtifactPath string `koanf:"artifact_path"`

	// Sources are the raw CSV files, read in order.
	Sources []string `koanf:"sources"`

	// Product is the product name kept by ingestion.
	Product string `koanf:"product"`

	// IngestOnStart makes the server build the artifact from Sources when
	// it does not exist yet.
	IngestOnStart bool `koanf:"ingest_on_start"`

	// ReferenceDate and ReferenceLabel place the chart's marker.
	ReferenceDate  string `koanf:"reference_date"`
	ReferenceLabel string `koanf:"reference_label"`

	// ChartTitle is shown above the chart.
	ChartTitle string `koanf:"chart_title"`

	// MetricsEnabled switches Prometheus recording on or off.
	MetricsEnabled bool `koanf:"metrics_enabled"`

	// MetricsNamespace prefixes every metric name.
	MetricsNamespace string `koanf:"metrics_namespace"`

	// MetricsLabels are constant labels added to every metric. In env they
	// are written as "k=v,k2=v2".
	MetricsLabels map[string]string `koanf:"metrics_labels"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:       "info",
		Addr:           DefaultAddr,
		ArtifactPath:   DefaultArtifactPath,
		Sources:        DefaultSources(),
		Product:        DefaultProduct,
		IngestOnStart:  false,
		ReferenceDate:  DefaultReferenceDate,
		ReferenceLabel: DefaultReferenceLabel,
		ChartTitle:     DefaultChartTitle,

		MetricsEnabled:   true,
		MetricsNamespace: DefaultMetricsNS,
	}
}

// Validate checks the fields both binaries rely on.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if strings.TrimSpace(c.ArtifactPath) == "" {
		return fmt.Errorf("%w: artifact_path must not be empty", ErrInvalidConfig)
	}
	if strings.TrimSpace(c.Product) == "" {
		return fmt.Errorf("%w: product must not be empty", ErrInvalidConfig)
	}
	if _, err := model.ParseDate(c.ReferenceDate); err != nil {
		return fmt.Errorf("%w: reference_date: %w", ErrInvalidConfig, err)
	}
	if c.IngestOnStart && len(c.Sources) == 0 {
		return fmt.Errorf("%w: ingest_on_start requires sources", ErrInvalidConfig)
	}
	if !metricName.MatchString(c.MetricsNamespace) {
		return fmt.Errorf("%w: metrics_namespace %q is not a valid metric name", ErrInvalidConfig, c.MetricsNamespace)
	}
	for k := range c.MetricsLabels {
		if !labelName.MatchString(k) {
			return fmt.Errorf("%w: metrics_labels key %q is not a valid label name", ErrInvalidConfig, k)
		}
	}
	return nil
}

// Prometheus naming rules.
var (
	metricName = regexp.MustCompile(`^[a-zA-Z_:][a-zA-Z0-9_:]*$`)
	labelName  = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)
)

// Reference returns the parsed reference date. It returns the zero Date if
// the config has not been validated.
func (c *Config) Reference() model.Date {
	d, err := model.ParseDate(c.ReferenceDate)
	if err != nil {
		return model.Date{}
	}
	return d
}
