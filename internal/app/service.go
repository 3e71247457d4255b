// Package service provides the application service that owns the sales
// dataset and implements the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"sync"
	"time"

	repository "github.com/okian/morsel/internal/adapters/repository"
	"github.com/okian/morsel/internal/config"
	"github.com/okian/morsel/internal/domain/aggregate"
	"github.com/okian/morsel/internal/domain/ingest"
	"github.com/okian/morsel/internal/domain/model"
	"github.com/okian/morsel/internal/domain/types"
	"github.com/okian/morsel/internal/view"
	"github.com/okian/morsel/pkg/logger"
)

// Service answers series and figure queries over a dataset loaded once at
// start. Queries take no locks on the dataset itself.
type Service struct {
	mu sync.RWMutex

	// Core components
	store *repository.MemoryStore
	view  *view.Controller

	// Configuration
	artifactPath   string
	sources        []string
	product        string
	ingestOnStart  bool
	referenceDate  model.Date
	referenceLabel string
	chartTitle     string
	preloaded      model.Dataset

	// State
	started   bool
	startedAt time.Time
	lastRun   *ingest.Result

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithArtifactPath sets the artifact the service loads.
func WithArtifactPath(path string) Option {
	return func(s *Service) {
		if path != "" {
			s.artifactPath = path
		}
	}
}

// WithSources sets the raw files ingested when the artifact is missing.
func WithSources(paths ...string) Option {
	return func(s *Service) {
		s.sources = append([]string(nil), paths...)
	}
}

// WithProduct sets the product kept by cold-start ingestion.
func WithProduct(product string) Option {
	return func(s *Service) {
		if product != "" {
			s.product = product
		}
	}
}

// WithIngestOnStart makes Start build a missing artifact from the sources.
func WithIngestOnStart(enabled bool) Option {
	return func(s *Service) {
		s.ingestOnStart = enabled
	}
}

// WithReference sets the chart's reference marker.
func WithReference(date model.Date, label string) Option {
	return func(s *Service) {
		s.referenceDate = date
		s.referenceLabel = label
	}
}

// WithChartTitle sets the chart title.
func WithChartTitle(title string) Option {
	return func(s *Service) {
		s.chartTitle = title
	}
}

// WithDataset makes Start serve ds instead of reading an artifact.
func WithDataset(ds model.Dataset) Option {
	return func(s *Service) {
		s.preloaded = ds
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// FromConfig maps the process configuration onto service options.
func FromConfig(cfg *config.Config) []Option {
	return []Option{
		WithArtifactPath(cfg.ArtifactPath),
		WithSources(cfg.Sources...),
		WithProduct(cfg.Product),
		WithIngestOnStart(cfg.IngestOnStart),
		WithReference(cfg.Reference(), cfg.ReferenceLabel),
		WithChartTitle(cfg.ChartTitle),
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		artifactPath:   config.DefaultArtifactPath,
		sources:        config.DefaultSources(),
		product:        config.DefaultProduct,
		referenceDate:  view.DefaultReferenceDate,
		referenceLabel: view.DefaultReferenceLabel,
		chartTitle:     view.DefaultTitle,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start loads the dataset and prepares the view controller. Starting a
// started service is a no-op.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}
	log := s.logger.Named("service")

	store, err := s.loadStore(ctx, log)
	if err != nil {
		return err
	}

	s.store = store
	s.view = view.NewController(store,
		view.WithTitle(s.chartTitle),
		view.WithReference(s.referenceDate, s.referenceLabel),
		view.WithLogger(log),
	)
	s.started = true
	s.startedAt = time.Now()

	log.Info(ctx, "sales service started",
		logger.String("origin", store.Origin()),
		logger.Int("records", store.Count(ctx)),
	)
	return nil
}

func (s *Service) loadStore(ctx context.Context, log logger.Logger) (*repository.MemoryStore, error) {
	if s.preloaded != nil {
		return repository.NewMemoryStore(s.preloaded), nil
	}

	if _, err := os.Stat(s.artifactPath); errors.Is(err, fs.ErrNotExist) {
		if !s.ingestOnStart {
			return nil, fmt.Errorf("%w: %s", ErrNoArtifact, s.artifactPath)
		}
		log.Info(ctx, "artifact missing, ingesting sources",
			logger.String("artifact", s.artifactPath),
			logger.Int("sources", len(s.sources)),
		)
		res, err := RunIngest(ctx, s.sources, s.artifactPath,
			ingest.WithProduct(s.product),
			ingest.WithLogger(log),
		)
		if err != nil {
			return nil, fmt.Errorf("cold start ingest: %w", err)
		}
		s.lastRun = &res
	}

	store, err := repository.Load(ctx, s.artifactPath)
	if err != nil {
		return nil, fmt.Errorf("load artifact: %w", err)
	}
	return store, nil
}

// Stop marks the service stopped. The dataset is released.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.store = nil
	s.view = nil
	s.started = false
	s.logger.Info(context.Background(), "sales service stopped")
}

func (s *Service) components() (*repository.MemoryStore, *view.Controller, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, nil, ErrNotStarted
	}
	return s.store, s.view, nil
}

// Series returns the daily sales series for filter.
func (s *Service) Series(ctx context.Context, filter model.RegionFilter) (model.DailySeries, error) {
	store, _, err := s.components()
	if err != nil {
		return nil, err
	}
	return store.Query(ctx, filter), nil
}

// Figure renders the chart for filter.
func (s *Service) Figure(ctx context.Context, filter model.RegionFilter) (view.Figure, error) {
	_, ctrl, err := s.components()
	if err != nil {
		return view.Figure{}, err
	}
	return ctrl.Render(ctx, filter)
}

// Regions returns the values accepted by the region filter, "all" first.
func (s *Service) Regions(_ context.Context) []string {
	values := model.FilterValues()
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = v.String()
	}
	return out
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":         s.started,
		"artifactPath":    s.artifactPath,
		"referenceDate":   s.referenceDate.String(),
		"referenceLabel":  s.referenceLabel,
		"ingestOnStart":   s.ingestOnStart,
		"configuredFiles": len(s.sources),
	}

	if !s.started {
		return stats
	}

	ctx := context.Background()
	ds := s.store.Dataset(ctx)
	totals := aggregate.Totals(ds)
	regionTotals := make([]types.RegionTotal, 0, len(totals))
	for region, total := range totals {
		regionTotals = append(regionTotals, types.RegionTotal{Region: region, Sales: total})
	}
	sort.Slice(regionTotals, func(i, j int) bool { return regionTotals[i].Region < regionTotals[j].Region })

	stats["origin"] = s.store.Origin()
	stats["loadedAt"] = s.store.LoadedAt().UTC().Format(time.RFC3339)
	stats["uptimeSeconds"] = int(time.Since(s.startedAt).Seconds())
	stats["totalRecords"] = len(ds)
	stats["regions"] = ds.Regions()
	stats["regionTotals"] = regionTotals
	if s.lastRun != nil {
		stats["lastIngestRunId"] = s.lastRun.RunID
		stats["lastIngestSkipped"] = s.lastRun.Skipped
	}
	return stats
}
