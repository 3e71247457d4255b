// Package repository holds the sales dataset for the serving process and
// reads and writes the intermediate artifact it is loaded from.
package repository

import (
	"context"
	"slices"
	"time"

	"github.com/okian/morsel/internal/domain/aggregate"
	"github.com/okian/morsel/internal/domain/model"
	"github.com/okian/morsel/pkg/metrics"
)

// Store provides read access to the loaded dataset.
type Store interface {
	// Query returns the daily series for filter, recomputed on every call.
	Query(ctx context.Context, filter model.RegionFilter) model.DailySeries

	// Dataset returns a copy of the loaded records.
	Dataset(ctx context.Context) model.Dataset

	// Count returns the number of loaded records.
	Count(ctx context.Context) int
}

// MemoryStore keeps an immutable dataset in memory. It is safe for
// concurrent use because nothing writes to it after construction.
type MemoryStore struct {
	dataset  model.Dataset
	origin   string
	loadedAt time.Time
}

// NewMemoryStore wraps ds. The caller must not modify ds afterwards.
func NewMemoryStore(ds model.Dataset, opts ...Option) *MemoryStore {
	if ds == nil {
		ds = model.Dataset{}
	}
	s := &MemoryStore{
		dataset:  ds,
		origin:   "memory",
		loadedAt: time.Now(),
	}
	for _, opt := range opts {
		opt(s)
	}
	metrics.UpdateDatasetRecords(len(ds))
	return s
}

// Load reads the artifact at path into a new MemoryStore.
func Load(_ context.Context, path string) (*MemoryStore, error) {
	ds, err := ReadFile(path)
	if err != nil {
		metrics.RecordErrorByComponent("repository", "artifact_load")
		return nil, err
	}
	return NewMemoryStore(ds, WithOrigin(path)), nil
}

// Query implements Store.
func (s *MemoryStore) Query(_ context.Context, filter model.RegionFilter) model.DailySeries {
	start := time.Now()
	series := aggregate.Query(s.dataset, filter)

	metrics.RecordRepositoryQueryLatency(float64(time.Since(start).Microseconds()) / 1000)
	metrics.RecordQuery(filter.String())
	metrics.UpdateSeriesLength(filter.String(), len(series))
	return series
}

// Dataset implements Store.
func (s *MemoryStore) Dataset(_ context.Context) model.Dataset {
	return slices.Clone(s.dataset)
}

// Count implements Store.
func (s *MemoryStore) Count(_ context.Context) int {
	return len(s.dataset)
}

// Origin names where the dataset came from, e.g. the artifact path.
func (s *MemoryStore) Origin() string { return s.origin }

// LoadedAt returns when the store was constructed.
func (s *MemoryStore) LoadedAt() time.Time { return s.loadedAt }
