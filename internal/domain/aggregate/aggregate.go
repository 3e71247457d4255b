// Package aggregate computes daily sales series from a Dataset.
//
// Pipeline: filter -> group by date -> sum -> order by date. Query is a pure
// function of its inputs and never mutates the dataset, so concurrent calls
// need no locking. Results are not cached.
package aggregate

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/okian/morsel/internal/domain/model"
)

// Query returns the summed sales per date for records passing filter.
// Dates with no retained record are absent. An unknown region yields an
// empty, non-nil series.
func Query(dataset model.Dataset, filter model.RegionFilter) model.DailySeries {
	totals := make(map[model.Date]decimal.Decimal)
	for _, rec := range dataset {
		if !filter.Matches(rec.Region) {
			continue
		}
		if sum, ok := totals[rec.Date]; ok {
			totals[rec.Date] = sum.Add(rec.Sales)
		} else {
			totals[rec.Date] = rec.Sales
		}
	}

	series := make(model.DailySeries, 0, len(totals))
	for d, total := range totals {
		series = append(series, model.DailyPoint{Date: d, Total: total})
	}
	sort.Slice(series, func(i, j int) bool {
		return series[i].Date.Before(series[j].Date)
	})
	return series
}

// Totals returns the overall sales per region, keyed by region string.
func Totals(dataset model.Dataset) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal)
	for _, rec := range dataset {
		out[rec.Region] = out[rec.Region].Add(rec.Sales)
	}
	return out
}
