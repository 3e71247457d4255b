// Package model contains domain models passed between layers.
package model

import (
	"github.com/shopspring/decimal"
)

// RawRecord is one row read from a source file before filtering.
// It only lives for the duration of an ingestion run.
type RawRecord struct {
	Source   string // source name, used in diagnostics
	Row      int    // 1-based data row within the source (header excluded)
	Product  string
	Price    string // currency string, e.g. "$3.00"
	Quantity string
	Date     string // ISO-8601 date
	Region   string
}

// SalesRecord is the canonical row produced by ingestion.
// Sales is price * quantity and is never recomputed downstream.
type SalesRecord struct {
	Date   Date
	Region string
	Sales  decimal.Decimal
}

// Equal reports whether two records carry the same values.
// Sales are compared by numeric value, so 10 and 10.00 are equal.
func (r SalesRecord) Equal(o SalesRecord) bool {
	return r.Date == o.Date && r.Region == o.Region && r.Sales.Equal(o.Sales)
}

// Dataset holds every SalesRecord of a session in insertion order.
// It is not modified after load.
type Dataset []SalesRecord

// Len returns the number of records.
func (d Dataset) Len() int { return len(d) }

// Equal reports whether both datasets hold equal records in the same order.
func (d Dataset) Equal(o Dataset) bool {
	if len(d) != len(o) {
		return false
	}
	for i := range d {
		if !d[i].Equal(o[i]) {
			return false
		}
	}
	return true
}

// Regions returns the distinct regions present, in first-seen order.
func (d Dataset) Regions() []string {
	seen := make(map[string]struct{})
	out := make([]string, 0, len(AllRegions))
	for _, r := range d {
		if _, ok := seen[r.Region]; ok {
			continue
		}
		seen[r.Region] = struct{}{}
		out = append(out, r.Region)
	}
	return out
}

// DailyPoint is one entry of a DailySeries.
type DailyPoint struct {
	Date  Date
	Total decimal.Decimal
}

// DailySeries is a query result ordered strictly by ascending date.
// Dates without matching records are absent rather than zero.
type DailySeries []DailyPoint

// Equal reports whether two series hold the same dates and totals.
func (s DailySeries) Equal(o DailySeries) bool {
	if len(s) != len(o) {
		return false
	}
	for i := range s {
		if s[i].Date != o[i].Date || !s[i].Total.Equal(o[i].Total) {
			return false
		}
	}
	return true
}

// Sum returns the total across every point of the series.
func (s DailySeries) Sum() decimal.Decimal {
	total := decimal.Zero
	for _, p := range s {
		total = total.Add(p.Total)
	}
	return total
}
