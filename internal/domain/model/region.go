package model

import (
	"strings"
)

// Known regions. Other region strings found in sources are kept as-is.
const (
	RegionNorth = "north"
	RegionEast  = "east"
	RegionSouth = "south"
	RegionWest  = "west"
)

// AllRegions lists the regions offered by the region control.
var AllRegions = []string{RegionNorth, RegionEast, RegionSouth, RegionWest}

// RegionFilter restricts a query to one region, or to none when it is FilterAll.
type RegionFilter string

// FilterAll applies no region predicate.
const FilterAll RegionFilter = "all"

// FilterValues returns every value accepted by ParseRegionFilter, in control order.
func FilterValues() []RegionFilter {
	out := make([]RegionFilter, 0, len(AllRegions)+1)
	out = append(out, FilterAll)
	for _, r := range AllRegions {
		out = append(out, RegionFilter(r))
	}
	return out
}

// ParseRegionFilter validates a control value. Matching is case-insensitive
// and an empty value means FilterAll.
func ParseRegionFilter(s string) (RegionFilter, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	if v == "" {
		return FilterAll, nil
	}
	for _, f := range FilterValues() {
		if string(f) == v {
			return f, nil
		}
	}
	return "", &InvalidFilterError{Value: s}
}

// IsAll reports whether the filter selects every region.
func (f RegionFilter) IsAll() bool { return f == FilterAll || f == "" }

// Matches reports whether a record region passes the filter.
func (f RegionFilter) Matches(region string) bool {
	return f.IsAll() || string(f) == region
}

// String implements fmt.Stringer.
func (f RegionFilter) String() string {
	if f == "" {
		return string(FilterAll)
	}
	return string(f)
}
