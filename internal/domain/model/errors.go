package model

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrInvalidFilter = errors.New("invalid region filter")
)

// InvalidFilterError reports a region control value outside the enumerated set.
type InvalidFilterError struct {
	Value string
}

func (e *InvalidFilterError) Error() string {
	vals := make([]string, 0, len(AllRegions)+1)
	for _, f := range FilterValues() {
		vals = append(vals, string(f))
	}
	return fmt.Sprintf("invalid region filter %q: want one of %s", e.Value, strings.Join(vals, ", "))
}

func (e *InvalidFilterError) Unwrap() error { return ErrInvalidFilter }
