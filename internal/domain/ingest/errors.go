package ingest

import (
	"errors"
	"fmt"
)

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrMalformedRow   = errors.New("malformed row")
	ErrSourceNotFound = errors.New("source not found")
	ErrSourceFormat   = errors.New("unexpected source format")
)

// RowError locates a bad field inside a source.
type RowError struct {
	Source string
	Row    int // 1-based, header excluded
	Field  string
	Value  string
	Err    error
}

func (e RowError) Error() string {
	return fmt.Sprintf("%s: row %d: malformed %s %q: %v", e.Source, e.Row, e.Field, e.Value, e.Err)
}

func (e RowError) Unwrap() []error { return []error{ErrMalformedRow, e.Err} }

// MalformedPriceError reports a price that is not a non-negative decimal.
type MalformedPriceError struct{ RowError }

// MalformedQuantityError reports a quantity that is not a non-negative integer.
type MalformedQuantityError struct{ RowError }

// MalformedDateError reports an unparseable transaction date.
type MalformedDateError struct{ RowError }

// SourceNotFoundError reports a listed source that could not be opened.
type SourceNotFoundError struct {
	Source string
	Err    error
}

func (e *SourceNotFoundError) Error() string {
	return fmt.Sprintf("source %s: %v", e.Source, e.Err)
}

func (e *SourceNotFoundError) Unwrap() []error { return []error{ErrSourceNotFound, e.Err} }

// SourceFormatError reports a source whose header or row shape cannot be read.
type SourceFormatError struct {
	Source string
	Row    int // 0 for the header
	Reason string
}

func (e *SourceFormatError) Error() string {
	if e.Row == 0 {
		return fmt.Sprintf("%s: header: %s", e.Source, e.Reason)
	}
	return fmt.Sprintf("%s: row %d: %s", e.Source, e.Row, e.Reason)
}

func (e *SourceFormatError) Unwrap() error { return ErrSourceFormat }

// errorKind labels an ingestion error for metrics.
func errorKind(err error) string {
	var (
		priceErr    *MalformedPriceError
		quantityErr *MalformedQuantityError
		dateErr     *MalformedDateError
	)
	switch {
	case errors.As(err, &priceErr):
		return "malformed_price"
	case errors.As(err, &quantityErr):
		return "malformed_quantity"
	case errors.As(err, &dateErr):
		return "malformed_date"
	case errors.Is(err, ErrSourceNotFound):
		return "source_not_found"
	case errors.Is(err, ErrSourceFormat):
		return "source_format"
	default:
		return "other"
	}
}
