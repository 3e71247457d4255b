package ingest

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
)

var (
	errEmpty    = errors.New("empty value")
	errNegative = errors.New("negative value")
	errNotPlain = errors.New("not a plain decimal")
)

// plainDecimal matches digits with at most one decimal point. Exponents,
// grouping separators and special values are not prices.
var plainDecimal = regexp.MustCompile(`^[+-]?(?:[0-9]+(?:\.[0-9]*)?|\.[0-9]+)$`)

// normalizeProduct trims and case-folds a product name.
func normalizeProduct(c cases.Caser, s string) string {
	return c.String(strings.TrimSpace(s))
}

// parsePrice strips one leading currency symbol and parses the rest as a
// non-negative plain decimal.
func parsePrice(s string) (decimal.Decimal, error) {
	v := strings.TrimSpace(s)
	if r, size := utf8.DecodeRuneInString(v); size > 0 && unicode.Is(unicode.Sc, r) {
		v = strings.TrimSpace(v[size:])
	}
	if v == "" {
		return decimal.Decimal{}, errEmpty
	}
	if !plainDecimal.MatchString(v) {
		return decimal.Decimal{}, errNotPlain
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Decimal{}, err
	}
	if d.IsNegative() {
		return decimal.Decimal{}, errNegative
	}
	return d, nil
}

// parseQuantity parses a non-negative base-10 integer.
func parseQuantity(s string) (int64, error) {
	v := strings.TrimSpace(s)
	if v == "" {
		return 0, errEmpty
	}
	q, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, err
	}
	if q < 0 {
		return 0, errNegative
	}
	return q, nil
}

// normalizeRegion lowercases and trims; unknown regions pass through.
func normalizeRegion(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
