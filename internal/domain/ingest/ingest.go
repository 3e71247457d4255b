// Package ingest turns raw transaction files into the canonical sales dataset.
//
// Rows are read in source order then row order. Only the target product is
// kept; every kept row gets sales = price * quantity computed once here with
// decimal arithmetic. The first malformed row aborts the whole run.
package ingest

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"

	"github.com/okian/morsel/internal/domain/model"
	"github.com/okian/morsel/pkg/logger"
	"github.com/okian/morsel/pkg/metrics"
)

// DefaultProduct is the only product kept by default.
const DefaultProduct = "pink morsel"

// Columns every source header must contain.
const (
	colProduct  = "product"
	colPrice    = "price"
	colQuantity = "quantity"
	colDate     = "date"
	colRegion   = "region"
)

var requiredColumns = []string{colProduct, colPrice, colQuantity, colDate, colRegion}

// Result is the outcome of a successful run.
type Result struct {
	RunID    string
	Dataset  model.Dataset
	Accepted int // rows kept; equals len(Dataset)
	Skipped  int // rows dropped for being another product
	Sources  int
}

// Option applies a configuration option to the Ingester.
type Option func(*Ingester)

// WithProduct sets the product name to keep. Matching ignores case and
// surrounding whitespace.
func WithProduct(product string) Option {
	return func(in *Ingester) {
		if strings.TrimSpace(product) != "" {
			in.product = product
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(in *Ingester) {
		if l != nil {
			in.logger = l
		}
	}
}

// Ingester filters and transforms raw sources into a Dataset.
type Ingester struct {
	product string
	logger  logger.Logger
}

// New creates an Ingester with configuration options.
func New(opts ...Option) *Ingester {
	in := &Ingester{
		product: DefaultProduct,
		logger:  logger.Nop(),
	}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

// Ingest reads every source and returns the assembled dataset. Nothing is
// returned on error; callers must not persist partial output.
func (in *Ingester) Ingest(ctx context.Context, sources []Source) (Result, error) {
	start := time.Now()
	res := Result{RunID: uuid.NewString(), Dataset: model.Dataset{}}
	log := in.logger.Named("ingest")

	fold := cases.Fold()
	target := normalizeProduct(fold, in.product)

	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			return Result{}, fmt.Errorf("ingest cancelled: %w", err)
		}
		accepted, skipped, err := in.ingestSource(ctx, src, fold, target, &res.Dataset)
		if err != nil {
			metrics.RecordIngestFailure(errorKind(err))
			log.Error(ctx, "ingestion aborted",
				logger.String("run_id", res.RunID),
				logger.String("source", src.Name()),
				logger.Error(err),
			)
			return Result{}, err
		}
		res.Accepted += accepted
		res.Skipped += skipped
		res.Sources++
		metrics.RecordIngestSource()
		log.Debug(ctx, "source ingested",
			logger.String("run_id", res.RunID),
			logger.String("source", src.Name()),
			logger.Int("accepted", accepted),
			logger.Int("skipped", skipped),
		)
	}

	metrics.RecordIngestRows(res.Accepted, res.Skipped)
	metrics.RecordIngestDuration(float64(time.Since(start).Milliseconds()))
	log.Info(ctx, "ingestion complete",
		logger.String("run_id", res.RunID),
		logger.Int("sources", res.Sources),
		logger.Int("accepted", res.Accepted),
		logger.Int("skipped", res.Skipped),
		logger.Duration("elapsed", time.Since(start)),
	)
	return res, nil
}

func (in *Ingester) ingestSource(ctx context.Context, src Source, fold cases.Caser, target string, out *model.Dataset) (int, int, error) {
	rc, err := src.Open(ctx)
	if err != nil {
		return 0, 0, &SourceNotFoundError{Source: src.Name(), Err: err}
	}
	defer func() { _ = rc.Close() }()

	r := csv.NewReader(rc)
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return 0, 0, &SourceFormatError{Source: src.Name(), Reason: "empty source"}
	}
	if err != nil {
		return 0, 0, &SourceFormatError{Source: src.Name(), Reason: err.Error()}
	}
	idx, err := columnIndex(header)
	if err != nil {
		return 0, 0, &SourceFormatError{Source: src.Name(), Reason: err.Error()}
	}

	accepted, skipped := 0, 0
	for row := 1; ; row++ {
		fields, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return 0, 0, &SourceFormatError{Source: src.Name(), Row: row, Reason: err.Error()}
		}
		raw := model.RawRecord{
			Source:   src.Name(),
			Row:      row,
			Product:  fields[idx[colProduct]],
			Price:    fields[idx[colPrice]],
			Quantity: fields[idx[colQuantity]],
			Date:     fields[idx[colDate]],
			Region:   fields[idx[colRegion]],
		}
		if normalizeProduct(fold, raw.Product) != target {
			skipped++
			continue
		}
		rec, err := transform(raw)
		if err != nil {
			return 0, 0, err
		}
		*out = append(*out, rec)
		accepted++
	}
	return accepted, skipped, nil
}

// transform converts a matching raw row into a SalesRecord.
func transform(raw model.RawRecord) (model.SalesRecord, error) {
	price, err := parsePrice(raw.Price)
	if err != nil {
		return model.SalesRecord{}, &MalformedPriceError{rowError(raw, colPrice, raw.Price, err)}
	}
	qty, err := parseQuantity(raw.Quantity)
	if err != nil {
		return model.SalesRecord{}, &MalformedQuantityError{rowError(raw, colQuantity, raw.Quantity, err)}
	}
	date, err := model.ParseDate(strings.TrimSpace(raw.Date))
	if err != nil {
		return model.SalesRecord{}, &MalformedDateError{rowError(raw, colDate, raw.Date, err)}
	}
	return model.SalesRecord{
		Date:   date,
		Region: normalizeRegion(raw.Region),
		Sales:  price.Mul(decimal.NewFromInt(qty)),
	}, nil
}

func rowError(raw model.RawRecord, field, value string, err error) RowError {
	return RowError{Source: raw.Source, Row: raw.Row, Field: field, Value: value, Err: err}
}

// columnIndex maps required column names to their header positions.
func columnIndex(header []string) (map[string]int, error) {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, dup := idx[name]; !dup {
			idx[name] = i
		}
	}
	var missing []string
	for _, c := range requiredColumns {
		if _, ok := idx[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing column(s): %s", strings.Join(missing, ", "))
	}
	return idx, nil
}

// Ingest runs a default Ingester over sources.
func Ingest(ctx context.Context, sources ...Source) (Result, error) {
	return New().Ingest(ctx, sources)
}
