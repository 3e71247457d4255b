package repository

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/okian/morsel/internal/domain/model"
)

// File permission constants.
const (
	artifactPermission  = 0o644
	directoryPermission = 0o750
)

// Header is the canonical artifact header.
var Header = []string{"sales", "date", "region"}

// Serialize writes ds as CSV with the canonical header. Sales are written as
// plain decimals, dates as YYYY-MM-DD. Records Deserialize would refuse fail
// with an ArtifactFormatError naming the line they would occupy, before
// anything is written.
func Serialize(w io.Writer, ds model.Dataset) error {
	for i, rec := range ds {
		if err := checkRecord(rec); err != nil {
			return &ArtifactFormatError{Line: i + 2, Reason: err.Error()}
		}
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	row := make([]string, len(Header))
	for _, rec := range ds {
		row[0] = rec.Sales.String()
		row[1] = rec.Date.String()
		row[2] = rec.Region
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush artifact: %w", err)
	}
	return nil
}

// Deserialize reads an artifact produced by Serialize, validating the header
// and every row.
func Deserialize(r io.Reader) (model.Dataset, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, &ArtifactFormatError{Line: 1, Reason: "missing header"}
	}
	if err != nil {
		return nil, &ArtifactFormatError{Line: 1, Reason: err.Error()}
	}
	if !validHeader(header) {
		return nil, &ArtifactFormatError{
			Line:   1,
			Reason: fmt.Sprintf("header %q, want %q", strings.Join(header, ","), strings.Join(Header, ",")),
		}
	}

	ds := model.Dataset{}
	for {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			line := 0
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				line = pe.Line
			}
			return nil, &ArtifactFormatError{Line: line, Reason: err.Error()}
		}
		line, _ := cr.FieldPos(0)
		rec, err := parseRow(fields)
		if err != nil {
			return nil, &ArtifactFormatError{Line: line, Reason: err.Error()}
		}
		ds = append(ds, rec)
	}
	return ds, nil
}

func validHeader(h []string) bool {
	if len(h) != len(Header) {
		return false
	}
	for i := range h {
		if strings.TrimPrefix(h[i], "\ufeff") != Header[i] {
			return false
		}
	}
	return true
}

func parseRow(fields []string) (model.SalesRecord, error) {
	if len(fields) != len(Header) {
		return model.SalesRecord{}, fmt.Errorf("got %d fields, want %d", len(fields), len(Header))
	}
	sales, err := decimal.NewFromString(fields[0])
	if err != nil {
		return model.SalesRecord{}, fmt.Errorf("sales %q: %w", fields[0], err)
	}
	t, err := time.Parse(model.DateLayout, fields[1])
	if err != nil {
		return model.SalesRecord{}, fmt.Errorf("date %q: %w", fields[1], err)
	}
	rec := model.SalesRecord{Date: model.DateOf(t), Region: fields[2], Sales: sales}
	if err := checkRecord(rec); err != nil {
		return model.SalesRecord{}, err
	}
	return rec, nil
}

// checkRecord holds the field rules shared by Serialize and Deserialize.
func checkRecord(rec model.SalesRecord) error {
	if rec.Sales.IsNegative() {
		return fmt.Errorf("sales %q: negative", rec.Sales.String())
	}
	ds := rec.Date.String()
	t, err := time.Parse(model.DateLayout, ds)
	if err != nil || model.DateOf(t) != rec.Date {
		return fmt.Errorf("date %q: not a calendar date", ds)
	}
	if rec.Region != strings.ToLower(rec.Region) {
		return fmt.Errorf("region %q: not lowercase", rec.Region)
	}
	return nil
}

// WriteFile serializes ds in memory and then replaces path in a single
// rename, so readers never observe a truncated artifact.
func WriteFile(path string, ds model.Dataset) error {
	var buf bytes.Buffer
	if err := Serialize(&buf, ds); err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, directoryPermission); err != nil {
		return fmt.Errorf("create artifact dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp artifact: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("write temp artifact: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("sync temp artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("close temp artifact: %w", err)
	}
	if err := os.Chmod(tmpName, artifactPermission); err != nil {
		cleanup()
		return fmt.Errorf("chmod temp artifact: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return fmt.Errorf("publish artifact: %w", err)
	}
	return nil
}

// ReadFile loads and validates an artifact from disk.
func ReadFile(path string) (model.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open artifact: %w", err)
	}
	defer func() { _ = f.Close() }()

	ds, err := Deserialize(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ds, nil
}
