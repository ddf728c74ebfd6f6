// Package csvio converts usage tables to and from their CSV transport form.
//
// Parse and Write are exact inverses: writing a table and parsing the output
// reconstructs the same field values in the same row order. Extra columns
// survive the round trip so the detailed-records view can pass them through.
package csvio

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"wattboard/internal/core"
)

// ParseError reports input that cannot be read as a usage table. Callers
// recover from it by substituting sample data; it is never fatal.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return "cannot parse CSV input: " + e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Parse reads CSV text into a usage table. The header row is matched against
// the required column names order-independently; unrecognized columns are
// preserved as passthrough extras. A missing required column yields
// *core.MissingColumnsError (fatal to report generation), anything else that
// prevents reading yields *ParseError (recoverable).
func Parse(r io.Reader) (core.Table, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			err = errors.New("empty input")
		}
		return core.Table{}, &ParseError{Err: err}
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}
	if err := core.ValidateColumns(header); err != nil {
		return core.Table{}, err
	}

	colAt := make(map[string]int, len(header))
	for i, name := range header {
		if _, dup := colAt[name]; !dup {
			colAt[name] = i
		}
	}
	required := make(map[string]bool, 4)
	for _, name := range core.RequiredColumns() {
		required[name] = true
	}
	var extras []string
	for _, name := range header {
		if !required[name] && name != "" {
			extras = append(extras, name)
		}
	}

	tbl := core.Table{ExtraColumns: extras}
	line := 1
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return core.Table{}, &ParseError{Err: err}
		}

		rec := core.Record{
			Month:    strings.TrimSpace(row[colAt[core.ColMonth]]),
			UnitName: strings.TrimSpace(row[colAt[core.ColUnitName]]),
		}
		rec.UnitsConsumed, err = parseField(row, colAt[core.ColUnitsConsumed], core.ColUnitsConsumed, line)
		if err != nil {
			return core.Table{}, err
		}
		rec.Cost, err = parseField(row, colAt[core.ColCost], core.ColCost, line)
		if err != nil {
			return core.Table{}, err
		}
		if len(extras) > 0 {
			rec.Extra = make(map[string]string, len(extras))
			for _, name := range extras {
				rec.Extra[name] = row[colAt[name]]
			}
		}
		tbl.Records = append(tbl.Records, rec)
	}
	return tbl, nil
}

func parseField(row []string, idx int, col string, line int) (decimal.Decimal, error) {
	raw := strings.TrimSpace(row[idx])
	if raw == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, &ParseError{Err: fmt.Errorf("line %d: %s value %q is not numeric", line, col, raw)}
	}
	return d, nil
}

// Write serializes a table as CSV: the four canonical columns in table order,
// then any extra columns in recorded order. Numeric values are written as
// stored, with no implicit re-rounding.
func Write(w io.Writer, t core.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns()); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	row := make([]string, 0, 4+len(t.ExtraColumns))
	for i, r := range t.Records {
		row = row[:0]
		row = append(row, r.Month, r.UnitName, r.UnitsConsumed.String(), r.Cost.String())
		for _, name := range t.ExtraColumns {
			row = append(row, r.Extra[name])
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Bytes is a convenience wrapper around Write for download handlers.
func Bytes(t core.Table) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, t); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
