package core

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// Canonical column names of a usage table. CSV headers are matched against
// these names, order-independent.
const (
	ColMonth         = "Month"
	ColUnitName      = "UnitName"
	ColUnitsConsumed = "UnitsConsumed"
	ColCost          = "Cost"
)

// Months lists the twelve calendar month names in report order.
var Months = []string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

var monthIndex = func() map[string]int {
	m := make(map[string]int, len(Months))
	for i, name := range Months {
		m[name] = i
	}
	return m
}()

// MonthIndex returns the calendar index of a month name (January=0) and
// whether the name is one of the twelve recognized months.
func MonthIndex(name string) (int, bool) {
	i, ok := monthIndex[name]
	return i, ok
}

type (
	// Record is a single usage row. Records are immutable once created;
	// aggregations always derive new values. Extra carries unrecognized CSV
	// columns verbatim so the detailed-records view can pass them through.
	Record struct {
		Month         string
		UnitName      string
		UnitsConsumed decimal.Decimal // kWh
		Cost          decimal.Decimal // currency units
		Extra         map[string]string
	}

	// Table is an ordered sequence of records sharing the four canonical
	// columns. ExtraColumns preserves the order of any additional CSV columns
	// as first seen in the input.
	Table struct {
		Records      []Record
		ExtraColumns []string
	}
)

var (
	ErrInvalidMonth  = errors.New("invalid month name")
	ErrEmptyUnitName = errors.New("empty unit name")
	ErrInvalidAmount = errors.New("invalid amount")
)

// MissingColumnsError reports required columns absent from a table source.
// Report generation must halt when it is returned; there is no fallback.
type MissingColumnsError struct {
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return "missing required columns: " + strings.Join(e.Columns, ", ")
}

// RequiredColumns returns the four canonical column names in table order.
func RequiredColumns() []string {
	return []string{ColMonth, ColUnitName, ColUnitsConsumed, ColCost}
}

// ValidateColumns confirms that every required column name is present.
// It checks presence only: value types, ranges, and month-name validity are
// not the validator's concern.
func ValidateColumns(cols []string) error {
	present := make(map[string]bool, len(cols))
	for _, c := range cols {
		present[strings.TrimSpace(c)] = true
	}
	var missing []string
	for _, req := range RequiredColumns() {
		if !present[req] {
			missing = append(missing, req)
		}
	}
	if len(missing) > 0 {
		return &MissingColumnsError{Columns: missing}
	}
	return nil
}

// Validate checks a manually entered record. File-sourced records bypass this
// check: uploads accept whatever values the file carries.
func (r Record) Validate() error {
	if _, ok := MonthIndex(r.Month); !ok {
		return ErrInvalidMonth
	}
	if strings.TrimSpace(r.UnitName) == "" {
		return ErrEmptyUnitName
	}
	if len(r.UnitName) > 200 {
		return errors.New("unit name too long (max 200 characters)")
	}
	if r.UnitsConsumed.IsNegative() || r.Cost.IsNegative() {
		return ErrInvalidAmount
	}
	return nil
}

// Columns returns the table's full column list: the four canonical columns
// followed by any extra columns in recorded order.
func (t Table) Columns() []string {
	return append(RequiredColumns(), t.ExtraColumns...)
}

// Len returns the number of records.
func (t Table) Len() int {
	return len(t.Records)
}

// IsEmpty reports whether the table holds no records.
func (t Table) IsEmpty() bool {
	return len(t.Records) == 0
}
