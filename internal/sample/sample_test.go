package sample

import (
	"testing"

	"github.com/shopspring/decimal"

	"wattboard/internal/core"
)

// The generator is unseeded, so tests only assert shape and bounds.

func TestGenerateShape(t *testing.T) {
	tbl := Generate()
	if got := tbl.Len(); got != 60 {
		t.Fatalf("expected 60 records, got %d", got)
	}
	if err := core.ValidateColumns(tbl.Columns()); err != nil {
		t.Fatalf("generated table failed validation: %v", err)
	}

	minUnits := decimal.NewFromInt(50)
	seen := make(map[string]map[string]bool)
	for i, r := range tbl.Records {
		if _, ok := core.MonthIndex(r.Month); !ok {
			t.Fatalf("record %d: unrecognized month %q", i, r.Month)
		}
		if r.UnitsConsumed.LessThan(minUnits) {
			t.Fatalf("record %d: consumption %s below 50 kWh floor", i, r.UnitsConsumed)
		}
		if r.Cost.IsNegative() {
			t.Fatalf("record %d: negative cost %s", i, r.Cost)
		}
		if r.UnitsConsumed.Exponent() < -2 || r.Cost.Exponent() < -2 {
			t.Fatalf("record %d: values not rounded to 2 decimals (%s, %s)", i, r.UnitsConsumed, r.Cost)
		}
		if seen[r.Month] == nil {
			seen[r.Month] = make(map[string]bool)
		}
		if seen[r.Month][r.UnitName] {
			t.Fatalf("duplicate month/unit pair %s/%s", r.Month, r.UnitName)
		}
		seen[r.Month][r.UnitName] = true
	}
	if len(seen) != 12 {
		t.Fatalf("expected 12 months, got %d", len(seen))
	}
	for month, units := range seen {
		if len(units) != 5 {
			t.Fatalf("month %s: expected 5 units, got %d", month, len(units))
		}
	}
}

func TestGenerateCostConsistentWithRateBand(t *testing.T) {
	tbl := Generate()
	for i, r := range tbl.Records {
		if r.UnitsConsumed.IsZero() {
			continue
		}
		rate, _ := r.Cost.DivRound(r.UnitsConsumed, 6).Float64()
		// Rounding the two values independently can nudge the implied rate
		// slightly outside the draw band, so allow a small margin.
		if rate < 0.09 || rate > 0.16 {
			t.Fatalf("record %d: implied rate %.4f outside [0.10, 0.15] band", i, rate)
		}
	}
}

func TestGenerateRatesCustomBand(t *testing.T) {
	tbl := GenerateRates([]string{"Lab"}, 0.50, 0.60)
	for i, r := range tbl.Records {
		if r.UnitsConsumed.IsZero() {
			continue
		}
		rate, _ := r.Cost.DivRound(r.UnitsConsumed, 6).Float64()
		if rate < 0.49 || rate > 0.61 {
			t.Fatalf("record %d: implied rate %.4f outside [0.50, 0.60] band", i, rate)
		}
	}
}

func TestGenerateRatesInvalidBandFallsBack(t *testing.T) {
	tbl := GenerateRates([]string{"Lab"}, 0.30, 0.20)
	for i, r := range tbl.Records {
		if r.UnitsConsumed.IsZero() {
			continue
		}
		rate, _ := r.Cost.DivRound(r.UnitsConsumed, 6).Float64()
		if rate < 0.09 || rate > 0.16 {
			t.Fatalf("record %d: implied rate %.4f outside default band", i, rate)
		}
	}
}

func TestGenerateUnitsCustomLabels(t *testing.T) {
	labels := []string{"Lab", "Workshop"}
	tbl := GenerateUnits(labels)
	if got := tbl.Len(); got != 24 {
		t.Fatalf("expected 24 records, got %d", got)
	}
	for i, r := range tbl.Records {
		if r.UnitName != "Lab" && r.UnitName != "Workshop" {
			t.Fatalf("record %d: unexpected unit %q", i, r.UnitName)
		}
	}
}
