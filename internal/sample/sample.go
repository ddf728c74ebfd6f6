// Package sample produces demonstration usage data.
//
// The generated table mirrors a realistic household: one record per
// month/unit pair, with consumption drawn from a normal distribution and cost
// derived from a per-record rate. The generator is intentionally unseeded;
// callers must not expect reproducible values.
package sample

import (
	"math/rand/v2"

	"github.com/shopspring/decimal"

	"wattboard/internal/core"
)

// DefaultUnits are the unit labels used when no override is configured.
var DefaultUnits = []string{"Kitchen", "Living Room", "Bedroom", "Office", "Garage"}

const (
	meanConsumption   = 100.0 // kWh
	stddevConsumption = 20.0
	minConsumption    = 50.0
	minRate           = 0.10 // currency per kWh
	maxRate           = 0.15
)

// Generate returns a table with one record per (month, unit) pair using the
// default unit labels: 60 records in month-major order.
func Generate() core.Table {
	return GenerateUnits(DefaultUnits)
}

// GenerateUnits generates sample data for the given unit labels across all
// twelve months. Consumption ~ Normal(100, 20) floored at 50 kWh; cost is
// consumption times a rate drawn uniformly from [0.10, 0.15) per record.
// Both values are rounded to two decimals.
func GenerateUnits(units []string) core.Table {
	return GenerateRates(units, minRate, maxRate)
}

// GenerateRates is GenerateUnits with an explicit rate band. A degenerate or
// inverted band falls back to the default one.
func GenerateRates(units []string, rateMin, rateMax float64) core.Table {
	if len(units) == 0 {
		units = DefaultUnits
	}
	if rateMin <= 0 || rateMax <= rateMin {
		rateMin, rateMax = minRate, maxRate
	}
	records := make([]core.Record, 0, len(core.Months)*len(units))
	for _, month := range core.Months {
		for _, unit := range units {
			consumption := meanConsumption + stddevConsumption*rand.NormFloat64()
			if consumption < minConsumption {
				consumption = minConsumption
			}
			rate := rateMin + (rateMax-rateMin)*rand.Float64()

			units2 := decimal.NewFromFloat(consumption).Round(2)
			cost := decimal.NewFromFloat(consumption * rate).Round(2)
			records = append(records, core.Record{
				Month:         month,
				UnitName:      unit,
				UnitsConsumed: units2,
				Cost:          cost,
			})
		}
	}
	return core.Table{Records: records}
}
