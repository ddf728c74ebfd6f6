// Package engine computes aggregate views over a usage table.
//
// Every function is a pure derivation: given the same table it produces the
// same output, and no call mutates the input. The HTTP layer caches results
// keyed by table revision and the report builder consumes them as-is.
package engine

import (
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"wattboard/internal/core"
)

// KPI holds the four summary scalars shown at the top of the dashboard.
type KPI struct {
	TotalUnits     decimal.Decimal
	TotalCost      decimal.Decimal
	AvgCostPerUnit decimal.Decimal
	UnitCount      int
}

// ComputeKPI calculates the dashboard KPIs for a table. AvgCostPerUnit is
// zero when total consumption is zero so an empty or all-zero table never
// divides by zero.
func ComputeKPI(t core.Table) KPI {
	var totalUnits, totalCost decimal.Decimal
	for _, r := range t.Records {
		totalUnits = totalUnits.Add(r.UnitsConsumed)
		totalCost = totalCost.Add(r.Cost)
	}

	avg := decimal.Zero
	if totalUnits.IsPositive() {
		avg = totalCost.DivRound(totalUnits, 4)
	}

	names := lo.Uniq(lo.Map(t.Records, func(r core.Record, _ int) string { return r.UnitName }))
	return KPI{
		TotalUnits:     totalUnits,
		TotalCost:      totalCost,
		AvgCostPerUnit: avg,
		UnitCount:      len(names),
	}
}
