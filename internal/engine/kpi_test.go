package engine

import (
	"testing"

	"github.com/shopspring/decimal"

	"wattboard/internal/core"
)

func rec(month, unit string, units, cost float64) core.Record {
	return core.Record{
		Month:         month,
		UnitName:      unit,
		UnitsConsumed: decimal.NewFromFloat(units),
		Cost:          decimal.NewFromFloat(cost),
	}
}

func TestComputeKPI(t *testing.T) {
	tbl := core.Table{Records: []core.Record{
		rec("January", "Kitchen", 100, 15),
		rec("January", "Office", 50, 7.5),
	}}
	kpi := ComputeKPI(tbl)

	if !kpi.TotalUnits.Equal(decimal.NewFromInt(150)) {
		t.Fatalf("total units=%s, want 150", kpi.TotalUnits)
	}
	if !kpi.TotalCost.Equal(decimal.NewFromFloat(22.5)) {
		t.Fatalf("total cost=%s, want 22.5", kpi.TotalCost)
	}
	if !kpi.AvgCostPerUnit.Equal(decimal.NewFromFloat(0.15)) {
		t.Fatalf("avg cost per unit=%s, want 0.15", kpi.AvgCostPerUnit)
	}
	if kpi.UnitCount != 2 {
		t.Fatalf("unit count=%d, want 2", kpi.UnitCount)
	}
}

func TestComputeKPIPermutationInvariant(t *testing.T) {
	a := core.Table{Records: []core.Record{
		rec("January", "Kitchen", 12.5, 1.88),
		rec("March", "Office", 80, 9.6),
		rec("July", "Garage", 55.25, 6.07),
	}}
	b := core.Table{Records: []core.Record{a.Records[2], a.Records[0], a.Records[1]}}

	ka, kb := ComputeKPI(a), ComputeKPI(b)
	if !ka.TotalUnits.Equal(kb.TotalUnits) || !ka.TotalCost.Equal(kb.TotalCost) {
		t.Fatalf("totals differ across permutations: %+v vs %+v", ka, kb)
	}
	if !ka.AvgCostPerUnit.Equal(kb.AvgCostPerUnit) || ka.UnitCount != kb.UnitCount {
		t.Fatalf("derived KPIs differ across permutations: %+v vs %+v", ka, kb)
	}
}

func TestComputeKPIZeroConsumption(t *testing.T) {
	tbl := core.Table{Records: []core.Record{
		rec("January", "Kitchen", 0, 0),
		rec("February", "Office", 0, 0),
	}}
	kpi := ComputeKPI(tbl)
	if !kpi.AvgCostPerUnit.IsZero() {
		t.Fatalf("avg cost per unit=%s, want 0 for zero consumption", kpi.AvgCostPerUnit)
	}
}

func TestComputeKPIEmptyTable(t *testing.T) {
	kpi := ComputeKPI(core.Table{})
	if !kpi.TotalUnits.IsZero() || !kpi.TotalCost.IsZero() || !kpi.AvgCostPerUnit.IsZero() || kpi.UnitCount != 0 {
		t.Fatalf("expected all-zero KPIs for empty table, got %+v", kpi)
	}
}

func TestComputeKPIDuplicateUnitNames(t *testing.T) {
	tbl := core.Table{Records: []core.Record{
		rec("January", "Kitchen", 10, 1),
		rec("February", "Kitchen", 20, 2),
		rec("January", "Office", 5, 1),
	}}
	if got := ComputeKPI(tbl).UnitCount; got != 2 {
		t.Fatalf("unit count=%d, want 2 distinct names", got)
	}
}
