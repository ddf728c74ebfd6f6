package engine

import (
	"testing"

	"github.com/shopspring/decimal"

	"wattboard/internal/core"
)

func TestAggregateDepartmentsSortedAscending(t *testing.T) {
	tbl := core.Table{Records: []core.Record{
		rec("January", "Kitchen", 120, 14.4),
		rec("February", "Kitchen", 80, 9.6),
		rec("January", "Garage", 40, 5),
		rec("January", "Office", 90, 10.8),
	}}
	rows := AggregateDepartments(tbl)
	want := []string{"Garage", "Office", "Kitchen"}
	if len(rows) != len(want) {
		t.Fatalf("expected %d rows, got %d", len(want), len(rows))
	}
	for i, w := range want {
		if rows[i].UnitName != w {
			t.Fatalf("row %d: unit=%q, want %q", i, rows[i].UnitName, w)
		}
	}
	if !rows[2].TotalUnits.Equal(decimal.NewFromInt(200)) {
		t.Fatalf("Kitchen total=%s, want 200", rows[2].TotalUnits)
	}
	if !rows[2].TotalCost.Equal(decimal.NewFromInt(24)) {
		t.Fatalf("Kitchen cost=%s, want 24", rows[2].TotalCost)
	}
}

func TestTopDepartments(t *testing.T) {
	rows := AggregateDepartments(core.Table{Records: []core.Record{
		rec("January", "A", 10, 1),
		rec("January", "B", 30, 3),
		rec("January", "C", 20, 2),
		rec("January", "D", 40, 4),
	}})
	top := TopDepartments(rows, 3)
	want := []string{"D", "B", "C"}
	if len(top) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(top))
	}
	for i, w := range want {
		if top[i].UnitName != w {
			t.Fatalf("row %d: unit=%q, want %q", i, top[i].UnitName, w)
		}
	}
	// Asking for more than exists returns all of them
	if got := TopDepartments(rows, 10); len(got) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(got))
	}
}

func TestAggregateDepartmentStats(t *testing.T) {
	tbl := core.Table{Records: []core.Record{
		rec("January", "Kitchen", 100, 12),
		rec("February", "Kitchen", 60, 6),
		rec("March", "Kitchen", 80, 9),
		rec("January", "Office", 50, 5),
	}}
	rows := AggregateDepartmentStats(tbl)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	// Sorted by unit name
	if rows[0].UnitName != "Kitchen" || rows[1].UnitName != "Office" {
		t.Fatalf("unexpected order: %q, %q", rows[0].UnitName, rows[1].UnitName)
	}

	k := rows[0]
	checks := []struct {
		name string
		got  decimal.Decimal
		want float64
	}{
		{"units sum", k.Units.Sum, 240},
		{"units mean", k.Units.Mean, 80},
		{"units max", k.Units.Max, 100},
		{"units min", k.Units.Min, 60},
		{"cost sum", k.Cost.Sum, 27},
		{"cost mean", k.Cost.Mean, 9},
		{"cost max", k.Cost.Max, 12},
		{"cost min", k.Cost.Min, 5},
	}
	for _, c := range checks {
		if !c.got.Equal(decimal.NewFromFloat(c.want)) {
			t.Fatalf("Kitchen %s=%s, want %v", c.name, c.got, c.want)
		}
	}
	if k.Count != 3 {
		t.Fatalf("Kitchen count=%d, want 3", k.Count)
	}
}

func TestAggregateDepartmentStatsMeanRounding(t *testing.T) {
	tbl := core.Table{Records: []core.Record{
		rec("January", "A", 10, 1),
		rec("February", "A", 10, 1),
		rec("March", "A", 11, 1),
	}}
	rows := AggregateDepartmentStats(tbl)
	// 31/3 = 10.333... → 10.33
	if !rows[0].Units.Mean.Equal(decimal.NewFromFloat(10.33)) {
		t.Fatalf("mean=%s, want 10.33", rows[0].Units.Mean)
	}
}

func TestChartSeries(t *testing.T) {
	tbl := core.Table{Records: []core.Record{
		rec("January", "Kitchen", 100, 15),
		rec("February", "Kitchen", 50, 7.5),
	}}
	monthly := AggregateMonthly(tbl)
	line := MonthlyUnitsSeries(monthly)
	if len(line) != 2 || line[0].Label != "January" || line[0].Value != 100 {
		t.Fatalf("unexpected monthly units series: %v", line)
	}
	costs := MonthlyCostSeries(monthly)
	if costs[1].Value != 7.5 {
		t.Fatalf("unexpected monthly cost series: %v", costs)
	}

	depts := AggregateDepartments(tbl)
	bar := DepartmentUnitsSeries(depts)
	if len(bar) != 1 || bar[0].Label != "Kitchen" || bar[0].Value != 150 {
		t.Fatalf("unexpected department series: %v", bar)
	}
	pie := DepartmentCostSeries(depts)
	if pie[0].Value != 22.5 {
		t.Fatalf("unexpected pie series: %v", pie)
	}
}
