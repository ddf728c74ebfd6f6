package engine

import (
	"sort"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"wattboard/internal/core"
)

// DepartmentUsage is one row of the sum-only departmental view used for the
// bar and pie charts.
type DepartmentUsage struct {
	UnitName   string
	TotalUnits decimal.Decimal
	TotalCost  decimal.Decimal
}

// MeasureStats holds the four summary statistics of a single measure within
// one department, rounded to two decimals.
type MeasureStats struct {
	Sum  decimal.Decimal
	Mean decimal.Decimal
	Max  decimal.Decimal
	Min  decimal.Decimal
}

// DepartmentStats is one row of the detailed "Department Summary" table.
type DepartmentStats struct {
	UnitName string
	Units    MeasureStats
	Cost     MeasureStats
	Count    int
}

// AggregateDepartments groups records by unit name and sums both measures.
// Rows are sorted ascending by summed consumption, the order the horizontal
// bar chart renders in.
func AggregateDepartments(t core.Table) []DepartmentUsage {
	groups := lo.GroupBy(t.Records, func(r core.Record) string { return r.UnitName })

	rows := make([]DepartmentUsage, 0, len(groups))
	for name, records := range groups {
		row := DepartmentUsage{UnitName: name}
		for _, r := range records {
			row.TotalUnits = row.TotalUnits.Add(r.UnitsConsumed)
			row.TotalCost = row.TotalCost.Add(r.Cost)
		}
		rows = append(rows, row)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].TotalUnits.Equal(rows[j].TotalUnits) {
			return rows[i].UnitName < rows[j].UnitName
		}
		return rows[i].TotalUnits.LessThan(rows[j].TotalUnits)
	})
	return rows
}

// TopDepartments returns the n highest-consumption departments in descending
// order of summed units.
func TopDepartments(rows []DepartmentUsage, n int) []DepartmentUsage {
	desc := make([]DepartmentUsage, len(rows))
	copy(desc, rows)
	sort.SliceStable(desc, func(i, j int) bool {
		return desc[i].TotalUnits.GreaterThan(desc[j].TotalUnits)
	})
	if n > 0 && len(desc) > n {
		desc = desc[:n]
	}
	return desc
}

// AggregateDepartmentStats computes sum, mean, max, and min of both measures
// per department for the detailed summary table. Rows are sorted by unit name.
func AggregateDepartmentStats(t core.Table) []DepartmentStats {
	groups := lo.GroupBy(t.Records, func(r core.Record) string { return r.UnitName })

	rows := make([]DepartmentStats, 0, len(groups))
	for name, records := range groups {
		units := lo.Map(records, func(r core.Record, _ int) decimal.Decimal { return r.UnitsConsumed })
		costs := lo.Map(records, func(r core.Record, _ int) decimal.Decimal { return r.Cost })
		rows = append(rows, DepartmentStats{
			UnitName: name,
			Units:    statsOf(units),
			Cost:     statsOf(costs),
			Count:    len(records),
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].UnitName < rows[j].UnitName })
	return rows
}

func statsOf(values []decimal.Decimal) MeasureStats {
	if len(values) == 0 {
		return MeasureStats{}
	}
	sum := decimal.Sum(values[0], values[1:]...)
	max := decimal.Max(values[0], values[1:]...)
	min := decimal.Min(values[0], values[1:]...)
	mean := sum.DivRound(decimal.NewFromInt(int64(len(values))), 2)
	return MeasureStats{
		Sum:  sum.Round(2),
		Mean: mean,
		Max:  max.Round(2),
		Min:  min.Round(2),
	}
}
