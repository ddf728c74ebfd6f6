package engine

import (
	"sort"

	"github.com/shopspring/decimal"

	"wattboard/internal/core"
)

// MonthlyUsage is one row of the monthly aggregation: totals and means for a
// single month present in the input.
type MonthlyUsage struct {
	Month      string
	TotalUnits decimal.Decimal
	AvgUnits   decimal.Decimal
	TotalCost  decimal.Decimal
	AvgCost    decimal.Decimal
	Count      int
}

// AggregateMonthly groups records by month, summing and averaging both
// measures. Months absent from the input are omitted, not zero-filled.
//
// Rows are sorted by calendar order. Month names outside the recognized
// twelve sort after all recognized months, in first-appearance order; the
// sort is stable so equal keys keep their input order.
func AggregateMonthly(t core.Table) []MonthlyUsage {
	byMonth := make(map[string]*MonthlyUsage)
	var order []string
	for _, r := range t.Records {
		row, ok := byMonth[r.Month]
		if !ok {
			row = &MonthlyUsage{Month: r.Month}
			byMonth[r.Month] = row
			order = append(order, r.Month)
		}
		row.TotalUnits = row.TotalUnits.Add(r.UnitsConsumed)
		row.TotalCost = row.TotalCost.Add(r.Cost)
		row.Count++
	}

	rows := make([]MonthlyUsage, 0, len(order))
	for _, month := range order {
		row := byMonth[month]
		n := decimal.NewFromInt(int64(row.Count))
		row.AvgUnits = row.TotalUnits.DivRound(n, 2)
		row.AvgCost = row.TotalCost.DivRound(n, 2)
		rows = append(rows, *row)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		ii, iok := core.MonthIndex(rows[i].Month)
		ji, jok := core.MonthIndex(rows[j].Month)
		switch {
		case iok && jok:
			return ii < ji
		case iok:
			return true // recognized months before unrecognized ones
		case jok:
			return false
		default:
			return false // unrecognized names keep appearance order
		}
	})
	return rows
}

// PeakMonths returns the highest- and lowest-consumption months from a sorted
// monthly aggregation. Ties are broken by first occurrence in sorted order.
// Both results are empty when the aggregation has no rows.
func PeakMonths(rows []MonthlyUsage) (highest, lowest string) {
	if len(rows) == 0 {
		return "", ""
	}
	hi, lo2 := rows[0], rows[0]
	for _, row := range rows[1:] {
		if row.TotalUnits.GreaterThan(hi.TotalUnits) {
			hi = row
		}
		if row.TotalUnits.LessThan(lo2.TotalUnits) {
			lo2 = row
		}
	}
	return hi.Month, lo2.Month
}
