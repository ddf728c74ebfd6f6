package engine

import "github.com/samber/lo"

// ChartPoint is a single label/value pair in a chart series. The frontend
// chart library consumes these payloads as-is; the engine never renders.
type ChartPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// MonthlyUnitsSeries returns the monthly consumption line-chart payload.
func MonthlyUnitsSeries(rows []MonthlyUsage) []ChartPoint {
	return lo.Map(rows, func(r MonthlyUsage, _ int) ChartPoint {
		return ChartPoint{Label: r.Month, Value: r.TotalUnits.InexactFloat64()}
	})
}

// MonthlyCostSeries returns the monthly cost line-chart payload.
func MonthlyCostSeries(rows []MonthlyUsage) []ChartPoint {
	return lo.Map(rows, func(r MonthlyUsage, _ int) ChartPoint {
		return ChartPoint{Label: r.Month, Value: r.TotalCost.InexactFloat64()}
	})
}

// DepartmentUnitsSeries returns the per-department consumption bar-chart
// payload, ascending by consumption as aggregated.
func DepartmentUnitsSeries(rows []DepartmentUsage) []ChartPoint {
	return lo.Map(rows, func(r DepartmentUsage, _ int) ChartPoint {
		return ChartPoint{Label: r.UnitName, Value: r.TotalUnits.InexactFloat64()}
	})
}

// DepartmentCostSeries returns the cost-distribution pie-chart payload.
func DepartmentCostSeries(rows []DepartmentUsage) []ChartPoint {
	return lo.Map(rows, func(r DepartmentUsage, _ int) ChartPoint {
		return ChartPoint{Label: r.UnitName, Value: r.TotalCost.InexactFloat64()}
	})
}
