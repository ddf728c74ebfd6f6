// Package report renders the downloadable plain-text summary report.
//
// Formatting only: all numbers come from the engine's aggregations and are
// never recomputed here.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"wattboard/internal/engine"
)

const timestampLayout = "2006-01-02 15:04:05"

// Build renders the fixed-format summary report. generatedAt is passed in so
// the output is a pure function of its inputs.
func Build(kpi engine.KPI, top []engine.DepartmentUsage, highestMonth, lowestMonth string, generatedAt time.Time) string {
	var b strings.Builder

	b.WriteString("ELECTRICITY CONSUMPTION SUMMARY REPORT\n")
	fmt.Fprintf(&b, "Generated on: %s\n", generatedAt.Format(timestampLayout))
	b.WriteString("\n")

	b.WriteString("KEY METRICS:\n")
	fmt.Fprintf(&b, "- Total Units Consumed: %s kWh\n", FormatThousands(kpi.TotalUnits, 2))
	fmt.Fprintf(&b, "- Total Cost: $%s\n", FormatThousands(kpi.TotalCost, 2))
	fmt.Fprintf(&b, "- Average Cost per kWh: $%s\n", kpi.AvgCostPerUnit.StringFixed(3))
	fmt.Fprintf(&b, "- Number of Departments/Units: %d\n", kpi.UnitCount)
	b.WriteString("\n")

	b.WriteString("TOP CONSUMING DEPARTMENTS:\n")
	if len(top) == 0 {
		b.WriteString("- none\n")
	}
	for _, d := range top {
		fmt.Fprintf(&b, "- %s: %s kWh\n", d.UnitName, FormatThousands(d.TotalUnits, 2))
	}
	b.WriteString("\n")

	b.WriteString("MONTHLY TRENDS:\n")
	fmt.Fprintf(&b, "Highest consumption month: %s\n", orDash(highestMonth))
	fmt.Fprintf(&b, "Lowest consumption month: %s\n", orDash(lowestMonth))

	return b.String()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// FormatThousands renders a decimal with a fixed number of decimal places and
// comma separators in the integer part (1234.5 → "1,234.50").
func FormatThousands(d decimal.Decimal, places int) string {
	s := d.StringFixed(int32(places))
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	intPart, fracPart, hasFrac := strings.Cut(s, ".")

	if len(intPart) > 3 {
		var parts []string
		for len(intPart) > 3 {
			parts = append([]string{intPart[len(intPart)-3:]}, parts...)
			intPart = intPart[:len(intPart)-3]
		}
		parts = append([]string{intPart}, parts...)
		intPart = strings.Join(parts, ",")
	}

	out := intPart
	if hasFrac {
		out += "." + fracPart
	}
	if neg {
		out = "-" + out
	}
	return out
}
