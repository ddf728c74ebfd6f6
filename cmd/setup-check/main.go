// Command setup-check verifies a deployment before first run: configuration,
// embedded templates, sample data generation and the aggregation engine.
package main

import (
	"context"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"os"

	"github.com/shopspring/decimal"

	"wattboard/internal/backend"
	"wattboard/internal/cli"
	"wattboard/internal/config"
	"wattboard/internal/core"
	"wattboard/internal/engine"
	"wattboard/internal/sample"
	appweb "wattboard/web"
)

type check struct {
	name string
	run  func() error
}

func main() {
	cli.LoadEnvFile()

	checks := []check{
		{"configuration", checkConfig},
		{"templates", checkTemplates},
		{"sample data", checkSampleData},
		{"aggregation engine", checkEngine},
	}

	failed := 0
	for _, c := range checks {
		if err := c.run(); err != nil {
			fmt.Printf("FAIL  %-20s %v\n", c.name, err)
			failed++
			continue
		}
		fmt.Printf("ok    %s\n", c.name)
	}

	if failed > 0 {
		fmt.Printf("\n%d of %d checks failed\n", failed, len(checks))
		os.Exit(1)
	}
	fmt.Printf("\nAll %d checks passed\n", len(checks))
}

func checkConfig() error {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return err
	}
	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return err
	}
	if err := backendCfg.Validate(); err != nil {
		return err
	}
	// The sheets backend needs live credentials, so only the session
	// backend is constructed here.
	if backendCfg.Type == backend.SessionBackend {
		quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
		res, err := backend.NewFactory(quiet).CreateBackend(context.Background(), backendCfg)
		if err != nil {
			return err
		}
		if res.Cleanup != nil {
			if err := res.Cleanup(); err != nil {
				return err
			}
		}
	}
	return nil
}

func checkTemplates() error {
	t, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		return err
	}
	for _, name := range []string{"index.html", "kpis.html", "monthly_summary.html", "department_summary.html", "records.html"} {
		if t.Lookup(name) == nil {
			return fmt.Errorf("template %s not embedded", name)
		}
	}
	return nil
}

func checkSampleData() error {
	tbl := sample.Generate()
	if got, want := tbl.Len(), len(core.Months)*len(sample.DefaultUnits); got != want {
		return fmt.Errorf("generated %d records, want %d", got, want)
	}
	if err := core.ValidateColumns(tbl.Columns()); err != nil {
		return err
	}
	floor := decimal.NewFromInt(50)
	for _, r := range tbl.Records {
		if err := r.Validate(); err != nil {
			return fmt.Errorf("record %s/%s: %w", r.Month, r.UnitName, err)
		}
		if r.UnitsConsumed.LessThan(floor) {
			return fmt.Errorf("record %s/%s below the 50 kWh floor", r.Month, r.UnitName)
		}
	}
	return nil
}

func checkEngine() error {
	tbl := sample.Generate()

	kpi := engine.ComputeKPI(tbl)
	if !kpi.TotalUnits.IsPositive() || !kpi.TotalCost.IsPositive() {
		return fmt.Errorf("KPI totals not positive: units=%s cost=%s", kpi.TotalUnits, kpi.TotalCost)
	}
	if kpi.UnitCount != len(sample.DefaultUnits) {
		return fmt.Errorf("unit count = %d, want %d", kpi.UnitCount, len(sample.DefaultUnits))
	}

	monthly := engine.AggregateMonthly(tbl)
	if len(monthly) != len(core.Months) {
		return fmt.Errorf("monthly aggregation has %d rows, want %d", len(monthly), len(core.Months))
	}
	highest, lowest := engine.PeakMonths(monthly)
	if highest == "" || lowest == "" {
		return fmt.Errorf("peak month detection returned empty names")
	}

	depts := engine.AggregateDepartments(tbl)
	if len(depts) != len(sample.DefaultUnits) {
		return fmt.Errorf("department aggregation has %d rows, want %d", len(depts), len(sample.DefaultUnits))
	}
	return nil
}
