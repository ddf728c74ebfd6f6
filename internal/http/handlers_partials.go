package http

import (
	"bytes"
	"errors"
	"html/template"
	"net/http"
	"strings"

	"wattboard/internal/cache"
	"wattboard/internal/core"
	"wattboard/internal/engine"
	applog "wattboard/internal/log"
)

// renderFragment loads the current table, builds template data and writes the
// rendered partial, going through the fragment cache when the backend allows.
func (s *Server) renderFragment(w http.ResponseWriter, r *http.Request, view, tmplName string, build func(core.Table) interface{}) {
	if r.Method != http.MethodGet {
		MethodNotAllowedError("GET").Write(w)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	key := cache.Key(view, s.ds.Revision())
	if s.ds.Cacheable() {
		if body, ok := s.fragments.Get(key); ok {
			_, _ = w.Write(body)
			return
		}
	}

	tbl, err := s.ds.Table(r.Context())
	if err != nil {
		s.writeTableError(w, r, err)
		return
	}

	if s.templates == nil {
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, tmplName, build(tbl)); err != nil {
		s.logger.ErrorContext(r.Context(), "Template execution error",
			applog.FieldError, err, "template", tmplName)
		_, _ = w.Write([]byte(`<div class="error">Rendering failed</div>`))
		return
	}

	if s.ds.Cacheable() {
		s.fragments.Set(key, buf.Bytes())
	}
	_, _ = w.Write(buf.Bytes())
}

// writeTableError distinguishes the one fatal data error, missing required
// columns, from everything else.
func (s *Server) writeTableError(w http.ResponseWriter, r *http.Request, err error) {
	var missing *core.MissingColumnsError
	if errors.As(err, &missing) {
		s.logger.ErrorContext(r.Context(), "Table unusable", applog.FieldError, err)
		_, _ = w.Write([]byte(`<div class="error">Missing required columns: ` +
			template.HTMLEscapeString(strings.Join(missing.Columns, ", ")) + `</div>`))
		return
	}
	s.logger.ErrorContext(r.Context(), "Table load error", applog.FieldError, err)
	_, _ = w.Write([]byte(`<div class="error">Failed to load usage data</div>`))
}

func (s *Server) handleKPIs(w http.ResponseWriter, r *http.Request) {
	s.renderFragment(w, r, "kpis", "kpis.html", func(tbl core.Table) interface{} {
		kpi := engine.ComputeKPI(tbl)
		return struct {
			TotalUnits string
			TotalCost  string
			AvgCost    string
			UnitCount  int
		}{
			TotalUnits: formatUnits(kpi.TotalUnits),
			TotalCost:  s.formatMoney(kpi.TotalCost),
			AvgCost:    s.currency + kpi.AvgCostPerUnit.StringFixed(3),
			UnitCount:  kpi.UnitCount,
		}
	})
}

func (s *Server) handleMonthlySummary(w http.ResponseWriter, r *http.Request) {
	s.renderFragment(w, r, "monthly", "monthly_summary.html", func(tbl core.Table) interface{} {
		rows := engine.AggregateMonthly(tbl)
		highest, lowest := engine.PeakMonths(rows)

		type row struct {
			Month      string
			TotalUnits string
			AvgUnits   string
			TotalCost  string
			AvgCost    string
			Count      int
			Highest    bool
			Lowest     bool
		}
		data := struct {
			Rows    []row
			Highest string
			Lowest  string
		}{Highest: highest, Lowest: lowest}
		for _, m := range rows {
			data.Rows = append(data.Rows, row{
				Month:      m.Month,
				TotalUnits: formatUnits(m.TotalUnits),
				AvgUnits:   formatUnits(m.AvgUnits),
				TotalCost:  s.formatMoney(m.TotalCost),
				AvgCost:    s.formatMoney(m.AvgCost),
				Count:      m.Count,
				Highest:    m.Month == highest,
				Lowest:     m.Month == lowest,
			})
		}
		return data
	})
}

func (s *Server) handleDepartmentSummary(w http.ResponseWriter, r *http.Request) {
	s.renderFragment(w, r, "departments", "department_summary.html", func(tbl core.Table) interface{} {
		stats := engine.AggregateDepartmentStats(tbl)

		type row struct {
			UnitName  string
			UnitsSum  string
			UnitsMean string
			UnitsMax  string
			UnitsMin  string
			CostSum   string
			Count     int
		}
		var rows []row
		for _, d := range stats {
			rows = append(rows, row{
				UnitName:  d.UnitName,
				UnitsSum:  formatUnits(d.Units.Sum),
				UnitsMean: formatUnits(d.Units.Mean),
				UnitsMax:  formatUnits(d.Units.Max),
				UnitsMin:  formatUnits(d.Units.Min),
				CostSum:   s.formatMoney(d.Cost.Sum),
				Count:     d.Count,
			})
		}
		return struct{ Rows []row }{Rows: rows}
	})
}

func (s *Server) handleRecords(w http.ResponseWriter, r *http.Request) {
	s.renderFragment(w, r, "records", "records.html", func(tbl core.Table) interface{} {
		type row struct {
			Month    string
			UnitName string
			Units    string
			Cost     string
			Extras   []string
		}
		data := struct {
			ExtraColumns []string
			Rows         []row
		}{ExtraColumns: tbl.ExtraColumns}
		for _, rec := range tbl.Records {
			extras := make([]string, 0, len(tbl.ExtraColumns))
			for _, name := range tbl.ExtraColumns {
				extras = append(extras, rec.Extra[name])
			}
			data.Rows = append(data.Rows, row{
				Month:    rec.Month,
				UnitName: rec.UnitName,
				Units:    rec.UnitsConsumed.StringFixed(2),
				Cost:     s.currency + rec.Cost.StringFixed(2),
				Extras:   extras,
			})
		}
		return data
	})
}
