package http

import (
	"encoding/json"
	"net/http"

	"wattboard/internal/core"
	"wattboard/internal/engine"
	applog "wattboard/internal/log"
)

// writeChart loads the table and writes one chart series as JSON.
func (s *Server) writeChart(w http.ResponseWriter, r *http.Request, build func(core.Table) []engine.ChartPoint) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	tbl, err := s.ds.Table(r.Context())
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Chart data load error", applog.FieldError, err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "failed to load usage data"})
		return
	}

	points := build(tbl)
	if points == nil {
		points = []engine.ChartPoint{}
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(points); err != nil {
		s.logger.ErrorContext(r.Context(), "Chart encode error", applog.FieldError, err)
	}
}

func (s *Server) handleChartMonthlyUnits(w http.ResponseWriter, r *http.Request) {
	s.writeChart(w, r, func(tbl core.Table) []engine.ChartPoint {
		return engine.MonthlyUnitsSeries(engine.AggregateMonthly(tbl))
	})
}

func (s *Server) handleChartMonthlyCost(w http.ResponseWriter, r *http.Request) {
	s.writeChart(w, r, func(tbl core.Table) []engine.ChartPoint {
		return engine.MonthlyCostSeries(engine.AggregateMonthly(tbl))
	})
}

func (s *Server) handleChartDepartmentUnits(w http.ResponseWriter, r *http.Request) {
	s.writeChart(w, r, func(tbl core.Table) []engine.ChartPoint {
		return engine.DepartmentUnitsSeries(engine.AggregateDepartments(tbl))
	})
}

func (s *Server) handleChartDepartmentCost(w http.ResponseWriter, r *http.Request) {
	s.writeChart(w, r, func(tbl core.Table) []engine.ChartPoint {
		return engine.DepartmentCostSeries(engine.AggregateDepartments(tbl))
	})
}
