package http

import (
	"fmt"
	"net/http"
	"time"

	"wattboard/internal/csvio"
	"wattboard/internal/engine"
	applog "wattboard/internal/log"
	"wattboard/internal/report"
)

const exportTimestampLayout = "20060102_150405"

// handleExportCSV streams the current table as a CSV download.
func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	tbl, err := s.ds.Table(r.Context())
	if err != nil {
		s.logger.ErrorContext(r.Context(), "CSV export load error", applog.FieldError, err)
		http.Error(w, "failed to load usage data", http.StatusInternalServerError)
		return
	}

	body, err := csvio.Bytes(tbl)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "CSV export encode error", applog.FieldError, err)
		http.Error(w, "failed to encode CSV", http.StatusInternalServerError)
		return
	}

	filename := fmt.Sprintf("electricity_consumption_%s.csv", time.Now().Format(exportTimestampLayout))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	_, _ = w.Write(body)

	s.logger.InfoContext(r.Context(), "CSV export served",
		applog.FieldFilename, filename,
		applog.FieldRows, tbl.Len())
}

// handleExportReport streams the text summary report as a download.
func (s *Server) handleExportReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	tbl, err := s.ds.Table(r.Context())
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Report export load error", applog.FieldError, err)
		http.Error(w, "failed to load usage data", http.StatusInternalServerError)
		return
	}

	kpi := engine.ComputeKPI(tbl)
	top := engine.TopDepartments(engine.AggregateDepartments(tbl), 3)
	highest, lowest := engine.PeakMonths(engine.AggregateMonthly(tbl))
	body := report.Build(kpi, top, highest, lowest, time.Now())

	filename := fmt.Sprintf("electricity_summary_%s.txt", time.Now().Format(exportTimestampLayout))
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	_, _ = w.Write([]byte(body))

	s.logger.InfoContext(r.Context(), "Report export served", applog.FieldFilename, filename)
}

// handleExportSheets pushes the current table to the configured spreadsheet.
func (s *Server) handleExportSheets(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		MethodNotAllowedError("POST").Write(w)
		return
	}
	if s.exporter == nil {
		BadRequestError("Sheets export is not configured").Write(w)
		return
	}

	tbl, err := s.ds.Table(r.Context())
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Sheets export load error", applog.FieldError, err)
		InternalServerError("Failed to load usage data").Write(w)
		return
	}

	if err := s.exporter.Export(r.Context(), tbl); err != nil {
		s.logger.ErrorContext(r.Context(), "Sheets export failed",
			applog.FieldError, err,
			applog.FieldRows, tbl.Len())
		NewHTMXResponse().
			Status(http.StatusBadGateway).
			TriggerErrorNotification("Export to Google Sheets failed").
			BodyHTML(`<div class="error">Export failed</div>`).
			Write(w)
		return
	}

	s.logger.InfoContext(r.Context(), "Sheets export complete", applog.FieldRows, tbl.Len())
	NewHTMXResponse().
		TriggerSuccessNotification(fmt.Sprintf("Exported %d records to Google Sheets", tbl.Len())).
		BodyHTML(`<div class="success">Exported to Google Sheets</div>`).
		Write(w)
}
