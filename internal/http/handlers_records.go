package http

import (
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"wattboard/internal/core"
	"wattboard/internal/csvio"
	applog "wattboard/internal/log"
)

// maxUploadBytes caps CSV uploads at 10 MiB.
const maxUploadBytes = 10 << 20

// handleCreateRecord stores one manual entry from the dashboard form.
func (s *Server) handleCreateRecord(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		MethodNotAllowedError("POST").Write(w)
		return
	}
	if err := r.ParseForm(); err != nil {
		s.logger.ErrorContext(r.Context(), "Parse form error", applog.FieldError, err)
		BadRequestError("Invalid request format").Write(w)
		return
	}

	month := sanitizeInput(r.Form.Get("month"))
	unitName := sanitizeInput(r.Form.Get("unit_name"))

	units, err := core.ParseAmount(r.Form.Get("units_consumed"))
	if err != nil {
		UnprocessableEntityError("Invalid units consumed value").Write(w)
		return
	}
	cost, err := core.ParseAmount(r.Form.Get("cost"))
	if err != nil {
		UnprocessableEntityError("Invalid cost value").Write(w)
		return
	}

	rec := core.Record{
		Month:         month,
		UnitName:      unitName,
		UnitsConsumed: units,
		Cost:          cost,
	}
	if err := rec.Validate(); err != nil {
		UnprocessableEntityError("Invalid entry: " + err.Error()).Write(w)
		return
	}

	ref, err := s.ds.Append(r.Context(), rec)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Record append error",
			applog.FieldError, err,
			applog.FieldMonth, rec.Month,
			applog.FieldUnitName, rec.UnitName)
		InternalServerError("Failed to store entry").Write(w)
		return
	}

	s.fragments.Purge()
	s.logger.InfoContext(r.Context(), "Record stored",
		applog.FieldMonth, rec.Month,
		applog.FieldUnitName, rec.UnitName,
		applog.FieldRowRef, ref)

	NewHTMXResponse().
		TriggerRecordCreated(rec.Month, rec.UnitName).
		TriggerSuccessNotification(fmt.Sprintf("Recorded %s kWh for %s in %s",
			rec.UnitsConsumed.StringFixed(2), rec.UnitName, rec.Month)).
		BodyHTML(`<div class="success">Entry saved: ` +
			template.HTMLEscapeString(rec.UnitName) + ` / ` +
			template.HTMLEscapeString(rec.Month) + `</div>`).
		Write(w)
}

// handleUpload replaces the displayed table with an uploaded CSV. An
// unreadable file falls back to sample data with a warning; a file missing
// required columns is rejected outright.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		MethodNotAllowedError("POST").Write(w)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		s.logger.ErrorContext(r.Context(), "Multipart parse error", applog.FieldError, err)
		BadRequestError("Invalid upload").Write(w)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		BadRequestError("No file provided").Write(w)
		return
	}
	defer func() { _ = file.Close() }()

	tbl, err := csvio.Parse(file)
	if err != nil {
		var parseErr *csvio.ParseError
		if errors.As(err, &parseErr) {
			// Unreadable file: keep the dashboard alive on sample data.
			s.logger.WarnContext(r.Context(), "CSV unreadable, using sample data",
				applog.FieldError, err,
				applog.FieldFilename, header.Filename)
			s.ds.UseSample()
			s.fragments.Purge()
			NewHTMXResponse().
				TriggerTableReplaced(0).
				TriggerWarningNotification("Could not read the CSV file; showing sample data instead").
				BodyHTML(`<div class="warning">Upload unreadable, sample data loaded</div>`).
				Write(w)
			return
		}

		var missing *core.MissingColumnsError
		if errors.As(err, &missing) {
			s.logger.ErrorContext(r.Context(), "CSV missing required columns",
				"columns", missing.Columns,
				applog.FieldFilename, header.Filename)
			NewHTMXResponse().
				Status(http.StatusUnprocessableEntity).
				TriggerErrorNotification("Upload rejected: missing columns " + strings.Join(missing.Columns, ", ")).
				BodyHTML(`<div class="error">Missing required columns: ` +
					template.HTMLEscapeString(strings.Join(missing.Columns, ", ")) + `</div>`).
				Write(w)
			return
		}

		s.logger.ErrorContext(r.Context(), "CSV parse error", applog.FieldError, err)
		InternalServerError("Failed to process upload").Write(w)
		return
	}

	s.ds.SetBase(tbl)
	s.fragments.Purge()
	s.logger.InfoContext(r.Context(), "Table replaced from upload",
		applog.FieldFilename, header.Filename,
		applog.FieldRows, tbl.Len())

	NewHTMXResponse().
		TriggerTableReplaced(tbl.Len()).
		TriggerSuccessNotification(fmt.Sprintf("Loaded %d records from %s", tbl.Len(), header.Filename)).
		BodyHTML(`<div class="success">Loaded ` +
			template.HTMLEscapeString(fmt.Sprintf("%d records", tbl.Len())) + `</div>`).
		Write(w)
}

// handleSessionReset clears manual entries and restores the initial view.
func (s *Server) handleSessionReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		MethodNotAllowedError("POST").Write(w)
		return
	}

	s.ds.Reset()
	s.fragments.Purge()
	s.logger.InfoContext(r.Context(), "Session reset")

	NewHTMXResponse().
		TriggerSessionReset().
		TriggerSuccessNotification("Session cleared").
		BodyHTML(`<div class="success">Session cleared</div>`).
		Write(w)
}
