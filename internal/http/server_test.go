package http

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"wattboard/internal/backend"
	"wattboard/internal/engine"
	"wattboard/internal/session"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	store := session.New()
	res := &backend.Result{Backend: store, Session: store}
	ds := NewDataset(res, nil, 0, 0)
	return NewServer("127.0.0.1:0", ds, nil, "$")
}

func do(s *Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.Server.Handler.ServeHTTP(rec, req)
	return rec
}

func TestIndexPage(t *testing.T) {
	s := newTestServer(t)
	rec := do(s, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("GET / = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Electricity Usage Dashboard") {
		t.Error("index page missing title")
	}
}

func TestHealthEndpoints(t *testing.T) {
	s := newTestServer(t)

	if rec := do(s, httptest.NewRequest(http.MethodGet, "/healthz", nil)); rec.Code != http.StatusOK {
		t.Errorf("GET /healthz = %d, want 200", rec.Code)
	}
	if rec := do(s, httptest.NewRequest(http.MethodGet, "/readyz", nil)); rec.Code != http.StatusOK {
		t.Errorf("GET /readyz = %d, want 200", rec.Code)
	}
}

func TestKPIPartial(t *testing.T) {
	s := newTestServer(t)
	rec := do(s, httptest.NewRequest(http.MethodGet, "/ui/kpis", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("GET /ui/kpis = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"Total Units Consumed", "Total Cost", "Average Cost per kWh"} {
		if !strings.Contains(body, want) {
			t.Errorf("KPI partial missing %q", want)
		}
	}
}

func TestPartialsRejectPost(t *testing.T) {
	s := newTestServer(t)
	rec := do(s, httptest.NewRequest(http.MethodPost, "/ui/kpis", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("POST /ui/kpis = %d, want 405", rec.Code)
	}
}

func TestMonthlyChartJSON(t *testing.T) {
	s := newTestServer(t)
	rec := do(s, httptest.NewRequest(http.MethodGet, "/api/charts/monthly-units", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("GET /api/charts/monthly-units = %d, want 200", rec.Code)
	}
	var points []engine.ChartPoint
	if err := json.Unmarshal(rec.Body.Bytes(), &points); err != nil {
		t.Fatalf("chart payload is not JSON: %v", err)
	}
	if len(points) != 12 {
		t.Fatalf("chart has %d points, want 12", len(points))
	}
	if points[0].Label != "January" {
		t.Errorf("first label = %q, want January", points[0].Label)
	}
}

func TestCreateRecord(t *testing.T) {
	s := newTestServer(t)

	form := url.Values{
		"month":          {"January"},
		"unit_name":      {"Lab"},
		"units_consumed": {"150"},
		"cost":           {"22.5"},
	}
	req := httptest.NewRequest(http.MethodPost, "/records", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := do(s, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("POST /records = %d, want 200; body %s", rec.Code, rec.Body.String())
	}
	if trigger := rec.Header().Get("HX-Trigger"); !strings.Contains(trigger, "record:created") {
		t.Errorf("HX-Trigger = %q, want record:created", trigger)
	}

	partial := do(s, httptest.NewRequest(http.MethodGet, "/ui/records", nil))
	if !strings.Contains(partial.Body.String(), "Lab") {
		t.Error("records partial missing new entry")
	}
}

func TestCreateRecordRejectsBadMonth(t *testing.T) {
	s := newTestServer(t)

	form := url.Values{
		"month":          {"Januarie"},
		"unit_name":      {"Lab"},
		"units_consumed": {"150"},
		"cost":           {"22.5"},
	}
	req := httptest.NewRequest(http.MethodPost, "/records", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := do(s, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("POST /records with bad month = %d, want 422", rec.Code)
	}
}

func multipartCSV(t *testing.T, contents string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "usage.csv")
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	if _, err := fw.Write([]byte(contents)); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	_ = mw.Close()
	return &buf, mw.FormDataContentType()
}

func TestUploadReplacesTable(t *testing.T) {
	s := newTestServer(t)

	body, ctype := multipartCSV(t, "Month,UnitName,UnitsConsumed,Cost\nMarch,Server Room,900,120\n")
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", ctype)
	rec := do(s, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("POST /upload = %d, want 200; body %s", rec.Code, rec.Body.String())
	}
	if trigger := rec.Header().Get("HX-Trigger"); !strings.Contains(trigger, "table:replaced") {
		t.Errorf("HX-Trigger = %q, want table:replaced", trigger)
	}

	partial := do(s, httptest.NewRequest(http.MethodGet, "/ui/records", nil))
	if !strings.Contains(partial.Body.String(), "Server Room") {
		t.Error("records partial missing uploaded data")
	}
}

func TestUploadUnreadableFallsBackToSample(t *testing.T) {
	s := newTestServer(t)

	body, ctype := multipartCSV(t, "Month,UnitName,UnitsConsumed,Cost\nMarch,Server Room,many,120\n")
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", ctype)
	rec := do(s, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("POST /upload = %d, want 200", rec.Code)
	}
	trigger := rec.Header().Get("HX-Trigger")
	if !strings.Contains(trigger, "warning") {
		t.Errorf("HX-Trigger = %q, want a warning notification", trigger)
	}

	tbl, err := s.ds.Table(context.Background())
	if err != nil {
		t.Fatalf("Table: %v", err)
	}
	if tbl.Len() != 60 {
		t.Errorf("table has %d records after fallback, want 60 sample records", tbl.Len())
	}
}

func TestUploadMissingColumnRejected(t *testing.T) {
	s := newTestServer(t)

	body, ctype := multipartCSV(t, "Month,UnitName,UnitsConsumed\nMarch,Server Room,900\n")
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", ctype)
	rec := do(s, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("POST /upload = %d, want 422", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Cost") {
		t.Error("error partial should name the missing column")
	}
}

func TestSessionReset(t *testing.T) {
	s := newTestServer(t)
	rec := do(s, httptest.NewRequest(http.MethodPost, "/session/reset", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("POST /session/reset = %d, want 200", rec.Code)
	}
	if trigger := rec.Header().Get("HX-Trigger"); !strings.Contains(trigger, "session:reset") {
		t.Errorf("HX-Trigger = %q, want session:reset", trigger)
	}
}

func TestExportCSV(t *testing.T) {
	s := newTestServer(t)
	rec := do(s, httptest.NewRequest(http.MethodGet, "/export/csv", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("GET /export/csv = %d, want 200", rec.Code)
	}
	cd := rec.Header().Get("Content-Disposition")
	if !strings.Contains(cd, "electricity_consumption_") || !strings.HasSuffix(cd, `.csv"`) {
		t.Errorf("Content-Disposition = %q", cd)
	}
	if !strings.HasPrefix(rec.Body.String(), "Month,UnitName,UnitsConsumed,Cost") {
		t.Error("CSV export missing canonical header")
	}
}

func TestExportReport(t *testing.T) {
	s := newTestServer(t)
	rec := do(s, httptest.NewRequest(http.MethodGet, "/export/report", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("GET /export/report = %d, want 200", rec.Code)
	}
	cd := rec.Header().Get("Content-Disposition")
	if !strings.Contains(cd, "electricity_summary_") || !strings.HasSuffix(cd, `.txt"`) {
		t.Errorf("Content-Disposition = %q", cd)
	}
	if !strings.Contains(rec.Body.String(), "ELECTRICITY CONSUMPTION SUMMARY REPORT") {
		t.Error("report export missing header line")
	}
}

func TestExportSheetsUnconfigured(t *testing.T) {
	s := newTestServer(t)
	rec := do(s, httptest.NewRequest(http.MethodPost, "/export/sheets", nil))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("POST /export/sheets without exporter = %d, want 400", rec.Code)
	}
}
