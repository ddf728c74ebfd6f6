package http

import (
	"context"
	"html/template"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"wattboard/internal/cache"
	applog "wattboard/internal/log"
	"wattboard/internal/source"
	appweb "wattboard/web"
)

// Server serves the dashboard: one page, HTMX partials, chart JSON and
// export downloads.
type Server struct {
	http.Server
	templates *template.Template
	logger    *applog.Logger

	ds       *Dataset
	exporter source.TableExporter
	currency string

	rateLimiter *rateLimiter
	fragments   *cache.Fragments[[]byte]

	shutdownOnce sync.Once
}

// NewServer configures routes and templates, returning a ready-to-run http.Server.
func NewServer(addr string, ds *Dataset, exporter source.TableExporter, currency string) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		logger:      applog.New(applog.ComponentHTTP, applog.Config{}),
		ds:          ds,
		exporter:    exporter,
		currency:    currency,
		rateLimiter: newRateLimiter(),
		fragments:   cache.New[[]byte](64, 5*time.Minute),
	}

	// Parse embedded templates at startup.
	t, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		s.logger.Warn("Failed parsing templates", applog.FieldError, err)
	}
	s.templates = t

	// Static assets (served from embedded FS)
	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("/static/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", "public, max-age=3600, immutable")
			static.ServeHTTP(w, r)
		}))
	} else {
		s.logger.Warn("Failed to mount embedded static FS", applog.FieldError, err)
	}

	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)

	mux.HandleFunc("/", s.withSecurityHeaders(s.handleIndex))
	mux.HandleFunc("/ui/kpis", s.withSecurityHeaders(s.handleKPIs))
	mux.HandleFunc("/ui/monthly-summary", s.withSecurityHeaders(s.handleMonthlySummary))
	mux.HandleFunc("/ui/department-summary", s.withSecurityHeaders(s.handleDepartmentSummary))
	mux.HandleFunc("/ui/records", s.withSecurityHeaders(s.handleRecords))

	mux.HandleFunc("/api/charts/monthly-units", s.withSecurityHeaders(s.handleChartMonthlyUnits))
	mux.HandleFunc("/api/charts/monthly-cost", s.withSecurityHeaders(s.handleChartMonthlyCost))
	mux.HandleFunc("/api/charts/department-units", s.withSecurityHeaders(s.handleChartDepartmentUnits))
	mux.HandleFunc("/api/charts/department-cost", s.withSecurityHeaders(s.handleChartDepartmentCost))

	mux.HandleFunc("/records", s.withSecurityHeaders(s.handleCreateRecord))
	mux.HandleFunc("/upload", s.withSecurityHeaders(s.handleUpload))
	mux.HandleFunc("/session/reset", s.withSecurityHeaders(s.handleSessionReset))

	mux.HandleFunc("/export/csv", s.withSecurityHeaders(s.handleExportCSV))
	mux.HandleFunc("/export/report", s.withSecurityHeaders(s.handleExportReport))
	mux.HandleFunc("/export/sheets", s.withSecurityHeaders(s.handleExportSheets))

	return s
}

// Shutdown gracefully shuts down the server and cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// withSecurityHeaders adds security headers, rate limiting, and request
// logging to responses.
func (s *Server) withSecurityHeaders(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		clientIP := extractClientIP(r)
		requestID := generateRequestID()

		ctx := context.WithValue(r.Context(), ctxKeyRequestID{}, requestID)
		r = r.WithContext(ctx)

		s.logger.InfoContext(ctx, "Request started",
			applog.FieldRequestID, requestID,
			applog.FieldMethod, r.Method,
			applog.FieldPath, r.URL.Path,
			applog.FieldClientIP, clientIP)

		// Mutating routes are rate limited per client
		if r.Method == http.MethodPost && !s.rateLimiter.allow(clientIP) {
			s.logger.WarnContext(ctx, "Rate limit exceeded",
				applog.FieldClientIP, clientIP,
				applog.FieldPath, r.URL.Path)
			w.Header().Set("Retry-After", "60")
			http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "default-src 'self'; script-src 'self' https://unpkg.com https://cdn.jsdelivr.net; style-src 'self' 'unsafe-inline'; img-src 'self' data:; connect-src 'self'")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		s.logger.InfoContext(ctx, "Request completed",
			applog.FieldRequestID, requestID,
			applog.FieldMethod, r.Method,
			applog.FieldPath, r.URL.Path,
			applog.FieldStatus, rw.statusCode,
			applog.FieldDuration, time.Since(start).Milliseconds(),
			applog.FieldClientIP, clientIP)
	}
}

type ctxKeyRequestID struct{}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if _, err := s.ds.Table(r.Context()); err != nil {
		s.logger.WarnContext(r.Context(), "Readiness check failed", applog.FieldError, err)
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("not ready"))
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if s.templates == nil {
		s.logger.ErrorContext(r.Context(), "Templates not loaded", applog.FieldPath, r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	data := struct {
		Months       []string
		SheetsExport bool
	}{
		Months:       monthOptions(),
		SheetsExport: s.exporter != nil,
	}
	if err := s.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		s.logger.ErrorContext(r.Context(), "Index template execution failed", applog.FieldError, err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
