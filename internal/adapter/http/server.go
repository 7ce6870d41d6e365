package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/couchcryptid/covid-county-map/internal/domain"
	"github.com/couchcryptid/covid-county-map/internal/view"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Content is everything the server renders. It is built once before the
// server starts and never modified.
type Content struct {
	Title     string
	Dashboard *view.Dashboard
	Table     *domain.Table
	// Geography is the raw county FeatureCollection.
	Geography []byte
}

// Server exposes the dashboard page, the figure JSON, and the health,
// readiness, and metrics endpoints.
type Server struct {
	httpServer *http.Server
	content    Content
	logger     *slog.Logger
}

// NewServer creates an HTTP server with the dashboard and operational routes.
func NewServer(addr string, ready sharedobs.ReadinessChecker, content Content, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	if content.Dashboard == nil {
		content.Dashboard = &view.Dashboard{Empty: true}
	}

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		content: content,
		logger:  logger,
	}

	mux.HandleFunc("GET /{$}", s.handlePage)
	mux.HandleFunc("GET /api/figures/map", s.handleMapFigure)
	mux.HandleFunc("GET /api/figures/demographics", s.handleDemographics)
	mux.HandleFunc("GET /api/counties", s.handleCounties)
	mux.HandleFunc("GET "+view.DefaultGeoJSONURL, s.handleGeography)

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(ready))
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	metric, err := metricParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, newPageData(s.content.Dashboard, s.title(), metric)); err != nil {
		s.logger.Error("render dashboard page", "error", err)
		writeError(w, http.StatusInternalServerError, errors.New("render dashboard page"))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes()) //nolint:errcheck // client went away
}

// handleMapFigure serves the map figure with the requested metric's layer
// pair visible.
func (s *Server) handleMapFigure(w http.ResponseWriter, r *http.Request) {
	d := s.content.Dashboard
	if d.Empty {
		writeError(w, http.StatusNotFound, domain.ErrEmptyDataset)
		return
	}
	metric, err := metricParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	sel, err := d.Map.Selector.Select(slices.Index(d.Map.Metrics, metric))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, d.Map.FigureFor(sel))
}

func (s *Server) handleDemographics(w http.ResponseWriter, _ *http.Request) {
	d := s.content.Dashboard
	if d.Empty {
		writeError(w, http.StatusNotFound, domain.ErrEmptyDataset)
		return
	}
	writeJSON(w, http.StatusOK, d.Charts)
}

func (s *Server) handleCounties(w http.ResponseWriter, _ *http.Request) {
	table := s.content.Table
	if table == nil {
		table = &domain.Table{Snapshot: s.content.Dashboard.Snapshot}
	}
	if table.Records == nil {
		// render [] rather than null
		t := *table
		t.Records = []domain.CountyRecord{}
		table = &t
	}
	writeJSON(w, http.StatusOK, table)
}

func (s *Server) handleGeography(w http.ResponseWriter, _ *http.Request) {
	if len(s.content.Geography) == 0 {
		writeError(w, http.StatusNotFound, domain.ErrMissingGeography)
		return
	}
	w.Header().Set("Content-Type", "application/geo+json")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.WriteHeader(http.StatusOK)
	w.Write(s.content.Geography) //nolint:errcheck // client went away
}

func (s *Server) title() string {
	if s.content.Title != "" {
		return s.content.Title
	}
	return "National COVID-19 Cases"
}

// metricParam reads the metric query parameter, defaulting to cases.
func metricParam(r *http.Request) (domain.Metric, error) {
	raw := r.URL.Query().Get("metric")
	if raw == "" {
		return domain.MetricCases, nil
	}
	return domain.ParseMetric(raw)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
