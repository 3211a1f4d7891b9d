// Package server exposes the analysis, transcription and health endpoints over HTTP.
package server

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vietddude/echoscribe/internal/core/config"
	"github.com/vietddude/echoscribe/internal/core/domain"
	"github.com/vietddude/echoscribe/internal/health"
)

// Version is reported by the root endpoint.
const Version = "1.0.0"

// Analyzer runs the meeting-analysis operations.
type Analyzer interface {
	Analyze(ctx context.Context, req domain.AnalysisRequest) (domain.AnalysisResponse, error)
	Sentiment(ctx context.Context, req domain.AnalysisRequest) (domain.SentimentResult, error)
	ActionItems(ctx context.Context, req domain.AnalysisRequest) (domain.ActionItemsResult, error)
	Summary(ctx context.Context, req domain.AnalysisRequest) (domain.SummaryResult, error)
	Transcribe(ctx context.Context, req domain.TranscriptionRequest) (domain.TranscriptionResponse, error)
	TranscriptionStatus(jobID string) (domain.TranscriptionStatus, error)
}

// HealthChecker produces health reports.
type HealthChecker interface {
	CheckHealth(ctx context.Context) health.HealthReport
}

// Server provides the HTTP API.
type Server struct {
	cfg      *config.Settings
	analyzer Analyzer
	monitor  HealthChecker
	log      *slog.Logger
	server   *http.Server
}

// New creates a new server listening on the configured host and port.
func New(cfg *config.Settings, analyzer Analyzer, monitor HealthChecker, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	s := &Server{
		cfg:      cfg,
		analyzer: analyzer,
		monitor:  monitor,
		log:      log.With("component", "server"),
	}
	s.server = &http.Server{
		Addr:              net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleRoot)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /health/detailed", s.handleDetailed)
	mux.HandleFunc("GET /health/config", s.handleConfig)
	if s.cfg.Monitoring.EnableMetrics {
		mux.Handle("GET /metrics", promhttp.Handler())
	}

	mux.HandleFunc("POST /api/analysis/analyze", s.handleAnalyze)
	mux.HandleFunc("POST /api/analysis/sentiment", s.handleSentiment)
	mux.HandleFunc("POST /api/analysis/action-items", s.handleActionItems)
	mux.HandleFunc("POST /api/analysis/summary", s.handleSummary)

	mux.HandleFunc("POST /api/transcription/transcribe", s.handleTranscribe)
	mux.HandleFunc("GET /api/transcription/status/{job_id}", s.handleTranscriptionStatus)
	mux.HandleFunc("GET /api/transcription/models", s.handleModels)

	return s.cors(s.timeout(mux))
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return s.server.Addr
}

// Start starts the HTTP server. It returns http.ErrServerClosed after Stop.
func (s *Server) Start() error {
	s.log.Info("HTTP server listening", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

// Stop gracefully stops the HTTP server.
func (s *Server) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// timeout bounds every request by REQUEST_TIMEOUT.
func (s *Server) timeout(next http.Handler) http.Handler {
	d := time.Duration(s.cfg.Server.RequestTimeout) * time.Second
	if d <= 0 {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), d)
		defer cancel()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// cors applies the configured CORS policy and answers preflight requests.
func (s *Server) cors(next http.Handler) http.Handler {
	origins := s.cfg.CORSOriginsList()
	methods := strings.Join(splitTrim(s.cfg.Server.CORSMethods), ", ")
	headers := strings.Join(splitTrim(s.cfg.Server.CORSHeaders), ", ")
	wildcard := slices.Contains(origins, "*")

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && (wildcard || slices.Contains(origins, origin)) {
			h := w.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Add("Vary", "Origin")
			if s.cfg.Server.CORSCredentials {
				h.Set("Access-Control-Allow-Credentials", "true")
			}
			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				h.Set("Access-Control-Allow-Methods", methods)
				h.Set("Access-Control-Allow-Headers", headers)
				w.WriteHeader(http.StatusNoContent)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

func splitTrim(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
