package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/vietddude/echoscribe/internal/ai"
	"github.com/vietddude/echoscribe/internal/core/config"
	"github.com/vietddude/echoscribe/internal/core/domain"
	"github.com/vietddude/echoscribe/internal/core/retry"
	"github.com/vietddude/echoscribe/internal/health"
)

// maxBodyBytes caps JSON request bodies. Audio is referenced by URL, never uploaded.
const maxBodyBytes = 1 << 20

type errorResponse struct {
	Detail string `json:"detail"`
}

// =============================================================================
// Health
// =============================================================================

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "EchoScribe AI Services",
		"version": Version,
		"status":  "running",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	report := s.monitor.CheckHealth(r.Context())

	code := http.StatusOK
	if report.SystemStatus == health.StatusCritical {
		code = http.StatusServiceUnavailable
	}

	writeJSON(w, code, map[string]any{
		"status":      report.SystemStatus,
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
		"version":     Version,
		"environment": report.Environment,
		"services": map[string]bool{
			"openai":      s.cfg.OpenAI.APIKey != "",
			"huggingface": s.cfg.HuggingFace.APIKey != "",
		},
	})
}

type detailedResponse struct {
	health.HealthReport
	Info    config.EnvironmentInfo       `json:"environment_info"`
	APIKeys map[string]config.KeyStatus `json:"api_keys"`
}

func (s *Server) handleDetailed(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, detailedResponse{
		HealthReport: s.monitor.CheckHealth(r.Context()),
		Info:         s.cfg.Info(),
		APIKeys:      s.cfg.APIKeyStatus(),
	})
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.monitor.CheckHealth(r.Context()).Config)
}

// =============================================================================
// Analysis
// =============================================================================

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	serveAnalysis(s, w, r, s.analyzer.Analyze)
}

func (s *Server) handleSentiment(w http.ResponseWriter, r *http.Request) {
	serveAnalysis(s, w, r, s.analyzer.Sentiment)
}

func (s *Server) handleActionItems(w http.ResponseWriter, r *http.Request) {
	serveAnalysis(s, w, r, s.analyzer.ActionItems)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	serveAnalysis(s, w, r, s.analyzer.Summary)
}

func serveAnalysis[T any](
	s *Server,
	w http.ResponseWriter,
	r *http.Request,
	op func(ctx context.Context, req domain.AnalysisRequest) (T, error),
) {
	var req domain.AnalysisRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	result, err := op(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// =============================================================================
// Transcription
// =============================================================================

func (s *Server) handleTranscribe(w http.ResponseWriter, r *http.Request) {
	var req domain.TranscriptionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	resp, err := s.analyzer.Transcribe(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleTranscriptionStatus(w http.ResponseWriter, r *http.Request) {
	status, err := s.analyzer.TranscriptionStatus(r.PathValue("job_id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

type modelInfo struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Languages   []string `json:"languages"`
	MaxFileSize string   `json:"max_file_size"`
}

func (s *Server) handleModels(w http.ResponseWriter, r *http.Request) {
	model := s.cfg.OpenAI.WhisperModel
	writeJSON(w, http.StatusOK, map[string]any{
		"models": []modelInfo{{
			ID:          model,
			Name:        "Whisper",
			Description: "OpenAI Whisper model for speech recognition",
			Languages:   []string{"en", "es", "fr", "de", "it", "pt", "ru", "ja", "ko", "zh"},
			MaxFileSize: s.cfg.Audio.MaxSize,
		}},
		"default_model":     model,
		"supported_formats": s.cfg.SupportedAudioFormatsList(),
	})
}

// =============================================================================
// Helpers
// =============================================================================

func decodeJSON(w http.ResponseWriter, r *http.Request, dest any) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dest); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: request body is required", ai.ErrInvalidInput)
		}
		return fmt.Errorf("%w: malformed request body: %v", ai.ErrInvalidInput, err)
	}
	return nil
}

// statusFor maps an operation error to an HTTP status code.
func statusFor(err error) int {
	switch {
	case errors.Is(err, ai.ErrInvalidInput):
		return http.StatusBadRequest
	case retry.IsCancelled(err), errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case retry.IsRetryExhausted(err):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := statusFor(err)
	if code >= http.StatusInternalServerError {
		s.log.Error("Request failed", "method", r.Method, "path", r.URL.Path, "status", code, "error", err)
	} else {
		s.log.Debug("Rejected request", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	writeJSON(w, code, errorResponse{Detail: err.Error()})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
