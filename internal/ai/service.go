package ai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"path"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vietddude/echoscribe/internal/core/config"
	"github.com/vietddude/echoscribe/internal/core/domain"
	"github.com/vietddude/echoscribe/internal/core/retry"
	"github.com/vietddude/echoscribe/internal/metrics"
)

// MinTextLength is the shortest transcript accepted for analysis.
const MinTextLength = 10

// ErrInvalidInput marks request problems the caller must fix.
var ErrInvalidInput = errors.New("invalid input")

// ResultCache stores finished results keyed by operation and input.
type ResultCache interface {
	GetResult(ctx context.Context, kind, input string, dest any) (bool, error)
	SetResult(ctx context.Context, kind, input string, value any) error
}

// Service runs meeting-analysis operations against a Backend.
type Service struct {
	cfg     *config.Settings
	backend Backend
	exec    *retry.Executor
	cache   ResultCache // nil disables caching
	log     *slog.Logger
}

// NewService creates a Service. cache may be nil.
func NewService(
	cfg *config.Settings,
	backend Backend,
	exec *retry.Executor,
	cache ResultCache,
	log *slog.Logger,
) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		cfg:     cfg,
		backend: backend,
		exec:    exec,
		cache:   cache,
		log:     log.With("component", "ai"),
	}
}

// ValidateText rejects transcripts that are empty or shorter than minLength after trimming.
func ValidateText(text string, minLength int) error {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return fmt.Errorf("%w: text input is required", ErrInvalidInput)
	}
	if len(trimmed) < minLength {
		return fmt.Errorf("%w: text must be at least %d characters long", ErrInvalidInput, minLength)
	}
	return nil
}

// Analyze dispatches on req.AnalysisType and wraps the result generically.
func (s *Service) Analyze(ctx context.Context, req domain.AnalysisRequest) (domain.AnalysisResponse, error) {
	if err := ValidateText(req.Text, MinTextLength); err != nil {
		return domain.AnalysisResponse{}, err
	}
	if req.AnalysisType == "" {
		req.AnalysisType = domain.AnalysisSummary
	}

	s.log.Info("Analyzing meeting", "meeting_id", req.MeetingID, "type", req.AnalysisType)

	resp := domain.AnalysisResponse{
		ID:           uuid.NewString(),
		MeetingID:    req.MeetingID,
		AnalysisType: req.AnalysisType,
		Result: map[string]any{
			"text_length": len(req.Text),
		},
	}

	switch req.AnalysisType {
	case domain.AnalysisSummary:
		r, err := s.Summary(ctx, req)
		if err != nil {
			return domain.AnalysisResponse{}, err
		}
		resp.Result["summary"] = r
		resp.ConfidenceScore = r.ConfidenceScore
	case domain.AnalysisSentiment:
		r, err := s.Sentiment(ctx, req)
		if err != nil {
			return domain.AnalysisResponse{}, err
		}
		resp.Result["sentiment"] = r
		resp.ConfidenceScore = r.ConfidenceScore
	case domain.AnalysisActionItems:
		r, err := s.ActionItems(ctx, req)
		if err != nil {
			return domain.AnalysisResponse{}, err
		}
		resp.Result["action_items"] = r
		resp.ConfidenceScore = s.cfg.Analysis.ActionItemConfidence
	default:
		return domain.AnalysisResponse{}, fmt.Errorf("%w: unknown analysis type %q", ErrInvalidInput, req.AnalysisType)
	}

	return resp, nil
}

// Sentiment analyzes the sentiment of a transcript.
func (s *Service) Sentiment(ctx context.Context, req domain.AnalysisRequest) (domain.SentimentResult, error) {
	if err := ValidateText(req.Text, MinTextLength); err != nil {
		return domain.SentimentResult{}, err
	}
	return cached(ctx, s, "sentiment", req.Text, func(ctx context.Context) (domain.SentimentResult, error) {
		return retry.Execute(ctx, s.exec, "huggingface.sentiment", s.cfg.HuggingFacePolicy(),
			attemptTimeout(s.cfg.HuggingFace.Timeout, func(ctx context.Context) (domain.SentimentResult, error) {
				return s.backend.Sentiment(ctx, req.Text)
			}))
	})
}

// ActionItems extracts follow-ups from a transcript.
func (s *Service) ActionItems(ctx context.Context, req domain.AnalysisRequest) (domain.ActionItemsResult, error) {
	if err := ValidateText(req.Text, MinTextLength); err != nil {
		return domain.ActionItemsResult{}, err
	}
	return cached(ctx, s, "action_items", req.Text, func(ctx context.Context) (domain.ActionItemsResult, error) {
		return retry.Execute(ctx, s.exec, "openai.action_items", s.cfg.OpenAIPolicy(),
			attemptTimeout(s.cfg.OpenAI.Timeout, func(ctx context.Context) (domain.ActionItemsResult, error) {
				return s.backend.ActionItems(ctx, req.Text)
			}))
	})
}

// Summary summarizes a transcript.
func (s *Service) Summary(ctx context.Context, req domain.AnalysisRequest) (domain.SummaryResult, error) {
	if err := ValidateText(req.Text, MinTextLength); err != nil {
		return domain.SummaryResult{}, err
	}
	return cached(ctx, s, "summary", req.MeetingID+"\x00"+req.Text, func(ctx context.Context) (domain.SummaryResult, error) {
		return retry.Execute(ctx, s.exec, "openai.summary", s.cfg.OpenAIPolicy(),
			attemptTimeout(s.cfg.OpenAI.Timeout, func(ctx context.Context) (domain.SummaryResult, error) {
				return s.backend.Summary(ctx, req.MeetingID, req.Text)
			}))
	})
}

// Transcribe transcribes the referenced audio.
func (s *Service) Transcribe(
	ctx context.Context,
	req domain.TranscriptionRequest,
) (domain.TranscriptionResponse, error) {
	if err := s.validateAudio(&req); err != nil {
		return domain.TranscriptionResponse{}, err
	}

	s.log.Info("Transcribing audio", "meeting_id", req.MeetingID, "model", req.Model)

	resp, err := retry.Execute(ctx, s.exec, "openai.transcribe", s.cfg.OpenAIPolicy(),
		attemptTimeout(s.cfg.OpenAI.Timeout, func(ctx context.Context) (domain.TranscriptionResponse, error) {
			return s.backend.Transcribe(ctx, req)
		}))
	if err != nil {
		return domain.TranscriptionResponse{}, err
	}
	resp.JobID = uuid.NewString()
	return resp, nil
}

// TranscriptionStatus reports the state of a transcription job. Jobs complete
// synchronously, so every well-formed id is reported as completed.
func (s *Service) TranscriptionStatus(jobID string) (domain.TranscriptionStatus, error) {
	if _, err := uuid.Parse(jobID); err != nil {
		return domain.TranscriptionStatus{}, fmt.Errorf("%w: job id %q is not a valid id", ErrInvalidInput, jobID)
	}
	return domain.TranscriptionStatus{
		JobID:    jobID,
		Status:   domain.JobCompleted,
		Progress: 100.0,
	}, nil
}

func (s *Service) validateAudio(req *domain.TranscriptionRequest) error {
	if req.AudioURL == "" {
		return fmt.Errorf("%w: audio URL is required", ErrInvalidInput)
	}
	if req.Language == "" {
		req.Language = "en"
	}
	if req.Model == "" {
		req.Model = s.cfg.OpenAI.WhisperModel
	}
	if req.Format == "" {
		if u, err := url.Parse(req.AudioURL); err == nil {
			req.Format = strings.TrimPrefix(path.Ext(u.Path), ".")
		}
	}

	if req.Format != "" && !slices.Contains(s.cfg.SupportedAudioFormatsList(), strings.ToLower(req.Format)) {
		return fmt.Errorf("%w: unsupported audio format %q", ErrInvalidInput, req.Format)
	}

	limit, err := s.cfg.MaxAudioSizeBytes()
	if err != nil {
		return fmt.Errorf("audio size limit: %w", err)
	}
	if req.SizeBytes > limit {
		return fmt.Errorf("%w: file size exceeds %s limit", ErrInvalidInput, s.cfg.Audio.MaxSize)
	}
	return nil
}

// attemptTimeout bounds each attempt by seconds (no bound when seconds <= 0).
func attemptTimeout[T any](seconds int, fn func(ctx context.Context) (T, error)) func(ctx context.Context) (T, error) {
	if seconds <= 0 {
		return fn
	}
	return func(ctx context.Context) (T, error) {
		ctx, cancel := context.WithTimeout(ctx, time.Duration(seconds)*time.Second)
		defer cancel()
		return fn(ctx)
	}
}

// cached serves kind/input from the result cache, computing and storing it on a miss.
// Cache failures are logged and never fail the operation.
func cached[T any](
	ctx context.Context,
	s *Service,
	kind, input string,
	compute func(ctx context.Context) (T, error),
) (T, error) {
	if s.cache == nil || !s.cfg.Redis.Enabled {
		return compute(ctx)
	}

	var result T
	found, err := s.cache.GetResult(ctx, kind, input, &result)
	switch {
	case err != nil:
		metrics.CacheRequestsTotal.WithLabelValues("error").Inc()
		s.log.Warn("Result cache lookup failed", "kind", kind, "error", err)
	case found:
		metrics.CacheRequestsTotal.WithLabelValues("hit").Inc()
		return result, nil
	default:
		metrics.CacheRequestsTotal.WithLabelValues("miss").Inc()
	}

	result, err = compute(ctx)
	if err != nil {
		return result, err
	}
	if err := s.cache.SetResult(ctx, kind, input, result); err != nil {
		s.log.Warn("Failed to cache result", "kind", kind, "error", err)
	}
	return result, nil
}
