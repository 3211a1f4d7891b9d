package config

import (
	"io"
	"log/slog"
	"slices"
	"strings"
	"testing"
	"time"
)

func quietValidator() func(*Settings) []string {
	v := NewValidator(slog.New(slog.NewTextHandler(io.Discard, nil)))
	return func(s *Settings) []string {
		return v.Validate(s).Errors
	}
}

func validSettings() *Settings {
	cfg := Default()
	cfg.OpenAI.APIKey = "sk-test-key"
	return cfg
}

func TestValidator_DefaultsWithKeyAreValid(t *testing.T) {
	v := NewValidator(slog.New(slog.NewTextHandler(io.Discard, nil)))
	result := v.Validate(validSettings())

	if !result.Success {
		t.Fatalf("expected success, got %+v", result)
	}
	if len(result.MissingOptional) != 3 {
		t.Errorf("expected 3 missing optional keys, got %v", result.MissingOptional)
	}
}

func TestValidator_MissingAPIKeyWithValidCache(t *testing.T) {
	v := NewValidator(slog.New(slog.NewTextHandler(io.Discard, nil)))
	cfg := Default()
	cfg.Redis.URL = "redis://x"
	cfg.HuggingFace.APIKey = "hf_0123456789abcdef"
	cfg.Monitoring.SentryDSN = "https://key@sentry.io/1"

	result := v.Validate(cfg)

	if result.Success {
		t.Error("expected failure")
	}
	if len(result.MissingRequired) != 1 || !strings.HasPrefix(result.MissingRequired[0], "OPENAI_API_KEY: ") {
		t.Errorf("unexpected missing required: %v", result.MissingRequired)
	}
	if len(result.MissingOptional) != 0 {
		t.Errorf("expected no missing optional, got %v", result.MissingOptional)
	}
	if len(result.Errors) != 0 {
		t.Errorf("expected no errors, got %v", result.Errors)
	}
}

func TestChecks(t *testing.T) {
	errorsFor := quietValidator()

	tests := []struct {
		name   string
		mutate func(*Settings)
		want   string
	}{
		{"environment", func(s *Settings) { s.Environment = "qa" }, "ENVIRONMENT must be one of"},
		{"port high", func(s *Settings) { s.Server.Port = 70000 }, "PORT must be between"},
		{"port zero", func(s *Settings) { s.Server.Port = 0 }, "PORT must be between"},
		{"workers", func(s *Settings) { s.Server.Workers = 0 }, "WORKERS must be at least 1"},
		{"temperature", func(s *Settings) { s.OpenAI.Temperature = 2.5 }, "OPENAI_TEMPERATURE"},
		{"max tokens", func(s *Settings) { s.OpenAI.MaxTokens = 0 }, "OPENAI_MAX_TOKENS"},
		{"timeout", func(s *Settings) { s.OpenAI.Timeout = -1 }, "OPENAI_TIMEOUT"},
		{"sentiment", func(s *Settings) { s.Analysis.SentimentThreshold = 1.5 }, "SENTIMENT_THRESHOLD"},
		{"summary bounds", func(s *Settings) {
			s.Analysis.SummaryMinLength = 500
			s.Analysis.SummaryMaxLength = 100
		}, "SUMMARY_MIN_LENGTH must be less than SUMMARY_MAX_LENGTH"},
		{"retries", func(s *Settings) { s.OpenAI.MaxRetries = 0 }, "OPENAI_MAX_RETRIES"},
		{"log level", func(s *Settings) { s.Logging.Level = "trace" }, "LOG_LEVEL"},
		{"startup policy", func(s *Settings) { s.StartupPolicy = "ignore" }, "STARTUP_POLICY"},
		{"audio size", func(s *Settings) { s.Audio.MaxSize = "huge" }, "MAX_AUDIO_SIZE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validSettings()
			tt.mutate(cfg)
			errs := errorsFor(cfg)
			if len(errs) != 1 || !strings.Contains(errs[0], tt.want) {
				t.Errorf("errors = %v, want exactly one containing %q", errs, tt.want)
			}
		})
	}
}

func TestChecks_SummaryBoundsSwapped(t *testing.T) {
	errorsFor := quietValidator()
	cfg := validSettings()
	cfg.Analysis.SummaryMinLength = 100
	cfg.Analysis.SummaryMaxLength = 500

	if errs := errorsFor(cfg); len(errs) != 0 {
		t.Errorf("expected no errors, got %v", errs)
	}
}

func TestChecks_DeclarationOrder(t *testing.T) {
	errorsFor := quietValidator()
	cfg := validSettings()
	cfg.Analysis.SummaryMinLength = 900
	cfg.Environment = "qa"
	cfg.Server.Workers = 0

	errs := errorsFor(cfg)
	want := []string{
		"ENVIRONMENT must be one of: development, staging, production",
		"WORKERS must be at least 1",
		"SUMMARY_MIN_LENGTH must be less than SUMMARY_MAX_LENGTH",
	}
	if !slices.Equal(errs, want) {
		t.Errorf("errors = %v, want %v", errs, want)
	}
}

func TestRules_InvalidOptionalWarns(t *testing.T) {
	v := NewValidator(slog.New(slog.NewTextHandler(io.Discard, nil)))
	cfg := validSettings()
	cfg.Redis.URL = "http://cache"
	cfg.HuggingFace.APIKey = "short"

	result := v.Validate(cfg)
	if !result.Success {
		t.Errorf("expected success, got %+v", result)
	}
	if len(result.Warnings) != 2 {
		t.Errorf("expected 2 warnings, got %v", result.Warnings)
	}
}

func TestRequireValid_Settings(t *testing.T) {
	v := NewValidator(slog.New(slog.NewTextHandler(io.Discard, nil)))
	cfg := Default()
	cfg.OpenAI.APIKey = "bad-key"

	_, err := v.RequireValid(cfg)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), `OPENAI_API_KEY must start with "sk-"`) {
		t.Errorf("error does not name the failing key: %v", err)
	}

	cfg.OpenAI.APIKey = "sk-ok"
	got, err := v.RequireValid(cfg)
	if err != nil || got != cfg {
		t.Errorf("expected snapshot returned unchanged, got %v, %v", got, err)
	}
}

func TestPolicies(t *testing.T) {
	cfg := Default()
	cfg.OpenAI.MaxRetries = 4
	cfg.OpenAI.RetryDelay = 2

	p := cfg.OpenAIPolicy()
	if p.MaxAttempts != 4 || p.BaseDelay != 2*time.Second || p.Multiplier != 2.0 {
		t.Errorf("unexpected policy: %+v", p)
	}

	cfg.HuggingFace.MaxRetries = 0
	if cfg.HuggingFacePolicy().MaxAttempts != 1 {
		t.Error("expected at least one attempt")
	}
}

func TestAPIKeyStatus(t *testing.T) {
	cfg := Default()
	cfg.OpenAI.APIKey = "sk-abc"

	status := cfg.APIKeyStatus()
	if !status["openai"].Valid {
		t.Error("expected openai key valid")
	}
	hf := status["huggingface"]
	if hf.Valid || !strings.Contains(hf.Error, "HUGGINGFACE_API_KEY=your_api_key_here") {
		t.Errorf("expected help message, got %+v", hf)
	}
}
