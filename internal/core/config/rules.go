package config

import (
	"log/slog"
	"slices"
	"time"

	"github.com/vietddude/echoscribe/internal/core/retry"
	"github.com/vietddude/echoscribe/internal/core/validate"
)

// Rules is the credential rule table checked at startup.
func Rules() []validate.Rule {
	return []validate.Rule{
		{
			Key:          "OPENAI_API_KEY",
			Required:     true,
			Validator:    validate.HasPrefix("sk-"),
			Description:  "OpenAI API key for AI transcription and analysis (get from https://platform.openai.com/api-keys)",
			ErrorMessage: `OPENAI_API_KEY must start with "sk-". Get your API key from https://platform.openai.com/api-keys`,
		},
		{
			Key:          "HUGGINGFACE_API_KEY",
			Validator:    validate.LongerThan(10),
			Description:  "Hugging Face API key for sentiment analysis features (get from https://huggingface.co/settings/tokens)",
			ErrorMessage: "HUGGINGFACE_API_KEY appears to be invalid. Get your API key from https://huggingface.co/settings/tokens",
		},
		{
			Key:          "REDIS_URL",
			Validator:    validate.HasAnyPrefix("redis://", "rediss://"),
			Description:  "Redis URL for caching (improves performance)",
			ErrorMessage: `REDIS_URL must start with "redis://"`,
		},
		{
			Key:          "SENTRY_DSN",
			Validator:    validate.IsURL("https"),
			Description:  "Sentry DSN for error tracking",
			ErrorMessage: "SENTRY_DSN must be a valid HTTPS URL",
		},
	}
}

// Checks is the ordered list of cross-field checks.
func Checks() []validate.Check[*Settings] {
	return []validate.Check[*Settings]{
		{
			Message: "ENVIRONMENT must be one of: development, staging, production",
			OK: func(s *Settings) bool {
				return slices.Contains([]string{"development", "staging", "production"}, s.Environment)
			},
		},
		{
			Message: "PORT must be between 1 and 65535",
			OK:      func(s *Settings) bool { return s.Server.Port >= 1 && s.Server.Port <= 65535 },
		},
		{
			Message: "WORKERS must be at least 1",
			OK:      func(s *Settings) bool { return s.Server.Workers >= 1 },
		},
		{
			Message: "OPENAI_TEMPERATURE must be between 0.0 and 2.0",
			OK:      func(s *Settings) bool { return s.OpenAI.Temperature >= 0.0 && s.OpenAI.Temperature <= 2.0 },
		},
		{
			Message: "OPENAI_MAX_TOKENS must be greater than 0",
			OK:      func(s *Settings) bool { return s.OpenAI.MaxTokens > 0 },
		},
		{
			Message: "OPENAI_TIMEOUT must be greater than 0",
			OK:      func(s *Settings) bool { return s.OpenAI.Timeout > 0 },
		},
		{
			Message: "SENTIMENT_THRESHOLD must be between 0.0 and 1.0",
			OK: func(s *Settings) bool {
				return s.Analysis.SentimentThreshold >= 0.0 && s.Analysis.SentimentThreshold <= 1.0
			},
		},
		{
			Message: "SUMMARY_MIN_LENGTH must be less than SUMMARY_MAX_LENGTH",
			OK:      func(s *Settings) bool { return s.Analysis.SummaryMinLength < s.Analysis.SummaryMaxLength },
		},
		{
			Message: "OPENAI_MAX_RETRIES must be at least 1",
			OK:      func(s *Settings) bool { return s.OpenAI.MaxRetries >= 1 },
		},
		{
			Message: "LOG_LEVEL must be one of: debug, info, warn, error",
			OK: func(s *Settings) bool {
				return slices.Contains([]string{"debug", "info", "warn", "error"}, s.Logging.Level)
			},
		},
		{
			Message: "STARTUP_POLICY must be one of: abort, continue",
			OK: func(s *Settings) bool {
				return s.StartupPolicy == PolicyAbort || s.StartupPolicy == PolicyContinue
			},
		},
		{
			Message: `MAX_AUDIO_SIZE must be a size such as "50MB", "1GB" or a byte count`,
			OK: func(s *Settings) bool {
				_, err := s.MaxAudioSizeBytes()
				return err == nil
			},
		},
	}
}

// NewValidator returns the startup validator for Settings.
func NewValidator(log *slog.Logger) *validate.Validator[*Settings] {
	return validate.New(Rules(), Checks(), log)
}

// OpenAIPolicy is the retry policy for OpenAI backed operations.
func (s *Settings) OpenAIPolicy() retry.Policy {
	return retry.Policy{
		MaxAttempts: max(s.OpenAI.MaxRetries, 1),
		BaseDelay:   time.Duration(s.OpenAI.RetryDelay) * time.Second,
		Multiplier:  retry.DefaultMultiplier,
	}
}

// HuggingFacePolicy is the retry policy for Hugging Face backed operations.
func (s *Settings) HuggingFacePolicy() retry.Policy {
	return retry.Policy{
		MaxAttempts: max(s.HuggingFace.MaxRetries, 1),
		BaseDelay:   time.Duration(s.OpenAI.RetryDelay) * time.Second,
		Multiplier:  retry.DefaultMultiplier,
	}
}

// AbortOnInvalid reports whether a failed validation must stop startup.
func (s *Settings) AbortOnInvalid() bool {
	return s.StartupPolicy != PolicyContinue
}
