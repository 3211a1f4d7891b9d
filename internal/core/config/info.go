package config

import (
	"fmt"
	"strings"

	"github.com/vietddude/echoscribe/internal/core/validate"
)

// EnvironmentInfo is a credential-free summary of the settings for diagnostics.
type EnvironmentInfo struct {
	Environment      string   `json:"environment"`
	Debug            bool     `json:"debug"`
	Port             int      `json:"port"`
	Workers          int      `json:"workers"`
	LogLevel         string   `json:"log_level"`
	StartupPolicy    string   `json:"startup_policy"`
	HasOpenAIKey     bool     `json:"has_openai_key"`
	HasHuggingFace   bool     `json:"has_huggingface_key"`
	HasRedisConfig   bool     `json:"has_redis_config"`
	HasSentryConfig  bool     `json:"has_sentry_config"`
	OpenAIModel      string   `json:"openai_model"`
	WhisperModel     string   `json:"whisper_model"`
	SentimentModel   string   `json:"sentiment_model"`
	CORSOrigins      []string `json:"cors_origins"`
	MaxAudioSize     string   `json:"max_audio_size"`
	SupportedFormats []string `json:"supported_formats"`
	EnableCaching    bool     `json:"enable_caching"`
	EnableMetrics    bool     `json:"enable_metrics"`
}

// Info summarizes s without exposing secrets.
func (s *Settings) Info() EnvironmentInfo {
	return EnvironmentInfo{
		Environment:      s.Environment,
		Debug:            s.Debug,
		Port:             s.Server.Port,
		Workers:          s.Server.Workers,
		LogLevel:         s.Logging.Level,
		StartupPolicy:    s.StartupPolicy,
		HasOpenAIKey:     s.OpenAI.APIKey != "",
		HasHuggingFace:   s.HuggingFace.APIKey != "",
		HasRedisConfig:   s.Redis.URL != "",
		HasSentryConfig:  s.Monitoring.SentryDSN != "",
		OpenAIModel:      s.OpenAI.Model,
		WhisperModel:     s.OpenAI.WhisperModel,
		SentimentModel:   s.HuggingFace.SentimentModel,
		CORSOrigins:      s.CORSOriginsList(),
		MaxAudioSize:     s.Audio.MaxSize,
		SupportedFormats: s.SupportedAudioFormatsList(),
		EnableCaching:    s.Redis.Enabled,
		EnableMetrics:    s.Monitoring.EnableMetrics,
	}
}

// KeyStatus reports whether one provider's API key is usable.
type KeyStatus struct {
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

// APIKeyStatus checks each provider key and explains how to fix a bad one.
func (s *Settings) APIKeyStatus() map[string]KeyStatus {
	status := make(map[string]KeyStatus, 2)

	switch {
	case s.OpenAI.APIKey == "":
		status["openai"] = KeyStatus{Error: MissingKeyHelp("OpenAI", "OPENAI_API_KEY", "https://platform.openai.com/api-keys")}
	case !strings.HasPrefix(s.OpenAI.APIKey, "sk-"):
		status["openai"] = KeyStatus{Error: `OPENAI_API_KEY must start with "sk-". Please check your API key format.`}
	default:
		status["openai"] = KeyStatus{Valid: true}
	}

	switch {
	case s.HuggingFace.APIKey == "":
		status["huggingface"] = KeyStatus{Error: MissingKeyHelp("Hugging Face", "HUGGINGFACE_API_KEY", "https://huggingface.co/settings/tokens")}
	case !validate.LongerThan(10)(s.HuggingFace.APIKey):
		status["huggingface"] = KeyStatus{Error: "HUGGINGFACE_API_KEY appears to be invalid. Please check your API key."}
	default:
		status["huggingface"] = KeyStatus{Valid: true}
	}

	return status
}

// MissingKeyHelp builds the operator message for an absent API key.
func MissingKeyHelp(service, keyName, getURL string) string {
	return fmt.Sprintf(`Missing API Key: %[2]s

The %[1]s service requires an API key to function properly.

To fix this:
1. Get your API key from: %[3]s
2. Add it to your .env file: %[2]s=your_api_key_here
3. Restart the application

Without this key, %[1]s features will not work.`, service, keyName, getURL)
}
