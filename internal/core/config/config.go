package config

import (
	"fmt"
	"strconv"
	"strings"

	redisclient "github.com/vietddude/echoscribe/internal/infra/redis"
)

// Startup policies applied when validation fails.
const (
	PolicyAbort    = "abort"
	PolicyContinue = "continue"
)

// Settings is the configuration snapshot. It is built once by Load and shared
// read-only afterwards.
type Settings struct {
	Environment   string `yaml:"environment"    env:"ENVIRONMENT"`
	Debug         bool   `yaml:"debug"          env:"DEBUG"`
	StartupPolicy string `yaml:"startup_policy" env:"STARTUP_POLICY"` // abort, continue

	OpenAI      OpenAIConfig       `yaml:"openai"`
	HuggingFace HuggingFaceConfig  `yaml:"huggingface"`
	Server      ServerConfig       `yaml:"server"`
	Logging     LoggingConfig      `yaml:"logging"`
	Audio       AudioConfig        `yaml:"audio"`
	Analysis    AnalysisConfig     `yaml:"analysis"`
	Redis       redisclient.Config `yaml:"redis"`
	Monitoring  MonitoringConfig   `yaml:"monitoring"`
}

// OpenAIConfig holds the transcription and analysis backend settings.
type OpenAIConfig struct {
	APIKey       string  `yaml:"api_key"       env:"OPENAI_API_KEY"`
	Model        string  `yaml:"model"         env:"OPENAI_MODEL"`
	WhisperModel string  `yaml:"whisper_model" env:"OPENAI_WHISPER_MODEL"`
	MaxTokens    int     `yaml:"max_tokens"    env:"OPENAI_MAX_TOKENS"`
	Temperature  float64 `yaml:"temperature"   env:"OPENAI_TEMPERATURE"`
	Timeout      int     `yaml:"timeout"       env:"OPENAI_TIMEOUT"`     // seconds
	MaxRetries   int     `yaml:"max_retries"   env:"OPENAI_MAX_RETRIES"` // attempts
	RetryDelay   int     `yaml:"retry_delay"   env:"OPENAI_RETRY_DELAY"` // seconds
	Mock         bool    `yaml:"mock"          env:"MOCK_OPENAI"`
}

// HuggingFaceConfig holds the sentiment backend settings.
type HuggingFaceConfig struct {
	APIKey         string `yaml:"api_key"         env:"HUGGINGFACE_API_KEY"`
	SentimentModel string `yaml:"sentiment_model" env:"HF_SENTIMENT_MODEL"`
	CacheDir       string `yaml:"cache_dir"       env:"HF_CACHE_DIR"`
	Timeout        int    `yaml:"timeout"         env:"HF_TIMEOUT"`
	MaxRetries     int    `yaml:"max_retries"     env:"HF_MAX_RETRIES"`
	UseAuthToken   bool   `yaml:"use_auth_token"  env:"HF_USE_AUTH_TOKEN"`
	Mock           bool   `yaml:"mock"            env:"MOCK_HUGGINGFACE"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string `yaml:"host"             env:"HOST"`
	Port            int    `yaml:"port"             env:"PORT"`
	Workers         int    `yaml:"workers"          env:"WORKERS"`
	RequestTimeout  int    `yaml:"request_timeout"  env:"REQUEST_TIMEOUT"` // seconds
	CORSOrigins     string `yaml:"cors_origins"     env:"CORS_ORIGINS"`
	CORSCredentials bool   `yaml:"cors_credentials" env:"CORS_CREDENTIALS"`
	CORSMethods     string `yaml:"cors_methods"     env:"CORS_METHODS"`
	CORSHeaders     string `yaml:"cors_headers"     env:"CORS_HEADERS"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level" env:"LOG_LEVEL"` // debug, info, warn, error
}

// AudioConfig holds upload limits for transcription.
type AudioConfig struct {
	MaxSize          string `yaml:"max_size"          env:"MAX_AUDIO_SIZE"` // e.g. 50MB
	SupportedFormats string `yaml:"supported_formats" env:"SUPPORTED_AUDIO_FORMATS"`
	SampleRate       int    `yaml:"sample_rate"       env:"AUDIO_SAMPLE_RATE"`
}

// AnalysisConfig holds thresholds for meeting analysis.
type AnalysisConfig struct {
	SentimentThreshold     float64 `yaml:"sentiment_threshold"      env:"SENTIMENT_THRESHOLD"`
	SummaryMaxLength       int     `yaml:"summary_max_length"       env:"SUMMARY_MAX_LENGTH"`
	SummaryMinLength       int     `yaml:"summary_min_length"       env:"SUMMARY_MIN_LENGTH"`
	ActionItemConfidence   float64 `yaml:"action_item_confidence"   env:"ACTION_ITEM_CONFIDENCE"`
	KeywordExtractionLimit int     `yaml:"keyword_extraction_limit" env:"KEYWORD_EXTRACTION_LIMIT"`
}

// MonitoringConfig holds error tracking settings.
type MonitoringConfig struct {
	SentryDSN         string `yaml:"sentry_dsn"         env:"SENTRY_DSN"`
	SentryEnvironment string `yaml:"sentry_environment" env:"SENTRY_ENVIRONMENT"`
	EnableMetrics     bool   `yaml:"enable_metrics"     env:"ENABLE_METRICS"`
	HealthInterval    int    `yaml:"health_interval"    env:"HEALTH_CHECK_INTERVAL"` // seconds between full checks
}

// Default returns the settings used when nothing overrides them.
func Default() *Settings {
	return &Settings{
		Environment:   "development",
		Debug:         true,
		StartupPolicy: PolicyAbort,
		OpenAI: OpenAIConfig{
			Model:        "gpt-4",
			WhisperModel: "whisper-1",
			MaxTokens:    2000,
			Temperature:  0.7,
			Timeout:      60,
			MaxRetries:   3,
			RetryDelay:   1,
		},
		HuggingFace: HuggingFaceConfig{
			SentimentModel: "cardiffnlp/twitter-roberta-base-sentiment-latest",
			CacheDir:       "./models",
			Timeout:        30,
			MaxRetries:     3,
			UseAuthToken:   true,
		},
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8001,
			Workers:         1,
			RequestTimeout:  300,
			CORSOrigins:     "http://localhost:3000,http://localhost:5173",
			CORSCredentials: true,
			CORSMethods:     "GET,POST,PUT,DELETE,OPTIONS",
			CORSHeaders:     "Content-Type,Authorization,X-Requested-With",
		},
		Logging: LoggingConfig{Level: "info"},
		Audio: AudioConfig{
			MaxSize:          "50MB",
			SupportedFormats: "mp3,wav,mp4,webm,ogg,flac,m4a",
			SampleRate:       16000,
		},
		Analysis: AnalysisConfig{
			SentimentThreshold:     0.7,
			SummaryMaxLength:       500,
			SummaryMinLength:       100,
			ActionItemConfidence:   0.8,
			KeywordExtractionLimit: 20,
		},
		Redis: redisclient.Config{
			TTLSeconds: 3600,
			Prefix:     "ai_services:",
			Enabled:    true,
		},
		Monitoring: MonitoringConfig{
			EnableMetrics:  true,
			HealthInterval: 30,
		},
	}
}

// CORSOriginsList splits CORSOrigins.
func (s *Settings) CORSOriginsList() []string {
	return splitList(s.Server.CORSOrigins)
}

// SupportedAudioFormatsList splits SupportedFormats.
func (s *Settings) SupportedAudioFormatsList() []string {
	return splitList(s.Audio.SupportedFormats)
}

// MaxAudioSizeBytes parses MaxSize ("50MB", "1GB" or plain bytes).
func (s *Settings) MaxAudioSizeBytes() (int64, error) {
	return ParseSize(s.Audio.MaxSize)
}

// ParseSize parses a size with an optional MB or GB suffix.
func ParseSize(size string) (int64, error) {
	str := strings.ToUpper(strings.TrimSpace(size))
	mult := int64(1)
	switch {
	case strings.HasSuffix(str, "GB"):
		mult = 1024 * 1024 * 1024
		str = strings.TrimSuffix(str, "GB")
	case strings.HasSuffix(str, "MB"):
		mult = 1024 * 1024
		str = strings.TrimSuffix(str, "MB")
	}
	n, err := strconv.ParseInt(strings.TrimSpace(str), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size %q: %w", size, err)
	}
	if n < 0 {
		return 0, fmt.Errorf("invalid size %q: negative", size)
	}
	return n * mult, nil
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
