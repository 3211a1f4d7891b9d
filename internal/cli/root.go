package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
	"github.com/vietddude/stylelog"

	"github.com/vietddude/echoscribe/internal/control"
	"github.com/vietddude/echoscribe/internal/core/config"
)

var (
	cfgPath string
	envFile string
	isDebug bool
)

var rootCmd = &cobra.Command{
	Use:   "echoscribe",
	Short: "EchoScribe AI services",
	Long:  `EchoScribe serves meeting transcription and analysis over HTTP.`,
	Run:   runServe,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "optional YAML config file")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before the environment is read")
	rootCmd.PersistentFlags().BoolVar(&isDebug, "debug", false, "enable debug logging")
}

// loadSettings loads the dotenv file and the configuration, then installs the
// logger at the configured level.
func loadSettings() (*config.Settings, error) {
	// A missing .env file is fine; the process environment still applies.
	_ = godotenv.Load(envFile)

	cfg, err := config.Load(cfgPath)
	if err != nil {
		stylelog.InitDefault()
		return nil, err
	}

	stylelog.InitDefault(&tint.Options{
		Level:      logLevel(cfg.Logging.Level, isDebug),
		TimeFormat: time.RFC3339,
	})
	return cfg, nil
}

func logLevel(level string, debug bool) slog.Level {
	if debug {
		return slog.LevelDebug
	}
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// checkStartup validates cfg and applies the startup policy. It returns an
// error only when startup must be aborted.
func checkStartup(cfg *config.Settings, log *slog.Logger) error {
	validator := config.NewValidator(log)
	if !cfg.AbortOnInvalid() {
		if result := validator.Validate(cfg); !result.Success {
			log.Warn("Starting with invalid configuration", "policy", cfg.StartupPolicy)
		}
		return nil
	}
	if _, err := validator.RequireValid(cfg); err != nil {
		return fmt.Errorf("startup aborted: %w", err)
	}
	return nil
}

func runServe(cmd *cobra.Command, args []string) {
	cfg, err := loadSettings()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	slog.Info("Starting EchoScribe AI services",
		"environment", cfg.Environment,
		"debug", cfg.Debug,
		"policy", cfg.StartupPolicy,
	)

	if err := checkStartup(cfg, slog.Default()); err != nil {
		slog.Error("Configuration is invalid", "error", err)
		os.Exit(1)
	}

	app, err := control.NewApp(cfg, slog.Default())
	if err != nil {
		slog.Error("Failed to initialize service", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	slog.Info("Service started", "addr", app.Addr())

	if err := app.Run(ctx); err != nil {
		slog.Error("Service stopped with error", "error", err)
		os.Exit(1)
	}
	slog.Info("Service stopped")
}
