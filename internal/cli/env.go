package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vietddude/echoscribe/internal/core/config"
)

var envCmd = &cobra.Command{
	Use:   "env",
	Short: "Show the effective environment and API key status",
	Run:   runEnv,
}

func init() {
	rootCmd.AddCommand(envCmd)
}

func runEnv(cmd *cobra.Command, args []string) {
	cfg, err := loadSettings()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	if err := writeEnvInfo(os.Stdout, cfg); err != nil {
		slog.Error("Failed to write environment info", "error", err)
		os.Exit(1)
	}
}

func writeEnvInfo(out io.Writer, cfg *config.Settings) error {
	info := cfg.Info()

	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	rows := [][2]string{
		{"ENVIRONMENT", info.Environment},
		{"DEBUG", fmt.Sprint(info.Debug)},
		{"PORT", fmt.Sprint(info.Port)},
		{"WORKERS", fmt.Sprint(info.Workers)},
		{"LOG_LEVEL", info.LogLevel},
		{"STARTUP_POLICY", info.StartupPolicy},
		{"OPENAI_MODEL", info.OpenAIModel},
		{"WHISPER_MODEL", info.WhisperModel},
		{"SENTIMENT_MODEL", info.SentimentModel},
		{"CORS_ORIGINS", strings.Join(info.CORSOrigins, ", ")},
		{"MAX_AUDIO_SIZE", info.MaxAudioSize},
		{"AUDIO_FORMATS", strings.Join(info.SupportedFormats, ", ")},
		{"REDIS", fmt.Sprint(info.HasRedisConfig)},
		{"CACHING", fmt.Sprint(info.EnableCaching)},
		{"SENTRY", fmt.Sprint(info.HasSentryConfig)},
		{"METRICS", fmt.Sprint(info.EnableMetrics)},
	}
	_, _ = fmt.Fprintln(w, "SETTING\tVALUE")
	for _, row := range rows {
		_, _ = fmt.Fprintf(w, "%s\t%s\n", row[0], row[1])
	}
	if err := w.Flush(); err != nil {
		return err
	}

	status := cfg.APIKeyStatus()
	services := make([]string, 0, len(status))
	for name := range status {
		services = append(services, name)
	}
	slices.Sort(services)

	_, _ = fmt.Fprintln(out)
	w = tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	_, _ = fmt.Fprintln(w, "SERVICE\tAPI KEY")
	var help []string
	for _, name := range services {
		s := status[name]
		state := "ok"
		if !s.Valid {
			state = "invalid"
			help = append(help, s.Error)
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\n", name, state)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	for _, h := range help {
		_, _ = fmt.Fprintf(out, "\n%s\n", h)
	}
	return nil
}
