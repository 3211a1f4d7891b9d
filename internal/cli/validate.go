package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/vietddude/echoscribe/internal/core/config"
)

var validateJSON bool

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the environment configuration and print a report",
	Run:   runValidate,
}

func init() {
	validateCmd.Flags().BoolVar(&validateJSON, "json", false, "print the result as JSON")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) {
	cfg, err := loadSettings()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	ok, err := writeValidation(os.Stdout, cfg, validateJSON)
	if err != nil {
		slog.Error("Failed to write report", "error", err)
		os.Exit(1)
	}
	if !ok {
		os.Exit(1)
	}
}

// writeValidation validates cfg and writes the report to w. It reports whether
// validation succeeded.
func writeValidation(w io.Writer, cfg *config.Settings, asJSON bool) (bool, error) {
	// The report goes to w; keep validator logs out of it.
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	result := config.NewValidator(log).Validate(cfg)

	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return result.Success, enc.Encode(result)
	}
	_, err := fmt.Fprint(w, result.Report())
	return result.Success, err
}
