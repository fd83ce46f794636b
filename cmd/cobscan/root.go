package main

import (
	"github.com/spf13/cobra"

	"cobscan/internal/config"
	"cobscan/internal/errors"
	"cobscan/internal/logging"
	"cobscan/internal/version"
)

var (
	// logFormatFlag is the CLI --log-format flag value
	logFormatFlag string
	// logLevelFlag is the CLI --log-level flag value
	logLevelFlag string
)

var rootCmd = &cobra.Command{
	Use:   "cobscan",
	Short: "cobscan - structural COBOL source analyzer",
	Long: `cobscan extracts a structural model from a COBOL compilation unit:
division presence, paragraph spans, the perform/call graph, file I/O
operations, and copybook dependencies. The model is emitted as a single
JSON artifact on stdout. An external parse engine is used when one is
configured and reachable; otherwise extraction degrades to textual
heuristics.`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.SetVersionTemplate("cobscan version {{.Version}}\n")
	rootCmd.PersistentFlags().StringVar(&logFormatFlag, "log-format", "",
		"Log format: json or human (default: from config)")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "",
		"Log level: debug, info, warn, or error (default: from config)")
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return errors.New(errors.UsageError, err.Error(), nil)
	})
}

// newLogger builds the process logger from config overlaid with the CLI
// flags. Logs always go to stderr.
func newLogger(cfg *config.Config) *logging.Logger {
	format := cfg.Logging.Format
	if logFormatFlag != "" {
		format = logFormatFlag
	}
	level := cfg.Logging.Level
	if logLevelFlag != "" {
		level = logLevelFlag
	}
	return logging.NewLogger(logging.Config{
		Format: logging.Format(format),
		Level:  logging.ParseLevel(level),
	})
}

// loadConfig loads configuration from the working directory, wrapping
// failures so they map to the failure exit code.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, errors.New(errors.InternalError, "failed to load configuration", err)
	}
	return cfg, nil
}
