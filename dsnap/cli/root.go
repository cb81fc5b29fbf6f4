package cli

import (
	"log/slog"
	"strings"

	"github.com/ZanzyTHEbar/dirsnap/dsnap/config"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// NewRootCommand creates and returns the root cobra command for dirsnap
func NewRootCommand() *cobra.Command {
	var configPath string
	var logLevel string
	var noColor bool

	cmd := &cobra.Command{
		Use:   "dirsnap",
		Short: "Directory tree snapshot and analysis tool",
		Long: `Dirsnap walks a directory tree and produces a structured snapshot:
per-file metadata (size, timestamps, permissions, content type, sha256),
per-directory duplicate detection, and aggregate statistics.

Snapshots export to JSON, CSV, or a standalone HTML report, and can be
kept in a local catalog for later inspection.`,
		Version: Version,
		// Silence usage on errors to avoid duplicate help text
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				return err
			}
			if logLevel == "" {
				logLevel = cfg.LogLevel
			}
			setupLogging(logLevel)
			if noColor {
				color.NoColor = true
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file path (default: ~/.config/dirsnap/config.yaml)")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug|info|warn|error)")
	cmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colorized output")

	// Add subcommands
	cmd.AddCommand(NewScanCommand())
	cmd.AddCommand(NewSummaryCommand())
	cmd.AddCommand(NewQueryCommand())
	cmd.AddCommand(NewSnapshotsCommand())

	return cmd
}

// setupLogging adjusts the default slog level from its config string.
func setupLogging(level string) {
	switch strings.ToLower(level) {
	case "debug":
		slog.SetLogLoggerLevel(slog.LevelDebug)
	case "warn":
		slog.SetLogLoggerLevel(slog.LevelWarn)
	case "error":
		slog.SetLogLoggerLevel(slog.LevelError)
	default:
		slog.SetLogLoggerLevel(slog.LevelInfo)
	}
}
