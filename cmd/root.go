package cmd

import (
	"fmt"
	"os"

	"github.com/mj1618/agentation/internal/config"
	"github.com/mj1618/agentation/internal/logging"
	"github.com/mj1618/agentation/internal/output"
	"github.com/mj1618/agentation/internal/version"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// logger and cfg are set by the root command before any subcommand runs.
	logger = zap.NewNop()
	cfg    = config.Default()
	// cfgPath is the resolved config file path, empty when none applies.
	cfgPath string
)

var rootCmd = &cobra.Command{
	Use:   "agentation",
	Short: "Capture element-anchored UI feedback for AI agents",
	Long: `Agentation captures a host app's element hierarchy, lets reviewers attach
feedback to individual elements and exports it as a markdown report or JSON
for a coding agent.

Hosts are described by YAML fixtures (see testdata/).`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version.Version, version.Commit, version.BuildDate)
	rootCmd.PersistentFlags().String("format", "yaml", "Output format: yaml, json")
	rootCmd.PersistentFlags().Bool("pretty", false, "Pretty-print JSON output")
	rootCmd.PersistentFlags().String("config", "", "Config file (default: user config dir)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error (overrides config)")
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		// Use the root persistent flag directly to avoid conflicts with
		// subcommand local flags (e.g. annotate --export).
		format, _ := rootCmd.PersistentFlags().GetString("format")
		switch format {
		case "yaml":
			output.OutputFormat = output.FormatYAML
		case "json":
			output.OutputFormat = output.FormatJSON
		default:
			return fmt.Errorf("unsupported format: %s (use yaml or json)", format)
		}
		output.PrettyOutput, _ = rootCmd.PersistentFlags().GetBool("pretty")

		path, _ := rootCmd.PersistentFlags().GetString("config")
		if path == "" {
			path = config.DefaultPath()
		}
		if path != "" {
			c, err := config.Load(path)
			if err != nil {
				return err
			}
			cfg = c
			cfgPath = path
		}

		level := cfg.LogLevel
		if l, _ := rootCmd.PersistentFlags().GetString("log-level"); l != "" {
			level = l
		}
		l, err := logging.New(level)
		if err != nil {
			return err
		}
		logger = l
		return nil
	}
	rootCmd.PersistentPostRun = func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	}
}
