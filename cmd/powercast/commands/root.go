package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jugesdebnath7/powercast/pkg/config"
	"github.com/jugesdebnath7/powercast/pkg/logger"
)

var (
	// Global flags
	configFile string
	verbose    bool
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "powercast",
	Short: "Powercast - hourly energy consumption forecasting",
	Long: `Powercast CLI

Schema-driven forecasting pipeline for hourly energy consumption:
ingest raw readings, clean and validate them, derive features, and
serve predictions from a trained gradient-boosted model.

Usage:
  go run ./cmd/powercast [command]

Examples:
  go run ./cmd/powercast serve
  go run ./cmd/powercast pipeline
  go run ./cmd/powercast predict`,
}

// Execute runs the root command. Called once from main.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is config.yaml if present)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// setup loads configuration and builds the logger shared by every command.
func setup() (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	level := cfg.LogLevel
	if verbose {
		level = "debug"
	}
	log := logger.New(level, cfg.LogFormat, cfg.Env)
	return cfg, log, nil
}
