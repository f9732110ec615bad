package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/highlights/pkg/config"
)

var (
	verbose    bool
	configPath string
	envFile    string
	notesDir   string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "highlights",
	Short: "Collect text highlighted on the web into daily markdown notes",
	Long: `highlights runs a small local server that a browser extension posts
selected text to. Each capture is merged into a note named after the day
(YYYY-MM-DD.md) under a "## Highlights" heading; source links are recorded once.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}

		opts := &slog.HandlerOptions{
			Level: level,
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, opts))
		slog.SetDefault(logger)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.config/highlights/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Optional .env file with HIGHLIGHTS_* variables")
	rootCmd.PersistentFlags().StringVarP(&notesDir, "notes-dir", "d", "", "Directory holding the daily notes (overrides config)")
}

// loadConfig reads the layered configuration and applies command line overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configPath, envFile)
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("notes-dir") {
		cfg.NotesDir = notesDir
	}
	return cfg, nil
}
