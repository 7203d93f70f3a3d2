package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/iliyamo/event-listing/internal/config"
)

var (
	// Global flags
	envFile   string
	logLevel  string
	logFormat string

	// rootCmd runs serve when no subcommand is given.
	rootCmd = &cobra.Command{
		Use:   "server",
		Short: "Event listing API server",
		Long: `Event listing API server: user registration and login with short-lived
bearer tokens, and owner-scoped event records with uploaded flyer images.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serveCmd.RunE(cmd, args)
		},
	}
)

// Execute runs the command tree.  It is called once by main.main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading the environment (missing file is ignored)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error) (default: LOG_LEVEL or info)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format (json, console) (default: LOG_FORMAT or json)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
}

// loadConfig seeds the environment from the dotenv file, resolves the
// configuration and builds the logger with flag overrides applied.
func loadConfig() (config.Config, zerolog.Logger, error) {
	if envFile != "" {
		// Variables already set in the environment win over the file.
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return config.Config{}, zerolog.Nop(), fmt.Errorf("load %s: %w", envFile, err)
		}
	}
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, zerolog.Nop(), fmt.Errorf("config: %w", err)
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if logFormat != "" {
		cfg.Logging.Format = logFormat
	}
	return cfg, config.NewLogger(cfg.Logging), nil
}
