package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sahil-chaple/happy-street-godhani/internal/config"
)

var (
	// Global flags
	envFile  string
	logLevel string

	rootCmd = &cobra.Command{
		Use:   "happystreet",
		Short: "Happy Street Godhani registration backend",
		Long: `happystreet serves the Happy Street Godhani event pages, stores vendor,
sponsor, performer and volunteer applications, and gives administrators a
token-protected API to review, update, delete and export them.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			path := envFile
			if path == "" {
				path = os.Getenv("ENV_FILE")
			}
			return config.LoadEnvFile(path)
		},
		// Serve by default when no subcommand is given
		RunE: func(cmd *cobra.Command, args []string) error {
			return serveCmd.RunE(cmd, args)
		},
	}
)

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "dotenv file to load before reading the environment (default: .env)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error) (default: info)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads the environment and applies the global flag overrides.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, fmt.Errorf("config error: %w", err)
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	return cfg, nil
}
