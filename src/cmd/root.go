package cmd

import (
	"os"

	"fire-server/src/config"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "fire-server",
	Short: "FIRE tracker API",
	Long:  "Track monthly income, expenses and net worth, and project financial independence.",
	RunE:  runServe,
	// errors are logged by Execute
	SilenceUsage: true,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

// loadConfig reads the environment and sets up logging.
func loadConfig(requireSecret bool) (config.Config, error) {
	cfg, err := config.Load()
	config.SetupLogging(cfg.LogFormat, cfg.LogLevel)
	if err != nil && requireSecret {
		return cfg, err
	}
	return cfg, nil
}
