package cmd

import (
	"errors"

	"fire-server/src/db"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the Postgres schema migrations and exit",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, _ := loadConfig(false)
		if cfg.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required")
		}
		if err := db.RunMigrations(cfg.DatabaseURL); err != nil {
			return err
		}
		log.Info().Msg("migrations applied")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
