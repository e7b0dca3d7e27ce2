package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"ggd-contact/internal/config"
	"ggd-contact/internal/db"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Aplica las migraciones pendientes sobre DATABASE_URL",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger()
		defer logger.Sync()

		cfg, err := config.LoadDatabaseConfig()
		if err != nil {
			return err
		}
		pool, err := db.NewPool(cmd.Context(), cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer pool.Close()

		if err := db.Migrate(cmd.Context(), pool); err != nil {
			logger.Error("migrate failed", zap.Error(err))
			return err
		}
		logger.Info("migrations applied")
		return nil
	},
}
