package main

import (
	"fmt"

	"storefront/internal/config"
	"storefront/internal/infra/db"
	"storefront/internal/logger"

	"github.com/spf13/cobra"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the orders, order_items, managers and audit_logs tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			log := logger.New(cfg.IsProduction())

			gormDB, err := db.Connect(cfg)
			if err != nil {
				return err
			}
			sqlDB, err := gormDB.DB()
			if err != nil {
				return fmt.Errorf("db: get sql.DB: %w", err)
			}
			defer sqlDB.Close()

			if err := db.Migrate(gormDB); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			log.Info("migration complete", "db", cfg.DatabaseDriver)
			return nil
		},
	}
}
