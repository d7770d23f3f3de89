package cli

import (
	"fintrack-server/src/config"
	"fintrack-server/src/db"
	"fintrack-server/src/logging"
	"fmt"

	"github.com/spf13/cobra"
)

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back the database schema",
	}
	cmd.AddCommand(migrateDirectionCmd(db.MigrateUp, "Apply all pending migrations"))
	cmd.AddCommand(migrateDirectionCmd(db.MigrateDown, "Roll back all migrations"))
	return cmd
}

func migrateDirectionCmd(direction db.MigrationDirection, short string) *cobra.Command {
	return &cobra.Command{
		Use:   string(direction),
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			if cfg.StoreBackend != config.BackendPostgres {
				return fmt.Errorf("migrations need the %s backend, got %s", config.BackendPostgres, cfg.StoreBackend)
			}

			pool, err := db.Connect(cmd.Context(), cfg.DatabaseURL)
			if err != nil {
				return fmt.Errorf("DB connection failed: %w", err)
			}
			defer pool.Close()

			if err := db.RunMigrations(pool, direction); err != nil {
				return err
			}
			logger.Info("migrations complete", "direction", direction, logging.FieldComponent, logging.ComponentStorage)
			return nil
		},
	}
}
