package main

import (
	"fmt"
	"log/slog"

	"confighub-core/internal/config"
	"confighub-core/internal/database"
	"confighub-core/internal/logger"

	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the PostgreSQL schema",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: withMigrator(func(m *database.Migrator, _ *slog.Logger) error {
				return m.Up()
			}),
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back the most recent migration",
			Args:  cobra.NoArgs,
			RunE: withMigrator(func(m *database.Migrator, _ *slog.Logger) error {
				return m.Down()
			}),
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the current schema version",
			Args:  cobra.NoArgs,
			RunE: withMigrator(func(m *database.Migrator, log *slog.Logger) error {
				version, dirty, err := m.Version()
				if err != nil {
					return err
				}
				log.Info("schema version", slog.Uint64("version", uint64(version)), slog.Bool("dirty", dirty))
				return nil
			}),
		},
	)

	return cmd
}

func withMigrator(fn func(*database.Migrator, *slog.Logger) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if cfg.Database.Driver != config.DriverPostgres {
			return fmt.Errorf("migrations require DB_DRIVER=%s", config.DriverPostgres)
		}

		log := logger.Init(cfg.Log.Level, cfg.Log.Format)

		db, err := database.NewConnection(&cfg.Database)
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		defer db.Close()

		migrator, err := database.NewMigrator(db, log)
		if err != nil {
			return err
		}
		return fn(migrator, log)
	}
}
