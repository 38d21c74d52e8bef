package main

import (
	"log/slog"

	"github.com/Veraticus/tally/internal/storage"
	"github.com/spf13/cobra"
)

func migrateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		Long: `Initialize or update the database schema to the latest version.

Every other command migrates on start as well; run this to check the schema
or prepare a database ahead of time. An existing database is backed up
before its schema is upgraded.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			status, _ := cmd.Flags().GetBool("status")
			ctx := cmd.Context()

			store, err := storage.NewSQLiteStorage(a.cfg.Database.Path)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if !status {
				slog.Info("Running database migrations", "database", a.cfg.Database.Path)
				if err := a.migrate(ctx, store); err != nil {
					return err
				}
			}

			current, err := store.SchemaVersion(ctx)
			if err != nil {
				return err
			}
			cmd.Printf("Database: %s\nSchema version: %d (latest %d)\n",
				a.cfg.Database.Path, current, storage.ExpectedSchemaVersion)
			return nil
		},
	}
	cmd.Flags().Bool("status", false, "show the schema version without applying migrations")
	return cmd
}
