package main

import (
	"context"
	"fmt"

	"github.com/Veraticus/tally/internal/cli"
	"github.com/Veraticus/tally/internal/engine"
	"github.com/Veraticus/tally/internal/storage"
	"github.com/spf13/cobra"
)

func backupCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup [NAME]",
		Short: "Snapshot the database",
		Long: `Write a consistent copy of the database to database.backup_dir
(default: a backups directory next to the database).`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			reason, _ := cmd.Flags().GetString("reason")

			return a.withEngine(cmd, func(ctx context.Context, store *storage.SQLiteStorage, _ *engine.Engine) error {
				info, err := store.Backup(ctx, a.cfg.Database.BackupDir, name, reason)
				if err != nil {
					return err
				}
				cmd.Println(cli.FormatSuccess(fmt.Sprintf("Backed up to %s (%d transactions, %d expenses)",
					info.Path, info.RowCounts["bank_transactions"], info.RowCounts["expenses"])))
				return nil
			})
		},
	}
	cmd.Flags().String("reason", "manual", "note stored with the backup")

	list := &cobra.Command{
		Use:   "list",
		Short: "List backups, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			backups, err := storage.ListBackups(a.cfg.Database.BackupDir)
			if err != nil {
				return err
			}
			if len(backups) == 0 {
				cmd.Println(cli.FormatInfo("No backups in " + a.cfg.Database.BackupDir))
				return nil
			}
			for _, b := range backups {
				kind := "manual"
				if b.Auto {
					kind = "auto"
				}
				cmd.Printf("%-32s  %s  %-6s  v%d  %8d bytes  %s\n",
					b.ID, b.CreatedAt.Local().Format("2006-01-02 15:04"), kind,
					b.SchemaVersion, b.FileSize, cli.SubtleStyle.Render(b.Reason))
			}
			return nil
		},
	}

	cmd.AddCommand(list)
	return cmd
}
