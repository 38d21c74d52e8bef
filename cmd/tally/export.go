package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Veraticus/tally/internal/cli"
	"github.com/Veraticus/tally/internal/engine"
	"github.com/Veraticus/tally/internal/service"
	"github.com/Veraticus/tally/internal/sheets"
	"github.com/Veraticus/tally/internal/storage"
	"github.com/spf13/cobra"
)

func exportCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the expense ledger",
	}

	sheetsCmd := &cobra.Command{
		Use:   "sheets",
		Short: "Write the expense ledger to Google Sheets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			window, err := exportWindow(cmd)
			if err != nil {
				return err
			}
			cfg, err := a.cfg.SheetsWriterConfig()
			if err != nil {
				return userError(err)
			}

			return a.withEngine(cmd, func(ctx context.Context, store *storage.SQLiteStorage, _ *engine.Engine) error {
				writer, err := sheets.NewWriter(ctx, cfg, slog.Default().With("component", "sheets"))
				if err != nil {
					return err
				}
				report, err := sheets.Export(ctx, store, writer, window)
				if err != nil {
					return err
				}
				cmd.Println(cli.FormatSuccess(fmt.Sprintf("Exported %d expenses totalling %s",
					len(report.Rows), cli.FormatAmount(report.Total))))
				return nil
			})
		},
	}
	sheetsCmd.Flags().Int("year", 0, "export a calendar year (default current year)")
	sheetsCmd.Flags().String("start", "", "first day to export (YYYY-MM-DD)")
	sheetsCmd.Flags().String("end", "", "last day to export (YYYY-MM-DD)")

	cmd.AddCommand(sheetsCmd)
	return cmd
}

// exportWindow reads --start/--end, or --year, defaulting to the current year.
func exportWindow(cmd *cobra.Command) (service.DateRange, error) {
	year, _ := cmd.Flags().GetInt("year")
	if year == 0 {
		year = time.Now().Year()
	}
	window := service.DateRange{
		Start: time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC),
	}

	for flag, target := range map[string]*time.Time{"start": &window.Start, "end": &window.End} {
		s, _ := cmd.Flags().GetString(flag)
		if s == "" {
			continue
		}
		t, err := time.Parse(dateFlagLayout, s)
		if err != nil {
			return window, fmt.Errorf("invalid --%s: %w", flag, err)
		}
		*target = t
	}

	if window.Start.After(window.End) {
		return window, fmt.Errorf("export window starts after it ends")
	}
	return window, nil
}
